// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"math"
)

// PredictorCount is the number of coefficient pairs a channel carries.
const PredictorCount = 8

// Coefficients holds eight Q11 predictor pairs laid out as
// c1[0], c2[0], c1[1], c2[1], ... . Index i of a frame header selects the
// pair at 2*i.
type Coefficients [2 * PredictorCount]int16

// Pair returns the coefficient pair used by predictor index i (masked to 0-7).
func (c Coefficients) Pair(i int) (c1, c2 int16) {
	i &= PredictorCount - 1
	return c[2*i], c[2*i+1]
}

// Ints returns the coefficients as a plain slice, the shape container
// writers usually serialize.
func (c Coefficients) Ints() []int16 {
	out := make([]int16, len(c))
	copy(out, c[:])
	return out
}

// CoefficientsFromSlice copies up to 16 values into a Coefficients table.
// Missing values are left at zero.
func CoefficientsFromSlice(values []int16) Coefficients {
	var c Coefficients
	copy(c[:], values)
	return c
}

const (
	// frames whose zero-lag energy is at or below this are skipped
	energyThreshold = 10.0
	// clamp applied to reflection coefficients before they become records
	maxReflection = 0.9999999999
	// predictor count doubles this many times: 1, 2, 4, 8
	splitRounds = 3
	// nearest-candidate reassignment passes per split round
	refineIterations = 2
	// offset applied to coefficient 1 of each new sibling
	splitOffset = 0.01
)

// vec3 is a second order filter (1, a1, a2) or an autocorrelation triple.
type vec3 [3]float64

// AnalyzeCoefficients derives the eight predictor pairs for one channel.
//
// Every 14 sample frame is viewed through a 28 sample window (the previous
// frame as history, zero padded at the edges). Frames with enough energy and
// a stable second order predictor contribute one record; the records are then
// clustered into eight representative filters by repeated split and refine
// passes. Input with no usable frames yields all-zero coefficients.
func AnalyzeCoefficients(pcm []int16) Coefficients {
	var window [2 * SamplesPerFrame]int16

	records := make([]vec3, 0, FrameCount(len(pcm)))

	for sample := 0; sample < len(pcm); sample += SamplesPerFrame {
		clear(window[SamplesPerFrame:])
		copy(window[SamplesPerFrame:], pcm[sample:min(sample+SamplesPerFrame, len(pcm))])

		vec := innerProductMerge(&window)
		if math.Abs(vec[0]) > energyThreshold {
			mtx := outerProductMerge(&window)

			var pivots [3]int
			if !analyzeRanges(&mtx, &pivots) {
				bidirectionalFilter(&mtx, &pivots, &vec)
				if !quadraticMerge(&vec) {
					records = append(records, finishRecord(vec))
				}
			}
		}

		copy(window[:SamplesPerFrame], window[SamplesPerFrame:])
	}

	var best [PredictorCount]vec3
	best[0] = baseFilter(records)

	for round := 1; round <= splitRounds; round++ {
		current := 1 << (round - 1)
		for i := range current {
			best[current+i] = best[i]
			best[current+i][1] -= splitOffset
		}
		filterRecords(&best, 1<<round, records)
	}

	var out Coefficients
	for i, filter := range best {
		out[2*i] = toQ11(-filter[1])
		out[2*i+1] = toQ11(-filter[2])
	}
	return out
}

// baseFilter averages every record into the seed filter (1, 0, 0).
func baseFilter(records []vec3) vec3 {
	sum := vec3{1, 0, 0}
	for _, record := range records {
		filtered := matrixFilter(record)
		sum[1] += filtered[1]
		sum[2] += filtered[2]
	}

	if len(records) > 0 {
		sum[1] /= float64(len(records))
		sum[2] /= float64(len(records))
	}

	return mergeFinishRecord(sum)
}

// toQ11 rounds half away from zero and saturates to int16.
func toQ11(v float64) int16 {
	d := v * 2048.0
	switch {
	case math.IsNaN(d):
		return 0
	case d > math.MaxInt16:
		return math.MaxInt16
	case d < math.MinInt16:
		return math.MinInt16
	}
	return int16(math.Round(d))
}

// innerProductMerge computes the negated correlation of the current frame
// with itself at lags 0-2.
func innerProductMerge(w *[2 * SamplesPerFrame]int16) vec3 {
	var out vec3
	for i := 0; i <= 2; i++ {
		for x := range SamplesPerFrame {
			out[i] -= float64(w[SamplesPerFrame+x-i]) * float64(w[SamplesPerFrame+x])
		}
	}
	return out
}

// outerProductMerge fills the 2x2 covariance block mtx[1..2][1..2].
func outerProductMerge(w *[2 * SamplesPerFrame]int16) [3]vec3 {
	var mtx [3]vec3
	for x := 1; x <= 2; x++ {
		for y := 1; y <= 2; y++ {
			for z := range SamplesPerFrame {
				mtx[x][y] += float64(w[SamplesPerFrame+z-x]) * float64(w[SamplesPerFrame+z-y])
			}
		}
	}
	return mtx
}

// analyzeRanges LU-decomposes mtx in place with implicit partial pivoting.
// It reports true when the matrix is singular or badly conditioned.
func analyzeRanges(mtx *[3]vec3, pivots *[3]int) bool {
	var recips [3]float64

	for x := 1; x <= 2; x++ {
		val := max(math.Abs(mtx[x][1]), math.Abs(mtx[x][2]))
		if val < minNormal {
			return true
		}
		recips[x] = 1.0 / val
	}

	maxIndex := 0
	for i := 1; i <= 2; i++ {
		for x := 1; x < i; x++ {
			tmp := mtx[x][i]
			for y := 1; y < x; y++ {
				tmp -= mtx[x][y] * mtx[y][i]
			}
			mtx[x][i] = tmp
		}

		val := 0.0
		for x := i; x <= 2; x++ {
			tmp := mtx[x][i]
			for y := 1; y < i; y++ {
				tmp -= mtx[x][y] * mtx[y][i]
			}
			mtx[x][i] = tmp

			tmp = math.Abs(tmp) * recips[x]
			if tmp >= val {
				val = tmp
				maxIndex = x
			}
		}

		if maxIndex != i {
			for y := 1; y <= 2; y++ {
				mtx[maxIndex][y], mtx[i][y] = mtx[i][y], mtx[maxIndex][y]
			}
			recips[maxIndex] = recips[i]
		}

		pivots[i] = maxIndex

		if mtx[i][i] == 0.0 {
			return true
		}

		if i != 2 {
			tmp := 1.0 / mtx[i][i]
			for x := i + 1; x <= 2; x++ {
				mtx[x][i] *= tmp
			}
		}
	}

	lo, hi := 1.0e10, 0.0
	for i := 1; i <= 2; i++ {
		tmp := math.Abs(mtx[i][i])
		lo = min(lo, tmp)
		hi = max(hi, tmp)
	}

	return lo/hi < 1.0e-10
}

// minNormal is the smallest positive normal float64. Rows below it are
// treated as zero.
const minNormal = 0x1p-1022

// bidirectionalFilter solves the decomposed system for the frame's
// predictor, forward then backward substitution, leaving (1, a1, a2) in vec.
func bidirectionalFilter(mtx *[3]vec3, pivots *[3]int, vec *vec3) {
	for i, x := 1, 0; i <= 2; i++ {
		index := pivots[i]
		tmp := vec[index]
		vec[index] = vec[i]
		if x != 0 {
			for y := x; y <= i-1; y++ {
				tmp -= vec[y] * mtx[i][y]
			}
		} else if tmp != 0.0 {
			x = i
		}
		vec[i] = tmp
	}

	for i := 2; i > 0; i-- {
		tmp := vec[i]
		for y := i + 1; y <= 2; y++ {
			tmp -= vec[y] * mtx[i][y]
		}
		vec[i] = tmp / mtx[i][i]
	}

	vec[0] = 1.0
}

// quadraticMerge converts the predictor to reflection form in place.
// It reports true when the filter is unstable (|k1| > 1) or degenerate.
func quadraticMerge(vec *vec3) bool {
	v2 := vec[2]
	tmp := 1.0 - v2*v2
	if tmp == 0.0 {
		return true
	}

	v0 := (vec[0] - v2*v2) / tmp
	v1 := (vec[1] - vec[1]*v2) / tmp

	vec[0] = v0
	vec[1] = v1

	return math.Abs(v1) > 1.0
}

// finishRecord turns reflection coefficients back into a filter.
func finishRecord(in vec3) vec3 {
	for z := 1; z <= 2; z++ {
		if in[z] >= 1.0 {
			in[z] = maxReflection
		} else if in[z] <= -1.0 {
			in[z] = -maxReflection
		}
	}
	return vec3{1.0, in[2]*in[1] + in[1], in[2]}
}

// matrixFilter maps a filter to its normalized autocorrelation.
func matrixFilter(src vec3) vec3 {
	var mtx [3]vec3

	mtx[2][0] = 1.0
	for i := 1; i <= 2; i++ {
		mtx[2][i] = -src[i]
	}

	for i := 2; i > 0; i-- {
		val := 1.0 - mtx[i][i]*mtx[i][i]
		for y := 1; y <= i; y++ {
			mtx[i-1][y] = (mtx[i][i]*mtx[i][y] + mtx[i][y]) / val
		}
	}

	dst := vec3{1.0}
	for i := 1; i <= 2; i++ {
		for y := 1; y <= i; y++ {
			dst[i] += mtx[i][y] * dst[i-y]
		}
	}
	return dst
}

// mergeFinishRecord runs Levinson-Durbin on an averaged autocorrelation and
// returns the stabilized filter. A non-positive energy term yields (1, 0, 0).
func mergeFinishRecord(src vec3) vec3 {
	var dst, reflection vec3

	val := src[0]
	dst[0] = 1.0

	for i := 1; i <= 2; i++ {
		v2 := 0.0
		for y := 1; y < i; y++ {
			v2 += dst[y] * src[i-y]
		}

		if val > 0.0 {
			dst[i] = -(v2 + src[i]) / val
		} else {
			dst[i] = 0.0
		}

		reflection[i] = dst[i]

		for y := 1; y < i; y++ {
			dst[y] += dst[i] * dst[i-y]
		}

		val *= 1.0 - dst[i]*dst[i]
	}

	return finishRecord(reflection)
}

// contrastVectors is the quadratic-form distance between a candidate filter
// and a record, used to assign records to their nearest candidate.
func contrastVectors(candidate, record vec3) float64 {
	val := (record[2]*record[1] - record[1]) / (1.0 - record[2]*record[2])
	val1 := candidate[0]*candidate[0] + candidate[1]*candidate[1] + candidate[2]*candidate[2]
	val2 := candidate[0]*candidate[1] + candidate[1]*candidate[2]
	val3 := candidate[0] * candidate[2]
	return val1 + 2.0*val*val2 + 2.0*(-record[1]*val-record[2])*val3
}

// filterRecords reassigns every record to its nearest of the first count
// candidates and replaces each candidate with the merged average of its
// members.
func filterRecords(best *[PredictorCount]vec3, count int, records []vec3) {
	var (
		sums    [PredictorCount]vec3
		members [PredictorCount]int
	)

	for range refineIterations {
		for i := range count {
			sums[i] = vec3{}
			members[i] = 0
		}

		for _, record := range records {
			index := 0
			value := 1.0e30
			for i := range count {
				if d := contrastVectors(best[i], record); d < value {
					value = d
					index = i
				}
			}

			members[index]++
			filtered := matrixFilter(record)
			for y := range filtered {
				sums[index][y] += filtered[y]
			}
		}

		for i := range count {
			if members[i] > 0 {
				for y := range sums[i] {
					sums[i][y] /= float64(members[i])
				}
			}
		}

		for i := range count {
			best[i] = mergeFinishRecord(sums[i])
		}
	}
}
