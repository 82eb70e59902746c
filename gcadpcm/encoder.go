// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import "github.com/ik5/dspadpcm/utils"

// EncodeConfig controls a channel encode.
type EncodeConfig struct {
	// SampleCount is the number of samples to encode; negative means len(pcm).
	SampleCount int
	// History1 and History2 are the two decoded samples preceding pcm[0].
	History1 int16
	History2 int16
	// Progress, when set, is advanced once per encoded frame.
	Progress *Progress
}

// maxScaleSearch bounds the scale refinement loop for pathological
// coefficient tables that never converge.
const maxScaleSearch = 32

// roundingBias is the single precision constant used when quantizing.
const roundingBias = float32(0.4999999)

// frameEncoder holds the per-predictor scratch space for one frame search.
// It is reused across every frame of a channel.
type frameEncoder struct {
	// [0] = hist2, [1] = hist1, [2:] = decoded frame samples
	decoded   [PredictorCount][SamplesPerFrame + 2]int
	residuals [PredictorCount][SamplesPerFrame]int
	scale     [PredictorCount]int
	distance  [PredictorCount]float64
}

// Encode quantizes pcm into 4-bit DSP ADPCM using coefs.
// The result is exactly SampleCountToByteCount(sampleCount) bytes long.
// Frames are encoded strictly in order because each frame's prediction
// history is the previous frame's decoded output.
func Encode(pcm []int16, coefs Coefficients, cfg EncodeConfig) []byte {
	sampleCount := cfg.SampleCount
	if sampleCount < 0 {
		sampleCount = len(pcm)
	}

	adpcm := make([]byte, SampleCountToByteCount(sampleCount))

	var (
		enc    frameEncoder
		window [SamplesPerFrame + 2]int16
		frame  [BytesPerFrame]byte
	)

	window[0] = cfg.History2
	window[1] = cfg.History1

	frameCount := FrameCount(sampleCount)
	for f := range frameCount {
		start := f * SamplesPerFrame
		samples := min(SamplesPerFrame, sampleCount-start)

		clear(window[2:])
		if start < len(pcm) {
			copy(window[2:2+samples], pcm[start:min(start+samples, len(pcm))])
		}

		enc.encodeFrame(&window, samples, &coefs, &frame)

		copy(adpcm[f*BytesPerFrame:], frame[:SampleCountToByteCount(samples)])

		window[0] = window[SamplesPerFrame]
		window[1] = window[SamplesPerFrame+1]

		cfg.Progress.Add(1)
	}

	return adpcm
}

// encodeFrame picks the predictor and scale with the smallest squared
// reconstruction error for one 14 sample window. window[0:2] holds the
// history on entry; on return window[2:] holds the decoded samples of the
// winning predictor so the caller can carry them forward.
// Residuals past samples are written as zero.
func (e *frameEncoder) encodeFrame(window *[SamplesPerFrame + 2]int16, samples int, coefs *Coefficients, out *[BytesPerFrame]byte) {
	for i := range PredictorCount {
		e.searchPredictor(i, window, coefs)
	}

	best := 0
	for i := 1; i < PredictorCount; i++ {
		if e.distance[i] < e.distance[best] {
			best = i
		}
	}

	for s := range SamplesPerFrame {
		window[s+2] = int16(e.decoded[best][s+2])
	}

	for s := samples; s < SamplesPerFrame; s++ {
		e.residuals[best][s] = 0
	}

	out[0] = byte(best<<4) | byte(e.scale[best]&0xf)
	for y := range 7 {
		out[y+1] = combineNibbles(e.residuals[best][2*y], e.residuals[best][2*y+1])
	}
}

// searchPredictor runs the scale search for predictor i.
func (e *frameEncoder) searchPredictor(i int, window *[SamplesPerFrame + 2]int16, coefs *Coefficients) {
	c1 := int(coefs[2*i])
	c2 := int(coefs[2*i+1])
	decoded := &e.decoded[i]
	residuals := &e.residuals[i]

	decoded[0] = int(window[0])
	decoded[1] = int(window[1])

	// Estimate the worst residual against the unquantized input.
	distance := 0
	for s := range SamplesPerFrame {
		predicted := (int(window[s])*c2 + int(window[s+1])*c1) / 2048
		decoded[s+2] = predicted
		residual := int(utils.Clamp16(int(window[s+2]) - predicted))
		if abs(residual) > abs(distance) {
			distance = residual
		}
	}

	scale := 0
	for scale <= 12 && (distance > 7 || distance < -8) {
		scale++
		distance /= 2
	}
	if scale <= 1 {
		scale = -1
	} else {
		scale -= 2
	}

	var (
		accum float64
		used  int
	)
	for attempt := 0; ; attempt++ {
		scale++
		used = scale
		accum = 0
		overflow := 0

		for s := range SamplesPerFrame {
			prediction := decoded[s]*c2 + decoded[s+1]*c1
			// Q11 residual; rounded once, after scaling.
			residual := (int(window[s+2]) << 11) - prediction

			step := float64(int(1) << scale)
			var q int
			if residual > 0 {
				q = int(float64(residual)/step/2048 + float64(roundingBias))
			} else {
				q = int(float64(residual)/step/2048 - float64(roundingBias))
			}

			if q < -8 {
				overflow = max(overflow, -8-q)
				q = -8
			} else if q > 7 {
				overflow = max(overflow, q-7)
				q = 7
			}

			residuals[s] = q

			sample := int(utils.Clamp16((prediction + ((q << scale) << 11) + 1024) >> 11))
			decoded[s+2] = sample

			diff := float64(int(window[s+2]) - sample)
			accum += diff * diff
		}

		for x := overflow + 8; x > 256; x >>= 1 {
			scale++
			if scale >= 12 {
				scale = 11
			}
		}

		if scale >= 12 || overflow <= 1 || attempt >= maxScaleSearch {
			break
		}
	}

	// The residuals were quantized with used; scale may have been bumped
	// after that when the search gave up.
	e.scale[i] = used
	e.distance[i] = accum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
