// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import "github.com/ik5/dspadpcm/utils"

// DecodeConfig controls a channel decode.
type DecodeConfig struct {
	// SampleCount is the number of samples to produce; negative means as
	// many as adpcm can hold.
	SampleCount int
	// History1 and History2 are the decoder state before the first sample.
	History1 int16
	History2 int16
}

// Decode reconstructs PCM from DSP ADPCM.
//
// Decode never fails: bytes missing from adpcm read as zero and predictor
// indices above 7 wrap, so malformed input yields valid but meaningless
// samples. To start mid-stream pass adpcm[frame*BytesPerFrame:] together with
// the history at that frame boundary (for example from a SeekTable).
// Concurrent calls are safe.
func Decode(adpcm []byte, coefs Coefficients, cfg DecodeConfig) []int16 {
	sampleCount := cfg.SampleCount
	if sampleCount < 0 {
		sampleCount = ByteCountToSampleCount(len(adpcm))
	}

	pcm := make([]int16, sampleCount)

	hist1 := int(cfg.History1)
	hist2 := int(cfg.History2)

	out := 0
	for frame := 0; out < sampleCount; frame++ {
		base := frame * BytesPerFrame
		header := byteAt(adpcm, base)
		scale := (1 << lowNibble(header)) * 2048
		c1, c2 := coefs.Pair(highNibble(header))
		coef1, coef2 := int(c1), int(c2)

		samples := min(SamplesPerFrame, sampleCount-out)
		for s := range samples {
			b := byteAt(adpcm, base+1+s/2)

			var nibble int
			if s%2 == 0 {
				nibble = highNibbleSigned(b)
			} else {
				nibble = lowNibbleSigned(b)
			}

			predicted := coef1*hist1 + coef2*hist2
			sample := utils.Clamp16((predicted + scale*nibble + 1024) >> 11)

			hist2 = hist1
			hist1 = int(sample)
			pcm[out] = sample
			out++
		}
	}

	return pcm
}

func byteAt(b []byte, i int) byte {
	if i < len(b) {
		return b[i]
	}
	return 0
}
