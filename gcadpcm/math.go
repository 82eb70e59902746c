// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import "github.com/ik5/dspadpcm/utils"

const (
	// SamplesPerFrame is the number of PCM samples held by one ADPCM frame.
	SamplesPerFrame = 14
	// BytesPerFrame is the encoded size of a full frame: one header byte
	// followed by seven bytes of packed residuals.
	BytesPerFrame = 8
	// NibblesPerFrame counts the header byte as two nibbles.
	NibblesPerFrame = 16
)

// FrameCount returns the number of frames needed to hold sampleCount samples.
func FrameCount(sampleCount int) int {
	return utils.DivRoundUp(sampleCount, SamplesPerFrame)
}

// SampleCountToNibbleCount returns the nibble length of sampleCount samples.
// A trailing partial frame costs its header pair plus one nibble per sample.
func SampleCountToNibbleCount(sampleCount int) int {
	frames := sampleCount / SamplesPerFrame
	extraSamples := sampleCount % SamplesPerFrame
	extraNibbles := 0
	if extraSamples != 0 {
		extraNibbles = extraSamples + 2
	}
	return NibblesPerFrame*frames + extraNibbles
}

// NibbleCountToSampleCount is the inverse of SampleCountToNibbleCount.
func NibbleCountToSampleCount(nibbleCount int) int {
	frames := nibbleCount / NibblesPerFrame
	extraNibbles := nibbleCount % NibblesPerFrame
	extraSamples := 0
	if extraNibbles > 2 {
		extraSamples = extraNibbles - 2
	}
	return SamplesPerFrame*frames + extraSamples
}

// NibbleToSample maps a nibble address to the sample index it encodes.
func NibbleToSample(nibble int) int {
	frames := nibble / NibblesPerFrame
	extraNibbles := nibble % NibblesPerFrame
	return SamplesPerFrame*frames + extraNibbles - 2
}

// SampleToNibble maps a sample index to its nibble address.
func SampleToNibble(sample int) int {
	frames := sample / SamplesPerFrame
	extraSamples := sample % SamplesPerFrame
	return NibblesPerFrame*frames + extraSamples + 2
}

// SampleCountToByteCount returns the encoded size of sampleCount samples.
func SampleCountToByteCount(sampleCount int) int {
	return utils.DivRoundUp(SampleCountToNibbleCount(sampleCount), 2)
}

// ByteCountToSampleCount returns how many samples byteCount bytes can hold.
func ByteCountToSampleCount(byteCount int) int {
	return NibbleCountToSampleCount(byteCount * 2)
}

func highNibble(b byte) int { return int(b>>4) & 0xf }
func lowNibble(b byte) int  { return int(b) & 0xf }

var signedNibbles = [16]int{0, 1, 2, 3, 4, 5, 6, 7, -8, -7, -6, -5, -4, -3, -2, -1}

func highNibbleSigned(b byte) int { return signedNibbles[b>>4] }
func lowNibbleSigned(b byte) int  { return signedNibbles[b&0xf] }

// combineNibbles packs two signed residuals, high first.
func combineNibbles(high, low int) byte {
	return byte((high&0xf)<<4 | low&0xf)
}
