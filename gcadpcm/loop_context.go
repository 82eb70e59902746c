// SPDX-License-Identifier: EPL-2.0

package gcadpcm

// History is the decoder state: the two most recently decoded samples.
type History struct {
	Hist1 int16
	Hist2 int16
}

// LoopContext is the decoder state immediately before the loop start sample.
// It is only meaningful for the LoopStart it was computed for.
type LoopContext struct {
	PredScale byte
	Hist1     int16
	Hist2     int16
	LoopStart int
}

// NewLoopContext derives the loop context at loopStart from the encoded
// audio and its decoded pcm. pcm must hold at least loopStart samples.
// start is the state before sample 0.
func NewLoopContext(adpcm []byte, pcm []int16, loopStart int, start History) LoopContext {
	return LoopContext{
		PredScale: byteAt(adpcm, loopStart/SamplesPerFrame*BytesPerFrame),
		Hist1:     historyAt(pcm, loopStart-1, start.Hist1, start.Hist2),
		Hist2:     historyAt(pcm, loopStart-2, start.Hist1, start.Hist2),
		LoopStart: loopStart,
	}
}

// historyAt returns pcm[i], reaching back into the start history for i < 0.
func historyAt(pcm []int16, i int, hist1, hist2 int16) int16 {
	switch {
	case i >= 0:
		return pcm[i]
	case i == -1:
		return hist1
	default:
		return hist2
	}
}
