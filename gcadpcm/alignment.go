// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"fmt"

	"github.com/ik5/dspadpcm/utils"
)

// Alignment is the result of moving a loop start up to the next multiple of
// Multiple. When Needed is false the loop was already aligned and the
// encoded audio is used unchanged. An Alignment is read-only; channels built
// from the same previous build share it.
type Alignment struct {
	multiple  int
	loopStart int
	loopEnd   int

	loopStartAligned   int
	loopEndAligned     int
	sampleCountAligned int
	needed             bool

	adpcm []byte
	pcm   []int16
}

func (a *Alignment) Multiple() int  { return a.multiple }
func (a *Alignment) LoopStart() int { return a.loopStart }
func (a *Alignment) LoopEnd() int   { return a.loopEnd }

func (a *Alignment) LoopStartAligned() int   { return a.loopStartAligned }
func (a *Alignment) LoopEndAligned() int     { return a.loopEndAligned }
func (a *Alignment) SampleCountAligned() int { return a.sampleCountAligned }

// Needed reports whether the loop start had to move.
func (a *Alignment) Needed() bool { return a.needed }

// NewAlignment realigns a looping channel so that its loop starts on a
// multiple of multiple. Every whole frame before loopEnd keeps its original
// bytes; the tail from that frame on is rebuilt by replaying the loop until
// the shifted loop end, then re-encoded from the kept frames' history.
func NewAlignment(multiple, loopStart, loopEnd int, adpcm []byte, coefs Coefficients, start History) (*Alignment, error) {
	startAligned := utils.NextMultiple(loopStart, multiple)
	a := &Alignment{
		multiple:           multiple,
		loopStart:          loopStart,
		loopEnd:            loopEnd,
		loopStartAligned:   startAligned,
		loopEndAligned:     loopEnd + startAligned - loopStart,
		sampleCountAligned: loopEnd + startAligned - loopStart,
		needed:             !utils.IsMultiple(loopStart, multiple),
	}

	if !a.needed {
		return a, nil
	}

	loopLength := loopEnd - loopStart
	if loopLength <= 0 {
		return nil, fmt.Errorf("%w: loop %d-%d", ErrEmptyLoop, loopStart, loopEnd)
	}

	framesToKeep := loopEnd / SamplesPerFrame
	samplesToKeep := framesToKeep * SamplesPerFrame
	samplesToEncode := a.sampleCountAligned - samplesToKeep
	bytesToKeep := SampleCountToByteCount(samplesToKeep)

	oldPCM := Decode(adpcm, coefs, DecodeConfig{
		SampleCount: loopEnd,
		History1:    start.Hist1,
		History2:    start.Hist2,
	})

	tail := make([]int16, samplesToEncode)
	filled := copy(tail, oldPCM[samplesToKeep:loopEnd])
	for filled < samplesToEncode {
		filled += copy(tail[filled:], oldPCM[loopStart:loopEnd])
	}

	cfg := EncodeConfig{
		SampleCount: samplesToEncode,
		History1:    start.Hist1,
		History2:    start.Hist2,
	}
	if samplesToKeep >= 2 {
		cfg.History1 = oldPCM[samplesToKeep-1]
		cfg.History2 = oldPCM[samplesToKeep-2]
	}

	encoded := Encode(tail, coefs, cfg)

	a.adpcm = make([]byte, SampleCountToByteCount(a.sampleCountAligned))
	copy(a.adpcm, adpcm[:min(bytesToKeep, len(adpcm))])
	copy(a.adpcm[bytesToKeep:], encoded)

	a.pcm = Decode(a.adpcm, coefs, DecodeConfig{
		SampleCount: a.sampleCountAligned,
		History1:    start.Hist1,
		History2:    start.Hist2,
	})

	return a, nil
}

// matches reports whether a was computed for the given loop parameters.
func (a *Alignment) matches(multiple, loopStart, loopEnd int) bool {
	return a != nil && a.multiple == multiple && a.loopStart == loopStart && a.loopEnd == loopEnd
}

// AudioData returns a copy of the realigned ADPCM, or nil when no
// alignment was needed.
func (a *Alignment) AudioData() []byte {
	if a == nil || a.adpcm == nil {
		return nil
	}
	out := make([]byte, len(a.adpcm))
	copy(out, a.adpcm)
	return out
}

// PCM returns a copy of the decoded realigned audio, or nil when no
// alignment was needed.
func (a *Alignment) PCM() []int16 {
	if a == nil || a.pcm == nil {
		return nil
	}
	out := make([]int16, len(a.pcm))
	copy(out, a.pcm)
	return out
}
