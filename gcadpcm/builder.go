// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"fmt"

	"github.com/ik5/dspadpcm/utils"
)

// artifacts are the expensive derived values a Channel can hand to the next
// build of the same audio.
type artifacts struct {
	alignment   *Alignment
	loopContext Derived[LoopContext]
	seekTable   Derived[SeekTable]
}

// Builder collects the inputs of a Channel. A Builder is a draft: it is
// not safe for concurrent use, and every Build produces a new immutable
// Channel.
type Builder struct {
	adpcm       []byte
	pcm         []int16
	fromPCM     bool
	coefs       Coefficients
	sampleCount int

	gain  int16
	start History

	looping   bool
	loopStart int
	loopEnd   int

	alignmentMultiple int
	seekInterval      int

	loopContext        Derived[LoopContext]
	seekTable          Derived[SeekTable]
	requireLoopContext bool
	requireSeekTable   bool

	previous artifacts
	progress *Progress

	// decode is swapped out by tests to observe derivations.
	decode func([]byte, Coefficients, DecodeConfig) []int16
}

// NewBuilder starts a channel from already encoded audio.
func NewBuilder(adpcm []byte, coefs Coefficients, sampleCount int) *Builder {
	return &Builder{
		adpcm:       adpcm,
		coefs:       coefs,
		sampleCount: sampleCount,
		decode:      Decode,
	}
}

// NewBuilderFromPCM starts a channel from raw samples. Coefficients are
// analyzed and the audio encoded when Build runs.
func NewBuilderFromPCM(pcm []int16, sampleCount int) *Builder {
	return &Builder{
		pcm:         pcm,
		fromPCM:     true,
		sampleCount: sampleCount,
		decode:      Decode,
	}
}

// WithLoop sets the loop region [start, end).
func (b *Builder) WithLoop(loop bool, start, end int) *Builder {
	b.looping = loop
	b.loopStart = start
	b.loopEnd = end
	return b
}

// WithAlignment requires the loop start to be a multiple of multiple.
// Zero disables the constraint.
func (b *Builder) WithAlignment(multiple int) *Builder {
	b.alignmentMultiple = multiple
	return b
}

// WithSeekInterval enables a seek table with one entry every n samples.
// Zero disables it.
func (b *Builder) WithSeekInterval(n int) *Builder {
	b.seekInterval = n
	return b
}

// WithStartHistory sets the decoder state before sample 0.
func (b *Builder) WithStartHistory(h History) *Builder {
	b.start = h
	return b
}

// WithGain sets the channel gain. Freshly encoded audio uses 0.
func (b *Builder) WithGain(gain int16) *Builder {
	b.gain = gain
	return b
}

// WithLoopContext supplies a loop context, for example one read from an
// existing file. It is used when its LoopStart matches the final loop start.
func (b *Builder) WithLoopContext(ctx LoopContext, origin Origin) *Builder {
	b.loopContext = Derived[LoopContext]{Origin: origin, Value: ctx}
	return b
}

// WithSeekTable supplies a seek table. It is used when its interval matches.
func (b *Builder) WithSeekTable(table SeekTable, origin Origin) *Builder {
	b.seekTable = Derived[SeekTable]{Origin: origin, Value: table.clone()}
	return b
}

// RequireSelfComputed rejects provided values for the chosen artifacts so
// that they are always derived from the audio.
func (b *Builder) RequireSelfComputed(loopContext, seekTable bool) *Builder {
	b.requireLoopContext = loopContext
	b.requireSeekTable = seekTable
	return b
}

// WithPrevious offers the derived artifacts of an earlier build of the same
// audio for reuse. Only the artifacts are copied; no reference to prev is
// kept.
func (b *Builder) WithPrevious(prev *Channel) *Builder {
	if prev == nil {
		b.previous = artifacts{}
		return b
	}
	b.previous = prev.artifacts()
	return b
}

// WithProgress reports encoded frames to p.
func (b *Builder) WithProgress(p *Progress) *Builder {
	b.progress = p
	return b
}

func (b *Builder) validate() error {
	if b.sampleCount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, b.sampleCount)
	}

	if b.fromPCM {
		if len(b.pcm) < b.sampleCount {
			return fmt.Errorf("%w: %d samples for sample count %d", ErrAudioTooShort, len(b.pcm), b.sampleCount)
		}
	} else if need := SampleCountToByteCount(b.sampleCount); len(b.adpcm) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrAudioTooShort, len(b.adpcm), need)
	}

	if b.alignmentMultiple < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, b.alignmentMultiple)
	}

	if b.seekInterval != 0 && b.seekInterval < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidSeekInterval, b.seekInterval)
	}

	if !b.looping {
		return nil
	}

	if b.loopStart < 0 || b.loopEnd > b.sampleCount || b.loopEnd < b.loopStart {
		return fmt.Errorf("%w: %d-%d of %d samples", ErrLoopOutOfRange, b.loopStart, b.loopEnd, b.sampleCount)
	}

	if b.loopStart == b.loopEnd && !utils.IsMultiple(b.loopStart, b.alignmentMultiple) {
		return fmt.Errorf("%w: loop %d-%d", ErrEmptyLoop, b.loopStart, b.loopEnd)
	}

	return nil
}

// Build validates the draft and produces the immutable Channel.
//
// Nothing is computed when validation fails. Alignment, loop context and
// seek table are taken from the previous build whenever their keys still
// match, then from values supplied to the builder, and only otherwise
// derived by decoding the audio (at most once per Build).
func (b *Builder) Build() (*Channel, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	decode := b.decode
	if decode == nil {
		decode = Decode
	}

	ch := &Channel{
		coefs:       b.coefs,
		gain:        b.gain,
		start:       b.start,
		sampleCount: b.sampleCount,
		looping:     b.looping,
		loopStart:   b.loopStart,
		loopEnd:     b.loopEnd,
	}

	if b.fromPCM {
		ch.coefs = AnalyzeCoefficients(b.pcm[:b.sampleCount])
		ch.adpcm = Encode(b.pcm, ch.coefs, EncodeConfig{
			SampleCount: b.sampleCount,
			History1:    b.start.Hist1,
			History2:    b.start.Hist2,
			Progress:    b.progress,
		})
	} else {
		ch.adpcm = make([]byte, SampleCountToByteCount(b.sampleCount))
		copy(ch.adpcm, b.adpcm)
	}

	var pcm []int16
	decoded := func() []int16 {
		if pcm == nil {
			pcm = decode(ch.adpcm, ch.coefs, DecodeConfig{
				SampleCount: ch.sampleCount,
				History1:    ch.start.Hist1,
				History2:    ch.start.Hist2,
			})
		}
		return pcm
	}

	if b.looping && !utils.IsMultiple(b.loopStart, b.alignmentMultiple) {
		alignment := b.previous.alignment
		if !alignment.matches(b.alignmentMultiple, b.loopStart, b.loopEnd) {
			var err error
			alignment, err = NewAlignment(b.alignmentMultiple, b.loopStart, b.loopEnd, ch.adpcm, ch.coefs, ch.start)
			if err != nil {
				return nil, err
			}
		}

		ch.alignment = alignment
		ch.adpcm = alignment.adpcm
		ch.sampleCount = alignment.SampleCountAligned()
		ch.loopStart = alignment.LoopStartAligned()
		ch.loopEnd = alignment.LoopEndAligned()
		pcm = alignment.pcm
	}

	if ch.looping {
		loopStart := ch.loopStart
		lc, ok := reconcile(b.requireLoopContext, b.previous.loopContext, b.loopContext,
			func(c LoopContext) bool { return c.LoopStart == loopStart })
		if !ok {
			lc = Derived[LoopContext]{
				Origin: SelfComputed,
				Value:  NewLoopContext(ch.adpcm, decoded(), loopStart, ch.start),
			}
		}
		ch.loopContext = lc
	}

	if b.seekInterval > 0 {
		interval := b.seekInterval
		entries := utils.DivRoundUp(ch.sampleCount, interval)
		st, ok := reconcile(b.requireSeekTable, b.previous.seekTable, b.seekTable,
			func(t SeekTable) bool { return t.Interval == interval && len(t.Entries) == entries })
		if !ok {
			st = Derived[SeekTable]{
				Origin: SelfComputed,
				Value:  CalculateSeekTable(decoded(), interval, ch.start),
			}
		}
		ch.seekTable = st
	}

	return ch, nil
}

// Source is the audio a channel is built from: raw PCM, or ADPCM with its
// coefficients. PCM takes precedence when set.
type Source struct {
	PCM          []int16
	ADPCM        []byte
	Coefficients Coefficients
}

// BuildParams are the loop and derivation settings of BuildChannel.
type BuildParams struct {
	SampleCount       int
	Loop              bool
	LoopStart         int
	LoopEnd           int
	AlignmentMultiple int
	SeekInterval      int
}

// BuildChannel builds a channel in one call. previous may be nil; when set,
// its alignment, loop context and seek table are reused where they match.
func BuildChannel(src Source, p BuildParams, previous *Channel) (*Channel, error) {
	var b *Builder
	if src.PCM != nil {
		b = NewBuilderFromPCM(src.PCM, p.SampleCount)
	} else {
		b = NewBuilder(src.ADPCM, src.Coefficients, p.SampleCount)
	}

	return b.WithLoop(p.Loop, p.LoopStart, p.LoopEnd).
		WithAlignment(p.AlignmentMultiple).
		WithSeekInterval(p.SeekInterval).
		WithPrevious(previous).
		Build()
}

// EncodeChannel analyzes and encodes the first sampleCount samples of pcm.
func EncodeChannel(pcm []int16, sampleCount int) ([]byte, Coefficients, error) {
	if sampleCount < 0 {
		return nil, Coefficients{}, fmt.Errorf("%w: %d", ErrInvalidSampleCount, sampleCount)
	}
	if len(pcm) < sampleCount {
		return nil, Coefficients{}, fmt.Errorf("%w: %d samples for sample count %d", ErrAudioTooShort, len(pcm), sampleCount)
	}

	coefs := AnalyzeCoefficients(pcm[:sampleCount])
	return Encode(pcm, coefs, EncodeConfig{SampleCount: sampleCount}), coefs, nil
}

// DecodeChannel decodes sampleCount samples starting from the given history.
func DecodeChannel(adpcm []byte, coefs Coefficients, sampleCount int, hist1, hist2 int16) []int16 {
	return Decode(adpcm, coefs, DecodeConfig{
		SampleCount: sampleCount,
		History1:    hist1,
		History2:    hist2,
	})
}
