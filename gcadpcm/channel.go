// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Channel is one built mono ADPCM channel. It is immutable: accessors
// return copies or read-only values, so a Channel may be shared between
// goroutines freely.
type Channel struct {
	adpcm       []byte
	coefs       Coefficients
	gain        int16
	start       History
	sampleCount int

	looping   bool
	loopStart int
	loopEnd   int

	alignment   *Alignment
	loopContext Derived[LoopContext]
	seekTable   Derived[SeekTable]
}

// AudioData returns the encoded audio.
func (c *Channel) AudioData() []byte {
	out := make([]byte, len(c.adpcm))
	copy(out, c.adpcm)
	return out
}

func (c *Channel) Coefficients() Coefficients { return c.coefs }
func (c *Channel) Gain() int16                 { return c.gain }
func (c *Channel) StartHistory() History       { return c.start }

// SampleCount is the number of samples after any loop alignment.
func (c *Channel) SampleCount() int { return c.sampleCount }

func (c *Channel) Looping() bool  { return c.looping }
func (c *Channel) LoopStart() int { return c.loopStart }
func (c *Channel) LoopEnd() int   { return c.loopEnd }

// LoopContext returns the loop context and its origin. It is Unknown for
// channels that do not loop.
func (c *Channel) LoopContext() Derived[LoopContext] { return c.loopContext }

// LoopPredScaleHist1Hist2 returns the loop context fields in the order
// containers usually store them. ok is false when there is no loop context.
func (c *Channel) LoopPredScaleHist1Hist2() (predScale byte, hist1, hist2 int16, ok bool) {
	if !c.loopContext.Known() {
		return 0, 0, 0, false
	}
	v := c.loopContext.Value
	return v.PredScale, v.Hist1, v.Hist2, true
}

// SeekTable returns the seek table and its origin.
func (c *Channel) SeekTable() Derived[SeekTable] {
	return Derived[SeekTable]{Origin: c.seekTable.Origin, Value: c.seekTable.Value.clone()}
}

// Alignment returns the loop alignment applied at build time, or nil when
// the loop start was already aligned. Builds that reuse it return the same
// read-only value.
func (c *Channel) Alignment() *Alignment { return c.alignment }

// PCM decodes the whole channel.
func (c *Channel) PCM() []int16 {
	if pcm := c.alignment.PCM(); pcm != nil {
		return pcm
	}
	return Decode(c.adpcm, c.coefs, DecodeConfig{
		SampleCount: c.sampleCount,
		History1:    c.start.Hist1,
		History2:    c.start.Hist2,
	})
}

// DecodeRange decodes count samples starting at sample start. When the
// channel has a seek table decoding begins at the closest frame aligned
// entry instead of sample 0.
func (c *Channel) DecodeRange(start, count int) ([]int16, error) {
	if start < 0 || count < 0 || start+count > c.sampleCount {
		return nil, fmt.Errorf("%w: range %d+%d of %d samples", ErrInvalidArgument, start, count, c.sampleCount)
	}

	from := 0
	hist := c.start
	if entry, at := c.seekTable.Value.entryFor(start); at >= 0 {
		from, hist = at, entry
	}

	pcm := Decode(c.adpcm[from/SamplesPerFrame*BytesPerFrame:], c.coefs, DecodeConfig{
		SampleCount: start + count - from,
		History1:    hist.Hist1,
		History2:    hist.Hist2,
	})

	return pcm[start-from:], nil
}

// DecodeParallel decodes the whole channel, splitting it at the frame
// aligned seek table entries and decoding the segments on up to workers
// goroutines. Without a seek table it decodes sequentially. The result is
// identical to PCM when the seek table was computed from this audio.
func (c *Channel) DecodeParallel(ctx context.Context, workers int) ([]int16, error) {
	bounds := c.segmentStarts()
	if len(bounds) <= 1 {
		return c.PCM(), nil
	}

	out := make([]int16, c.sampleCount)
	entries := c.seekTable.Value.Entries
	interval := c.seekTable.Value.Interval

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, from := range bounds {
		to := c.sampleCount
		if i+1 < len(bounds) {
			to = bounds[i+1]
		}
		hist := entries[from/interval]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			segment := Decode(c.adpcm[from/SamplesPerFrame*BytesPerFrame:], c.coefs, DecodeConfig{
				SampleCount: to - from,
				History1:    hist.Hist1,
				History2:    hist.Hist2,
			})
			copy(out[from:to], segment)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// segmentStarts lists the sample positions of frame aligned seek entries
// within the channel.
func (c *Channel) segmentStarts() []int {
	t := c.seekTable.Value
	if t.Interval <= 0 || len(t.Entries) == 0 {
		return nil
	}

	starts := make([]int, 0, len(t.Entries))
	for i := range t.Entries {
		at := i * t.Interval
		if at >= c.sampleCount {
			break
		}
		if at%SamplesPerFrame == 0 {
			starts = append(starts, at)
		}
	}
	return starts
}

// artifacts copies the derived values a later build may reuse.
func (c *Channel) artifacts() artifacts {
	return artifacts{
		alignment:   c.alignment,
		loopContext: c.loopContext,
		seekTable:   c.SeekTable(),
	}
}
