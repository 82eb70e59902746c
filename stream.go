// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ik5/dspadpcm/audio"
	"github.com/ik5/dspadpcm/formats/wav"
	"github.com/ik5/dspadpcm/gcadpcm"
	"golang.org/x/sync/errgroup"
)

// encoded is a channel's ADPCM before any loop alignment. Rebuild starts
// from it so a changed loop never realigns already aligned audio.
type encoded struct {
	adpcm       []byte
	coefs       gcadpcm.Coefficients
	sampleCount int
}

// Stream is a multi-channel ADPCM encoding of one source. Every channel
// shares the sample rate and loop settings.
type Stream struct {
	SampleRate int
	Channels   []*gcadpcm.Channel

	base []encoded
}

// EncodeFile decodes path with the decoder registered for its extension
// and encodes the result. A nil reg uses NewRegistry.
func EncodeFile(ctx context.Context, path string, reg *audio.Registry, cfg Config) (*Stream, error) {
	if reg == nil {
		reg = NewRegistry()
	}

	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	return EncodeSource(ctx, src, cfg)
}

// EncodePCM encodes per-channel PCM at sampleRate. All channels must have
// the same length.
func EncodePCM(ctx context.Context, sampleRate int, channels [][]int16, cfg Config) (*Stream, error) {
	src, err := audio.NewSliceSource(sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return EncodeSource(ctx, src, cfg)
}

// EncodeSource drains src through the resampler and mixer stages cfg asks
// for, then encodes each channel concurrently.
func EncodeSource(ctx context.Context, src audio.Source, cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prepared := prepare(src, cfg)

	pcm, err := audio.ReadChannels(prepared, cfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := make([]encoded, len(pcm))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, samples := range pcm {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			n := len(samples)
			cfg.Progress.AddTotal(gcadpcm.FrameCount(n))

			coefs := gcadpcm.AnalyzeCoefficients(samples)
			base[i] = encoded{
				adpcm:       gcadpcm.Encode(samples, coefs, gcadpcm.EncodeConfig{SampleCount: n, Progress: cfg.Progress}),
				coefs:       coefs,
				sampleCount: n,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return build(ctx, prepared.SampleRate(), base, nil, cfg)
}

// Rebuild applies new loop, alignment and seek settings to s. Each new
// channel gets the old one as its previous build, so an unchanged
// alignment, loop context or seek table is reused instead of recomputed.
// TargetRate and Mono are ignored; the audio is not re-encoded.
func (s *Stream) Rebuild(ctx context.Context, cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(s.Channels) != len(s.base) {
		return nil, fmt.Errorf("%w: %d channels, %d sources", ErrChannelCount, len(s.Channels), len(s.base))
	}

	return build(ctx, s.SampleRate, s.base, s.Channels, cfg)
}

func build(ctx context.Context, rate int, base []encoded, previous []*gcadpcm.Channel, cfg Config) (*Stream, error) {
	log := cfg.logger()
	out := make([]*gcadpcm.Channel, len(base))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, enc := range base {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var prev *gcadpcm.Channel
			if previous != nil {
				prev = previous[i]
			}

			ch, err := gcadpcm.BuildChannel(
				gcadpcm.Source{ADPCM: enc.adpcm, Coefficients: enc.coefs},
				gcadpcm.BuildParams{
					SampleCount:       enc.sampleCount,
					Loop:              cfg.Loop,
					LoopStart:         cfg.LoopStart,
					LoopEnd:           cfg.loopEnd(enc.sampleCount),
					AlignmentMultiple: cfg.AlignmentMultiple,
					SeekInterval:      cfg.SeekInterval,
				},
				prev,
			)
			if err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}

			out[i] = ch
			log.Debug("channel built",
				"channel", i,
				"samples", ch.SampleCount(),
				"bytes", len(ch.AudioData()),
				"aligned", ch.Alignment() != nil,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Stream{SampleRate: rate, Channels: out, base: base}

	log.Info("stream built",
		"channels", len(out),
		"sample_rate", rate,
		"samples", s.SampleCount(),
		"loop", cfg.Loop,
		"loop_start", s.LoopStart(),
		"loop_end", s.LoopEnd(),
		"seek_interval", cfg.SeekInterval,
	)

	return s, nil
}

// SampleCount is the per-channel length, including any samples added by
// loop alignment.
func (s *Stream) SampleCount() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return s.Channels[0].SampleCount()
}

func (s *Stream) LoopStart() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return s.Channels[0].LoopStart()
}

func (s *Stream) LoopEnd() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return s.Channels[0].LoopEnd()
}

// Decode returns the PCM of every channel. Each channel is decoded in
// seek table segments on up to workers goroutines.
func (s *Stream) Decode(ctx context.Context, workers int) ([][]int16, error) {
	out := make([][]int16, len(s.Channels))
	for i, ch := range s.Channels {
		pcm, err := ch.DecodeParallel(ctx, workers)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		out[i] = pcm
	}
	return out, nil
}

// WriteWAV writes the decoded stream as a 16-bit WAV, which is how the
// encoding is usually auditioned.
func (s *Stream) WriteWAV(w io.WriteSeeker) error {
	pcm := make([][]int16, len(s.Channels))
	for i, ch := range s.Channels {
		pcm[i] = ch.PCM()
	}
	return wav.WriteWAV16(w, s.SampleRate, pcm...)
}
