// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/dspadpcm/audio"
	"github.com/ik5/dspadpcm/formats/wav"
	"github.com/ik5/dspadpcm/gcadpcm"
	"github.com/ik5/dspadpcm/internal/audiotest"
)

func stereoPCM() [][]int16 {
	return [][]int16{
		audiotest.Sine(1000, 32000, 500, 10000),
		audiotest.Noise(1000, 42),
	}
}

func loopConfig() Config {
	cfg := DefaultConfig()
	cfg.Loop = true
	cfg.LoopStart = 100
	cfg.AlignmentMultiple = 14
	cfg.SeekInterval = 0x70
	return cfg
}

func TestEncodePCM(t *testing.T) {
	t.Parallel()

	s, err := EncodePCM(context.Background(), 32000, stereoPCM(), loopConfig())
	if err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	if s.SampleRate != 32000 || len(s.Channels) != 2 {
		t.Fatalf("stream = %d channels @ %d Hz, want 2 @ 32000", len(s.Channels), s.SampleRate)
	}
	if s.SampleCount() != 1012 || s.LoopStart() != 112 || s.LoopEnd() != 1012 {
		t.Errorf("stream samples %d loop %d-%d, want 1012 loop 112-1012", s.SampleCount(), s.LoopStart(), s.LoopEnd())
	}

	for i, ch := range s.Channels {
		if ch.Alignment() == nil {
			t.Errorf("channel %d not aligned", i)
		}
		if ch.LoopContext().Origin != gcadpcm.SelfComputed {
			t.Errorf("channel %d loop context origin = %v", i, ch.LoopContext().Origin)
		}
		if got := len(ch.SeekTable().Value.Entries); got != 10 {
			t.Errorf("channel %d has %d seek entries, want 10", i, got)
		}
	}
}

func TestEncodePCM_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels [][]int16
		mutate   func(*Config)
		want     error
	}{
		{"invalid config", stereoPCM(), func(c *Config) { c.Workers = -1 }, ErrInvalidConfig},
		{"no channels", nil, func(*Config) {}, audio.ErrNoChannels},
		{"length mismatch", [][]int16{{1, 2, 3}, {1}}, func(*Config) {}, audio.ErrChannelMismatch},
		{"loop past end", stereoPCM(), func(c *Config) { c.Loop, c.LoopEnd = true, 2000 }, gcadpcm.ErrLoopOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if _, err := EncodePCM(context.Background(), 32000, tt.channels, cfg); !errors.Is(err, tt.want) {
				t.Errorf("EncodePCM() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeSource_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := audiotest.NewSineSource(32000, 2, 2000, 440)
	if _, err := EncodeSource(ctx, src, DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("EncodeSource() error = %v, want context.Canceled", err)
	}
}

func TestEncodeSource_Prepare(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TargetRate = 16000
	cfg.Mono = true

	s, err := EncodeSource(context.Background(), audiotest.NewSineSource(32000, 2, 3200, 440), cfg)
	if err != nil {
		t.Fatalf("EncodeSource() error = %v", err)
	}

	if s.SampleRate != 16000 || len(s.Channels) != 1 {
		t.Errorf("stream = %d channels @ %d Hz, want 1 @ 16000", len(s.Channels), s.SampleRate)
	}
	if s.SampleCount() != 1600 {
		t.Errorf("SampleCount() = %d, want 1600", s.SampleCount())
	}
}

func TestEncodeSource_Progress(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Progress = &gcadpcm.Progress{}

	if _, err := EncodePCM(context.Background(), 32000, stereoPCM(), cfg); err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	want := int64(2 * gcadpcm.FrameCount(1000))
	if cfg.Progress.Frames() != want || cfg.Progress.Total() != want {
		t.Errorf("progress = %d/%d, want %d/%d", cfg.Progress.Frames(), cfg.Progress.Total(), want, want)
	}
}

func TestEncodeSource_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := loopConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := EncodePCM(context.Background(), 32000, stereoPCM(), cfg); err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, `msg="channel built"`); got != 2 {
		t.Errorf("logged %d channel records, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, `msg="stream built"`) || !strings.Contains(out, "loop_start=112") {
		t.Errorf("missing stream record:\n%s", out)
	}
}

func TestStream_Rebuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := EncodePCM(ctx, 32000, stereoPCM(), loopConfig())
	if err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		r, err := s.Rebuild(ctx, loopConfig())
		if err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
		for i := range r.Channels {
			if r.Channels[i].Alignment() != s.Channels[i].Alignment() {
				t.Errorf("channel %d alignment recomputed", i)
			}
			if !bytes.Equal(r.Channels[i].AudioData(), s.Channels[i].AudioData()) {
				t.Errorf("channel %d audio changed", i)
			}
		}
	})

	t.Run("new seek interval", func(t *testing.T) {
		t.Parallel()

		cfg := loopConfig()
		cfg.SeekInterval = 28

		r, err := s.Rebuild(ctx, cfg)
		if err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
		for i, ch := range r.Channels {
			if ch.Alignment() != s.Channels[i].Alignment() {
				t.Errorf("channel %d alignment recomputed", i)
			}
			if got := ch.SeekTable().Value.Interval; got != 28 {
				t.Errorf("channel %d seek interval = %d, want 28", i, got)
			}
		}
	})

	t.Run("loop removed", func(t *testing.T) {
		t.Parallel()

		r, err := s.Rebuild(ctx, DefaultConfig())
		if err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
		if r.SampleCount() != 1000 {
			t.Errorf("SampleCount() = %d, want 1000", r.SampleCount())
		}
		for i, ch := range r.Channels {
			if ch.Looping() || ch.Alignment() != nil {
				t.Errorf("channel %d still looping", i)
			}
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := loopConfig()
		cfg.SeekInterval = 1
		if _, err := s.Rebuild(ctx, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Rebuild() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestStream_RebuildChannelCount(t *testing.T) {
	t.Parallel()

	s := &Stream{SampleRate: 32000, Channels: make([]*gcadpcm.Channel, 1)}
	if _, err := s.Rebuild(context.Background(), DefaultConfig()); !errors.Is(err, ErrChannelCount) {
		t.Errorf("Rebuild() error = %v, want ErrChannelCount", err)
	}
}

func TestStream_Decode(t *testing.T) {
	t.Parallel()

	s, err := EncodePCM(context.Background(), 32000, stereoPCM(), loopConfig())
	if err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	got, err := s.Decode(context.Background(), 4)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for i, ch := range s.Channels {
		if !slices.Equal(got[i], ch.PCM()) {
			t.Errorf("channel %d differs from PCM()", i)
		}
	}
}

func TestStream_WriteWAV(t *testing.T) {
	t.Parallel()

	s, err := EncodePCM(context.Background(), 32000, stereoPCM(), DefaultConfig())
	if err != nil {
		t.Fatalf("EncodePCM() error = %v", err)
	}

	w := &audiotest.WriteSeeker{}
	if err := s.WriteWAV(w); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	chans, err := audio.ReadChannels(src, 0)
	if err != nil {
		t.Fatalf("ReadChannels() error = %v", err)
	}

	for i, ch := range s.Channels {
		if !slices.Equal(chans[i], ch.PCM()) {
			t.Errorf("channel %d differs after WAV round trip", i)
		}
	}
}

func TestEncodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	pcm := stereoPCM()
	if err := wav.WriteWAV16(f, 32000, pcm...); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := EncodeFile(context.Background(), path, nil, loopConfig())
	if err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}
	if len(s.Channels) != 2 || s.SampleCount() != 1012 {
		t.Errorf("stream = %d channels, %d samples; want 2, 1012", len(s.Channels), s.SampleCount())
	}

	if _, err := EncodeFile(context.Background(), filepath.Join(dir, "input.flac"), nil, DefaultConfig()); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("EncodeFile(flac) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := EncodeFile(context.Background(), filepath.Join(dir, "missing.wav"), nil, DefaultConfig()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("EncodeFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func BenchmarkEncodePCM(b *testing.B) {
	pcm := [][]int16{
		audiotest.Sine(32000, 32000, 440, 12000),
		audiotest.Sine(32000, 32000, 660, 12000),
	}
	cfg := DefaultConfig()

	b.ReportAllocs()

	for b.Loop() {
		if _, err := EncodePCM(context.Background(), 32000, pcm, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
