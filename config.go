// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/ik5/dspadpcm/gcadpcm"
)

// DefaultSeekInterval is the seek table spacing most DSP containers use.
const DefaultSeekInterval = 0x3800

// Config controls how a source is turned into a Stream. Loop points are in
// samples at the encoder rate, that is after resampling.
type Config struct {
	// TargetRate resamples the input first. Zero keeps the source rate.
	TargetRate int
	// Mono averages all input channels into one before encoding.
	Mono bool

	Loop      bool
	LoopStart int
	// LoopEnd of zero means the end of the audio.
	LoopEnd int
	// AlignmentMultiple moves the loop start onto a multiple of this many
	// samples. Zero or one disables alignment.
	AlignmentMultiple int
	// SeekInterval is the seek table spacing in samples. Zero disables the
	// seek table.
	SeekInterval int

	// Workers bounds how many channels are encoded at once. Zero means no
	// limit.
	Workers int
	// BufferSize is the read size used when draining the source.
	BufferSize int

	Logger   *slog.Logger
	Progress *gcadpcm.Progress
}

// DefaultConfig returns a Config with a seek table, one worker per CPU and
// a silent logger.
func DefaultConfig() Config {
	return Config{
		SeekInterval: DefaultSeekInterval,
		Workers:      runtime.GOMAXPROCS(0),
		BufferSize:   4096,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.TargetRate < 0:
		return fmt.Errorf("%w: negative target rate %d", ErrInvalidConfig, c.TargetRate)
	case c.LoopStart < 0 || c.LoopEnd < 0:
		return fmt.Errorf("%w: negative loop point", ErrInvalidConfig)
	case c.LoopEnd > 0 && c.LoopStart > c.LoopEnd:
		return fmt.Errorf("%w: loop start %d after loop end %d", ErrInvalidConfig, c.LoopStart, c.LoopEnd)
	case c.AlignmentMultiple < 0:
		return fmt.Errorf("%w: negative alignment multiple %d", ErrInvalidConfig, c.AlignmentMultiple)
	case c.SeekInterval < 0 || c.SeekInterval == 1:
		return fmt.Errorf("%w: seek interval %d", ErrInvalidConfig, c.SeekInterval)
	case c.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	case c.BufferSize < 0:
		return fmt.Errorf("%w: negative buffer size %d", ErrInvalidConfig, c.BufferSize)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// loopEnd resolves a zero LoopEnd against the channel length.
func (c Config) loopEnd(sampleCount int) int {
	if c.LoopEnd == 0 {
		return sampleCount
	}
	return c.LoopEnd
}
