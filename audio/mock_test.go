// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
)

// mockSource is a test helper that generates 16-bit audio data.
type mockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) int16
	closed       bool
}

func newMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) int16) *mockSource {
	return &mockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func newSilentSource(sampleRate, channels, totalSamples int) *mockSource {
	return newConstantSource(sampleRate, channels, totalSamples, 0)
}

func newConstantSource(sampleRate, channels, totalSamples int, value int16) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(int, int) int16 {
		return value
	})
}

// newIndexSource yields the sample index on every channel.
func newIndexSource(sampleRate, channels, totalSamples int) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) int16 {
		return int16(sample)
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

var errBroken = errors.New("broken source")

// brokenSource fails on the first read.
type brokenSource struct{ mockSource }

func (b *brokenSource) ReadSamples([]int16) (int, error) { return 0, errBroken }
