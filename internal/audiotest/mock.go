// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource is a test helper that generates 16-bit audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) int16
	closed       bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) int16) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) int16 {
		return 0
	})
}

// NewSineSource creates a mock source that generates a sine wave at half
// of full scale. Channel c is phase shifted by c quarter turns so channels
// differ.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) int16 {
		return sineAt(sample, sampleRate, frequency, 16384, float64(channel)*math.Pi/2)
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value int16) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) int16 {
		return value
	})
}

// NewSliceSource plays back per-channel sample slices. All slices must have
// the same length.
func NewSliceSource(sampleRate int, channels ...[]int16) *MockSource {
	total := 0
	if len(channels) > 0 {
		total = len(channels[0])
	}
	return NewMockSource(sampleRate, len(channels), total, func(sample int, channel int) int16 {
		return channels[channel][sample]
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// Sine returns n samples of a sine wave with the given amplitude.
func Sine(n, sampleRate int, frequency float64, amplitude float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = sineAt(i, sampleRate, frequency, amplitude, 0)
	}
	return out
}

// Ramp returns n samples counting up from first.
func Ramp(n int, first int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = first + int16(i)
	}
	return out
}

// Noise returns n pseudo random samples from a fixed seed so tests are
// reproducible.
func Noise(n int, seed uint32) []int16 {
	out := make([]int16, n)
	state := seed | 1
	for i := range out {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		out[i] = int16(state >> 16)
	}
	return out
}

func sineAt(sample, sampleRate int, frequency, amplitude, phase float64) int16 {
	t := float64(sample) / float64(sampleRate)
	return int16(math.Round(amplitude * math.Sin(2*math.Pi*frequency*t+phase)))
}
