// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// ReadAll drains src and returns its interleaved samples. bufferSize is the
// read size; values below one frame fall back to src.BufSize().
func ReadAll(src Source, bufferSize int) ([]int16, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	if bufferSize < channels {
		bufferSize = src.BufSize()
	}
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = channels
	}

	var pcm []int16
	buf := make([]int16, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		pcm = append(pcm, buf[:n]...)

		if err == io.EOF {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
}

// Deinterleave splits interleaved samples into one slice per channel.
// A trailing partial frame is dropped.
func Deinterleave(interleaved []int16, channels int) ([][]int16, error) {
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	frames := len(interleaved) / channels
	out := make([][]int16, channels)
	for c := range out {
		out[c] = make([]int16, frames)
	}

	for f := range frames {
		for c := range channels {
			out[c][f] = interleaved[f*channels+c]
		}
	}

	return out, nil
}

// Interleave is the inverse of Deinterleave. Every channel must have the
// same length.
func Interleave(channels [][]int16) ([]int16, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	frames := len(channels[0])
	for c, ch := range channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelMismatch, c, len(ch), frames)
		}
	}

	out := make([]int16, frames*len(channels))
	for f := range frames {
		for c, ch := range channels {
			out[f*len(channels)+c] = ch[f]
		}
	}

	return out, nil
}

// ReadChannels drains src into one slice per channel.
func ReadChannels(src Source, bufferSize int) ([][]int16, error) {
	pcm, err := ReadAll(src, bufferSize)
	if err != nil {
		return nil, err
	}
	return Deinterleave(pcm, src.Channels())
}

// SliceSource plays back per-channel sample slices as a Source.
type SliceSource struct {
	rate     int
	channels [][]int16
	pos      int
}

// NewSliceSource wraps per-channel samples. All channels must have the same
// length.
func NewSliceSource(sampleRate int, channels [][]int16) (*SliceSource, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	for c, ch := range channels {
		if len(ch) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel %d", ErrChannelMismatch, c)
		}
	}
	return &SliceSource{rate: sampleRate, channels: channels}, nil
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return len(s.channels) }
func (s *SliceSource) BufSize() int    { return 4096 }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []int16) (int, error) {
	nch := len(s.channels)
	if len(dst)%nch != 0 {
		return 0, ErrInvalidDstSize
	}

	total := len(s.channels[0])
	frames := min(len(dst)/nch, total-s.pos)
	for f := range frames {
		for c, ch := range s.channels {
			dst[f*nch+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= total {
		return frames * nch, io.EOF
	}
	return frames * nch, nil
}
