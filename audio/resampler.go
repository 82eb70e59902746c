// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/dspadpcm/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. It works on interleaved samples and preserves the channel
// count. When downsampling, a one-pole low-pass smooths the input first.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source samples per output sample
	channels int

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]int16
	hasFrame [4]bool
	primed   bool

	// position between frames[1] and frames[2]
	pos float64

	srcBuf []int16
	eof    bool

	lowPass     bool
	filterState []int16
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]int16, channels),
		lowPass:     ratio > 1.0,
		filterState: make([]int16, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]int16, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads one source frame into dst and reports whether it got one.
func (r *Resampler) readFrame(dst []int16) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	got := n >= r.channels
	if got {
		if r.lowPass {
			for c := range r.channels {
				y := int16((int(r.srcBuf[c]) + int(r.filterState[c])) >> 1)
				r.filterState[c] = y
				dst[c] = y
			}
		} else {
			copy(dst, r.srcBuf)
		}
	}

	if err == io.EOF {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("%w", err)
	}

	return got, nil
}

// prime loads the first source frames. Missing neighbours at the edges
// repeat the nearest real frame.
func (r *Resampler) prime() error {
	r.primed = true

	n, err := r.src.ReadSamples(r.srcBuf)
	if n >= r.channels {
		copy(r.filterState, r.srcBuf)
		copy(r.frames[1], r.srcBuf)
		r.hasFrame[1] = true
	}
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return fmt.Errorf("%w", err)
	}
	if !r.hasFrame[1] {
		return io.EOF
	}
	copy(r.frames[0], r.frames[1])

	for i := 2; i < 4; i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.frames[i], r.frames[i-1])
		}
		r.hasFrame[i] = ok
	}

	return nil
}

// advance shifts the frame window by one source frame.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[1], r.hasFrame[2] = r.hasFrame[2], r.hasFrame[3]

	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.frames[3], r.frames[2])
	}
	r.hasFrame[3] = ok

	if !r.hasFrame[1] {
		return io.EOF
	}
	return nil
}

// ReadSamples produces samples at the target rate. Output sample k is taken
// at source position k*srcRate/dstRate, up to and including the last source
// frame. len(dst) must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []int16) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst)/r.channels {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] || (r.pos > 0 && !r.hasFrame[2]) {
			return written * r.channels, io.EOF
		}

		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(r.frames[0][c], r.frames[1][c], r.frames[2][c], r.frames[3][c], r.pos)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
