// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/dspadpcm/audio"
	"github.com/ik5/dspadpcm/utils"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	floatBuf   []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.floatBuf) }

func (s *source) ReadSamples(dst []int16) (int, error) {
	// oggvorbis decodes whole frames only
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.floatBuf) < want {
		s.floatBuf = make([]float32, want)
	}
	s.floatBuf = s.floatBuf[:want]

	// Read returns the number of interleaved values, not frames.
	n, err := s.dec.Read(s.floatBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading vorbis samples: %w", err)
	}

	for i, v := range s.floatBuf[:n] {
		dst[i] = utils.Float32ToInt16(v)
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding vorbis: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		floatBuf:   make([]float32, 4096),
	}, nil
}
