// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer folds every channel of src into one by averaging, rounding
// half away from zero.
type MonoMixer struct {
	src Source
	tmp []int16
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]int16, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]int16, max(need, 8192))
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / channels

	switch channels {
	case 2:
		for f := range frames {
			dst[f] = average(int(m.tmp[2*f])+int(m.tmp[2*f+1]), 2)
		}
	default:
		for f := range frames {
			sum := 0
			for _, v := range m.tmp[f*channels : (f+1)*channels] {
				sum += int(v)
			}
			dst[f] = average(sum, channels)
		}
	}

	return frames, err
}

func average(sum, n int) int16 {
	if sum < 0 {
		return int16(-((-sum + n/2) / n))
	}
	return int16((sum + n/2) / n)
}
