// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import (
	"github.com/ik5/dspadpcm/audio"
)

// prepare wraps src in the resampler and mono mixer stages cfg asks for.
func prepare(src audio.Source, cfg Config) audio.Source {
	if cfg.TargetRate > 0 && cfg.TargetRate != src.SampleRate() {
		src = audio.NewResampler(src, cfg.TargetRate)
	}
	if cfg.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}
	return src
}

// ResampleToMono16 resamples src to targetRate, mixes it down to mono and
// collects the result. A targetRate of zero keeps the source rate.
//
// Example:
//
//	src, _ := decoder.Decode(file)
//	pcm16, rate, err := dspadpcm.ResampleToMono16(src, 32000, 4096)
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono := prepare(src, Config{TargetRate: targetRate, Mono: true})

	pcm16, err := audio.ReadAll(mono, bufferSize)
	if err != nil {
		return nil, mono.SampleRate(), err
	}

	return pcm16, mono.SampleRate(), nil
}
