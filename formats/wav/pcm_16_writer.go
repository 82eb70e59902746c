// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/dspadpcm/audio"
)

// WriteWAV16 writes a 16-bit PCM WAV at sampleRate with one channel per
// slice. All channels must have the same length. The encoder seeks back to
// fill in the chunk sizes, so w must be an io.WriteSeeker (an *os.File in
// practice).
func WriteWAV16(w io.WriteSeeker, sampleRate int, channels ...[]int16) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	interleaved, err := audio.Interleave(channels)
	if err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}

	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = int(v)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, len(channels), formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav: %w", err)
	}

	return nil
}
