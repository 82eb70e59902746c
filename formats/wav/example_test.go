// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/dspadpcm/audio"
	"github.com/ik5/dspadpcm/formats/wav"
	"github.com/ik5/dspadpcm/internal/audiotest"
)

// Example_roundTrip writes a stereo file and reads it back.
func Example_roundTrip() {
	left := []int16{-1000, -500, 0, 500, 1000}
	right := []int16{1, 2, 3, 4, 5}

	w := &audiotest.WriteSeeker{}
	if err := wav.WriteWAV16(w, 32000, left, right); err != nil {
		fmt.Printf("Encode error: %v\n", err)
		return
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(w.Bytes()))
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}

	chans, err := audio.ReadChannels(src, 0)
	if err != nil {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())
	fmt.Printf("Left:  %v\n", chans[0])
	fmt.Printf("Right: %v\n", chans[1])
	// Output:
	// 32000 Hz, 2 channels
	// Left:  [-1000 -500 0 500 1000]
	// Right: [1 2 3 4 5]
}

// Example_errorNotWAV shows handling of invalid input.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file, only some text")))
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}
