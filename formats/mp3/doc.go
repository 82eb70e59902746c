// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files:
//
//	file, _ := os.Open("audio.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]int16, 4096)
//	n, err := source.ReadSamples(buf)
//
// go-mp3 always produces interleaved 16-bit stereo, so Channels reports 2
// even for mono files (both channels then carry the same signal). Mix down
// with audio.NewMonoMixer before encoding if a single ADPCM channel is
// wanted.
package mp3
