// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes 16-bit PCM WAV files on top of
// github.com/go-audio/wav.
//
// # Decoding
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//	buf := make([]int16, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Samples come back interleaved and unscaled. Only 16-bit PCM (plain or
// WAVE_FORMAT_EXTENSIBLE) is accepted since the ADPCM encoder works on
// 16-bit input.
//
// # Writing
//
// WriteWAV16 takes one slice per channel and interleaves them:
//
//	f, _ := os.Create("preview.wav")
//	err := wav.WriteWAV16(f, 32000, left, right)
//
// The go-audio encoder patches the RIFF and data sizes on close, so the
// destination has to be seekable.
package wav
