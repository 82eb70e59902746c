// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
//
// Use the Decoder to read AIFF files:
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]int16, 4096)
//	n, err := source.ReadSamples(buf)
//
// Samples are returned interleaved as int16, in host order; the big-endian
// layout of the file is handled by go-audio. Only 16-bit PCM is supported,
// other bit depths fail with ErrOnlyPCM16bitSupported. AIFF-C is not
// supported.
package aiff
