// SPDX-License-Identifier: EPL-2.0

// Package dspadpcm encodes audio files into GameCube DSP 4-bit ADPCM.
//
// The codec itself lives in the gcadpcm subpackage. This package wires it
// to the format decoders and runs the per-channel work concurrently:
//
//	cfg := dspadpcm.DefaultConfig()
//	cfg.Loop = true
//	cfg.LoopStart = 44100
//	cfg.AlignmentMultiple = 14
//
//	s, err := dspadpcm.EncodeFile(ctx, "music.wav", nil, cfg)
//	if err != nil {
//	    // Handle error
//	}
//	for _, ch := range s.Channels {
//	    data := ch.AudioData()
//	    coefs := ch.Coefficients()
//	    // write a container header and data
//	}
//
// # Pipeline
//
// EncodeSource reads the source through an optional resampler
// (Config.TargetRate) and mono mixer (Config.Mono), splits it into
// channels and encodes each channel on its own goroutine, bounded by
// Config.Workers. The loop is then aligned and the loop context and seek
// table derived for every channel.
//
// Stream.Rebuild applies new loop or seek settings to an existing stream.
// Artifacts whose inputs did not change are carried over from the previous
// channels rather than recomputed.
//
// # Formats
//
// NewRegistry maps file extensions to the bundled decoders:
//   - WAV (16-bit PCM) via formats/wav
//   - AIFF (16-bit PCM) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Logging
//
// Config.Logger receives a Debug record per channel and an Info record per
// stream. DefaultConfig discards them.
package dspadpcm
