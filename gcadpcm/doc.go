// SPDX-License-Identifier: EPL-2.0

// Package gcadpcm implements the GameCube DSP 4-bit ADPCM codec.
//
// Audio is stored in frames of 14 samples packed into 8 bytes: one header
// byte (predictor index in the high nibble, scale exponent in the low
// nibble) followed by 14 signed 4-bit residuals, high nibble first. Each
// channel carries eight Q11 predictor pairs shared by all of its frames.
//
// # Encoding
//
// AnalyzeCoefficients derives the predictor table from PCM and Encode
// quantizes the samples against it:
//
//	coefs := gcadpcm.AnalyzeCoefficients(pcm)
//	adpcm := gcadpcm.Encode(pcm, coefs, gcadpcm.EncodeConfig{SampleCount: -1})
//
// Frames within a channel are encoded sequentially because each frame is
// predicted from the decoded output of the previous one. Separate channels
// share nothing and can be encoded concurrently.
//
// # Decoding
//
// Decode never fails. Combined with a SeekTable, decoding can start at any
// frame aligned seek entry, which is what Channel.DecodeRange and
// Channel.DecodeParallel do.
//
// # Channels
//
// A Builder collects audio, loop points, a loop alignment and a seek
// interval, and Build produces an immutable Channel:
//
//	ch, err := gcadpcm.NewBuilderFromPCM(pcm, len(pcm)).
//	    WithLoop(true, 1000, len(pcm)).
//	    WithAlignment(14336).
//	    WithSeekInterval(0x3800).
//	    Build()
//
// When the loop start is not a multiple of the alignment, the frames past
// the original loop end are rebuilt so the loop starts on the next multiple.
// Frames before the loop end are never re-encoded. Passing an earlier Channel
// to WithPrevious lets Build reuse its alignment, loop context and seek table
// when their inputs have not changed.
package gcadpcm
