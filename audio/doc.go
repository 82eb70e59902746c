// SPDX-License-Identifier: EPL-2.0

// Package audio provides the 16-bit PCM plumbing in front of the ADPCM
// encoder.
//
//   - Source interface for interleaved int16 audio input
//   - Resampler for sample rate conversion
//   - MonoMixer for channel mixing
//   - ReadAll, Deinterleave and Interleave for whole-stream buffers
//   - Format registry for decoder registration
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []int16) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors all implement Source, so they chain:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(source, 32000))
//	pcm, err := audio.ReadAll(mono, 4096)
//
// # Resampling
//
// The Resampler uses Catmull-Rom interpolation. Output sample k is taken at
// source position k*srcRate/dstRate; a one-pole low-pass runs on the input
// when downsampling.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("loop.wav")
//
// Format keys are case insensitive.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available, possibly together
// with the last samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
