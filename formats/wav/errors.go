// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input has no valid RIFF/WAVE header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedWavLayout indicates a header without a usable format,
	// such as zero channels or a zero sample rate.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")

	// ErrOnlyPCM16bitSupported indicates a non-PCM or non 16-bit encoding.
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")

	// ErrInvalidSampleRate is returned by WriteWAV16 for a non-positive rate.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)
