// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnknownFormat is returned when no decoder is registered for a format.
	ErrUnknownFormat = errors.New("audio: unknown format")

	// ErrChannelMismatch is returned when per-channel buffers differ in
	// length or the interleaved length is not a multiple of the channel count.
	ErrChannelMismatch = errors.New("audio: channel lengths do not match")

	// ErrNoChannels is returned for a source or buffer set with zero channels.
	ErrNoChannels = errors.New("audio: no channels")
)
