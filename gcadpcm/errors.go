// SPDX-License-Identifier: EPL-2.0

package gcadpcm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of every build-time validation failure.
	ErrInvalidArgument = errors.New("gcadpcm: invalid argument")

	// ErrLoopOutOfRange indicates loop points outside [0, sampleCount] or an
	// end before the start.
	ErrLoopOutOfRange = fmt.Errorf("%w: loop points out of range", ErrInvalidArgument)

	// ErrInvalidSeekInterval indicates a configured seek interval below 2.
	ErrInvalidSeekInterval = fmt.Errorf("%w: seek interval must be at least 2", ErrInvalidArgument)

	// ErrInvalidAlignment indicates a negative alignment multiple.
	ErrInvalidAlignment = fmt.Errorf("%w: alignment multiple must not be negative", ErrInvalidArgument)

	// ErrAudioTooShort indicates fewer PCM samples or ADPCM bytes than the
	// declared sample count requires.
	ErrAudioTooShort = fmt.Errorf("%w: audio shorter than sample count", ErrInvalidArgument)

	// ErrInvalidSampleCount indicates a negative sample count.
	ErrInvalidSampleCount = fmt.Errorf("%w: negative sample count", ErrInvalidArgument)

	// ErrEmptyLoop indicates a zero-length loop whose start must be moved.
	ErrEmptyLoop = fmt.Errorf("%w: cannot align an empty loop", ErrInvalidArgument)
)
