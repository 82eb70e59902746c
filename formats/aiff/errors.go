// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input has no valid FORM/AIFF header.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrOnlyPCM16bitSupported indicates a bit depth other than 16.
	ErrOnlyPCM16bitSupported = errors.New("only 16-bit PCM AIFF is supported")

	// ErrUnsupportedAiffLayout indicates a COMM chunk with zero channels or
	// a zero sample rate.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
