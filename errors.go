// SPDX-License-Identifier: EPL-2.0

package dspadpcm

import "errors"

var (
	// ErrInvalidConfig is returned by Config.Validate and every pipeline
	// entry point that validates its Config.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrChannelCount indicates a Rebuild whose previous stream has a
	// different channel count than the new input.
	ErrChannelCount = errors.New("channel count mismatch")
)
