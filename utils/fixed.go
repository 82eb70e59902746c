// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp16 saturates v to the signed 16-bit range.
func Clamp16(v int) int16 {
	if uint(v+32768) > 65535 {
		if v < -32768 {
			return -32768
		}
		return 32767
	}
	return int16(v)
}

// DivRoundUp divides a by b rounding toward positive infinity.
// b must be positive; a is expected to be non-negative.
func DivRoundUp(a, b int) int {
	return (a + b - 1) / b
}

// IsMultiple reports whether value is a multiple of multiple.
// A non-positive multiple places no constraint, so every value matches.
func IsMultiple(value, multiple int) bool {
	if multiple <= 0 {
		return true
	}
	return value%multiple == 0
}

// NextMultiple returns the smallest multiple of multiple that is >= value.
// A non-positive multiple returns value unchanged.
func NextMultiple(value, multiple int) int {
	if IsMultiple(value, multiple) {
		return value
	}
	return value + multiple - value%multiple
}
