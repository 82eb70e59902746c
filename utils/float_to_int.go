// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized sample in [-1, 1] to 16-bit PCM.
// Out of range input is clamped; the scale is 32768 so that -1 maps to
// math.MinInt16 and values just below 1 map to math.MaxInt16.
func Float32ToInt16(x float32) int16 {
	v := float64(x) * 32768.0
	if v < 0 {
		return Clamp16(int(v - 0.5))
	}
	return Clamp16(int(v + 0.5))
}
