// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position between y1 and y2 (0 <= x <= 1).
// y0, y1, y2, y3 are four consecutive 16-bit samples; the result is
// rounded and clamped back into the 16-bit range.
func CubicInterpolate(y0, y1, y2, y3 int16, x float64) int16 {
	p0, p1, p2, p3 := float64(y0), float64(y1), float64(y2), float64(y3)

	a0 := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	a1 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	a2 := -0.5*p0 + 0.5*p2

	v := a0*x*x*x + a1*x*x + a2*x + p1
	if v < 0 {
		return Clamp16(int(v - 0.5))
	}
	return Clamp16(int(v + 0.5))
}
