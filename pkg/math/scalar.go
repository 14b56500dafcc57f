package math

import (
	gomath "math"

	"github.com/chewxy/math32"
)

// Scalar helpers are thin wrappers around chewxy/math32 so vector and
// quaternion code stays in float32 without round-tripping through float64.

// Pi is the float32 circle constant.
const Pi = float32(gomath.Pi)

// Epsilon is the tolerance used by degeneracy guards in geometric code.
const Epsilon = 1e-5

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 { return math32.Sqrt(x) }

// Sin returns the sine of x (radians).
func Sin(x float32) float32 { return math32.Sin(x) }

// Cos returns the cosine of x (radians).
func Cos(x float32) float32 { return math32.Cos(x) }

// Tan returns the tangent of x (radians).
func Tan(x float32) float32 { return math32.Tan(x) }

// Acos returns the arccosine of x, with x clamped to [-1, 1] first so
// values that drift out of range from float error never produce NaN.
func Acos(x float32) float32 { return math32.Acos(Clamp(x, -1, 1)) }

// Asin returns the arcsine of x, with x clamped to [-1, 1] first.
func Asin(x float32) float32 { return math32.Asin(Clamp(x, -1, 1)) }

// Atan2 returns the arc tangent of y/x using the signs to find the quadrant.
func Atan2(y, x float32) float32 { return math32.Atan2(y, x) }

// Abs returns the absolute value of x.
func Abs(x float32) float32 { return math32.Abs(x) }

// IsNaN reports whether x is a "not-a-number" value.
func IsNaN(x float32) bool { return math32.IsNaN(x) }

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 { return deg * (Pi / 180) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 { return rad * (180 / Pi) }
