package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude.
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp linearly interpolates from v to other by t.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		Lerp(v.X, other.X, t),
		Lerp(v.Y, other.Y, t),
		Lerp(v.Z, other.Z, t),
	}
}

// Renormalized returns v scaled so its length is clamped to
// [minLength, maxLength]. A near-zero vector cannot be given a
// direction and is returned as the zero vector.
func (v Vec3) Renormalized(minLength, maxLength float32) Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(Clamp(l, minLength, maxLength) / l)
}

// Angle returns the unsigned angle between v and other in radians.
func (v Vec3) Angle(other Vec3) float32 {
	d := v.Length() * other.Length()
	if d < Epsilon {
		return 0
	}
	return Acos(v.Dot(other) / d)
}

// SignedAngle returns the angle between v and other in radians, signed by
// the winding around the given normal.
func (v Vec3) SignedAngle(other, normal Vec3) float32 {
	angle := v.Angle(other)
	if v.Cross(other).Dot(normal) < 0 {
		return -angle
	}
	return angle
}

// Perpendicular returns an arbitrary unit vector perpendicular to v.
// The axis choice is stable so degenerate-geometry fallbacks stay
// deterministic between frames.
func (v Vec3) Perpendicular() Vec3 {
	if Abs(v.X) > Abs(v.Z) {
		return Vec3{-v.Y, v.X, 0}.Normalize()
	}
	return Vec3{0, -v.Z, v.Y}.Normalize()
}

// XZ returns the XZ components as Vec2.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}
