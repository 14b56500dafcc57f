package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec2Clamp(t *testing.T) {
	v := Vec2{-0.5, 1.5}
	got := v.Clamp(0, 1)
	want := Vec2{0, 1}
	if got != want {
		t.Errorf("Vec2.Clamp() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3Renormalized(t *testing.T) {
	v := Vec3{10, 0, 0}
	got := v.Renormalized(1, 4)
	want := Vec3{4, 0, 0}
	if got != want {
		t.Errorf("Vec3.Renormalized() = %v, want %v", got, want)
	}

	short := Vec3{0.5, 0, 0}
	got = short.Renormalized(1, 4)
	want = Vec3{1, 0, 0}
	if got != want {
		t.Errorf("Vec3.Renormalized() below min = %v, want %v", got, want)
	}

	// Zero vectors cannot be renormalized; they stay zero.
	got = (Vec3{}).Renormalized(1, 4)
	if got != (Vec3{}) {
		t.Errorf("Vec3.Renormalized() of zero = %v, want zero", got)
	}
}

func TestVec3Angle(t *testing.T) {
	a := Vec3{1, 0, 0}
	b := Vec3{0, 1, 0}
	got := a.Angle(b)
	if Abs(got-Pi/2) > 0.0001 {
		t.Errorf("Vec3.Angle() = %v, want %v", got, Pi/2)
	}

	// Degenerate input has no angle; expect 0 rather than NaN.
	got = a.Angle(Vec3{})
	if got != 0 {
		t.Errorf("Vec3.Angle() with zero vector = %v, want 0", got)
	}
}

func TestVec3SignedAngle(t *testing.T) {
	a := Vec3{1, 0, 0}
	b := Vec3{0, 0, 1}
	up := Vec3{0, 1, 0}

	got := a.SignedAngle(b, up)
	if Abs(got+Pi/2) > 0.0001 {
		t.Errorf("Vec3.SignedAngle() = %v, want %v", got, -Pi/2)
	}

	got = b.SignedAngle(a, up)
	if Abs(got-Pi/2) > 0.0001 {
		t.Errorf("Vec3.SignedAngle() reversed = %v, want %v", got, Pi/2)
	}
}

func TestVec3Perpendicular(t *testing.T) {
	for _, v := range []Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 2, 3},
		{-4, 0.5, 2},
	} {
		p := v.Perpendicular()
		if Abs(p.Length()-1) > 0.0001 {
			t.Errorf("Perpendicular(%v).Length() = %v, want 1", v, p.Length())
		}
		if Abs(p.Dot(v)) > 0.0001 {
			t.Errorf("Perpendicular(%v) not orthogonal, dot = %v", v, p.Dot(v))
		}
	}
}
