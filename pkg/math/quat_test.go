package math

import (
	"testing"
)

func quatNear(a, b Quat, tol float32) bool {
	// q and -q are the same rotation.
	if a.Dot(b) < 0 {
		b = Quat{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
	}
	return Abs(a.X-b.X) <= tol && Abs(a.Y-b.Y) <= tol &&
		Abs(a.Z-b.Z) <= tol && Abs(a.W-b.W) <= tol
}

func vecNear(a, b Vec3, tol float32) bool {
	return Abs(a.X-b.X) <= tol && Abs(a.Y-b.Y) <= tol && Abs(a.Z-b.Z) <= tol
}

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatSlerp(t *testing.T) {
	// Test endpoints
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, Pi/2)

	// At t=0, should equal q1
	result0 := q1.Slerp(q2, 0)
	if Abs(result0.W-q1.W) > 0.001 {
		t.Errorf("Slerp at t=0 should equal q1")
	}

	// At t=1, should equal q2
	result1 := q1.Slerp(q2, 1)
	if Abs(result1.W-q2.W) > 0.001 {
		t.Errorf("Slerp at t=1 should equal q2")
	}

	// At t=0.5, should be halfway
	result5 := q1.Slerp(q2, 0.5)
	// For 90 degree rotation, halfway should be 45 degrees
	expectedW := Cos(Pi / 8) // cos(45/2 degrees)
	if Abs(result5.W-expectedW) > 0.01 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, result5.W)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if Abs(m[i]-identity[i]) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatToMat4MatchesRotate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 2, Z: -1}.Normalize(), 1.3)
	v := Vec3{0.5, -2, 4}

	byMatrix := q.ToMat4().TransformVec3(v)
	byQuat := q.Rotate(v)
	if !vecNear(byMatrix, byQuat, 0.0001) {
		t.Errorf("ToMat4 transform = %v, Rotate = %v", byMatrix, byQuat)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, Pi/2)

	// Should have Y component and W = cos(45deg)
	expectedW := Cos(Pi / 4)
	expectedY := Sin(Pi / 4)

	if Abs(q.W-expectedW) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if Abs(q.Y-expectedY) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, Pi/2)
	got := q.Rotate(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if !vecNear(got, want, 0.0001) {
		t.Errorf("Rotate() = %v, want %v", got, want)
	}
}

func TestQuatInverse(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 1, Z: 0}.Normalize(), 0.7)
	round := q.Mul(q.Inverse())
	if !quatNear(round, QuatIdentity(), 0.0001) {
		t.Errorf("q * q^-1 = %v, want identity", round)
	}
}

func TestQuatFromTo(t *testing.T) {
	from := Vec3{1, 0, 0}
	to := Vec3{0, 0, 1}
	q := QuatFromTo(from, to)

	got := q.Rotate(from)
	if !vecNear(got, to, 0.0001) {
		t.Errorf("FromTo rotation maps %v to %v, want %v", from, got, to)
	}
}

func TestQuatFromToUnnormalized(t *testing.T) {
	from := Vec3{3, 0, 0}
	to := Vec3{0, -5, 0}
	q := QuatFromTo(from, to)

	got := q.Rotate(Vec3{1, 0, 0})
	want := Vec3{0, -1, 0}
	if !vecNear(got, want, 0.0001) {
		t.Errorf("FromTo with unnormalized input maps X to %v, want %v", got, want)
	}
}

func TestQuatFromToAntiparallel(t *testing.T) {
	from := Vec3{0, 1, 0}
	to := Vec3{0, -1, 0}
	q := QuatFromTo(from, to)

	got := q.Rotate(from)
	if !vecNear(got, to, 0.001) {
		t.Errorf("Antiparallel FromTo maps %v to %v, want %v", from, got, to)
	}
	length := Sqrt(q.Dot(q))
	if Abs(length-1) > 0.0001 {
		t.Errorf("Antiparallel FromTo not normalized, length %v", length)
	}
}

func TestQuatFromToDegenerate(t *testing.T) {
	q := QuatFromTo(Vec3{}, Vec3{0, 1, 0})
	if q != QuatIdentity() {
		t.Errorf("FromTo with zero input = %v, want identity", q)
	}
}

func TestQuatSwingTwist(t *testing.T) {
	axis := Vec3{0, 1, 0}
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 1, Z: 0.5}.Normalize(), 1.1)

	swing, twist := q.SwingTwist(axis)

	// Decomposition must reconstruct the original rotation.
	if !quatNear(swing.Mul(twist), q, 0.0001) {
		t.Errorf("swing*twist = %v, want %v", swing.Mul(twist), q)
	}

	// Twist rotates purely around the axis.
	if Abs(twist.X) > 0.0001 || Abs(twist.Z) > 0.0001 {
		t.Errorf("twist has off-axis components: %v", twist)
	}

	// Swing leaves the axis itself where the full rotation puts it.
	if !vecNear(swing.Rotate(axis), q.Rotate(axis), 0.0001) {
		t.Errorf("swing moves axis to %v, full rotation to %v", swing.Rotate(axis), q.Rotate(axis))
	}
}

func TestQuatSwingTwistPureTwist(t *testing.T) {
	axis := Vec3{0, 1, 0}
	q := QuatFromAxisAngle(axis, 0.8)

	swing, twist := q.SwingTwist(axis)
	if !quatNear(swing, QuatIdentity(), 0.0001) {
		t.Errorf("pure twist should give identity swing, got %v", swing)
	}
	if !quatNear(twist, q, 0.0001) {
		t.Errorf("pure twist: twist = %v, want %v", twist, q)
	}
}

func TestQuatSwingTwistOrthogonal(t *testing.T) {
	// Rotation around X has no twist component around Y.
	axis := Vec3{0, 1, 0}
	q := QuatFromAxisAngle(Vec3{1, 0, 0}, 0.8)

	swing, twist := q.SwingTwist(axis)
	if !quatNear(twist, QuatIdentity(), 0.0001) {
		t.Errorf("orthogonal rotation should give identity twist, got %v", twist)
	}
	if !quatNear(swing, q, 0.0001) {
		t.Errorf("orthogonal rotation: swing = %v, want %v", swing, q)
	}
}
