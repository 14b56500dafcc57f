package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Triangle helpers shared by the chain primitives and the composite
// solvers. All angles are in radians.

// solveAmbiguousTriangle takes two sides and the angle opposite the first
// side and returns the smallest angle opposite the second side. Reports
// false when no such triangle exists.
func solveAmbiguousTriangle(sideAB, sideBC, angleACB float32) (float32, bool) {
	if sideAB < math.Epsilon {
		return 0, false
	}
	sinAngleBAC := sideBC * math.Sin(angleACB) / sideAB
	if sinAngleBAC > 1 {
		return 0, false
	}
	return math.Asin(sinAngleBAC), true
}

// triangleAngle returns the angle between sides AB and BC given all three
// side lengths, via the law of cosines. Degenerate sides give a straight
// angle instead of NaN.
func triangleAngle(sideAB, sideBC, sideAC float32) float32 {
	den := 2 * sideAB * sideBC
	if den < math.Epsilon {
		return math.Pi
	}
	return math.Acos((sideAB*sideAB + sideBC*sideBC - sideAC*sideAC) / den)
}

// maxReachDistance returns how far a two-segment chain reaches when its
// middle joint bends to the given angle.
func maxReachDistance(length1, length2, angle float32) float32 {
	return math.Sqrt(length1*length1 + length2*length2 - 2*length1*length2*math.Cos(angle))
}

// interpolateDirection rotates from toward to by fraction t along the arc
// between them, preserving the length of from.
func interpolateDirection(from, to math.Vec3, t float32) math.Vec3 {
	rotation := math.QuatFromTo(from, to)
	return math.QuatIdentity().Slerp(rotation, t).Rotate(from)
}

// thighToHeelDistance solves the thigh-toe-heel triangle for the distance
// between thigh and heel, given the fixed toe-to-heel length and the
// desired heel angle. The result is capped at maxDistance, which is the
// reach limit of the leg chain.
func thighToHeelDistance(thighToToe, toeToHeel, heelAngle, maxDistance float32) float32 {
	if math.Sin(heelAngle) < math.Epsilon {
		return math.Clamp(thighToToe+toeToHeel, 0, maxDistance)
	}
	thighAngle, ok := solveAmbiguousTriangle(thighToToe, toeToHeel, heelAngle)
	if !ok {
		return math.Clamp(thighToToe+toeToHeel, 0, maxDistance)
	}
	toeAngle := math.Pi - heelAngle - thighAngle
	distance := thighToToe * math.Sin(toeAngle) / math.Sin(heelAngle)
	if distance > maxDistance {
		return maxDistance
	}
	return distance
}

// toeToHeelOffset returns the world-space offset from toe to heel that
// keeps the heel at toeToHeel distance from the toe while the heel angle
// stays at heelAngle, bending around bendNormal.
func toeToHeelOffset(thighPosition, toePosition math.Vec3, toeToHeel, heelAngle, maxDistance float32,
	bendNormal math.Vec3) math.Vec3 {
	thighToToe := toePosition.Distance(thighPosition)
	thighToHeel := thighToHeelDistance(thighToToe, toeToHeel, heelAngle, maxDistance)
	toeAngle := triangleAngle(thighToToe, toeToHeel, thighToHeel)

	toeToThigh := directionBetween(toePosition, thighPosition, math.Vec3{X: 0, Y: 1, Z: 0})
	rotation := math.QuatFromAxisAngle(bendNormal.Normalize(), toeAngle)
	return rotation.Rotate(toeToThigh).Normalize().Scale(toeToHeel)
}
