package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// TrigonometricChain solves a three-node chain, such as an arm or a leg,
// analytically via the law of cosines. The root node stays put; the middle
// and end nodes are repositioned each solve.
type TrigonometricChain struct {
	nodes    [3]*KinematicNode
	segments [2]Segment

	currentBendDirection math.Vec3
}

// Initialize stores the node references, root first. Lengths are not
// computed until UpdateLengths is called.
func (c *TrigonometricChain) Initialize(first, second, third *KinematicNode) {
	c.nodes = [3]*KinematicNode{first, second, third}
	c.segments[0] = Segment{Begin: first, End: second}
	c.segments[1] = Segment{Begin: second, End: third}
}

// UpdateLengths recomputes segment lengths from the reference pose. Must be
// called whenever the hierarchy geometry changes, never during a solve.
func (c *TrigonometricChain) UpdateLengths() {
	c.segments[0].UpdateLength()
	c.segments[1].UpdateLength()
}

// FirstLength returns the cached root-to-middle segment length.
func (c *TrigonometricChain) FirstLength() float32 { return c.segments[0].Length }

// SecondLength returns the cached middle-to-end segment length.
func (c *TrigonometricChain) SecondLength() float32 { return c.segments[1].Length }

// BeginNode returns the chain root.
func (c *TrigonometricChain) BeginNode() *KinematicNode { return c.nodes[0] }

// MiddleNode returns the bending joint.
func (c *TrigonometricChain) MiddleNode() *KinematicNode { return c.nodes[1] }

// EndNode returns the effector.
func (c *TrigonometricChain) EndNode() *KinematicNode { return c.nodes[2] }

// Nodes returns the chain nodes root first.
func (c *TrigonometricChain) Nodes() []*KinematicNode { return c.nodes[:] }

// CurrentBendDirection returns where the middle joint bulged on the last
// solve, normalized, or zero while the chain is straight. Useful for
// visualization.
func (c *TrigonometricChain) CurrentBendDirection() math.Vec3 { return c.currentBendDirection }

// Solve places the middle and end nodes for the given effector target. The
// bend direction hint resolves which way the middle joint points; minAngle
// and maxAngle (degrees) bound the joint angle, with targets outside the
// resulting reach clamped onto it. Node rotations follow the position
// deltas from this pass's starting pose.
func (c *TrigonometricChain) Solve(target, bendDirection math.Vec3, minAngle, maxAngle float32) {
	start := c.nodes[0].Position
	pos1, pos2 := SolveTrigonometric(start, c.segments[0].Length, c.segments[1].Length,
		target, bendDirection, minAngle, maxAngle)

	c.nodes[1].Position = pos1
	c.nodes[1].MarkPositionDirty()
	c.nodes[2].Position = pos2
	c.nodes[2].MarkPositionDirty()

	c.segments[0].UpdateRotation(true, false)
	c.segments[1].UpdateRotation(true, true)

	// Track where the middle joint actually bulged, for visualization.
	chainDir := pos2.Sub(start)
	offset := pos1.Sub(start)
	if chainDir.LengthSquared() > math.Epsilon*math.Epsilon {
		chainDir = chainDir.Normalize()
		offset = offset.Sub(chainDir.Scale(offset.Dot(chainDir)))
	}
	if offset.LengthSquared() > math.Epsilon*math.Epsilon {
		c.currentBendDirection = offset.Normalize()
	} else {
		c.currentBendDirection = math.Vec3{}
	}
}

// CalculateRotation returns the rotation that maps the segment fromA->fromB
// onto toA->toB. Composite solvers use it to estimate the current bend
// plane before the chain is solved.
func CalculateRotation(fromA, fromB, toA, toB math.Vec3) math.Quat {
	return math.QuatFromTo(fromB.Sub(fromA), toB.Sub(toA))
}

// SolveTrigonometric returns the middle and end positions of a two-segment
// chain rooted at start reaching for target, without touching any node
// state. Composite solvers use it to evaluate hypothetical configurations.
//
// The joint angle is bounded by minAngle and maxAngle (degrees); target
// distances outside the reach those bounds allow are clamped onto it, so
// the result is always a valid triangle and never NaN.
func SolveTrigonometric(start math.Vec3, length1, length2 float32, target, bendDirection math.Vec3,
	minAngle, maxAngle float32) (math.Vec3, math.Vec3) {
	minAngle = math.Clamp(minAngle, 0, 180)
	maxAngle = math.Clamp(maxAngle, minAngle, 180)

	direction := directionBetween(start, target, bendDirection)

	// Clamp the target distance into the reach the angle bounds allow,
	// then recover the joint angle for the clamped distance.
	distance := math.Clamp(target.Distance(start),
		maxReachDistance(length1, length2, math.DegToRad(minAngle)),
		maxReachDistance(length1, length2, math.DegToRad(maxAngle)))
	jointAngle := triangleAngle(length1, length2, distance)
	distance = maxReachDistance(length1, length2, jointAngle)

	axis := bendAxis(direction, bendDirection)

	var rootAngle float32
	if den := 2 * length1 * distance; den > math.Epsilon {
		rootAngle = math.Acos((length1*length1 + distance*distance - length2*length2) / den)
	} else if length1 > math.Epsilon {
		// Target collapsed onto the root with matching segment lengths;
		// fold the chain flat.
		rootAngle = math.Pi / 2
	}

	pos1 := start.Add(math.QuatFromAxisAngle(axis, rootAngle).Rotate(direction.Scale(length1)))
	pos2 := start.Add(direction.Scale(distance))
	return pos1, pos2
}

// bendAxis returns the axis that rotates the chain direction so the middle
// joint moves toward the bend direction hint. A hint parallel to the chain
// cannot pick a side; any stable perpendicular axis works then.
func bendAxis(direction, bendDirection math.Vec3) math.Vec3 {
	axis := direction.Cross(bendDirection)
	if axis.LengthSquared() > math.Epsilon*math.Epsilon {
		return axis.Normalize()
	}
	return direction.Perpendicular()
}
