package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Constraint bounds the direction a joint's outgoing segment may take. Axis
// is the cone center in world space; a zero axis centers the cone on the
// incoming segment, limiting the bend relative to the parent. MaxAngle is
// in degrees.
type Constraint struct {
	Enabled  bool      `yaml:"enabled"`
	Axis     math.Vec3 `yaml:"axis"`
	MaxAngle float32   `yaml:"max_angle"`
}

// FabrikChain is an iterative solver for chains of three or more nodes
// with no fixed bend plane, such as tails and tentacles. It runs
// forward-and-backward reaching passes until the effector is within
// tolerance or the iteration cap is hit; the cap bounds per-frame cost, so
// convergence past it is not guaranteed.
type FabrikChain struct {
	nodes       []*KinematicNode
	segments    []Segment
	constraints []Constraint

	positions []math.Vec3
}

// AddNode appends a node to the chain, root first.
func (c *FabrikChain) AddNode(node *KinematicNode) {
	if len(c.nodes) > 0 {
		prev := c.nodes[len(c.nodes)-1]
		c.segments = append(c.segments, Segment{Begin: prev, End: node})
	}
	c.nodes = append(c.nodes, node)
	c.constraints = append(c.constraints, Constraint{})
}

// SetConstraint bounds the segment leaving the node at the given index.
func (c *FabrikChain) SetConstraint(index int, constraint Constraint) {
	c.constraints[index] = constraint
}

// Nodes returns the chain nodes root first.
func (c *FabrikChain) Nodes() []*KinematicNode { return c.nodes }

// UpdateLengths recomputes all segment lengths from the reference pose.
func (c *FabrikChain) UpdateLengths() {
	for i := range c.segments {
		c.segments[i].UpdateLength()
	}
}

func (c *FabrikChain) totalLength() float32 {
	var total float32
	for i := range c.segments {
		total += c.segments[i].Length
	}
	return total
}

// Solve repositions every node after the root so the last node reaches for
// the target. Segment lengths are preserved exactly; an out-of-reach
// target stretches the chain straight toward it. Node rotations follow the
// solved positions per settings.
func (c *FabrikChain) Solve(target math.Vec3, settings Settings) {
	n := len(c.nodes)
	if n < 2 {
		return
	}
	settings = settings.sanitized()

	if cap(c.positions) < n {
		c.positions = make([]math.Vec3, n)
	}
	positions := c.positions[:n]
	for i, node := range c.nodes {
		positions[i] = node.Position
	}
	root := positions[0]

	if target.Distance(root) >= c.totalLength() {
		c.solveStretched(positions, target)
	} else {
		c.solveReaching(positions, target, settings)
	}

	for i := 1; i < n; i++ {
		c.nodes[i].Position = positions[i]
		c.nodes[i].MarkPositionDirty()
	}
	for i := range c.segments {
		c.segments[i].UpdateRotation(settings.ContinuousRotations, i == len(c.segments)-1)
	}
}

// solveStretched lays the chain out straight toward an unreachable target,
// then applies constraints in a single forward pass.
func (c *FabrikChain) solveStretched(positions []math.Vec3, target math.Vec3) {
	root := positions[0]
	dir := directionBetween(root, target, c.originalDirection(0))
	distance := float32(0)
	for i := 1; i < len(positions); i++ {
		distance += c.segments[i-1].Length
		positions[i] = root.Add(dir.Scale(distance))
	}
	c.forwardPass(positions)
}

func (c *FabrikChain) solveReaching(positions []math.Vec3, target math.Vec3, settings Settings) {
	n := len(positions)
	root := positions[0]
	for iteration := 0; iteration < settings.MaxIterations; iteration++ {
		// Backward: pin the effector to the target and pull the chain
		// toward it, preserving lengths.
		positions[n-1] = target
		for i := n - 2; i >= 0; i-- {
			dir := directionBetween(positions[i+1], positions[i], c.originalDirection(i).Neg())
			positions[i] = positions[i+1].Add(dir.Scale(c.segments[i].Length))
		}

		// Forward: re-anchor the root and propagate back out.
		positions[0] = root
		c.forwardPass(positions)

		if positions[n-1].Distance(target) < settings.Tolerance {
			break
		}
	}
}

func (c *FabrikChain) forwardPass(positions []math.Vec3) {
	for i := 1; i < len(positions); i++ {
		dir := directionBetween(positions[i-1], positions[i], c.originalDirection(i-1))
		dir = c.constrainDirection(i-1, dir, positions)
		positions[i] = positions[i-1].Add(dir.Scale(c.segments[i-1].Length))
	}
}

// originalDirection returns the reference-pose direction of the segment
// leaving node index, used when working positions coincide.
func (c *FabrikChain) originalDirection(index int) math.Vec3 {
	s := &c.segments[index]
	return s.End.OriginalPosition.Sub(s.Begin.OriginalPosition)
}

// constrainDirection projects a proposed segment direction onto the cone
// allowed at the joint. Violations are resolved by rotating the cone
// center toward the proposed direction up to the cone angle, never by
// failing the solve.
func (c *FabrikChain) constrainDirection(joint int, dir math.Vec3, positions []math.Vec3) math.Vec3 {
	constraint := &c.constraints[joint]
	if !constraint.Enabled {
		return dir
	}

	reference := constraint.Axis
	if reference.LengthSquared() <= math.Epsilon*math.Epsilon {
		if joint == 0 {
			return dir
		}
		reference = positions[joint].Sub(positions[joint-1])
		if reference.LengthSquared() <= math.Epsilon*math.Epsilon {
			return dir
		}
	}
	reference = reference.Normalize()

	maxAngle := math.DegToRad(math.Clamp(constraint.MaxAngle, 0, 180))
	if reference.Angle(dir) <= maxAngle {
		return dir
	}

	axis := reference.Cross(dir)
	if axis.LengthSquared() <= math.Epsilon*math.Epsilon {
		axis = reference.Perpendicular()
	}
	return math.QuatFromAxisAngle(axis.Normalize(), maxAngle).Rotate(reference)
}
