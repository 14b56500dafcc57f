package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// SpineChain bends a multi-segment chain toward a target by distributing
// one rotation across all segments in proportion to their length, so long
// segments absorb more of the bend and the chain curves smoothly instead
// of kinking at one joint.
type SpineChain struct {
	nodes    []*KinematicNode
	segments []Segment

	directions []math.Vec3
}

// AddNode appends a node to the chain, root first.
func (c *SpineChain) AddNode(node *KinematicNode) {
	if len(c.nodes) > 0 {
		prev := c.nodes[len(c.nodes)-1]
		c.segments = append(c.segments, Segment{Begin: prev, End: node})
	}
	c.nodes = append(c.nodes, node)
}

// Nodes returns the chain nodes root first.
func (c *SpineChain) Nodes() []*KinematicNode { return c.nodes }

// UpdateLengths recomputes all segment lengths from the reference pose.
func (c *SpineChain) UpdateLengths() {
	for i := range c.segments {
		c.segments[i].UpdateLength()
	}
}

// Solve bends the chain so its root-to-tip line turns toward the target,
// up to maxAngle degrees of total bend. The rotation is applied root to
// tip, each segment adding its length-weighted share on top of the already
// rotated segments above it.
func (c *SpineChain) Solve(target math.Vec3, maxAngle float32, settings Settings) {
	n := len(c.nodes)
	if n < 2 {
		return
	}

	root := c.nodes[0].Position
	chord := c.nodes[n-1].Position.Sub(root)
	toTarget := target.Sub(root)

	var totalLength float32
	for i := range c.segments {
		totalLength += c.segments[i].Length
	}
	if totalLength < math.Epsilon ||
		chord.LengthSquared() <= math.Epsilon*math.Epsilon ||
		toTarget.LengthSquared() <= math.Epsilon*math.Epsilon {
		return
	}

	totalAngle := math.Clamp(chord.Angle(toTarget), 0, math.DegToRad(math.Clamp(maxAngle, 0, 180)))
	if totalAngle < math.Epsilon {
		return
	}

	axis := chord.Cross(toTarget)
	if axis.LengthSquared() <= math.Epsilon*math.Epsilon {
		// Target directly behind the chain; any bend plane will do.
		axis = chord.Perpendicular()
	} else {
		axis = axis.Normalize()
	}

	// Capture segment directions before any position is overwritten; a
	// segment's begin node is the previous segment's end.
	if cap(c.directions) < len(c.segments) {
		c.directions = make([]math.Vec3, len(c.segments))
	}
	directions := c.directions[:len(c.segments)]
	for i := range c.segments {
		directions[i] = c.segments[i].Direction()
	}

	var bent float32
	position := root
	for i := range c.segments {
		s := &c.segments[i]
		bent += totalAngle * s.Length / totalLength
		position = position.Add(math.QuatFromAxisAngle(axis, bent).Rotate(directions[i].Scale(s.Length)))

		s.End.Position = position
		s.End.MarkPositionDirty()
	}

	for i := range c.segments {
		c.segments[i].UpdateRotation(settings.ContinuousRotations, i == len(c.segments)-1)
	}
}
