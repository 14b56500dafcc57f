package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Segment is a rigid two-node link, such as a foot or a shoulder. Length is
// cached from the reference pose and never changes during a solve.
type Segment struct {
	Begin *KinematicNode
	End   *KinematicNode

	Length float32
}

// UpdateLength recomputes the cached length from the reference pose. Must
// be called whenever the underlying hierarchy geometry changes, never
// during a solve.
func (s *Segment) UpdateLength() {
	s.Length = s.End.OriginalPosition.Distance(s.Begin.OriginalPosition)
}

// Direction returns the normalized current begin-to-end direction, falling
// back to the reference pose direction when the nodes coincide.
func (s *Segment) Direction() math.Vec3 {
	return directionBetween(s.Begin.Position, s.End.Position,
		s.End.OriginalPosition.Sub(s.Begin.OriginalPosition))
}

// UpdateRotation reorients the begin node so the bone points at the solved
// end position. With fromPrevious the delta is taken against this pass's
// starting pose, otherwise against the reference pose. When last is set the
// end node inherits the same delta, carrying the effector along.
func (s *Segment) UpdateRotation(fromPrevious, last bool) {
	delta := s.rotationDelta(fromPrevious)
	if fromPrevious {
		s.Begin.Rotation = delta.Mul(s.Begin.PreviousRotation)
		if last {
			s.End.Rotation = delta.Mul(s.End.PreviousRotation)
		}
	} else {
		s.Begin.Rotation = delta.Mul(s.Begin.OriginalRotation)
		if last {
			s.End.Rotation = delta.Mul(s.End.OriginalRotation)
		}
	}
	s.Begin.MarkRotationDirty()
	if last {
		s.End.MarkRotationDirty()
	}
}

func (s *Segment) rotationDelta(fromPrevious bool) math.Quat {
	current := s.End.Position.Sub(s.Begin.Position)
	if fromPrevious {
		return math.QuatFromTo(s.End.PreviousPosition.Sub(s.Begin.PreviousPosition), current)
	}
	return math.QuatFromTo(s.End.OriginalPosition.Sub(s.Begin.OriginalPosition), current)
}

// directionBetween returns the normalized direction from a to b, or
// fallback (normalized) when the points coincide. A degenerate fallback
// yields the X axis so callers never see a zero direction.
func directionBetween(a, b, fallback math.Vec3) math.Vec3 {
	d := b.Sub(a)
	if d.LengthSquared() > math.Epsilon*math.Epsilon {
		return d.Normalize()
	}
	f := fallback.Normalize()
	if f == (math.Vec3{}) {
		return math.Vec3{X: 1, Y: 0, Z: 0}
	}
	return f
}
