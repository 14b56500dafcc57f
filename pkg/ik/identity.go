package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// IdentitySolver pins a single bone to its target, copying position and
// rotation verbatim. Useful for hands gripping props or a head tracking a
// look-at helper when no chain is involved.
type IdentitySolver struct {
	BoneName   string `yaml:"bone"`
	TargetName string `yaml:"target"`

	// RotationOffset is applied on top of the target rotation and
	// compensates for the bone's local axes differing from the target's.
	// The zero value derives the offset that reproduces the reference
	// pose when the target sits at the rig root.
	RotationOffset math.Quat `yaml:"rotation_offset"`

	rig    *Rig
	bone   Handle
	target *skeleton.Node
}

// NewIdentitySolver pins the named bone to the named target.
func NewIdentitySolver(boneName, targetName string) *IdentitySolver {
	return &IdentitySolver{BoneName: boneName, TargetName: targetName}
}

// Initialize resolves the configured names and derives the rotation offset
// when none was configured.
func (s *IdentitySolver) Initialize(rig *Rig) error {
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}
	bone, err := rig.SolverNode(s.BoneName)
	if err != nil {
		return err
	}
	s.rig = rig
	s.target = target
	s.bone = bone

	if s.RotationOffset == (math.Quat{}) {
		boneRotation := rig.Arena().Bone(bone).WorldRotation()
		s.RotationOffset = rig.Root().WorldRotation().Inverse().Mul(boneRotation)
	} else {
		s.RotationOffset = s.RotationOffset.Normalize()
	}
	return nil
}

// UpdateLengths is a no-op; the solver tracks no segments.
func (s *IdentitySolver) UpdateLengths() {}

// Solve copies the target transform onto the bone.
func (s *IdentitySolver) Solve(Settings) {
	node := s.rig.Node(s.bone)
	node.Position = s.target.WorldPosition()
	node.Rotation = s.target.WorldRotation().Mul(s.RotationOffset)
	node.MarkPositionDirty()
	node.MarkRotationDirty()
}

// DrawDebug draws the pinned bone, its facing and its target.
func (s *IdentitySolver) DrawDebug(d DebugDrawer) {
	node := s.rig.Node(s.bone)
	d.Sphere(node.Position, 0.015, ColorJoint)
	drawDirection(d, node.Position, node.Rotation.Rotate(math.Vec3{Z: 1}))
	drawTarget(d, s.target.WorldPosition())
}
