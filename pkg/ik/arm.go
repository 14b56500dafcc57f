package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// ArmSolver drives a four-bone arm: shoulder, arm, forearm and hand. The
// shoulder contributes a configurable share of the reach before the arm
// chain bends, split into a swing around the chest and a twist around
// UpDirection so either can be dialed in on its own.
type ArmSolver struct {
	ShoulderBoneName string `yaml:"shoulder_bone"`
	ArmBoneName      string `yaml:"arm_bone"`
	ForearmBoneName  string `yaml:"forearm_bone"`
	HandBoneName     string `yaml:"hand_bone"`
	TargetName       string `yaml:"target"`

	// MinElbowAngle and MaxElbowAngle bound the elbow, in degrees.
	MinElbowAngle float32 `yaml:"min_elbow_angle"`
	MaxElbowAngle float32 `yaml:"max_elbow_angle"`

	// ShoulderWeight scales how much of the full shoulder rotation is
	// applied: X the twist share, Y the swing share, each in [0, 1].
	ShoulderWeight math.Vec2 `yaml:"shoulder_weight"`

	// BendDirection hints which way the elbow points.
	BendDirection math.Vec3 `yaml:"bend_direction"`

	// UpDirection is the twist axis the shoulder rotation decomposes
	// around.
	UpDirection math.Vec3 `yaml:"up_direction"`

	rig             *Rig
	armChain        TrigonometricChain
	shoulderSegment Segment
	target          *skeleton.Node
}

// NewArmSolver drives the named bones toward the named target with an
// unconstrained elbow and a still shoulder.
func NewArmSolver(shoulder, arm, forearm, hand, target string) *ArmSolver {
	return &ArmSolver{
		ShoulderBoneName: shoulder,
		ArmBoneName:      arm,
		ForearmBoneName:  forearm,
		HandBoneName:     hand,
		TargetName:       target,
		MaxElbowAngle:    180,
		BendDirection:    math.Vec3{Z: 1},
		UpDirection:      math.Vec3{Y: 1},
	}
}

// Initialize resolves the configured names and clamps the tunables.
func (s *ArmSolver) Initialize(rig *Rig) error {
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}
	var handles [4]Handle
	for i, name := range []string{s.ShoulderBoneName, s.ArmBoneName, s.ForearmBoneName, s.HandBoneName} {
		h, err := rig.SolverNode(name)
		if err != nil {
			return err
		}
		handles[i] = h
	}
	s.rig = rig
	s.target = target
	s.armChain.Initialize(rig.Node(handles[1]), rig.Node(handles[2]), rig.Node(handles[3]))
	s.shoulderSegment = Segment{Begin: rig.Node(handles[0]), End: rig.Node(handles[1])}

	s.MinElbowAngle = math.Clamp(s.MinElbowAngle, 0, 180)
	s.MaxElbowAngle = math.Clamp(s.MaxElbowAngle, 0, 180)
	s.ShoulderWeight = s.ShoulderWeight.Clamp(0, 1)
	s.BendDirection = defaultDirection(s.BendDirection, math.Vec3{Z: 1})
	s.UpDirection = defaultDirection(s.UpDirection, math.Vec3{Y: 1})
	return nil
}

// UpdateLengths recomputes the arm and shoulder lengths from the reference
// pose.
func (s *ArmSolver) UpdateLengths() {
	s.armChain.UpdateLengths()
	s.shoulderSegment.UpdateLength()
}

// Solve turns the shoulder by its weighted share and bends the arm the
// rest of the way to the target.
func (s *ArmSolver) Solve(Settings) {
	handTarget := s.target.WorldPosition()

	maxRotation := s.maxShoulderRotation(handTarget)
	swing, twist := maxRotation.SwingTwist(s.UpDirection)
	shoulderRotation := math.QuatIdentity().Slerp(swing, s.ShoulderWeight.Y).
		Mul(math.QuatIdentity().Slerp(twist, s.ShoulderWeight.X))
	s.rotateShoulder(shoulderRotation)

	s.armChain.Solve(handTarget, s.BendDirection, s.MinElbowAngle, s.MaxElbowAngle)
}

// rotateShoulder rebases the shoulder segment onto the reference pose
// carried to the current shoulder position, then turns it. Starting from
// the reference keeps the rotation absolute, so it never accumulates
// across frames.
func (s *ArmSolver) rotateShoulder(rotation math.Quat) {
	shoulderPosition := s.shoulderSegment.Begin.Position
	offset := shoulderPosition.Sub(s.shoulderSegment.Begin.OriginalPosition)

	s.shoulderSegment.Begin.RestoreFromOriginal()
	s.shoulderSegment.End.RestoreFromOriginal()

	s.shoulderSegment.Begin.Position = s.shoulderSegment.Begin.Position.Add(offset)
	s.shoulderSegment.End.Position = s.shoulderSegment.End.Position.Add(offset)

	s.shoulderSegment.Begin.RotateAround(shoulderPosition, rotation)
	s.shoulderSegment.End.RotateAround(shoulderPosition, rotation)
}

// maxShoulderRotation returns the rotation that would point the shoulder
// segment straight at the hand target. The applied rotation is a weighted
// fraction of it.
func (s *ArmSolver) maxShoulderRotation(handTarget math.Vec3) math.Quat {
	shoulderPosition := s.shoulderSegment.Begin.Position
	length := s.shoulderSegment.Length
	toArmMax := handTarget.Sub(shoulderPosition).Renormalized(length, length)

	toArm := s.shoulderSegment.End.Position.Sub(shoulderPosition)
	return math.QuatFromTo(toArm, toArmMax)
}

// DrawDebug draws the arm, the shoulder link and the target.
func (s *ArmSolver) DrawDebug(d DebugDrawer) {
	drawNodeChain(d, s.armChain.Nodes())
	d.Line(s.shoulderSegment.Begin.Position, s.shoulderSegment.End.Position, ColorBone)
	d.Sphere(s.shoulderSegment.Begin.Position, 0.015, ColorJoint)
	drawTarget(d, s.target.WorldPosition())
}
