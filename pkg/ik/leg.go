package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// LegSolver drives a four-bone leg: thigh, calf, heel and toe. The toe is
// kept on the target while the heel placement blends between two
// hypotheses, a grounded foot that keeps the reference heel angle and a
// foot lifted in line with the fully bent leg. BendWeight picks the blend,
// so a planted foot and a pedaling foot come out of the same solver.
type LegSolver struct {
	ThighBoneName string `yaml:"thigh_bone"`
	CalfBoneName  string `yaml:"calf_bone"`
	HeelBoneName  string `yaml:"heel_bone"`
	ToeBoneName   string `yaml:"toe_bone"`
	TargetName    string `yaml:"target"`

	// MinKneeAngle and MaxKneeAngle bound the knee, in degrees.
	MinKneeAngle float32 `yaml:"min_knee_angle"`
	MaxKneeAngle float32 `yaml:"max_knee_angle"`

	// BendWeight blends the heel between the grounded foot (0) and the
	// foot of the fully bent leg (1).
	BendWeight float32 `yaml:"bend_weight"`

	// BendDirection hints which way the knee points, expressed in the
	// rig root's space.
	BendDirection math.Vec3 `yaml:"bend_direction"`

	// MinHeelAngle is the heel angle of the grounded foot, in degrees.
	// Negative values derive it from the reference pose.
	MinHeelAngle float32 `yaml:"min_heel_angle"`

	rig         *Rig
	legChain    TrigonometricChain
	footSegment Segment
	target      *skeleton.Node
}

// NewLegSolver drives the named bones toward the named target with an
// unconstrained knee bending forward and a grounded foot.
func NewLegSolver(thigh, calf, heel, toe, target string) *LegSolver {
	return &LegSolver{
		ThighBoneName: thigh,
		CalfBoneName:  calf,
		HeelBoneName:  heel,
		ToeBoneName:   toe,
		TargetName:    target,
		MaxKneeAngle:  180,
		BendDirection: math.Vec3{Z: 1},
		MinHeelAngle:  -1,
	}
}

// Initialize resolves the configured names, clamps the tunables and
// derives the heel angle when none was configured.
func (s *LegSolver) Initialize(rig *Rig) error {
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}
	var handles [4]Handle
	for i, name := range []string{s.ThighBoneName, s.CalfBoneName, s.HeelBoneName, s.ToeBoneName} {
		h, err := rig.SolverNode(name)
		if err != nil {
			return err
		}
		handles[i] = h
	}
	s.rig = rig
	s.target = target
	s.legChain.Initialize(rig.Node(handles[0]), rig.Node(handles[1]), rig.Node(handles[2]))
	s.footSegment = Segment{Begin: rig.Node(handles[2]), End: rig.Node(handles[3])}

	s.BendWeight = math.Clamp(s.BendWeight, 0, 1)
	s.MinKneeAngle = math.Clamp(s.MinKneeAngle, 0, 180)
	s.MaxKneeAngle = math.Clamp(s.MaxKneeAngle, 0, 180)
	s.BendDirection = defaultDirection(s.BendDirection, math.Vec3{Z: 1})
	if s.MinHeelAngle < 0 {
		s.MinHeelAngle = s.deriveMinHeelAngle(rig, handles[0], handles[2], handles[3])
	}
	return nil
}

// deriveMinHeelAngle measures the heel angle of the pose the rig is in,
// signed around the bend normal so a heel in front of the leg line stays
// distinguishable from one behind it.
func (s *LegSolver) deriveMinHeelAngle(rig *Rig, thigh, heel, toe Handle) float32 {
	thighPosition := rig.Arena().Bone(thigh).WorldPosition()
	heelPosition := rig.Arena().Bone(heel).WorldPosition()
	toePosition := rig.Arena().Bone(toe).WorldPosition()

	thighToToe := toePosition.Sub(thighPosition)
	heelToThigh := thighPosition.Sub(heelPosition)
	heelToToe := toePosition.Sub(heelPosition)

	bendNormal := thighToToe.Cross(rig.Root().WorldRotation().Rotate(s.BendDirection)).Neg()
	return math.RadToDeg(heelToThigh.SignedAngle(heelToToe, bendNormal))
}

// UpdateLengths recomputes the leg and foot lengths from the reference
// pose.
func (s *LegSolver) UpdateLengths() {
	s.legChain.UpdateLengths()
	s.footSegment.UpdateLength()
}

// Solve places the toe on the target, the heel on the blended hypothesis
// and bends the leg to reach the heel.
func (s *LegSolver) Solve(settings Settings) {
	toeTarget := s.target.WorldPosition()
	heel := s.legChain.EndNode()

	currentBendDirection := s.currentBendDirection(toeTarget)
	straight := s.footDirectionStraight(toeTarget, currentBendDirection)
	bent := s.footDirectionBent(toeTarget, currentBendDirection)

	toeToHeel := interpolateDirection(straight, bent, s.BendWeight)
	heelTarget := toeTarget.Add(toeToHeel)

	bendDirection := s.rig.Root().WorldRotation().Rotate(s.BendDirection)
	s.legChain.Solve(heelTarget, bendDirection, s.MinKneeAngle, s.MaxKneeAngle)

	// The toe record tracks the solved foot, but only its rotation is
	// committed; the toe bone rides on the heel's rotation.
	s.footSegment.End.Position = heel.Position.Sub(toeToHeel)
	s.footSegment.UpdateRotation(settings.ContinuousRotations, true)
}

// currentBendDirection carries the configured bend direction along with
// the rotation that maps the reference thigh-to-toe line onto the current
// one, so the knee hint turns with the leg.
func (s *LegSolver) currentBendDirection(toeTarget math.Vec3) math.Vec3 {
	thigh := s.legChain.BeginNode()
	toe := s.footSegment.End
	chainRotation := CalculateRotation(thigh.OriginalPosition, toe.OriginalPosition,
		thigh.Position, toeTarget)
	return chainRotation.Rotate(s.rig.Root().WorldRotation().Rotate(s.BendDirection))
}

// footDirectionStraight returns the toe-to-heel offset of the grounded
// foot, which holds the heel angle at MinHeelAngle.
func (s *LegSolver) footDirectionStraight(toeTarget, currentBendDirection math.Vec3) math.Vec3 {
	thigh := s.legChain.BeginNode()
	bendNormal := toeTarget.Sub(thigh.Position).Cross(currentBendDirection)
	maxDistance := maxReachDistance(s.legChain.FirstLength(), s.legChain.SecondLength(),
		math.DegToRad(s.MaxKneeAngle))
	return toeToHeelOffset(thigh.Position, toeTarget, s.footSegment.Length,
		math.DegToRad(s.MinHeelAngle), maxDistance, bendNormal)
}

// footDirectionBent returns the toe-to-heel offset of the fully bent leg,
// which stretches the foot along the calf line.
func (s *LegSolver) footDirectionBent(toeTarget, currentBendDirection math.Vec3) math.Vec3 {
	thigh := s.legChain.BeginNode()
	pos1, pos2 := SolveTrigonometric(thigh.Position, s.legChain.FirstLength(),
		s.legChain.SecondLength()+s.footSegment.Length,
		toeTarget, currentBendDirection, s.MinKneeAngle, s.MaxKneeAngle)
	return pos1.Sub(pos2).Normalize().Scale(s.footSegment.Length)
}

// DrawDebug draws the leg, the knee bend direction, the foot and the
// target.
func (s *LegSolver) DrawDebug(d DebugDrawer) {
	drawNodeChain(d, s.legChain.Nodes())
	if dir := s.legChain.CurrentBendDirection(); dir != (math.Vec3{}) {
		drawDirection(d, s.legChain.MiddleNode().Position, dir)
	}
	d.Line(s.footSegment.Begin.Position, s.footSegment.End.Position, ColorBone)
	d.Sphere(s.footSegment.End.Position, 0.015, ColorJoint)
	drawTarget(d, s.target.WorldPosition())
}
