package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// TrigonometrySolver drives a two-segment limb analytically. The three
// bones bend in the plane picked by BendDirection, with the middle joint
// angle held between MinAngle and MaxAngle. One solve, no iteration.
type TrigonometrySolver struct {
	FirstBoneName  string `yaml:"first_bone"`
	SecondBoneName string `yaml:"second_bone"`
	ThirdBoneName  string `yaml:"third_bone"`
	TargetName     string `yaml:"target"`

	// MinAngle and MaxAngle bound the middle joint, in degrees.
	MinAngle float32 `yaml:"min_angle"`
	MaxAngle float32 `yaml:"max_angle"`

	// BendDirection hints which way the middle joint points, expressed
	// in the rig root's space.
	BendDirection math.Vec3 `yaml:"bend_direction"`

	rig    *Rig
	chain  TrigonometricChain
	target *skeleton.Node
}

// NewTrigonometrySolver drives the three named bones toward the named
// target with an unconstrained middle joint bending forward.
func NewTrigonometrySolver(first, second, third, target string) *TrigonometrySolver {
	return &TrigonometrySolver{
		FirstBoneName:  first,
		SecondBoneName: second,
		ThirdBoneName:  third,
		TargetName:     target,
		MaxAngle:       180,
		BendDirection:  math.Vec3{Z: 1},
	}
}

// Initialize resolves the configured names and clamps the tunables.
func (s *TrigonometrySolver) Initialize(rig *Rig) error {
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}
	var nodes [3]*KinematicNode
	for i, name := range []string{s.FirstBoneName, s.SecondBoneName, s.ThirdBoneName} {
		h, err := rig.SolverNode(name)
		if err != nil {
			return err
		}
		nodes[i] = rig.Node(h)
	}
	s.rig = rig
	s.target = target
	s.chain.Initialize(nodes[0], nodes[1], nodes[2])

	s.MinAngle = math.Clamp(s.MinAngle, 0, 180)
	s.MaxAngle = math.Clamp(s.MaxAngle, s.MinAngle, 180)
	s.BendDirection = defaultDirection(s.BendDirection, math.Vec3{Z: 1})
	return nil
}

// UpdateLengths recomputes the limb segment lengths from the reference
// pose.
func (s *TrigonometrySolver) UpdateLengths() {
	s.chain.UpdateLengths()
}

// Solve bends the limb toward the target.
func (s *TrigonometrySolver) Solve(Settings) {
	bendDirection := s.rig.Root().WorldRotation().Rotate(s.BendDirection)
	s.chain.Solve(s.target.WorldPosition(), bendDirection, s.MinAngle, s.MaxAngle)
}

// DrawDebug draws the limb, its current bend direction and its target.
func (s *TrigonometrySolver) DrawDebug(d DebugDrawer) {
	drawNodeChain(d, s.chain.Nodes())
	if dir := s.chain.CurrentBendDirection(); dir != (math.Vec3{}) {
		drawDirection(d, s.chain.MiddleNode().Position, dir)
	}
	drawTarget(d, s.target.WorldPosition())
}
