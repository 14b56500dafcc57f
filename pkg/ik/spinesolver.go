package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// SpineSolver bends a bone column toward its target, spreading the bend
// over every segment in proportion to length so the column curves smoothly
// instead of kinking at one joint.
type SpineSolver struct {
	BoneNames  []string `yaml:"bones"`
	TargetName string   `yaml:"target"`

	// MaxAngle bounds the total bend of the column, in degrees.
	MaxAngle float32 `yaml:"max_angle"`

	rig    *Rig
	chain  SpineChain
	target *skeleton.Node
}

// NewSpineSolver bends the named bones, root first, toward the named
// target by up to 90 degrees.
func NewSpineSolver(boneNames []string, target string) *SpineSolver {
	return &SpineSolver{BoneNames: boneNames, TargetName: target, MaxAngle: 90}
}

// Initialize resolves the configured names and clamps the tunables.
func (s *SpineSolver) Initialize(rig *Rig) error {
	if len(s.BoneNames) < 2 {
		return ErrChainTooShort
	}
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}

	var chain SpineChain
	for _, name := range s.BoneNames {
		h, err := rig.SolverNode(name)
		if err != nil {
			return err
		}
		chain.AddNode(rig.Node(h))
	}

	s.rig = rig
	s.target = target
	s.chain = chain
	s.MaxAngle = math.Clamp(s.MaxAngle, 0, 180)
	return nil
}

// UpdateLengths recomputes the segment lengths from the reference pose.
func (s *SpineSolver) UpdateLengths() {
	s.chain.UpdateLengths()
}

// Solve bends the column toward the target.
func (s *SpineSolver) Solve(settings Settings) {
	s.chain.Solve(s.target.WorldPosition(), s.MaxAngle, settings)
}

// DrawDebug draws the column and its target.
func (s *SpineSolver) DrawDebug(d DebugDrawer) {
	drawNodeChain(d, s.chain.Nodes())
	drawTarget(d, s.target.WorldPosition())
}
