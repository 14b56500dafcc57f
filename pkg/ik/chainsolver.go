package ik

import (
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// ChainSolver drives a chain of any length toward its target with
// iterative reaching passes. Optional per-joint cone constraints bound how
// far each segment may swing. Suited to tails, tentacles and other chains
// without a preferred bend plane.
type ChainSolver struct {
	BoneNames  []string `yaml:"bones"`
	TargetName string   `yaml:"target"`

	// Constraints bounds the segment leaving the bone at the same index.
	// Missing entries leave joints unconstrained.
	Constraints []Constraint `yaml:"constraints"`

	rig    *Rig
	chain  FabrikChain
	target *skeleton.Node
}

// NewChainSolver drives the named bones, root first, toward the named
// target without constraints.
func NewChainSolver(boneNames []string, target string) *ChainSolver {
	return &ChainSolver{BoneNames: boneNames, TargetName: target}
}

// Initialize resolves the configured names and validates the constraints.
func (s *ChainSolver) Initialize(rig *Rig) error {
	if len(s.BoneNames) < 2 {
		return ErrChainTooShort
	}
	target, err := rig.TargetNode(s.TargetName)
	if err != nil {
		return err
	}

	var chain FabrikChain
	for _, name := range s.BoneNames {
		h, err := rig.SolverNode(name)
		if err != nil {
			return err
		}
		chain.AddNode(rig.Node(h))
	}
	for i := range s.Constraints {
		if i >= len(s.BoneNames) {
			break
		}
		c := s.Constraints[i]
		c.MaxAngle = math.Clamp(c.MaxAngle, 0, 180)
		if c.Axis.LengthSquared() > math.Epsilon*math.Epsilon {
			c.Axis = c.Axis.Normalize()
		}
		s.Constraints[i] = c
		chain.SetConstraint(i, c)
	}

	s.rig = rig
	s.target = target
	s.chain = chain
	return nil
}

// UpdateLengths recomputes the segment lengths from the reference pose.
func (s *ChainSolver) UpdateLengths() {
	s.chain.UpdateLengths()
}

// Solve reaches the chain toward the target.
func (s *ChainSolver) Solve(settings Settings) {
	s.chain.Solve(s.target.WorldPosition(), settings)
}

// DrawDebug draws the chain and its target.
func (s *ChainSolver) DrawDebug(d DebugDrawer) {
	drawNodeChain(d, s.chain.Nodes())
	drawTarget(d, s.target.WorldPosition())
}
