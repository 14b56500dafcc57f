// Package ik solves inverse kinematics over skeleton hierarchies. A
// Solver owns a group of components, one per limb strategy: analytic
// two-segment limbs, iterative chains, smoothly bending spines, and
// composite legs and arms. Each step snapshots the scene pose, lets every
// component solve against shared per-bone records, and commits the changed
// transforms back to the skeleton, parents first.
package ik

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/armature/pkg/skeleton"
)

// Solver runs a group of components over one skeleton.
type Solver struct {
	rig        *Rig
	components []*entry
	log        *zap.Logger
	dirty      bool
}

type entry struct {
	component Component
	ok        bool
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger routes component setup failures to the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) { s.log = log }
}

// New creates a solver group over the hierarchy rooted at root.
func New(root *skeleton.Node, opts ...Option) *Solver {
	s := &Solver{rig: NewRig(root), log: zap.NewNop(), dirty: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a component. Components solve in registration order, so a
// solver that feeds another, like a spine before the arms hanging off it,
// registers first.
func (s *Solver) Add(c Component) {
	s.components = append(s.components, &entry{component: c})
	s.dirty = true
}

// MarkDirty schedules a rebuild before the next step. Call it after the
// hierarchy or any component configuration changed.
func (s *Solver) MarkDirty() { s.dirty = true }

// Rig returns the rig the components solve against.
func (s *Solver) Rig() *Rig { return s.rig }

// Step runs one solve pass: snapshot the scene pose, run every healthy
// component in registration order, write the changed transforms back.
func (s *Solver) Step(settings Settings) {
	if s.dirty {
		s.rebuild()
	}
	s.rig.Arena().Snapshot()
	for _, e := range s.components {
		if e.ok {
			e.component.Solve(settings)
		}
	}
	s.rig.Arena().Commit()
}

// rebuild reinitializes every component against the current hierarchy.
// A component that fails to initialize is logged and sat out until the
// next rebuild; one bad bone name never takes the whole group down.
func (s *Solver) rebuild() {
	s.rig.Arena().Reset()
	for _, e := range s.components {
		err := e.component.Initialize(s.rig)
		e.ok = err == nil
		if err != nil {
			s.log.Warn("ik component failed to initialize",
				zap.String("component", fmt.Sprintf("%T", e.component)),
				zap.Error(err))
		}
	}
	s.rig.Arena().CaptureOriginals()
	for _, e := range s.components {
		if e.ok {
			e.component.UpdateLengths()
		}
	}
	s.dirty = false
}

// DrawDebug draws every healthy component's geometry.
func (s *Solver) DrawDebug(d DebugDrawer) {
	for _, e := range s.components {
		if e.ok {
			e.component.DrawDebug(d)
		}
	}
}
