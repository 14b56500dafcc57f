package ik

import (
	"errors"
	"fmt"

	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// ErrBoneNotFound is returned by Initialize when a configured bone or
// target name does not resolve to a node under the rig root.
var ErrBoneNotFound = errors.New("bone not found")

// ErrChainTooShort is returned by Initialize when a chain component is
// configured with fewer than two bones.
var ErrChainTooShort = errors.New("chain needs at least two bones")

// Component is one limb's solve strategy. Initialize resolves configured
// names against the rig and validates tunables; it is called again after
// every hierarchy or configuration change. UpdateLengths recomputes cached
// segment lengths from the reference pose. Solve runs once per frame
// against the shared node records.
type Component interface {
	Initialize(rig *Rig) error
	UpdateLengths()
	Solve(settings Settings)
	DrawDebug(d DebugDrawer)
}

// Rig binds solver components to a skeleton: it resolves bone names under
// one root node and owns the arena of shared node records.
type Rig struct {
	root  *skeleton.Node
	arena *Arena
}

// NewRig creates a rig rooted at the given node.
func NewRig(root *skeleton.Node) *Rig {
	return &Rig{root: root, arena: NewArena()}
}

// Root returns the node bone lookups start from.
func (r *Rig) Root() *skeleton.Node { return r.root }

// Arena returns the shared node records.
func (r *Rig) Arena() *Arena { return r.arena }

// SolverNode resolves a bone name to a handle of its shared record,
// interning it into the arena on first use. Components referencing the
// same bone receive the same handle.
func (r *Rig) SolverNode(name string) (Handle, error) {
	bone := r.root.FindDescendant(name)
	if bone == nil {
		return InvalidHandle, fmt.Errorf("%w: %q", ErrBoneNotFound, name)
	}
	return r.arena.Intern(bone), nil
}

// Node returns the record behind a handle. Records stay valid until the
// next rebuild re-runs Initialize on every component.
func (r *Rig) Node(h Handle) *KinematicNode {
	return r.arena.Node(h)
}

// TargetNode resolves a target name to its scene node. Targets are read
// live during solves and never written, so they stay out of the arena.
func (r *Rig) TargetNode(name string) (*skeleton.Node, error) {
	target := r.root.FindDescendant(name)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrBoneNotFound, name)
	}
	return target, nil
}

// defaultDirection normalizes a configured direction, substituting def
// when the configuration left it zero.
func defaultDirection(v, def math.Vec3) math.Vec3 {
	if v.LengthSquared() <= math.Epsilon*math.Epsilon {
		return def
	}
	return v.Normalize()
}
