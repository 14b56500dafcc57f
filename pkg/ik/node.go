package ik

import (
	"sort"

	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// KinematicNode is the solve-time state of one skeletal bone: its current
// world transform, the reference transform captured when chain lengths were
// last computed, and the transform the animation produced at the start of
// the current solve pass.
type KinematicNode struct {
	Position math.Vec3
	Rotation math.Quat

	OriginalPosition math.Vec3
	OriginalRotation math.Quat

	PreviousPosition math.Vec3
	PreviousRotation math.Quat

	positionDirty bool
	rotationDirty bool
}

// SetTransform overwrites the current world transform without touching the
// dirty flags. Called by the solver when snapshotting the scene.
func (n *KinematicNode) SetTransform(position math.Vec3, rotation math.Quat) {
	n.Position = position
	n.Rotation = rotation
}

// ResetOriginal captures the current transform as the reference pose used
// for chain lengths and bend directions. Position updates never touch the
// reference pose; it changes only through this call.
func (n *KinematicNode) ResetOriginal() {
	n.OriginalPosition = n.Position
	n.OriginalRotation = n.Rotation
}

// RestoreFromOriginal rewinds the current transform to the reference pose.
// Solvers that apply an absolute rotation each frame, like the shoulder
// placement, rewind first so the rotation never accumulates.
func (n *KinematicNode) RestoreFromOriginal() {
	n.Position = n.OriginalPosition
	n.Rotation = n.OriginalRotation
}

// StorePrevious captures the current transform as this pass's starting pose
// and clears the dirty flags.
func (n *KinematicNode) StorePrevious() {
	n.PreviousPosition = n.Position
	n.PreviousRotation = n.Rotation
	n.positionDirty = false
	n.rotationDirty = false
}

// RotateAround rotates the node's transform around a world-space point.
func (n *KinematicNode) RotateAround(point math.Vec3, rotation math.Quat) {
	n.Position = point.Add(rotation.Rotate(n.Position.Sub(point)))
	n.Rotation = rotation.Mul(n.Rotation)
	n.MarkPositionDirty()
	n.MarkRotationDirty()
}

// MarkPositionDirty flags the position for write-back to the scene.
func (n *KinematicNode) MarkPositionDirty() { n.positionDirty = true }

// MarkRotationDirty flags the rotation for write-back to the scene.
func (n *KinematicNode) MarkRotationDirty() { n.rotationDirty = true }

// PositionDirty reports whether the position was modified by a solve.
func (n *KinematicNode) PositionDirty() bool { return n.positionDirty }

// RotationDirty reports whether the rotation was modified by a solve.
func (n *KinematicNode) RotationDirty() bool { return n.rotationDirty }

// Handle identifies a KinematicNode within an Arena. Handles stay valid
// until the arena is reset.
type Handle int

// InvalidHandle is returned by lookups that found nothing.
const InvalidHandle Handle = -1

// Arena owns every KinematicNode of one solver group. Records are keyed by
// bone name so that two solvers referencing the same bone share one record
// and observe each other's writes within a frame.
type Arena struct {
	records []*KinematicNode
	bones   []*skeleton.Node
	depths  []int
	byName  map[string]Handle

	order      []Handle
	orderStale bool
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{byName: make(map[string]Handle)}
}

// Intern returns the handle for the named bone, creating a record seeded
// from the bone's current world transform if none exists yet. At most one
// record ever exists per name.
func (a *Arena) Intern(bone *skeleton.Node) Handle {
	if h, ok := a.byName[bone.Name]; ok {
		return h
	}
	record := &KinematicNode{
		Position: bone.WorldPosition(),
		Rotation: bone.WorldRotation(),
	}
	record.ResetOriginal()
	record.StorePrevious()

	depth := 0
	for p := bone.Parent(); p != nil; p = p.Parent() {
		depth++
	}

	h := Handle(len(a.records))
	a.records = append(a.records, record)
	a.bones = append(a.bones, bone)
	a.depths = append(a.depths, depth)
	a.byName[bone.Name] = h
	a.orderStale = true
	return h
}

// Lookup returns the handle for a name, or InvalidHandle if the name was
// never interned.
func (a *Arena) Lookup(name string) Handle {
	if h, ok := a.byName[name]; ok {
		return h
	}
	return InvalidHandle
}

// Node returns the record for a handle.
func (a *Arena) Node(h Handle) *KinematicNode {
	return a.records[h]
}

// Bone returns the scene node backing a handle.
func (a *Arena) Bone(h Handle) *skeleton.Node {
	return a.bones[h]
}

// Len returns the number of records.
func (a *Arena) Len() int {
	return len(a.records)
}

// Reset drops all records. Existing handles become invalid.
func (a *Arena) Reset() {
	a.records = a.records[:0]
	a.bones = a.bones[:0]
	a.depths = a.depths[:0]
	a.order = a.order[:0]
	a.orderStale = false
	clear(a.byName)
}

// Snapshot copies every bone's world transform into its record and stores
// it as the pass's starting pose, clearing dirty flags.
func (a *Arena) Snapshot() {
	for i, record := range a.records {
		bone := a.bones[i]
		record.SetTransform(bone.WorldPosition(), bone.WorldRotation())
		record.StorePrevious()
	}
}

// CaptureOriginals stores every record's current transform as its reference
// pose.
func (a *Arena) CaptureOriginals() {
	for _, record := range a.records {
		record.ResetOriginal()
	}
}

// Commit writes dirty records back to their scene nodes and clears the
// dirty flags. Records are applied parents-first so a parent's write does
// not displace an already-committed child.
func (a *Arena) Commit() {
	if a.orderStale {
		a.order = a.order[:0]
		for h := range a.records {
			a.order = append(a.order, Handle(h))
		}
		sort.SliceStable(a.order, func(i, j int) bool {
			return a.depths[a.order[i]] < a.depths[a.order[j]]
		})
		a.orderStale = false
	}

	for _, h := range a.order {
		record := a.records[h]
		bone := a.bones[h]
		if record.positionDirty {
			bone.SetWorldPosition(record.Position)
			record.positionDirty = false
		}
		if record.rotationDirty {
			bone.SetWorldRotation(record.Rotation)
			record.rotationDirty = false
		}
	}
}
