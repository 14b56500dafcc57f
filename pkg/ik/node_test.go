package ik

import (
	"testing"

	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

func TestKinematicNodeRotateAround(t *testing.T) {
	n := newTestNode(math.Vec3{X: 1})

	n.RotateAround(math.Vec3{}, math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.DegToRad(90)))

	if !vecNear(n.Position, math.Vec3{Y: 1}, 0.0001) {
		t.Errorf("expected position (0,1,0), got %v", n.Position)
	}
	if got := n.Rotation.Rotate(math.Vec3{X: 1}); !vecNear(got, math.Vec3{Y: 1}, 0.0001) {
		t.Errorf("expected rotation carrying +X to +Y, got %v", got)
	}
	if !n.PositionDirty() || !n.RotationDirty() {
		t.Error("expected both dirty flags set")
	}
}

func TestKinematicNodeStorePrevious(t *testing.T) {
	n := newTestNode(math.Vec3{})
	n.Position = math.Vec3{X: 2}
	n.MarkPositionDirty()
	n.MarkRotationDirty()

	n.StorePrevious()

	if n.PreviousPosition != n.Position {
		t.Errorf("expected previous position %v, got %v", n.Position, n.PreviousPosition)
	}
	if n.PositionDirty() || n.RotationDirty() {
		t.Error("expected dirty flags cleared")
	}
}

func TestKinematicNodeRestoreFromOriginal(t *testing.T) {
	n := newTestNode(math.Vec3{X: 1, Y: 2})
	n.Position = math.Vec3{X: 9}
	n.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1)

	n.RestoreFromOriginal()

	if n.Position != n.OriginalPosition {
		t.Errorf("expected position restored to %v, got %v", n.OriginalPosition, n.Position)
	}
	if n.Rotation != n.OriginalRotation {
		t.Errorf("expected rotation restored to %v, got %v", n.OriginalRotation, n.Rotation)
	}
}

func TestArenaInternDedupes(t *testing.T) {
	root := skeleton.NewNode("root")
	bone := root.NewChild("bone")
	bone.Position = math.Vec3{X: 1, Y: 2, Z: 3}

	arena := NewArena()
	first := arena.Intern(bone)
	second := arena.Intern(bone)

	if first != second {
		t.Errorf("expected one handle per name, got %d and %d", first, second)
	}
	if arena.Len() != 1 {
		t.Errorf("expected one record, got %d", arena.Len())
	}
	if got := arena.Node(first).Position; !vecNear(got, math.Vec3{X: 1, Y: 2, Z: 3}, 0.0001) {
		t.Errorf("expected record seeded from the bone transform, got %v", got)
	}
}

func TestArenaCommitParentsFirst(t *testing.T) {
	root := skeleton.NewNode("root")
	parent := root.NewChild("parent")
	parent.Position = math.Vec3{Y: 1}
	child := parent.NewChild("child")
	child.Position = math.Vec3{Y: 1}

	// Intern the child before the parent so insertion order disagrees
	// with hierarchy order; commit must still apply the parent's write
	// first or the child ends up displaced.
	arena := NewArena()
	childHandle := arena.Intern(child)
	parentHandle := arena.Intern(parent)

	arena.Node(parentHandle).Position = math.Vec3{Y: 2}
	arena.Node(parentHandle).MarkPositionDirty()
	arena.Node(childHandle).Position = math.Vec3{Y: 3}
	arena.Node(childHandle).MarkPositionDirty()

	arena.Commit()

	if got := parent.WorldPosition(); !vecNear(got, math.Vec3{Y: 2}, 0.0001) {
		t.Errorf("expected parent at (0,2,0), got %v", got)
	}
	if got := child.WorldPosition(); !vecNear(got, math.Vec3{Y: 3}, 0.0001) {
		t.Errorf("expected child at (0,3,0), got %v", got)
	}
	if arena.Node(parentHandle).PositionDirty() || arena.Node(childHandle).PositionDirty() {
		t.Error("expected dirty flags cleared after commit")
	}
}

func TestArenaSnapshotRefreshesRecords(t *testing.T) {
	root := skeleton.NewNode("root")
	bone := root.NewChild("bone")
	bone.Position = math.Vec3{X: 1}

	arena := NewArena()
	h := arena.Intern(bone)

	bone.Position = math.Vec3{X: 4, Y: 5}
	arena.Node(h).MarkPositionDirty()

	arena.Snapshot()

	record := arena.Node(h)
	if !vecNear(record.Position, math.Vec3{X: 4, Y: 5}, 0.0001) {
		t.Errorf("expected record refreshed to (4,5,0), got %v", record.Position)
	}
	if record.PreviousPosition != record.Position {
		t.Errorf("expected previous pose captured, got %v", record.PreviousPosition)
	}
	if record.PositionDirty() {
		t.Error("expected dirty flag cleared by snapshot")
	}
}

func TestArenaLookup(t *testing.T) {
	root := skeleton.NewNode("root")
	bone := root.NewChild("bone")

	arena := NewArena()
	h := arena.Intern(bone)

	if got := arena.Lookup("bone"); got != h {
		t.Errorf("expected handle %d, got %d", h, got)
	}
	if got := arena.Lookup("missing"); got != InvalidHandle {
		t.Errorf("expected InvalidHandle, got %d", got)
	}
}

func TestArenaReset(t *testing.T) {
	root := skeleton.NewNode("root")
	bone := root.NewChild("bone")

	arena := NewArena()
	arena.Intern(bone)
	arena.Reset()

	if arena.Len() != 0 {
		t.Errorf("expected empty arena, got %d records", arena.Len())
	}
	if got := arena.Lookup("bone"); got != InvalidHandle {
		t.Errorf("expected lookup miss after reset, got %d", got)
	}
}
