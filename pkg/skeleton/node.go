// Package skeleton provides a minimal scene graph of named, hierarchically
// transformed nodes used to pose articulated characters.
package skeleton

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Node is a named joint in a transform hierarchy. Position and Rotation are
// local, relative to the parent node.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
	}
}

// NewChild creates a node and attaches it under n.
func (n *Node) NewChild(name string) *Node {
	child := NewNode(name)
	n.AddChild(child)
	return child
}

// AddChild attaches child under n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice is owned by the node and
// must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// FindDescendant returns the first node named name in a depth-first search
// of n's descendants, or nil if no such node exists. n itself is not
// considered.
func (n *Node) FindDescendant(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.FindDescendant(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// WorldPosition returns the node position in world space.
func (n *Node) WorldPosition() math.Vec3 {
	if n.parent == nil {
		return n.Position
	}
	return n.parent.WorldPosition().Add(n.parent.WorldRotation().Rotate(n.Position))
}

// WorldRotation returns the node rotation in world space.
func (n *Node) WorldRotation() math.Quat {
	if n.parent == nil {
		return n.Rotation
	}
	return n.parent.WorldRotation().Mul(n.Rotation)
}

// SetWorldPosition moves the node to a world-space position by adjusting its
// local position relative to the parent.
func (n *Node) SetWorldPosition(p math.Vec3) {
	if n.parent == nil {
		n.Position = p
		return
	}
	n.Position = n.parent.WorldRotation().Inverse().Rotate(p.Sub(n.parent.WorldPosition()))
}

// SetWorldRotation orients the node to a world-space rotation by adjusting
// its local rotation relative to the parent.
func (n *Node) SetWorldRotation(q math.Quat) {
	if n.parent == nil {
		n.Rotation = q
		return
	}
	n.Rotation = n.parent.WorldRotation().Inverse().Mul(q)
}
