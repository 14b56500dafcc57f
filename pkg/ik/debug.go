package ik

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Colors used by the solver components when drawing themselves.
var (
	ColorJoint  = Color{R: 1, G: 1, B: 0, A: 1}
	ColorBone   = Color{R: 0.2, G: 0.9, B: 0.2, A: 1}
	ColorTarget = Color{R: 1, G: 0.2, B: 0.2, A: 1}
	ColorHint   = Color{R: 0.3, G: 0.5, B: 1, A: 1}
)

// DebugDrawer receives solver geometry for visualization. Calls are
// fire-and-forget; implementations typically batch primitives and flush
// once per frame.
type DebugDrawer interface {
	Line(from, to math.Vec3, color Color)
	Sphere(center math.Vec3, radius float32, color Color)
}

func drawNodeChain(d DebugDrawer, nodes []*KinematicNode) {
	for i, n := range nodes {
		d.Sphere(n.Position, 0.015, ColorJoint)
		if i > 0 {
			d.Line(nodes[i-1].Position, n.Position, ColorBone)
		}
	}
}

func drawTarget(d DebugDrawer, position math.Vec3) {
	d.Sphere(position, 0.02, ColorTarget)
}

func drawDirection(d DebugDrawer, from, dir math.Vec3) {
	to := from.Add(dir.Scale(0.1))
	d.Line(from, to, ColorHint)
	d.Sphere(to, 0.01, ColorHint)
}
