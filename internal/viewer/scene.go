package viewer

import (
	"github.com/Faultbox/armature/internal/engine/lines"
	"github.com/Faultbox/armature/pkg/ik"
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

var (
	colorBone = ik.Color{R: 0.85, G: 0.85, B: 0.9, A: 1}
	colorGrid = ik.Color{R: 0.22, G: 0.22, B: 0.28, A: 1}
)

// drawGrid draws the floor grid.
func drawGrid(r *lines.Renderer) {
	const ext = 2.0
	const step = 0.5

	for i := -4; i <= 4; i++ {
		o := float32(i) * step
		r.Line(math.Vec3{X: -ext, Z: o}, math.Vec3{X: ext, Z: o}, colorGrid)
		r.Line(math.Vec3{X: o, Z: -ext}, math.Vec3{X: o, Z: ext}, colorGrid)
	}
}

// drawSkeleton draws one line per bone, hips down to the leaves.
func drawSkeleton(r *lines.Renderer, hips *skeleton.Node) {
	if hips == nil {
		return
	}
	hips.Walk(func(n *skeleton.Node) {
		if n == hips {
			return
		}
		if p := n.Parent(); p != nil {
			r.Line(p.WorldPosition(), n.WorldPosition(), colorBone)
		}
	})
}

// skeletonBounds returns the axis-aligned bounds over every node.
func skeletonBounds(root *skeleton.Node) (min, max math.Vec3) {
	first := true
	root.Walk(func(n *skeleton.Node) {
		p := n.WorldPosition()
		if first {
			min, max = p, p
			first = false
			return
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	})
	return min, max
}
