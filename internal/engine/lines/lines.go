// Package lines draws batched debug lines and wireframe spheres.
package lines

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/armature/internal/engine/shader"
	"github.com/Faultbox/armature/pkg/ik"
	"github.com/Faultbox/armature/pkg/math"
)

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uViewProj;

out vec4 vColor;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const fragmentShaderSource = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

// sphereSegments is the number of line segments per wireframe circle.
const sphereSegments = 16

// vertexStride is floats per vertex: position (3) + color (4).
const vertexStride = 7

// Renderer batches line primitives and draws them in one call per frame.
// It implements ik.DebugDrawer.
type Renderer struct {
	program     uint32
	locViewProj int32

	vao uint32
	vbo uint32

	vertices []float32
}

// New creates the line renderer. Must be called after the OpenGL context
// is current.
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Renderer{
		vertices: make([]float32, 0, 4096),
	}

	program, err := shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.program = program
	r.locViewProj = shader.MustGetUniform(program, "uViewProj")

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	log.Debug("line renderer created",
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
	)

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Begin clears the queued primitives for a new frame.
func (r *Renderer) Begin() {
	r.vertices = r.vertices[:0]
}

// Line queues a line segment.
func (r *Renderer) Line(from, to math.Vec3, color ik.Color) {
	r.appendVertex(from, color)
	r.appendVertex(to, color)
}

// Sphere queues a wireframe sphere as three axis-aligned circles.
func (r *Renderer) Sphere(center math.Vec3, radius float32, color ik.Color) {
	const step = 2 * math.Pi / sphereSegments

	for i := 0; i < sphereSegments; i++ {
		c0 := math.Cos(float32(i)*step) * radius
		s0 := math.Sin(float32(i)*step) * radius
		c1 := math.Cos(float32(i+1)*step) * radius
		s1 := math.Sin(float32(i+1)*step) * radius

		// XY circle
		r.Line(
			math.Vec3{X: center.X + c0, Y: center.Y + s0, Z: center.Z},
			math.Vec3{X: center.X + c1, Y: center.Y + s1, Z: center.Z},
			color,
		)
		// XZ circle
		r.Line(
			math.Vec3{X: center.X + c0, Y: center.Y, Z: center.Z + s0},
			math.Vec3{X: center.X + c1, Y: center.Y, Z: center.Z + s1},
			color,
		)
		// YZ circle
		r.Line(
			math.Vec3{X: center.X, Y: center.Y + c0, Z: center.Z + s0},
			math.Vec3{X: center.X, Y: center.Y + c1, Z: center.Z + s1},
			color,
		)
	}
}

// Flush uploads the queued vertices and draws them with the given
// view-projection matrix.
func (r *Renderer) Flush(viewProj math.Mat4) {
	if len(r.vertices) == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(r.vertices)/vertexStride))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (r *Renderer) appendVertex(pos math.Vec3, color ik.Color) {
	r.vertices = append(r.vertices,
		pos.X, pos.Y, pos.Z,
		color.R, color.G, color.B, color.A,
	)
}
