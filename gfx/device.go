// Package gfx describes the graphics context the renderer draws through.
//
// The real implementation lives in internal/opengl and must only be used from
// the thread that owns the GL context. Handles are plain integers so a zero
// value means "none" (framebuffer 0 is the default, visible target).
package gfx

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type (
	Buffer      uint32
	Program     uint32
	Texture     uint32
	Framebuffer uint32
)

// DefaultFramebuffer is the window's visible target.
const DefaultFramebuffer Framebuffer = 0

// Capability is a fixed-function state toggle.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
)

// Face selects which polygon faces are culled.
type Face int

const (
	FaceBack Face = iota
	FaceFront
)

// Primitive is the topology passed to DrawArrays.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// ClearMask selects the buffers cleared by Clear.
type ClearMask int

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// Device is the stateful graphics context used by programs and entities.
type Device interface {
	CreateBuffer() Buffer
	BindArrayBuffer(b Buffer)
	// BufferData uploads data into the bound array buffer.
	BufferData(data []float32)

	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	UseProgram(p Program)
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32

	// VertexAttrib enables loc and points it at the bound array buffer.
	// Negative locations are ignored.
	VertexAttrib(loc int32, components, stride int32, offset int)
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, v mgl32.Vec3)
	UniformMatrix4(loc int32, m mgl32.Mat4)

	CreateTexture2D(unit int, img *image.RGBA) (Texture, error)
	CreateCubemap(unit int, faces [6]*image.RGBA) (Texture, error)

	BindFramebuffer(fb Framebuffer)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	ClearDepth(d float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	CullFace(f Face)
	DrawArrays(mode Primitive, first, count int32)
}
