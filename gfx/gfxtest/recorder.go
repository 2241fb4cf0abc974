// Package gfxtest provides a gfx.Device that records calls instead of
// touching a GPU.
package gfxtest

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/gfx"
)

var ErrCompile = errors.New("gfxtest: compile failed")

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Recorder implements gfx.Device by appending every call to Calls.
type Recorder struct {
	Calls []Call

	// FailCompile makes CreateProgram return ErrCompile.
	FailCompile bool

	// Sources holds the vertex and fragment source of every created program.
	Sources map[gfx.Program][2]string

	// Uniforms holds the last value written per uniform location.
	Uniforms map[int32]any

	nextHandle uint32
	locations  map[string]int32
}

var _ gfx.Device = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		Sources:   make(map[gfx.Program][2]string),
		Uniforms:  make(map[int32]any),
		locations: make(map[string]int32),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

// Count returns how many calls named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Draws returns the number of DrawArrays calls.
func (r *Recorder) Draws() int { return r.Count("DrawArrays") }

// Names lists recorded call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Reset drops recorded calls but keeps handles and locations stable.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Location returns the location assigned to name in program p, or -1 if it
// was never resolved.
func (r *Recorder) Location(p gfx.Program, name string) int32 {
	if loc, ok := r.locations[fmt.Sprintf("%d/%s", p, name)]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) location(p gfx.Program, name string) int32 {
	key := fmt.Sprintf("%d/%s", p, name)
	if loc, ok := r.locations[key]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[key] = loc
	return loc
}

func (r *Recorder) CreateBuffer() gfx.Buffer {
	b := gfx.Buffer(r.handle())
	r.record("CreateBuffer", b)
	return b
}

func (r *Recorder) BindArrayBuffer(b gfx.Buffer) { r.record("BindArrayBuffer", b) }

func (r *Recorder) BufferData(data []float32) { r.record("BufferData", len(data)) }

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	r.record("CreateProgram")
	if r.FailCompile {
		return 0, ErrCompile
	}
	p := gfx.Program(r.handle())
	r.Sources[p] = [2]string{vertexSrc, fragmentSrc}
	return p, nil
}

func (r *Recorder) UseProgram(p gfx.Program) { r.record("UseProgram", p) }

func (r *Recorder) AttribLocation(p gfx.Program, name string) int32 {
	return r.location(p, name)
}

func (r *Recorder) UniformLocation(p gfx.Program, name string) int32 {
	return r.location(p, name)
}

func (r *Recorder) VertexAttrib(loc int32, components, stride int32, offset int) {
	r.record("VertexAttrib", loc, components, stride, offset)
}

func (r *Recorder) Uniform1i(loc int32, v int32) {
	r.Uniforms[loc] = v
	r.record("Uniform1i", loc, v)
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	r.Uniforms[loc] = v
	r.record("Uniform1f", loc, v)
}

func (r *Recorder) Uniform3f(loc int32, v mgl32.Vec3) {
	r.Uniforms[loc] = v
	r.record("Uniform3f", loc, v)
}

func (r *Recorder) UniformMatrix4(loc int32, m mgl32.Mat4) {
	r.Uniforms[loc] = m
	r.record("UniformMatrix4", loc, m)
}

func (r *Recorder) CreateTexture2D(unit int, img *image.RGBA) (gfx.Texture, error) {
	t := gfx.Texture(r.handle())
	r.record("CreateTexture2D", unit, t)
	return t, nil
}

func (r *Recorder) CreateCubemap(unit int, faces [6]*image.RGBA) (gfx.Texture, error) {
	for i, f := range faces {
		if f == nil {
			return 0, fmt.Errorf("gfxtest: cubemap face %d missing", i)
		}
	}
	t := gfx.Texture(r.handle())
	r.record("CreateCubemap", unit, t)
	return t, nil
}

func (r *Recorder) BindFramebuffer(fb gfx.Framebuffer) { r.record("BindFramebuffer", fb) }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) { r.record("ClearColor", cr, cg, cb, ca) }

func (r *Recorder) ClearDepth(d float32) { r.record("ClearDepth", d) }

func (r *Recorder) Clear(mask gfx.ClearMask) { r.record("Clear", mask) }

func (r *Recorder) Enable(c gfx.Capability) { r.record("Enable", c) }

func (r *Recorder) Disable(c gfx.Capability) { r.record("Disable", c) }

func (r *Recorder) CullFace(f gfx.Face) { r.record("CullFace", f) }

func (r *Recorder) DrawArrays(mode gfx.Primitive, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}
