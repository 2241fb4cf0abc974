package opengl

import (
	"fmt"
	"image"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"scene-renderer/gfx"
	"scene-renderer/internal/logger"
)

// Device is the OpenGL 4.1 core implementation of gfx.Device.
// Every method must run on the thread that owns the GL context.
type Device struct {
	// The core profile refuses attribute pointers without a bound VAO, so a
	// single one stays bound for the lifetime of the device.
	vao uint32
}

var _ gfx.Device = (*Device)(nil)

// NewDevice initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return d, nil
}

// Destroy frees the shared vertex array.
func (d *Device) Destroy() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// ── Buffers ───────────────────────────────────────────────────────────────────

func (d *Device) CreateBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

func (d *Device) BindArrayBuffer(b gfx.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

func (d *Device) BufferData(data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

// ── Programs ──────────────────────────────────────────────────────────────────

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	prog, err := newProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	return gfx.Program(prog), nil
}

func (d *Device) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) AttribLocation(p gfx.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(p gfx.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) VertexAttrib(loc int32, components, stride int32, offset int) {
	if loc < 0 {
		return
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), components, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	// mgl32 matrices are column-major, same as GL.
	gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&m[0])))
}

// ── Textures ──────────────────────────────────────────────────────────────────

func (d *Device) CreateTexture2D(unit int, img *image.RGBA) (gfx.Texture, error) {
	id, err := uploadTexture2D(unit, img)
	return gfx.Texture(id), err
}

func (d *Device) CreateCubemap(unit int, faces [6]*image.RGBA) (gfx.Texture, error) {
	id, err := uploadCubemap(unit, faces)
	return gfx.Texture(id), err
}

// ── Render state ──────────────────────────────────────────────────────────────

func (d *Device) BindFramebuffer(fb gfx.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) ClearDepth(v float32) {
	gl.ClearDepth(float64(v))
}

func (d *Device) Clear(mask gfx.ClearMask) {
	var bits uint32
	if mask&gfx.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) Enable(c gfx.Capability) {
	gl.Enable(capability(c))
}

func (d *Device) Disable(c gfx.Capability) {
	gl.Disable(capability(c))
}

func (d *Device) CullFace(f gfx.Face) {
	if f == gfx.FaceFront {
		gl.CullFace(gl.FRONT)
		return
	}
	gl.CullFace(gl.BACK)
}

func (d *Device) DrawArrays(mode gfx.Primitive, first, count int32) {
	primitive := uint32(gl.TRIANGLES)
	if mode == gfx.TriangleStrip {
		primitive = gl.TRIANGLE_STRIP
	}
	gl.DrawArrays(primitive, first, count)
}

func capability(c gfx.Capability) uint32 {
	switch c {
	case gfx.CullFace:
		return gl.CULL_FACE
	default:
		return gl.DEPTH_TEST
	}
}
