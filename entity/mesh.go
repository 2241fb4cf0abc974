package entity

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"scene-renderer/gfx"
	"scene-renderer/internal/logger"
	"scene-renderer/scene"
	"scene-renderer/shader"
)

const meshVertex = `
in vec4 a_Position;
in vec3 a_Normal;
in vec2 a_TexCoord;
uniform mat4 u_Transform;
uniform mat4 u_ModelMat;

out vec2 v_TexCoord;

void main() {
  gl_Position = u_Transform * a_Position;
  v_TexCoord = a_TexCoord;
  init_light(u_ModelMat * a_Position, (u_ModelMat * vec4(a_Normal, 0.0)).xyz);
}
`

const meshFragment = `
uniform sampler2D u_Sampler;
in vec2 v_TexCoord;

void main() {
  calc_light(texture(u_Sampler, v_TexCoord));
}
`

// NewMeshProgram returns the lit program shared by textured meshes.
func NewMeshProgram(dev gfx.Device, params *scene.Params) *shader.Program {
	return shader.New(dev, params, shader.Source{
		Name: "textured-mesh",
		Attribs: []shader.Attrib{
			shader.Float32Attrib("a_Position", 3),
			shader.Float32Attrib("a_Normal", 3),
			shader.Float32Attrib("a_TexCoord", 2),
		},
		Uniforms: []string{"u_Transform", "u_ModelMat", "u_Sampler"},
		Vertex:   meshVertex,
		Fragment: meshFragment,
		Lit:      true,
	})
}

// TexturedMesh is lit geometry sampled from one 2D texture.
type TexturedMesh struct {
	Ready

	// Transform places the mesh in the world. Animations edit its steps.
	Transform scene.Transform

	dev      gfx.Device
	program  *shader.Program
	buffer   gfx.Buffer
	data     []float32
	drawSize int32
	unit     int
}

// NewTexturedMesh interleaves mesh into a vertex buffer. The mesh is not
// drawn until a texture is set.
func NewTexturedMesh(dev gfx.Device, program *shader.Program, mesh *scene.MeshData, transform scene.Transform, unit int) (*TexturedMesh, error) {
	data, size, err := mesh.Interleave()
	if err != nil {
		return nil, fmt.Errorf("mesh geometry: %w", err)
	}
	if err := transform.Validate(); err != nil {
		return nil, fmt.Errorf("mesh transform: %w", err)
	}
	return &TexturedMesh{
		Transform: transform,
		dev:       dev,
		program:   program,
		buffer:    dev.CreateBuffer(),
		data:      data,
		drawSize:  size,
		unit:      unit,
	}, nil
}

// TextureUnit is the unit the mesh texture is bound to.
func (m *TexturedMesh) TextureUnit() int { return m.unit }

// DrawSize is the number of vertices per draw.
func (m *TexturedMesh) DrawSize() int32 { return m.drawSize }

// LoadTexture starts an asynchronous load of path.
func (m *TexturedMesh) LoadTexture(loader ImageLoader, path string) {
	loader.LoadImage(path, func(img *image.RGBA) {
		if err := m.SetTexture(img); err != nil {
			logger.Log.Error("texture upload failed",
				zap.String("path", path),
				zap.Error(err))
		}
	})
}

// SetTexture uploads img and marks the mesh loaded. Must run on the render
// thread.
func (m *TexturedMesh) SetTexture(img *image.RGBA) error {
	if _, err := m.dev.CreateTexture2D(m.unit, img); err != nil {
		return fmt.Errorf("create texture on unit %d: %w", m.unit, err)
	}
	m.markLoaded()
	return nil
}

func (m *TexturedMesh) Prepare() error {
	return m.program.Prepare()
}

func (m *TexturedMesh) Render(transform mgl32.Mat4, shadowPass bool) {
	if !m.Loaded() {
		return
	}
	model := m.Transform.Matrix()
	t := transform.Mul4(model)

	v := shader.VariantFor(shadowPass)
	b := m.program.MustLoad(v)

	m.dev.BindArrayBuffer(m.buffer)
	m.dev.BufferData(m.data)
	b.LoadVaArgs()

	m.dev.Uniform1i(b.Args["u_Sampler"], int32(m.unit))
	m.dev.UniformMatrix4(b.Args["u_Transform"], t)
	m.dev.UniformMatrix4(b.Args["u_ModelMat"], model)

	m.program.LoadLightArgs(v)

	m.dev.CullFace(gfx.FaceFront)
	m.dev.DrawArrays(gfx.TriangleStrip, 0, m.drawSize)
}
