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

const (
	// CubemapUnit is the texture unit the skybox cubemap is bound to.
	CubemapUnit = 3

	skyboxNear = 1.5
	cubeFaces  = 6
)

// skyboxQuad is a full-screen triangle strip in clip space.
var skyboxQuad = []float32{1, 1, 1, -1, -1, 1, -1, -1}

const skyboxVertex = `
in vec2 a_Position;
uniform vec3 u_CameraUp;
uniform vec3 u_CameraDirection;
uniform float u_CameraNear;

out vec3 v_Position;

void main() {
  gl_Position = vec4(a_Position, 0.0, 1.0);
  vec3 right = normalize(cross(u_CameraDirection, u_CameraUp));
  v_Position = a_Position[0] * right + a_Position[1] * u_CameraUp + u_CameraNear * u_CameraDirection;
}
`

const skyboxFragment = `
in vec3 v_Position;
uniform samplerCube u_Cubemap;

void main() {
  vec3 dir = normalize(v_Position);
  fragColor = texture(u_Cubemap, vec3(-1.0, 1.0, -1.0) * dir);
}
`

// NewSkyboxProgram returns the unlit cubemap background program.
func NewSkyboxProgram(dev gfx.Device, params *scene.Params) *shader.Program {
	return shader.New(dev, params, shader.Source{
		Name:     "skybox",
		Attribs:  []shader.Attrib{shader.Float32Attrib("a_Position", 2)},
		Uniforms: []string{"u_CameraUp", "u_CameraDirection", "u_CameraNear", "u_Cubemap"},
		Vertex:   skyboxVertex,
		Fragment: skyboxFragment,
	})
}

// Skybox draws a cubemap behind everything in the visible pass.
type Skybox struct {
	Ready

	dev     gfx.Device
	program *shader.Program
	params  *scene.Params
	buffer  gfx.Buffer
	barrier *Barrier
	faces   [cubeFaces]*image.RGBA
	// received has bit i set once face i has arrived.
	received uint8
}

func NewSkybox(dev gfx.Device, program *shader.Program, params *scene.Params) *Skybox {
	return &Skybox{
		dev:     dev,
		program: program,
		params:  params,
		buffer:  dev.CreateBuffer(),
		barrier: NewBarrier(cubeFaces),
	}
}

// LoadFaces starts asynchronous loads of the six faces, ordered +X -X +Y -Y
// +Z -Z. The cubemap is created once all six have arrived.
func (s *Skybox) LoadFaces(loader ImageLoader, paths [cubeFaces]string) {
	for i, path := range paths {
		loader.LoadImage(path, func(img *image.RGBA) {
			if err := s.SetFace(i, img); err != nil {
				logger.Log.Error("cubemap upload failed",
					zap.String("path", path),
					zap.Error(err))
			}
		})
	}
}

// SetFace stores face i and creates the cubemap once every face has
// arrived. Repeated faces and calls after the cubemap exists are ignored.
// Must run on the render thread.
func (s *Skybox) SetFace(i int, img *image.RGBA) error {
	if i < 0 || i >= cubeFaces {
		return fmt.Errorf("cubemap face %d out of range", i)
	}
	bit := uint8(1) << i
	if s.Loaded() || s.received&bit != 0 {
		return nil
	}
	s.received |= bit
	s.faces[i] = img
	if !s.barrier.Signal() {
		return nil
	}
	if _, err := s.dev.CreateCubemap(CubemapUnit, s.faces); err != nil {
		return fmt.Errorf("create cubemap: %w", err)
	}
	s.faces = [cubeFaces]*image.RGBA{}
	s.markLoaded()
	return nil
}

func (s *Skybox) Prepare() error {
	return s.program.Prepare()
}

func (s *Skybox) Render(_ mgl32.Mat4, shadowPass bool) {
	if !s.Loaded() || shadowPass {
		return
	}
	b := s.program.MustLoad(shader.Normal)

	s.dev.BindArrayBuffer(s.buffer)
	s.dev.BufferData(skyboxQuad)
	b.LoadVaArgs()

	cam := s.params.Camera
	s.dev.Uniform1i(b.Args["u_Cubemap"], CubemapUnit)
	s.dev.Uniform3f(b.Args["u_CameraUp"], cam.Up)
	s.dev.Uniform3f(b.Args["u_CameraDirection"], cam.Direction())
	s.dev.Uniform1f(b.Args["u_CameraNear"], skyboxNear)

	s.dev.Disable(gfx.DepthTest)
	s.dev.Disable(gfx.CullFace)
	s.dev.DrawArrays(gfx.TriangleStrip, 0, 4)
	s.dev.Enable(gfx.DepthTest)
	s.dev.Enable(gfx.CullFace)
}
