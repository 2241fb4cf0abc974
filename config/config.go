// Package config loads the scene description the demo renders.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pixil98/go-errors"

	"scene-renderer/entity"
	"scene-renderer/scene"
	"scene-renderer/shader"
)

const maxTextureUnits = 16

type Config struct {
	Window   WindowConfig   `json:"window"`
	Camera   CameraConfig   `json:"camera"`
	Movement MovementConfig `json:"movement"`
	Light    LightConfig    `json:"light"`
	Loader   LoaderConfig   `json:"loader"`
	// Skybox lists the cubemap faces +X -X +Y -Y +Z -Z. Empty disables the
	// skybox.
	Skybox   []string       `json:"skybox"`
	Entities []EntityConfig `json:"entities"`
}

type WindowConfig struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	VSync  bool   `json:"vsync"`
}

type CameraConfig struct {
	Eye  mgl32.Vec3 `json:"eye"`
	At   mgl32.Vec3 `json:"at"`
	Up   mgl32.Vec3 `json:"up"`
	FOV  float32    `json:"fov"`
	Near float32    `json:"near"`
	Far  float32    `json:"far"`
}

type MovementConfig struct {
	MoveVelocity float32 `json:"move_velocity"`
	RotVelocity  float32 `json:"rot_velocity"`
}

type LightConfig struct {
	SunDirection     mgl32.Vec3 `json:"sun_direction"`
	SunColor         mgl32.Vec3 `json:"sun_color"`
	Ambient          mgl32.Vec3 `json:"ambient"`
	ShadowSize       int        `json:"shadow_size"`
	ShadowExtent     float32    `json:"shadow_extent"`
	FlashlightCutoff float32    `json:"flashlight_cutoff"`
}

type LoaderConfig struct {
	Workers int    `json:"workers"`
	Retries int    `json:"retries"`
	Backoff string `json:"backoff"`
}

// Default returns the configuration used for any field the file leaves out.
func Default() *Config {
	p := scene.NewParams()
	return &Config{
		Window: WindowConfig{Title: "scene-renderer", Width: 1280, Height: 720, VSync: true},
		Camera: CameraConfig{
			Eye: mgl32.Vec3{0, 2, 10}, At: mgl32.Vec3{0, 2, 9}, Up: mgl32.Vec3{0, 1, 0},
			FOV: 60, Near: 0.1, Far: 500,
		},
		Movement: MovementConfig{MoveVelocity: p.MoveVelocity, RotVelocity: p.RotVelocity},
		Light: LightConfig{
			SunDirection:     p.Sun.Direction,
			SunColor:         p.Sun.Color,
			Ambient:          p.Sun.Ambient,
			ShadowSize:       2048,
			ShadowExtent:     p.Sun.Extent,
			FlashlightCutoff: p.FlashLight.Cutoff,
		},
		Loader: LoaderConfig{Workers: 4, Retries: 2, Backoff: "200ms"},
	}
}

// Load reads a JSON config over the defaults, validates it and resolves
// asset paths relative to the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.resolvePaths(filepath.Dir(path))
	return c, nil
}

// Parse decodes and validates a config document.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Window.validate())
	el.Add(c.Camera.validate())
	el.Add(c.Light.validate())
	el.Add(c.Loader.validate())

	if c.Movement.MoveVelocity < 0 || c.Movement.RotVelocity < 0 {
		el.Add(fmt.Errorf("movement velocities must not be negative"))
	}
	if n := len(c.Skybox); n != 0 && n != 6 {
		el.Add(fmt.Errorf("skybox needs 6 faces, got %d", n))
	}

	units := map[int]int{}
	for i, e := range c.Entities {
		if err := e.validate(); err != nil {
			el.Add(fmt.Errorf("entity %d: %w", i, err))
			continue
		}
		if prev, ok := units[e.TextureUnit]; ok {
			el.Add(fmt.Errorf("entity %d: texture_unit %d already used by entity %d", i, e.TextureUnit, prev))
		}
		units[e.TextureUnit] = i
	}

	return el.Err()
}

// BackoffDuration is the parsed loader backoff.
func (c *Config) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Loader.Backoff)
	return d
}

// Apply copies camera, movement and light settings into p.
func (c *Config) Apply(p *scene.Params) {
	p.Camera.Eye = c.Camera.Eye
	p.Camera.At = c.Camera.At
	p.Camera.Up = c.Camera.Up.Normalize()
	p.MoveVelocity = c.Movement.MoveVelocity
	p.RotVelocity = c.Movement.RotVelocity
	p.Sun.Direction = c.Light.SunDirection.Normalize()
	p.Sun.Color = c.Light.SunColor
	p.Sun.Ambient = c.Light.Ambient
	p.Sun.Extent = c.Light.ShadowExtent
	p.FlashLight.Cutoff = c.Light.FlashlightCutoff
}

func (c *Config) resolvePaths(dir string) {
	for i := range c.Skybox {
		c.Skybox[i] = resolve(dir, c.Skybox[i])
	}
	for i := range c.Entities {
		c.Entities[i].Model = resolve(dir, c.Entities[i].Model)
		c.Entities[i].Texture = resolve(dir, c.Entities[i].Texture)
	}
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (w *WindowConfig) validate() error {
	el := errors.NewErrorList()
	if w.Width <= 0 || w.Height <= 0 {
		el.Add(fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height))
	}
	return el.Err()
}

func (c *CameraConfig) validate() error {
	el := errors.NewErrorList()
	if c.FOV <= 0 || c.FOV >= 180 {
		el.Add(fmt.Errorf("camera fov must be in (0, 180), got %v", c.FOV))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		el.Add(fmt.Errorf("camera planes must satisfy 0 < near < far"))
	}
	if c.At.Sub(c.Eye).Len() == 0 {
		el.Add(fmt.Errorf("camera eye and at must differ"))
	}
	if c.Up.Len() == 0 {
		el.Add(fmt.Errorf("camera up must be non-zero"))
	}
	return el.Err()
}

func (l *LightConfig) validate() error {
	el := errors.NewErrorList()
	if l.ShadowSize <= 0 || l.ShadowSize&(l.ShadowSize-1) != 0 {
		el.Add(fmt.Errorf("shadow_size must be a power of two, got %d", l.ShadowSize))
	}
	if l.ShadowExtent <= 0 {
		el.Add(fmt.Errorf("shadow_extent must be positive"))
	}
	if l.SunDirection.Len() == 0 {
		el.Add(fmt.Errorf("sun_direction must be non-zero"))
	}
	if l.FlashlightCutoff <= 0 || l.FlashlightCutoff >= 90 {
		el.Add(fmt.Errorf("flashlight_cutoff must be in (0, 90), got %v", l.FlashlightCutoff))
	}
	return el.Err()
}

func (l *LoaderConfig) validate() error {
	el := errors.NewErrorList()
	if l.Workers <= 0 {
		el.Add(fmt.Errorf("loader workers must be positive"))
	}
	if l.Retries < 0 {
		el.Add(fmt.Errorf("loader retries must not be negative"))
	}
	if _, err := time.ParseDuration(l.Backoff); err != nil {
		el.Add(fmt.Errorf("parsing backoff: %w", err))
	}
	return el.Err()
}

// EntityKind selects which entity an EntityConfig builds.
type EntityKind string

const (
	KindMesh EntityKind = "mesh"
	KindProp EntityKind = "prop"
)

type EntityConfig struct {
	Kind EntityKind `json:"kind"`
	// Model is an .obj, .gltf or .glb file. Geometry is used when Model is
	// empty; a unit cube when both are.
	Model       string          `json:"model"`
	Geometry    *scene.MeshData `json:"geometry"`
	Texture     string          `json:"texture"`
	TextureUnit int             `json:"texture_unit"`
	Transform   scene.Transform `json:"transform"`
}

func (e *EntityConfig) validate() error {
	el := errors.NewErrorList()

	switch e.Kind {
	case KindMesh:
	case KindProp:
		t := e.Transform
		if len(t) < 3 || t[1].Type != scene.StepRotate || t[2].Type != scene.StepTranslate {
			el.Add(fmt.Errorf("prop transform needs rotate at step 1 and translate at step 2"))
		}
	default:
		el.Add(fmt.Errorf("unknown kind %q", e.Kind))
	}

	if e.Model != "" {
		if e.Geometry != nil {
			el.Add(fmt.Errorf("model and geometry are mutually exclusive"))
		}
		switch strings.ToLower(filepath.Ext(e.Model)) {
		case ".obj", ".gltf", ".glb":
		default:
			el.Add(fmt.Errorf("unsupported model format %q", filepath.Ext(e.Model)))
		}
	} else if e.Texture == "" {
		el.Add(fmt.Errorf("texture is required without a model"))
	}
	if e.Geometry != nil {
		el.Add(e.Geometry.Validate())
	}

	switch {
	case e.TextureUnit < 0 || e.TextureUnit >= maxTextureUnits:
		el.Add(fmt.Errorf("texture_unit must be in [0, %d), got %d", maxTextureUnits, e.TextureUnit))
	case e.TextureUnit == entity.CubemapUnit:
		el.Add(fmt.Errorf("texture_unit %d is reserved for the skybox", e.TextureUnit))
	case e.TextureUnit == shader.DefaultShadowUnit:
		el.Add(fmt.Errorf("texture_unit %d is reserved for the shadow map", e.TextureUnit))
	}

	el.Add(e.Transform.Validate())
	return el.Err()
}

// LoadModel reads the entity's geometry. The model texture is used when the
// entity names none.
func (e *EntityConfig) LoadModel() (*scene.Model, error) {
	var m *scene.Model
	var err error
	switch {
	case e.Model == "" && e.Geometry != nil:
		m = &scene.Model{Mesh: e.Geometry}
	case e.Model == "":
		m = &scene.Model{Mesh: scene.Cube()}
	case strings.EqualFold(filepath.Ext(e.Model), ".obj"):
		m, err = scene.LoadOBJ(e.Model)
	default:
		m, err = scene.LoadGLTF(e.Model)
	}
	if err != nil {
		return nil, err
	}
	if e.Texture != "" {
		m.TexturePath = e.Texture
	}
	if m.TexturePath == "" {
		return nil, fmt.Errorf("model %q names no texture", e.Model)
	}
	return m, nil
}
