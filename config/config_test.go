package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"scene-renderer/scene"
)

const sampleConfig = `{
  "window": {"title": "test", "width": 800, "height": 600},
  "loader": {"workers": 2, "retries": 1, "backoff": "50ms"},
  "skybox": ["px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"],
  "entities": [
    {
      "kind": "mesh",
      "texture": "ground.png",
      "texture_unit": 0,
      "transform": [
        {"type": "translate", "content": [0, -1, 0]},
        {"type": "scale", "content": [20, 0.1, 20]}
      ]
    },
    {
      "kind": "prop",
      "model": "models/bird.obj",
      "texture_unit": 1,
      "transform": [
        {"type": "scale", "content": [1, 1, 1]},
        {"type": "rotate", "content": [0, 0, 1, 0]},
        {"type": "translate", "content": [0, 0, 0]}
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "title", c.Window.Title, "test")
	testutil.AssertEqual(t, "entities", len(c.Entities), 2)
	testutil.AssertEqual(t, "kind", c.Entities[1].Kind, KindProp)
	testutil.AssertEqual(t, "backoff", c.BackoffDuration(), 50*time.Millisecond)
	// Unset sections keep their defaults.
	testutil.AssertEqual(t, "shadow size", c.Light.ShadowSize, 2048)
	testutil.AssertEqual(t, "fov", c.Camera.FOV, float32(60))
}

func TestLoad_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "skybox", c.Skybox[0], filepath.Join(dir, "px.png"))
	testutil.AssertEqual(t, "model", c.Entities[1].Model, filepath.Join(dir, "models", "bird.obj"))
	testutil.AssertEqual(t, "texture", c.Entities[0].Texture, filepath.Join(dir, "ground.png"))
}

func TestLoad_Example(t *testing.T) {
	c, err := Load(filepath.Join("..", "cmd", "demo", "scene.example.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, path := range c.Skybox {
		if _, err := scene.LoadImage(path); err != nil {
			t.Errorf("skybox face %d: %v", i, err)
		}
	}
	for i, e := range c.Entities {
		m, err := e.LoadModel()
		if err != nil {
			t.Errorf("entity %d: %v", i, err)
			continue
		}
		if _, err := scene.LoadImage(m.TexturePath); err != nil {
			t.Errorf("entity %d texture: %v", i, err)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("/nonexistent/scene.json")
	testutil.AssertErrorContains(t, err, "reading config")
}

func TestParse_BadJSON(t *testing.T) {
	_, err := Parse([]byte("{"))
	testutil.AssertErrorContains(t, err, "parsing config")
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Config)
		expErr string
	}{
		"defaults": {
			mutate: func(c *Config) {},
		},
		"five faces": {
			mutate: func(c *Config) { c.Skybox = []string{"a", "b", "c", "d", "e"} },
			expErr: "skybox needs 6 faces",
		},
		"bad backoff": {
			mutate: func(c *Config) { c.Loader.Backoff = "soon" },
			expErr: "parsing backoff",
		},
		"shadow size": {
			mutate: func(c *Config) { c.Light.ShadowSize = 1000 },
			expErr: "power of two",
		},
		"cubemap unit": {
			mutate: func(c *Config) { c.Entities = []EntityConfig{meshEntity(3)} },
			expErr: "reserved for the skybox",
		},
		"shadow unit": {
			mutate: func(c *Config) { c.Entities = []EntityConfig{meshEntity(7)} },
			expErr: "reserved for the shadow map",
		},
		"shared unit": {
			mutate: func(c *Config) { c.Entities = []EntityConfig{meshEntity(2), meshEntity(2)} },
			expErr: "already used by entity 0",
		},
		"prop without rotate": {
			mutate: func(c *Config) {
				e := meshEntity(1)
				e.Kind = KindProp
				c.Entities = []EntityConfig{e}
			},
			expErr: "rotate at step 1",
		},
		"unknown model": {
			mutate: func(c *Config) {
				e := meshEntity(1)
				e.Model = "bird.fbx"
				c.Entities = []EntityConfig{e}
			},
			expErr: "unsupported model format",
		},
		"unknown kind": {
			mutate: func(c *Config) {
				e := meshEntity(1)
				e.Kind = "light"
				c.Entities = []EntityConfig{e}
			},
			expErr: `unknown kind "light"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestValidate_Aggregates(t *testing.T) {
	c := Default()
	c.Window.Width = 0
	c.Loader.Workers = 0

	err := c.Validate()
	testutil.AssertErrorContains(t, err, "window size must be positive")
	testutil.AssertErrorContains(t, err, "loader workers must be positive")
}

func TestApply(t *testing.T) {
	c := Default()
	c.Movement.MoveVelocity = 9
	p := scene.NewParams()

	c.Apply(p)

	testutil.AssertEqual(t, "move velocity", p.MoveVelocity, float32(9))
	testutil.AssertEqual(t, "eye", p.Camera.Eye, c.Camera.Eye)
}

func TestLoadModel_Inline(t *testing.T) {
	e := meshEntity(0)
	e.Geometry = scene.Cube()

	m, err := e.LoadModel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "texture", m.TexturePath, "crate.png")
	testutil.AssertEqual(t, "indices", len(m.Mesh.Index), 36)
}

func meshEntity(unit int) EntityConfig {
	return EntityConfig{
		Kind:        KindMesh,
		Texture:     "crate.png",
		TextureUnit: unit,
		Transform: scene.Transform{
			{Type: scene.StepTranslate, Content: []float32{0, 0, 0}},
		},
	}
}
