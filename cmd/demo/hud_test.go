package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pixil98/go-testutil"

	"scene-renderer/scene"
)

func TestHUDText(t *testing.T) {
	h := newHUD(nil, "demo")
	p := scene.NewParams()
	p.Camera.FPS = 59
	p.Camera.Eye = mgl32.Vec3{1, 2.3, -3}

	testutil.AssertEqual(t, "text", h.text(p), "demo | 59 fps | eye 1.0 2.3 -3.0")

	p.FlashLight.Enable = true
	testutil.AssertEqual(t, "text with flashlight", h.text(p), "demo | 59 fps | eye 1.0 2.3 -3.0 | flashlight")
}
