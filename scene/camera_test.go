package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() (*Camera, *Params) {
	p := NewParams()
	c := NewCamera(p, 60, 1, 0.1, 100)
	c.LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return c, p
}

// near reports whether a and b are within 1e-5 of each other.
func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-5
}

func TestCameraMove(t *testing.T) {
	c, p := newTestCamera()

	c.Move(2, 0)
	expected := mgl32.Vec3{0, 0, -2}
	if !near(p.Camera.Eye, expected) {
		t.Errorf("Move forward: expected eye %v, got %v", expected, p.Camera.Eye)
	}
	if !near(p.Camera.At, mgl32.Vec3{0, 0, -3}) {
		t.Errorf("Move forward: target did not follow, got %v", p.Camera.At)
	}

	c.Move(0, 1)
	expected = mgl32.Vec3{1, 0, -2}
	if !near(p.Camera.Eye, expected) {
		t.Errorf("Move right: expected eye %v, got %v", expected, p.Camera.Eye)
	}
}

func TestCameraMoveCam(t *testing.T) {
	c, p := newTestCamera()

	c.MoveCam(0, math.Pi/2)
	dir := p.Camera.Direction()
	if !near(dir, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("MoveCam yaw: expected direction +X, got %v", dir)
	}

	c.MoveCam(0.3, 0)
	if p.Camera.Direction()[1] <= 0 {
		t.Errorf("MoveCam pitch: expected to look up, got %v", p.Camera.Direction())
	}
	if d := p.Camera.Direction().Len(); math.Abs(float64(d-1)) > 1e-5 {
		t.Errorf("MoveCam: expected target distance 1, got %v", d)
	}
}

func TestCameraMoveCam_PitchClamp(t *testing.T) {
	c, p := newTestCamera()

	c.MoveCam(math.Pi/2, 0)
	if math.Abs(float64(p.Camera.Direction().Normalize().Dot(p.Camera.Up))) >= maxPitchCos {
		t.Errorf("MoveCam: view aligned with up vector: %v", p.Camera.Direction())
	}
}

func TestCameraUpdateInfo(t *testing.T) {
	c, p := newTestCamera()
	p.Camera.FPS = 42

	var got int
	c.OnInfo(func(p *Params) { got = p.Camera.FPS })
	c.UpdateInfo()
	if got != 42 {
		t.Errorf("UpdateInfo: expected 42, got %v", got)
	}
}

func TestCameraTrans(t *testing.T) {
	c, _ := newTestCamera()

	// A point straight ahead projects to the centre of clip space.
	clip := c.Trans().Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	ndc := clip.Vec3().Mul(1 / clip[3])
	if math.Abs(float64(ndc[0])) > 1e-5 || math.Abs(float64(ndc[1])) > 1e-5 {
		t.Errorf("Trans: expected centre, got %v", ndc)
	}
	if ndc[2] <= -1 || ndc[2] >= 1 {
		t.Errorf("Trans: depth outside clip range: %v", ndc[2])
	}
}
