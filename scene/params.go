package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraParams are the camera vectors and HUD counters shared with entities.
type CameraParams struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
	Up  mgl32.Vec3
	FPS int
}

// Direction is the unnormalised view direction At - Eye.
func (c CameraParams) Direction() mgl32.Vec3 {
	return c.At.Sub(c.Eye)
}

// FlashLight is a spot light attached to the camera.
type FlashLight struct {
	Enable bool
	// Cutoff is the half-angle of the cone in degrees.
	Cutoff float32
	Color  mgl32.Vec3
}

// SunLight is the directional light that casts shadows.
type SunLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Ambient   mgl32.Vec3
	// Extent is the half-size of the orthographic shadow volume.
	Extent float32
}

// Params is the shared lighting and camera state.
//
// There is one writer per field group: the frame controller writes FPS and
// FlashLight.Enable, the camera writes Eye/At/Up. Entities and shader programs
// only read. Everything runs on the render thread, so no locking is done.
type Params struct {
	Camera     CameraParams
	FlashLight FlashLight
	Sun        SunLight

	// MoveVelocity is in world units per second.
	MoveVelocity float32
	// RotVelocity is in degrees per second.
	RotVelocity float32
}

// NewParams returns parameters with a noon sun and the camera at the origin
// looking down -Z.
func NewParams() *Params {
	return &Params{
		Camera: CameraParams{
			Eye: mgl32.Vec3{0, 0, 0},
			At:  mgl32.Vec3{0, 0, -1},
			Up:  mgl32.Vec3{0, 1, 0},
		},
		FlashLight: FlashLight{
			Cutoff: 15,
			Color:  mgl32.Vec3{1, 1, 0.9},
		},
		Sun: SunLight{
			Direction: mgl32.Vec3{0.5, -1, -0.5}.Normalize(),
			Color:     mgl32.Vec3{1, 1, 1},
			Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
			Extent:    30,
		},
		MoveVelocity: 4,
		RotVelocity:  45,
	}
}

// LightViewProj is the orthographic view-projection of the sun used for both
// writing and sampling the shadow map. The volume is centred on the camera
// target so shadows follow the viewer.
func (p *Params) LightViewProj() mgl32.Mat4 {
	e := p.Sun.Extent
	dir := p.Sun.Direction.Normalize()
	center := p.Camera.At
	eye := center.Sub(dir.Mul(2 * e))

	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, center, up)
	proj := mgl32.Ortho(-e, e, -e, e, 0.1, 4*e)
	return proj.Mul4(view)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
