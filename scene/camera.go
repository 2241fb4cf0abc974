package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxPitchCos bounds how close the view direction may get to the up vector.
const maxPitchCos = 0.99

// Camera is a first-person perspective camera. Its eye, target and up vectors
// live in the shared Params so lit programs can read them.
type Camera struct {
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	params *Params
	info   func(p *Params)
}

// NewCamera returns a camera that writes its vectors into p. fov is in degrees.
func NewCamera(p *Params, fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		params:      p,
	}
}

// OnInfo registers the callback UpdateInfo reports to.
func (c *Camera) OnInfo(fn func(p *Params)) {
	c.info = fn
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

// LookAt places the camera.
func (c *Camera) LookAt(eye, at, up mgl32.Vec3) {
	c.params.Camera.Eye = eye
	c.params.Camera.At = at
	c.params.Camera.Up = up.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	cp := c.params.Camera
	return mgl32.LookAtV(cp.Eye, cp.At, cp.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Trans is the combined view-projection matrix.
func (c *Camera) Trans() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Forward is the normalised view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.params.Camera.Direction()
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Right is the normalised horizontal strafe direction.
func (c *Camera) Right() mgl32.Vec3 {
	r := c.Forward().Cross(c.params.Camera.Up)
	if r.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return r.Normalize()
}

// Move translates eye and target together by forward units along the view
// direction and right units along the strafe direction.
func (c *Camera) Move(forward, right float32) {
	if forward == 0 && right == 0 {
		return
	}
	delta := c.Forward().Mul(forward).Add(c.Right().Mul(right))
	c.params.Camera.Eye = c.params.Camera.Eye.Add(delta)
	c.params.Camera.At = c.params.Camera.At.Add(delta)
}

// MoveCam turns the view by pitch radians about the right axis and yaw
// radians about the up axis, keeping the target distance. A pitch that
// would align the view with the up vector is dropped.
func (c *Camera) MoveCam(pitch, yaw float32) {
	if pitch == 0 && yaw == 0 {
		return
	}
	cp := &c.params.Camera
	dir := cp.Direction()
	dist := dir.Len()
	if dist == 0 {
		dist = 1
	}
	fwd := c.Forward()

	if yaw != 0 {
		fwd = mgl32.QuatRotate(-yaw, cp.Up).Rotate(fwd)
	}
	if pitch != 0 {
		right := fwd.Cross(cp.Up)
		if right.Len() > 0 {
			turned := mgl32.QuatRotate(pitch, right.Normalize()).Rotate(fwd)
			if float32(math.Abs(float64(turned.Dot(cp.Up)))) < maxPitchCos {
				fwd = turned
			}
		}
	}
	cp.At = cp.Eye.Add(fwd.Normalize().Mul(dist))
}

// UpdateInfo publishes the current camera state and counters.
func (c *Camera) UpdateInfo() {
	if c.info != nil {
		c.info(c.params)
	}
}
