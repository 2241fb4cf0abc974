// Package renderer drives the frame loop: it turns key state into camera
// motion, animates entities and issues the shadow and visible passes.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"scene-renderer/entity"
	"scene-renderer/gfx"
	"scene-renderer/internal/logger"
	"scene-renderer/scene"
)

var (
	ErrAlreadyRunning = errors.New("renderer: animation already running")
	ErrNoCamera       = errors.New("renderer: no camera set")
)

// Camera is the view the controller moves and renders through.
type Camera interface {
	// Trans is the view-projection matrix.
	Trans() mgl32.Mat4
	Move(forward, right float32)
	// MoveCam turns the view; angles are in radians.
	MoveCam(pitch, yaw float32)
	UpdateInfo()
}

// ShadowTarget is the off-screen depth target of the shadow pass.
type ShadowTarget interface {
	Framebuffer() gfx.Framebuffer
	// Rebind prepares the bound target for drawing: viewport, depth clear
	// and depth/cull state.
	Rebind()
}

// FrameHost calls frame once per display refresh with a timestamp in
// milliseconds until ctx ends or the host closes. Calls never overlap.
type FrameHost interface {
	Run(ctx context.Context, frame func(ms float64)) error
}

// Controller owns the entity list and the per-frame clock.
type Controller struct {
	dev    gfx.Device
	shadow ShadowTarget
	params *scene.Params
	camera Camera

	keyMap   KeyMap
	keys     KeyState
	entities []entity.Entity

	lastTimestamp float64
	fpsTime       int64
	fpsCount      int

	width, height int32

	running atomic.Bool
}

func NewController(dev gfx.Device, shadow ShadowTarget, params *scene.Params) *Controller {
	return &Controller{
		dev:    dev,
		shadow: shadow,
		params: params,
		keyMap: DefaultKeyMap(),
		keys:   newKeyState(),
	}
}

func (c *Controller) SetCamera(cam Camera) {
	c.camera = cam
}

func (c *Controller) SetKeyMap(m KeyMap) {
	c.keyMap = m
}

// AddEntity appends e; entities draw in insertion order.
func (c *Controller) AddEntity(e entity.Entity) {
	c.entities = append(c.entities, e)
}

func (c *Controller) Entities() []entity.Entity {
	return c.entities
}

// HandleKey records a key press or release. Unbound keys are ignored.
func (c *Controller) HandleKey(key int, pressed bool) {
	a, ok := c.keyMap[key]
	if !ok {
		return
	}
	if pressed {
		c.keys[a] = 1
	} else {
		c.keys[a] = 0
	}
}

// Key returns the state of action a.
func (c *Controller) Key(a Action) int {
	return c.keys[a]
}

// SetViewport sets the size of the visible target.
func (c *Controller) SetViewport(width, height int) {
	c.width, c.height = int32(width), int32(height)
}

// Animate runs one tick at timestamp ms. Without a camera it does nothing.
func (c *Controller) Animate(timestamp float64) {
	if c.camera == nil {
		return
	}
	c.updateFPS(timestamp)

	elapsed := (timestamp - c.lastTimestamp) / 1000
	c.lastTimestamp = timestamp

	move := c.params.MoveVelocity * float32(elapsed)
	turn := c.params.RotVelocity * float32(elapsed) * math.Pi / 180
	c.camera.Move(
		c.keys.axis(ActionUp, ActionDown)*move,
		c.keys.axis(ActionRight, ActionLeft)*move,
	)
	c.camera.MoveCam(
		c.keys.axis(ActionUpCam, ActionDownCam)*turn,
		c.keys.axis(ActionRightCam, ActionLeftCam)*turn,
	)
	c.params.FlashLight.Enable = c.keys[ActionFlashLight] != 0

	for _, e := range c.entities {
		if a, ok := e.(entity.Animator); ok {
			a.NextFrame(elapsed)
		}
	}

	c.render()
}

func (c *Controller) updateFPS(timestamp float64) {
	t := int64(math.Floor(timestamp / 1000))
	if t != c.fpsTime {
		c.params.Camera.FPS = c.fpsCount
		c.camera.UpdateInfo()
		c.fpsCount = 0
		c.fpsTime = t
	}
	c.fpsCount++
}

func (c *Controller) render() {
	t := c.camera.Trans()

	c.dev.BindFramebuffer(c.shadow.Framebuffer())
	c.shadow.Rebind()
	for _, e := range c.entities {
		e.Render(t, true)
	}

	c.dev.BindFramebuffer(gfx.DefaultFramebuffer)
	c.dev.Viewport(0, 0, c.width, c.height)
	c.clear()
	for _, e := range c.entities {
		e.Render(t, false)
	}
}

func (c *Controller) clear() {
	c.dev.ClearColor(0, 0, 0, 1)
	c.dev.ClearDepth(1)
	c.dev.Clear(gfx.ColorBuffer | gfx.DepthBuffer)
	c.dev.Enable(gfx.DepthTest)
	c.dev.Enable(gfx.CullFace)
}

// StartAnimation builds every entity's programs and hands the tick to host.
// It may only succeed once; a failed preparation leaves the controller idle.
func (c *Controller) StartAnimation(ctx context.Context, host FrameHost) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if c.camera == nil {
		c.running.Store(false)
		return ErrNoCamera
	}

	for i, e := range c.entities {
		p, ok := e.(entity.Preparer)
		if !ok {
			continue
		}
		if err := p.Prepare(); err != nil {
			c.running.Store(false)
			return fmt.Errorf("preparing entity %d: %w", i, err)
		}
	}

	logger.Log.Info("animation started",
		zap.Int("entities", len(c.entities)),
		zap.Int32("width", c.width),
		zap.Int32("height", c.height))

	return host.Run(ctx, c.Animate)
}
