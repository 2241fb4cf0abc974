package entity

import (
	"fmt"
	"math"

	"scene-renderer/scene"
)

const (
	propTurnRate = 90.0 // degrees per second
	propBobRate  = math.Pi
	propBobLift  = 5.0
)

// AnimatedProp is a textured mesh that spins about its rotate step and bobs
// along the Y of its translate step. Its transform must have a rotate step
// at index 1 and a translate step at index 2.
type AnimatedProp struct {
	*TexturedMesh

	angle float64 // degrees in [0, 360)
	phase float64 // radians in [0, 2π)

	rotate    []float32
	translate []float32
}

func NewAnimatedProp(mesh *TexturedMesh) (*AnimatedProp, error) {
	t := mesh.Transform
	if len(t) < 3 {
		return nil, fmt.Errorf("prop transform needs 3 steps, got %d", len(t))
	}
	if t[1].Type != scene.StepRotate {
		return nil, fmt.Errorf("prop transform step 1 must be rotate, got %s", t[1].Type)
	}
	if t[2].Type != scene.StepTranslate {
		return nil, fmt.Errorf("prop transform step 2 must be translate, got %s", t[2].Type)
	}
	return &AnimatedProp{
		TexturedMesh: mesh,
		rotate:       t[1].Content,
		translate:    t[2].Content,
	}, nil
}

// Angle is the current spin in degrees.
func (p *AnimatedProp) Angle() float64 { return p.angle }

// Phase is the current bob phase in radians.
func (p *AnimatedProp) Phase() float64 { return p.phase }

func (p *AnimatedProp) NextFrame(elapsed float64) {
	p.angle = math.Mod(p.angle+elapsed*propTurnRate, 360)
	p.phase = math.Mod(p.phase+elapsed*propBobRate, 2*math.Pi)
	if p.angle < 0 {
		p.angle += 360
	}
	if p.phase < 0 {
		p.phase += 2 * math.Pi
	}

	p.rotate[0] = float32(p.angle)
	p.translate[1] = float32(math.Sin(p.phase) * propBobLift)
}
