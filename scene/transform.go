package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// StepKind names one transform operation.
type StepKind string

const (
	StepTranslate StepKind = "translate"
	// StepRotate content is [angleDegrees, axisX, axisY, axisZ].
	StepRotate StepKind = "rotate"
	StepScale  StepKind = "scale"
)

// TransformStep is one operation of a local transform. Content is mutable so
// animations can drive it in place.
type TransformStep struct {
	Type    StepKind  `json:"type"`
	Content []float32 `json:"content"`
}

// Transform is an ordered list of steps, applied left to right the way
// chained matrix calls compose: M = S0 * S1 * ... * Sn.
type Transform []TransformStep

// NewTransform builds the common translate-then-scale transform.
func NewTransform(translate, scale mgl32.Vec3) Transform {
	return Transform{
		{Type: StepTranslate, Content: []float32{translate[0], translate[1], translate[2]}},
		{Type: StepScale, Content: []float32{scale[0], scale[1], scale[2]}},
	}
}

// Validate checks that every step has the number of components its kind needs.
func (t Transform) Validate() error {
	for i, s := range t {
		want := 3
		switch s.Type {
		case StepTranslate, StepScale:
		case StepRotate:
			want = 4
		default:
			return fmt.Errorf("step %d: unknown transform type %q", i, s.Type)
		}
		if len(s.Content) != want {
			return fmt.Errorf("step %d: %s needs %d values, got %d", i, s.Type, want, len(s.Content))
		}
	}
	return nil
}

// Clone deep-copies the steps.
func (t Transform) Clone() Transform {
	out := make(Transform, len(t))
	for i, s := range t {
		out[i] = TransformStep{Type: s.Type, Content: append([]float32(nil), s.Content...)}
	}
	return out
}

// Matrix composes the steps. Malformed steps are skipped.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, s := range t {
		c := s.Content
		switch s.Type {
		case StepTranslate:
			if len(c) >= 3 {
				m = m.Mul4(mgl32.Translate3D(c[0], c[1], c[2]))
			}
		case StepScale:
			if len(c) >= 3 {
				m = m.Mul4(mgl32.Scale3D(c[0], c[1], c[2]))
			}
		case StepRotate:
			if len(c) >= 4 {
				axis := mgl32.Vec3{c[1], c[2], c[3]}
				if axis.Len() == 0 {
					continue
				}
				m = m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(c[0]), axis.Normalize()))
			}
		}
	}
	return m
}
