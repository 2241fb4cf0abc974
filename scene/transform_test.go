package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pixil98/go-testutil"
)

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		{Type: StepTranslate, Content: []float32{1, 2, 3}},
		{Type: StepRotate, Content: []float32{90, 0, 1, 0}},
		{Type: StepScale, Content: []float32{2, 2, 2}},
	}

	// Scale first, then rotate, then translate.
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	expected := mgl32.Vec3{1, 2, 1}
	if !near(p, expected) {
		t.Errorf("Matrix: expected %v, got %v", expected, p)
	}
}

func TestTransformMatrix_Empty(t *testing.T) {
	if m := (Transform{}).Matrix(); m != mgl32.Ident4() {
		t.Errorf("Matrix: expected identity, got %v", m)
	}
}

func TestTransformValidate(t *testing.T) {
	tests := map[string]struct {
		tr     Transform
		expErr string
	}{
		"valid": {
			tr: NewTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}),
		},
		"short rotate": {
			tr:     Transform{{Type: StepRotate, Content: []float32{1, 0, 1}}},
			expErr: "rotate needs 4 values",
		},
		"unknown": {
			tr:     Transform{{Type: "shear", Content: []float32{1, 2, 3}}},
			expErr: "unknown transform type",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.tr.Validate()
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

func TestTransformClone(t *testing.T) {
	tr := NewTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})
	c := tr.Clone()
	c[0].Content[1] = 9
	testutil.AssertEqual(t, "original", tr[0].Content[1], float32(2))
}
