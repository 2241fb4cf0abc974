// Package entity holds the drawable values the frame controller iterates:
// a textured lit mesh, the skybox and an animated prop.
package entity

import (
	"image"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Entity draws itself once per pass. transform is the camera view-projection.
type Entity interface {
	Render(transform mgl32.Mat4, shadowPass bool)
}

// Animator is implemented by entities that change every frame. elapsed is in
// seconds.
type Animator interface {
	NextFrame(elapsed float64)
}

// Preparer is implemented by entities with GPU programs to build before the
// first frame.
type Preparer interface {
	Prepare() error
}

// ImageLoader decodes images off the render thread and calls done on the
// render thread. done is not called when the image cannot be loaded.
type ImageLoader interface {
	LoadImage(path string, done func(img *image.RGBA))
}

// Ready is a set-once load flag. The zero value is not loaded.
type Ready struct {
	loaded atomic.Bool
}

// Loaded reports whether the entity's resources are on the GPU.
func (r *Ready) Loaded() bool {
	return r.loaded.Load()
}

func (r *Ready) markLoaded() {
	r.loaded.Store(true)
}
