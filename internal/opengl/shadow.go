package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"scene-renderer/gfx"
)

// ShadowTarget wraps a depth-only framebuffer used for the shadow pass.
// The depth texture stays bound to Unit so lit programs can sample it.
type ShadowTarget struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
	Unit     int
}

// NewShadowTarget creates a depth-only FBO of size×size resolution and binds
// its depth texture to the given texture unit.
// Uses a 32-bit float depth texture with hardware PCF (COMPARE_REF_TO_TEXTURE).
func NewShadowTarget(size, unit int) (*ShadowTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shadow target size must be positive, got %d", size)
	}
	st := &ShadowTarget{Size: int32(size), Unit: unit}

	gl.GenTextures(1, &st.DepthTex)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, st.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Fragments outside the shadow map are lit (border depth = 1.0)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &st.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, st.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, st.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		st.Destroy()
		return nil, fmt.Errorf("shadow FBO incomplete: status=0x%X", status)
	}
	return st, nil
}

// Framebuffer returns the bindable render target.
func (st *ShadowTarget) Framebuffer() gfx.Framebuffer {
	return gfx.Framebuffer(st.FBO)
}

// TextureUnit is the unit the depth texture is bound to.
func (st *ShadowTarget) TextureUnit() int {
	return st.Unit
}

// Rebind resets the target for a new shadow pass. The FBO must already be
// bound. It owns the whole per-pass reset: viewport to the map size, depth
// cleared to 1.0, depth test and face culling on.
func (st *ShadowTarget) Rebind() {
	gl.Viewport(0, 0, st.Size, st.Size)
	gl.ClearDepth(1)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

// Destroy frees GPU resources.
func (st *ShadowTarget) Destroy() {
	if st.FBO != 0 {
		gl.DeleteFramebuffers(1, &st.FBO)
		st.FBO = 0
	}
	if st.DepthTex != 0 {
		gl.DeleteTextures(1, &st.DepthTex)
		st.DepthTex = 0
	}
}
