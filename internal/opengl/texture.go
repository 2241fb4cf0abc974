package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// uploadTexture2D uploads img to a new mipmapped texture left bound on unit.
// Call this from the GL thread.
func uploadTexture2D(unit int, img *image.RGBA) (uint32, error) {
	if img == nil {
		return 0, fmt.Errorf("nil texture image")
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("texture has no pixel data")
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	return id, nil
}

// uploadCubemap builds a cube map from six square faces ordered
// +X, -X, +Y, -Y, +Z, -Z and leaves it bound on unit.
func uploadCubemap(unit int, faces [6]*image.RGBA) (uint32, error) {
	size := 0
	for i, f := range faces {
		if f == nil {
			return 0, fmt.Errorf("cubemap face %d missing", i)
		}
		w, h := f.Rect.Dx(), f.Rect.Dy()
		if w != h {
			return 0, fmt.Errorf("cubemap face %d is %dx%d, faces must be square", i, w, h)
		}
		if i == 0 {
			size = w
		} else if w != size {
			return 0, fmt.Errorf("cubemap face %d is %d wide, expected %d", i, w, size)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, f := range faces {
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(f.Stride/4))
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	return id, nil
}
