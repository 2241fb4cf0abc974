package scene

import (
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{
			Attributes: gltf.PrimitiveAttributes{"POSITION": pos},
			Indices:    gltf.Index(idx),
		}},
	}}
	return doc
}

func withBaseColor(doc *gltf.Document, texture int) {
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: texture},
		},
	}}
}

func TestLoadGLTF(t *testing.T) {
	doc := triangleDoc()
	withBaseColor(doc, 0)
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Images = []*gltf.Image{{URI: "bird.png"}}

	dir := t.TempDir()
	path := filepath.Join(dir, "bird.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "indices", m.Mesh.Index, []int{0, 1, 2})
	testutil.AssertEqual(t, "normal floats", len(m.Mesh.Normal), 3)
	testutil.AssertEqual(t, "texture", m.TexturePath, filepath.Join(dir, "bird.png"))
}

func TestGLTFTexturePath_OutOfRange(t *testing.T) {
	tests := map[string]struct {
		texture int
		source  int
		expErr  string
	}{
		"texture": {texture: 3, source: 0, expErr: "texture 3 out of range"},
		"image":   {texture: 0, source: 4, expErr: "texture 0: image 4 out of range"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := triangleDoc()
			withBaseColor(doc, tt.texture)
			doc.Textures = []*gltf.Texture{{Source: gltf.Index(tt.source)}}
			doc.Images = []*gltf.Image{{URI: "bird.png"}}

			_, err := gltfTexturePath(doc, "")
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestAppendGLTFPrimitive_BadAccessor(t *testing.T) {
	tests := map[string]struct {
		prim   *gltf.Primitive
		expErr string
	}{
		"position": {
			prim:   &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{"POSITION": 9}},
			expErr: "positions: accessor 9 out of range",
		},
		"texcoord": {
			prim:   &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{"POSITION": 0, "TEXCOORD_0": 7}},
			expErr: "texcoords: accessor 7 out of range",
		},
		"indices": {
			prim:   &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{"POSITION": 0}, Indices: gltf.Index(-1)},
			expErr: "indices: accessor -1 out of range",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := appendGLTFPrimitive(triangleDoc(), tt.prim, &MeshData{})
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}
