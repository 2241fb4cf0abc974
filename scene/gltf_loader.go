package scene

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF opens a .glb or .gltf file and merges every triangle primitive of
// every mesh into one model. Node transforms are not applied; the entity
// transform places the model. The base-colour texture of the first material
// that references an external image becomes the model texture.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	out := &MeshData{}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendGLTFPrimitive(doc, prim, out); err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
		}
	}
	if len(out.Index) == 0 {
		return nil, fmt.Errorf("no triangle geometry found in %q", path)
	}
	out.Normal = FaceNormals(out.Vertex, out.Index)

	tex, err := gltfTexturePath(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return &Model{Mesh: out, TexturePath: tex}, nil
}

func gltfAccessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

// appendGLTFPrimitive adds one primitive to m, rebasing its indices.
func appendGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, m *MeshData) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	acc, err := gltfAccessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acc, err := gltfAccessor(doc, idx)
		if err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
		uvs, err = modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	base := len(m.Vertex) / 3
	for i, p := range positions {
		m.Vertex = append(m.Vertex, p[0], p[1], p[2])
		if i < len(uvs) {
			m.TexCoord = append(m.TexCoord, uvs[i][0], uvs[i][1])
		} else {
			m.TexCoord = append(m.TexCoord, 0, 0)
		}
	}

	if prim.Indices == nil {
		for i := range positions {
			m.Index = append(m.Index, base+i)
		}
		return nil
	}
	acc, err = gltfAccessor(doc, *prim.Indices)
	if err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	indices, err := modeler.ReadIndices(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	for _, i := range indices {
		m.Index = append(m.Index, base+int(i))
	}
	return nil
}

// gltfTexturePath returns the external base-colour image of the first material
// that has one, or "" when none does.
func gltfTexturePath(doc *gltf.Document, dir string) (string, error) {
	for _, gm := range doc.Materials {
		pbr := gm.PBRMetallicRoughness
		if pbr == nil || pbr.BaseColorTexture == nil {
			continue
		}
		idx := pbr.BaseColorTexture.Index
		if idx < 0 || idx >= len(doc.Textures) {
			return "", fmt.Errorf("texture %d out of range", idx)
		}
		src := doc.Textures[idx].Source
		if src == nil {
			continue
		}
		if *src < 0 || *src >= len(doc.Images) {
			return "", fmt.Errorf("texture %d: image %d out of range", idx, *src)
		}
		img := doc.Images[*src]
		if img.URI != "" && !img.IsEmbeddedResource() && img.BufferView == nil {
			return filepath.Join(dir, img.URI), nil
		}
	}
	return "", nil
}
