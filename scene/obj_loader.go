package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Model is geometry loaded from a model file plus the diffuse texture it
// references, if any.
type Model struct {
	Mesh *MeshData
	// TexturePath is resolved relative to the model file. Empty when the
	// file names no texture.
	TexturePath string
}

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objVertex struct{ v, vt, vn int }

// LoadOBJ parses a Wavefront .obj file into a single mesh. All objects and
// groups are merged. The map_Kd of the first material in a referenced .mtl
// becomes the model texture.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	model, mtllib, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	if mtllib != "" {
		tex, err := loadMTLTexture(filepath.Join(dir, mtllib))
		if err == nil && tex != "" {
			model.TexturePath = filepath.Join(dir, tex)
		}
	}
	return model, nil
}

func parseOBJ(r io.Reader) (*Model, string, error) {
	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	var uvs []mgl32.Vec2
	var faces []objFace
	var mtllib string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseVec3(fields[1:4]))

		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseVec3(fields[1:4]))

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			uvs = append(uvs, mgl32.Vec2{float32(u), float32(v)})

		case "mtllib":
			if len(fields) > 1 && mtllib == "" {
				mtllib = fields[1]
			}

		case "f":
			// Fan-triangulate polygon (handles 3+ vertices)
			if len(fields) < 4 {
				continue
			}
			var fverts []objVertex
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				faces = append(faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("scan obj: %w", err)
	}
	if len(faces) == 0 {
		return nil, "", fmt.Errorf("no geometry found")
	}

	return &Model{Mesh: buildMeshFromOBJ(faces, positions, normals, uvs)}, mtllib, nil
}

func parseVec3(f []string) mgl32.Vec3 {
	x, _ := strconv.ParseFloat(f[0], 32)
	y, _ := strconv.ParseFloat(f[1], 32)
	z, _ := strconv.ParseFloat(f[2], 32)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// Returns 0-based indices (-1 if absent). OBJ is 1-based; negative indices are
// relative to the end of the pool parsed so far.
func parseFaceVertex(tok string, nv, nvt, nvn int) objVertex {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return -1
		case i > 0:
			return i - 1
		case i < 0:
			return n + i
		}
		return -1
	}
	parts := strings.Split(tok, "/")
	res := objVertex{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// buildMeshFromOBJ converts parsed faces into deduplicated indexed data with
// one normal per triangle. Supplied vertex normals are averaged per face;
// faces without them get the geometric normal.
func buildMeshFromOBJ(faces []objFace, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) *MeshData {
	vertMap := map[objVertex]int{}
	m := &MeshData{}

	safePos := func(i int) mgl32.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return mgl32.Vec3{}
	}
	safeUV := func(i int) mgl32.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return mgl32.Vec2{}
	}

	for _, face := range faces {
		var sum mgl32.Vec3
		supplied := 0
		for c := 0; c < 3; c++ {
			k := objVertex{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				p, uv := safePos(k.v), safeUV(k.vt)
				idx = len(m.Vertex) / 3
				m.Vertex = append(m.Vertex, p[0], p[1], p[2])
				m.TexCoord = append(m.TexCoord, uv[0], uv[1])
				vertMap[k] = idx
			}
			m.Index = append(m.Index, idx)
			if k.vn >= 0 && k.vn < len(normals) {
				sum = sum.Add(normals[k.vn])
				supplied++
			}
		}

		var n mgl32.Vec3
		if supplied > 0 && sum.Len() > 0 {
			n = sum.Normalize()
		} else {
			a, b, c := safePos(face.vIdx[0]), safePos(face.vIdx[1]), safePos(face.vIdx[2])
			n = b.Sub(a).Cross(c.Sub(a))
			if n.Len() > 0 {
				n = n.Normalize()
			}
		}
		m.Normal = append(m.Normal, n[0], n[1], n[2])
	}
	return m
}

// loadMTLTexture returns the first map_Kd named in the .mtl file.
func loadMTLTexture(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "map_Kd" {
			return fields[len(fields)-1], nil
		}
	}
	return "", scanner.Err()
}
