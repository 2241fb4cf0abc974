package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is indexed geometry as loaded from disk or config. Normal holds one
// normal per triangle, stored at the triangle's first index position: the
// normal used for index position x starts at Normal[x - x%3].
type MeshData struct {
	Vertex   []float32 `json:"vertex"`
	Normal   []float32 `json:"normal"`
	TexCoord []float32 `json:"tex_coord"`
	Index    []int     `json:"index"`
}

// FloatsPerVertex is the interleaved layout size: pos3 normal3 uv2.
const FloatsPerVertex = 8

// Validate checks that every index and normal reference is in range.
func (m *MeshData) Validate() error {
	if len(m.Index) == 0 {
		return fmt.Errorf("mesh has no indices")
	}
	if len(m.Vertex)%3 != 0 {
		return fmt.Errorf("vertex array length %d is not a multiple of 3", len(m.Vertex))
	}
	for x, idx := range m.Index {
		if idx < 0 || idx*3+3 > len(m.Vertex) {
			return fmt.Errorf("index %d at %d: vertex out of range", idx, x)
		}
		if idx*2+2 > len(m.TexCoord) {
			return fmt.Errorf("index %d at %d: tex coord out of range", idx, x)
		}
		if n := x - x%3; n+3 > len(m.Normal) {
			return fmt.Errorf("position %d: normal out of range", x)
		}
	}
	return nil
}

// Interleave expands the indexed data into a flat pos3 normal3 uv2 stream,
// one vertex per index. The returned draw size is len(Index).
func (m *MeshData) Interleave() ([]float32, int32, error) {
	if err := m.Validate(); err != nil {
		return nil, 0, err
	}
	out := make([]float32, 0, len(m.Index)*FloatsPerVertex)
	for x, idx := range m.Index {
		n := x - x%3
		out = append(out, m.Vertex[idx*3:idx*3+3]...)
		out = append(out, m.Normal[n:n+3]...)
		out = append(out, m.TexCoord[idx*2:idx*2+2]...)
	}
	return out, int32(len(m.Index)), nil
}

// FaceNormals returns one normal per triangle, laid out in the Normal
// convention above.
func FaceNormals(vertex []float32, index []int) []float32 {
	normal := make([]float32, len(index))
	for x := 0; x+2 < len(index); x += 3 {
		a := vec3At(vertex, index[x])
		b := vec3At(vertex, index[x+1])
		c := vec3At(vertex, index[x+2])
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		copy(normal[x:x+3], n[:])
	}
	return normal
}

// Cube returns a unit cube centred on the origin, used when an entity names
// no geometry.
func Cube() *MeshData {
	// 8 corners duplicated per face so each face has its own UVs.
	faces := [6][4][3]float32{
		{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
		{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}},
		{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},
		{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
		{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},
		{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}},
	}
	uv := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &MeshData{}
	for f, quad := range faces {
		base := f * 4
		for i, p := range quad {
			m.Vertex = append(m.Vertex, p[0]*0.5, p[1]*0.5, p[2]*0.5)
			m.TexCoord = append(m.TexCoord, uv[i][0], uv[i][1])
		}
		m.Index = append(m.Index, base, base+1, base+2, base, base+2, base+3)
	}
	m.Normal = FaceNormals(m.Vertex, m.Index)
	return m
}

func vec3At(v []float32, idx int) mgl32.Vec3 {
	if idx < 0 || idx*3+3 > len(v) {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{v[idx*3], v[idx*3+1], v[idx*3+2]}
}
