package mesh

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// VertexStride is the number of float32s per vertex written by Interleave:
// position (3), normal (3), RGBA color (4).
const VertexStride = 10

// Interleave unrolls the mesh into a flat vertex buffer, three vertices per
// face. Vertex normals are used when present, otherwise the face normal gives
// flat shading. Uncolored meshes take fallback for every vertex.
func (m *Mesh) Interleave(fallback rl.Color) []float32 {
	buf := make([]float32, 0, len(m.Faces)*3*VertexStride)
	for _, f := range m.Faces {
		for k, idx := range [3]int{f.A, f.B, f.C} {
			p := m.Vertices[idx]
			n := f.Normal
			if m.VertexNormals != nil {
				n = m.VertexNormals[idx]
			}
			c := fallback
			if m.Colored {
				c = f.Colors[k]
			}
			buf = append(buf, p[0], p[1], p[2], n[0], n[1], n[2])
			buf = appendColor(buf, c)
		}
	}
	return buf
}

// Indices returns the face index list as a flat slice.
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		out = append(out, uint32(f.A), uint32(f.B), uint32(f.C))
	}
	return out
}

// Positions returns the vertex positions as a flat slice.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// FaceVertexColors returns RGBA bytes for every face vertex in face order, or
// nil for an uncolored mesh.
func (m *Mesh) FaceVertexColors() []uint8 {
	if !m.Colored {
		return nil
	}
	out := make([]uint8, 0, len(m.Faces)*12)
	for _, f := range m.Faces {
		for _, c := range f.Colors {
			out = append(out, c.R, c.G, c.B, c.A)
		}
	}
	return out
}

func appendColor(buf []float32, c rl.Color) []float32 {
	return append(buf, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}

// Bounds returns the smallest and largest vertex distance from the origin.
func (m *Mesh) Bounds() (inner, outer float32) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	inner = m.Vertices[0].Len()
	outer = inner
	for _, v := range m.Vertices[1:] {
		l := v.Len()
		inner = min(inner, l)
		outer = max(outer, l)
	}
	return inner, outer
}
