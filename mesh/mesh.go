// Package mesh turns a generated globe into renderable triangle meshes: the
// elevation-displaced, colored land surface and the flat ocean shell under it.
package mesh

import (
	"log"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"planetviewer/core"
)

// MinElevationFactor keeps the land surface off the ocean shell. Without it low
// exaggeration settings leave both surfaces coincident and they z-fight.
const MinElevationFactor = 0.001

// Face is one triangle of a mesh.
type Face struct {
	A, B, C int
	Normal  mgl32.Vec3
	Colors  [3]rl.Color
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices      []mgl32.Vec3
	Faces         []Face
	VertexNormals []mgl32.Vec3 // nil unless requested
	Colored       bool
}

// Meshes is the pair produced by a build.
type Meshes struct {
	Globe *Mesh
	Ocean *Mesh
}

// Options controls a build.
type Options struct {
	ElevationScale       float64
	Coloring             ColoringMode
	ComputeVertexNormals bool
}

// ElevationFactor returns the radial displacement applied to a point: the
// exaggerated elevation as a fraction of the reference radius, pushed out to at
// least MinElevationFactor in magnitude. Zero sits just above the ocean.
func ElevationFactor(scale, elevation float64) float64 {
	f := scale * (elevation / core.EarthRadiusFeet)
	if math.Abs(f) >= MinElevationFactor {
		return f
	}
	switch {
	case f > 0:
		return MinElevationFactor
	case f < 0:
		return -MinElevationFactor
	case elevation < 0:
		return -MinElevationFactor
	default:
		return MinElevationFactor
	}
}

// Displace scales a unit-sphere position by 1 + factor.
func Displace(p core.Point, factor float64) mgl32.Vec3 {
	v := p.Position.Mul(1 + factor)
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// BuildMeshes builds the globe and ocean meshes. It fails on an unknown
// coloring mode or on a triangle that indexes past the point list; the globe
// passed in is not modified.
func BuildMeshes(globe *core.Globe, colors core.ColorSource, opts Options) (*Meshes, error) {
	if !opts.Coloring.Valid() {
		return nil, &core.ConfigurationError{Option: "triangle_coloring", Value: string(opts.Coloring)}
	}
	if err := Validate(globe); err != nil {
		return nil, err
	}
	total := time.Now()

	ocean := &Mesh{
		Vertices: make([]mgl32.Vec3, len(globe.Points)),
		Faces:    make([]Face, len(globe.Triangles)),
	}
	for i, p := range globe.Points {
		ocean.Vertices[i] = Displace(p, 0)
	}
	for i, t := range globe.Triangles {
		ocean.Faces[i] = Face{A: t.P1, B: t.P2, C: t.P3}
	}
	ocean.computeFaceNormals()

	start := time.Now()
	colored := colorPoints(globe.Points, colors)
	log.Printf("computing vertex colors: %v", time.Since(start))

	start = time.Now()
	land := &Mesh{
		Vertices: make([]mgl32.Vec3, len(globe.Points)),
		Faces:    make([]Face, len(globe.Triangles)),
		Colored:  true,
	}
	for i, p := range globe.Points {
		land.Vertices[i] = Displace(p, ElevationFactor(opts.ElevationScale, p.Elevation))
	}
	log.Printf("adding vertices: %v", time.Since(start))

	start = time.Now()
	for i, t := range globe.Triangles {
		pts := [3]core.ColoredPoint{colored[t.P1], colored[t.P2], colored[t.P3]}
		land.Faces[i] = Face{A: t.P1, B: t.P2, C: t.P3, Colors: faceColors(opts.Coloring, pts, colors)}
	}
	log.Printf("adding triangles: %v", time.Since(start))

	start = time.Now()
	land.computeFaceNormals()
	log.Printf("computing face normals: %v", time.Since(start))
	if opts.ComputeVertexNormals {
		start = time.Now()
		land.computeVertexNormals()
		log.Printf("computing vertex normals: %v", time.Since(start))
	}

	log.Printf("entire globe initialization: %v (%d points, %d triangles)",
		time.Since(total), len(globe.Points), len(globe.Triangles))
	return &Meshes{Globe: land, Ocean: ocean}, nil
}

// Validate checks every triangle index against the point list.
func Validate(globe *core.Globe) error {
	n := len(globe.Points)
	for i, t := range globe.Triangles {
		for _, idx := range t.Indices() {
			if idx < 0 || idx >= n {
				return &core.MalformedGeometryError{Triangle: i, Index: idx, Points: n}
			}
		}
	}
	return nil
}

func (m *Mesh) computeFaceNormals() {
	for i := range m.Faces {
		f := &m.Faces[i]
		n := m.faceCross(*f)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		f.Normal = n
	}
}

// computeVertexNormals sums the unnormalized face normals around each vertex,
// so larger faces weigh more.
func (m *Mesh) computeVertexNormals() {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		n := m.faceCross(f)
		normals[f.A] = normals[f.A].Add(n)
		normals[f.B] = normals[f.B].Add(n)
		normals[f.C] = normals[f.C].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	m.VertexNormals = normals
}

func (m *Mesh) faceCross(f Face) mgl32.Vec3 {
	a, b, c := m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C]
	return b.Sub(a).Cross(c.Sub(a))
}
