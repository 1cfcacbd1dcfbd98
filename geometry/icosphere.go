// Package geometry supplies globes: triangulated unit spheres with an
// elevation per point.
package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/core"
)

// MaxSubdivisions bounds Icosphere; level 8 is already ~655k points.
const MaxSubdivisions = 8

// Terrain assigns an elevation in feet to a unit-sphere position.
type Terrain func(pos mgl64.Vec3) float64

// Icosphere subdivides an icosahedron, projects it onto the unit sphere, and
// samples terrain at every point. A nil terrain gives a flat globe.
func Icosphere(subdivisions int, terrain Terrain) (*core.Globe, error) {
	if subdivisions < 0 || subdivisions > MaxSubdivisions {
		return nil, fmt.Errorf("subdivisions %d out of range [0, %d]", subdivisions, MaxSubdivisions)
	}

	// Golden ratio
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	positions := []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	triangles := []core.Triangle{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for i := 0; i < subdivisions; i++ {
		positions, triangles = subdivide(positions, triangles)
	}

	globe := &core.Globe{
		Points:    make([]core.Point, len(positions)),
		Triangles: triangles,
	}
	for i, p := range positions {
		pos := p.Normalize()
		elevation := 0.0
		if terrain != nil {
			elevation = terrain(pos)
		}
		globe.Points[i] = core.Point{Position: pos, Elevation: elevation}
	}
	return globe, nil
}

// subdivide splits every triangle into four, sharing edge midpoints between
// neighbouring triangles.
func subdivide(positions []mgl64.Vec3, triangles []core.Triangle) ([]mgl64.Vec3, []core.Triangle) {
	midpoints := make(map[[2]int]int)
	out := make([]core.Triangle, 0, len(triangles)*4)

	midpoint := func(i1, i2 int) int {
		key := [2]int{i1, i2}
		if i1 > i2 {
			key = [2]int{i2, i1}
		}
		if mid, ok := midpoints[key]; ok {
			return mid
		}
		positions = append(positions, positions[i1].Add(positions[i2]).Mul(0.5))
		midpoints[key] = len(positions) - 1
		return midpoints[key]
	}

	for _, tri := range triangles {
		v1, v2, v3 := tri.P1, tri.P2, tri.P3
		m1 := midpoint(v1, v2)
		m2 := midpoint(v2, v3)
		m3 := midpoint(v3, v1)
		out = append(out,
			core.Triangle{P1: v1, P2: m1, P3: m3},
			core.Triangle{P1: v2, P2: m2, P3: m1},
			core.Triangle{P1: v3, P2: m3, P3: m2},
			core.Triangle{P1: m1, P2: m2, P3: m3},
		)
	}
	return positions, out
}

// PointCount is the number of points an icosphere of the given level has.
func PointCount(subdivisions int) int {
	// 10 * 4^level + 2
	count := 10
	for i := 0; i < subdivisions; i++ {
		count *= 4
	}
	return count + 2
}
