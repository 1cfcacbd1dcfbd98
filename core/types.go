package core

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// EarthRadiusFeet is the reference radius a unit-sphere position corresponds to.
const EarthRadiusFeet = 20903520.0

// Point is a generated surface sample: a unit-sphere position and its elevation in feet.
type Point struct {
	Position  mgl64.Vec3
	Elevation float64
}

// Triangle indexes three points of a Globe.
type Triangle struct {
	P1, P2, P3 int
}

// Indices returns the triangle's point indices in winding order.
func (t Triangle) Indices() [3]int {
	return [3]int{t.P1, t.P2, t.P3}
}

// Globe is the output of a geometry source. It is treated as read-only once generated.
type Globe struct {
	Points    []Point
	Triangles []Triangle
}

// ElevationRange returns the lowest and highest elevation on the globe.
func (g *Globe) ElevationRange() (lo, hi float64) {
	if len(g.Points) == 0 {
		return 0, 0
	}
	lo, hi = g.Points[0].Elevation, g.Points[0].Elevation
	for _, p := range g.Points[1:] {
		lo = min(lo, p.Elevation)
		hi = max(hi, p.Elevation)
	}
	return lo, hi
}

// ColorSource maps an elevation to a display color.
type ColorSource interface {
	ColorAt(elevation float64) rl.Color
}

// ColorFunc adapts a plain function to a ColorSource.
type ColorFunc func(elevation float64) rl.Color

func (f ColorFunc) ColorAt(elevation float64) rl.Color {
	return f(elevation)
}

// ColoredPoint is a point together with the color resolved for it during a mesh build.
type ColoredPoint struct {
	Point
	Color rl.Color
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
