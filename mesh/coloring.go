package mesh

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"planetviewer/core"
)

// ColoringMode selects how a face's colors are derived from its three points.
type ColoringMode string

const (
	// ColorMax paints the face with the color of its highest point.
	ColorMax ColoringMode = "max"
	// ColorMin paints the face with the color of its lowest point.
	ColorMin ColoringMode = "min"
	// ColorAvg recolors the face from the mean elevation of its points.
	ColorAvg ColoringMode = "avg"
	// ColorAll keeps each vertex's own color so the renderer interpolates across the face.
	ColorAll ColoringMode = "all"
)

// ParseColoringMode validates a triangle_coloring setting.
func ParseColoringMode(s string) (ColoringMode, error) {
	m := ColoringMode(s)
	if !m.Valid() {
		return "", &core.ConfigurationError{Option: "triangle_coloring", Value: s}
	}
	return m, nil
}

// Valid reports whether m is one of the known modes.
func (m ColoringMode) Valid() bool {
	switch m {
	case ColorMax, ColorMin, ColorAvg, ColorAll:
		return true
	}
	return false
}

// colorPoints resolves every point's color exactly once.
func colorPoints(points []core.Point, colors core.ColorSource) []core.ColoredPoint {
	out := make([]core.ColoredPoint, len(points))
	for i, p := range points {
		out[i] = core.ColoredPoint{Point: p, Color: colors.ColorAt(p.Elevation)}
	}
	return out
}

// faceColors returns the three vertex colors of a face under mode.
func faceColors(mode ColoringMode, pts [3]core.ColoredPoint, colors core.ColorSource) [3]rl.Color {
	switch mode {
	case ColorMax:
		c := fold(pts, func(a, b core.ColoredPoint) bool { return a.Elevation > b.Elevation }).Color
		return [3]rl.Color{c, c, c}
	case ColorMin:
		c := fold(pts, func(a, b core.ColoredPoint) bool { return a.Elevation < b.Elevation }).Color
		return [3]rl.Color{c, c, c}
	case ColorAvg:
		mean := (pts[0].Elevation + pts[1].Elevation + pts[2].Elevation) / 3
		c := colors.ColorAt(mean)
		return [3]rl.Color{c, c, c}
	default:
		return [3]rl.Color{pts[0].Color, pts[1].Color, pts[2].Color}
	}
}

// fold walks p1, p2, p3 left to right, keeping the accumulator only while keep
// holds. On a tie the later point replaces it.
func fold(pts [3]core.ColoredPoint, keep func(acc, next core.ColoredPoint) bool) core.ColoredPoint {
	acc := pts[0]
	for _, p := range pts[1:] {
		if !keep(acc, p) {
			acc = p
		}
	}
	return acc
}
