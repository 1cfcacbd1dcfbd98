// Package gradient maps elevations to colors by interpolating between fixed stops.
package gradient

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Stop pins a color to an elevation in feet.
type Stop struct {
	Elevation float64
	Color     rl.Color
}

// Gradient is a piecewise-linear elevation color ramp. It satisfies core.ColorSource.
type Gradient struct {
	stops []Stop
}

// Earth is a hypsometric ramp from the deepest trenches to snow caps.
var Earth = []Stop{
	{-36000, rl.NewColor(5, 10, 48, 255)},
	{-10000, rl.NewColor(16, 42, 107, 255)},
	{-500, rl.NewColor(44, 111, 181, 255)},
	{0, rl.NewColor(194, 178, 128, 255)},
	{500, rl.NewColor(58, 125, 44, 255)},
	{3000, rl.NewColor(122, 154, 59, 255)},
	{8000, rl.NewColor(139, 107, 62, 255)},
	{14000, rl.NewColor(176, 160, 144, 255)},
	{20000, rl.NewColor(255, 255, 255, 255)},
}

// New builds a gradient. Stops must be given in strictly increasing elevation order.
func New(stops []Stop) (*Gradient, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("gradient needs at least one stop")
	}
	for i := 1; i < len(stops); i++ {
		if !(stops[i].Elevation > stops[i-1].Elevation) {
			return nil, fmt.Errorf("gradient stop %d at %.1f ft is not above stop %d at %.1f ft",
				i, stops[i].Elevation, i-1, stops[i-1].Elevation)
		}
	}
	return &Gradient{stops: append([]Stop(nil), stops...)}, nil
}

// Default returns the Earth ramp.
func Default() *Gradient {
	g, _ := New(Earth)
	return g
}

// ColorAt returns the interpolated color for an elevation. Elevations outside
// the ramp take the color of the nearest end stop.
func (g *Gradient) ColorAt(elevation float64) rl.Color {
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if elevation <= first.Elevation || math.IsNaN(elevation) {
		return first.Color
	}
	if elevation >= last.Elevation {
		return last.Color
	}

	i := sort.Search(len(g.stops), func(i int) bool {
		return g.stops[i].Elevation >= elevation
	})
	lo, hi := g.stops[i-1], g.stops[i]
	t := (elevation - lo.Elevation) / (hi.Elevation - lo.Elevation)
	return rl.ColorLerp(lo.Color, hi.Color, float32(t))
}

// Stops returns a copy of the gradient's stops.
func (g *Gradient) Stops() []Stop {
	return append([]Stop(nil), g.stops...)
}

// ParseHex reads "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func ParseHex(s string) (rl.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return rl.Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return rl.GetColor(uint(v)), nil
}
