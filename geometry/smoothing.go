package geometry

import (
	"golang.org/x/exp/slices"

	"planetviewer/core"
)

// Smooth returns a copy of g whose elevations are averaged with their mesh
// neighbors, the point's own elevation weighted twice. g is not modified.
func Smooth(g *core.Globe, iterations int) *core.Globe {
	out := &core.Globe{
		Points:    append([]core.Point(nil), g.Points...),
		Triangles: g.Triangles,
	}
	if iterations <= 0 {
		return out
	}

	neighbors := Neighbors(g)
	heights := make([]float64, len(out.Points))
	for iter := 0; iter < iterations; iter++ {
		for i, p := range out.Points {
			sum := p.Elevation * 2
			count := 2.0
			for _, n := range neighbors[i] {
				sum += out.Points[n].Elevation
				count++
			}
			heights[i] = sum / count
		}
		for i := range out.Points {
			out.Points[i].Elevation = heights[i]
		}
	}
	return out
}

// Neighbors lists, for every point, the points sharing a triangle edge with
// it, in ascending order. Out-of-range indices are skipped.
func Neighbors(g *core.Globe) [][]int {
	sets := make([]map[int]struct{}, len(g.Points))
	for i := range sets {
		sets[i] = make(map[int]struct{}, 6)
	}

	for _, t := range g.Triangles {
		idx := t.Indices()
		if !inRange(idx, len(g.Points)) {
			continue
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				if a != b {
					sets[idx[a]][idx[b]] = struct{}{}
				}
			}
		}
	}

	out := make([][]int, len(sets))
	for i, set := range sets {
		list := make([]int, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		slices.Sort(list)
		out[i] = list
	}
	return out
}

func inRange(idx [3]int, n int) bool {
	for _, v := range idx {
		if v < 0 || v >= n {
			return false
		}
	}
	return true
}
