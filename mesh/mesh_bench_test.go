package mesh

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"planetviewer/geometry"
	"planetviewer/gradient"
)

func BenchmarkBuildMeshes(b *testing.B) {
	globe, err := geometry.Icosphere(5, geometry.FractalTerrain(1))
	if err != nil {
		b.Fatalf("Icosphere: %v", err)
	}
	colors := gradient.Default()

	for _, mode := range []ColoringMode{ColorMax, ColorAvg, ColorAll} {
		b.Run(string(mode), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := BuildMeshes(globe, colors, Options{ElevationScale: 30, Coloring: mode}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkInterleave(b *testing.B) {
	globe, err := geometry.Icosphere(5, geometry.FractalTerrain(1))
	if err != nil {
		b.Fatalf("Icosphere: %v", err)
	}
	meshes, err := BuildMeshes(globe, gradient.Default(), Options{ElevationScale: 30, Coloring: ColorMax})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		meshes.Globe.Interleave(rl.Blue)
	}
}
