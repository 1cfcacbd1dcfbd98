package mesh

import (
	"errors"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/core"
)

// recordingSource colors by elevation and remembers every lookup.
type recordingSource struct {
	calls []float64
}

func (r *recordingSource) ColorAt(elevation float64) rl.Color {
	r.calls = append(r.calls, elevation)
	return colorFor(elevation)
}

func colorFor(elevation float64) rl.Color {
	v := uint8(int(elevation) & 0xff)
	return rl.NewColor(v, 255-v, 0, 255)
}

func singleTriangle(e1, e2, e3 float64) *core.Globe {
	return &core.Globe{
		Points: []core.Point{
			{Position: mgl64.Vec3{1, 0, 0}, Elevation: e1},
			{Position: mgl64.Vec3{0, 1, 0}, Elevation: e2},
			{Position: mgl64.Vec3{0, 0, 1}, Elevation: e3},
		},
		Triangles: []core.Triangle{{P1: 0, P2: 1, P3: 2}},
	}
}

func octahedron() *core.Globe {
	return &core.Globe{
		Points: []core.Point{
			{Position: mgl64.Vec3{1, 0, 0}, Elevation: 1000},
			{Position: mgl64.Vec3{-1, 0, 0}, Elevation: -2000},
			{Position: mgl64.Vec3{0, 1, 0}, Elevation: 0},
			{Position: mgl64.Vec3{0, -1, 0}, Elevation: 12000},
			{Position: mgl64.Vec3{0, 0, 1}, Elevation: -30000},
			{Position: mgl64.Vec3{0, 0, -1}, Elevation: 50},
		},
		Triangles: []core.Triangle{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	}
}

func TestFaceColoringModes(t *testing.T) {
	c10, c5, c20 := colorFor(10), colorFor(5), colorFor(20)
	avg := colorFor((10.0 + 5.0 + 20.0) / 3)

	tests := []struct {
		mode      ColoringMode
		want      [3]rl.Color
		wantCalls int
	}{
		{ColorMax, [3]rl.Color{c20, c20, c20}, 3},
		{ColorMin, [3]rl.Color{c5, c5, c5}, 3},
		{ColorAvg, [3]rl.Color{avg, avg, avg}, 4},
		{ColorAll, [3]rl.Color{c10, c5, c20}, 3},
	}
	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			src := &recordingSource{}
			meshes, err := BuildMeshes(singleTriangle(10, 5, 20), src, Options{ElevationScale: 30, Coloring: tc.mode})
			if err != nil {
				t.Fatalf("BuildMeshes: %v", err)
			}
			if got := meshes.Globe.Faces[0].Colors; got != tc.want {
				t.Errorf("face colors = %v, want %v", got, tc.want)
			}
			if len(src.calls) != tc.wantCalls {
				t.Errorf("color source called %d times, want %d", len(src.calls), tc.wantCalls)
			}
		})
	}
}

func TestColorSourceCalledOncePerPoint(t *testing.T) {
	src := &recordingSource{}
	g := octahedron()
	if _, err := BuildMeshes(g, src, Options{ElevationScale: 1, Coloring: ColorMax}); err != nil {
		t.Fatalf("BuildMeshes: %v", err)
	}
	// Every point is shared by four triangles but must be colored only once.
	if len(src.calls) != len(g.Points) {
		t.Errorf("color source called %d times, want %d", len(src.calls), len(g.Points))
	}
}

func TestFoldTieTakesLaterPoint(t *testing.T) {
	a := core.ColoredPoint{Point: core.Point{Elevation: 20}, Color: rl.Red}
	b := core.ColoredPoint{Point: core.Point{Elevation: 5}, Color: rl.Green}
	c := core.ColoredPoint{Point: core.Point{Elevation: 20}, Color: rl.Blue}

	higher := func(acc, next core.ColoredPoint) bool { return acc.Elevation > next.Elevation }
	if got := fold([3]core.ColoredPoint{a, b, c}, higher); got.Color != rl.Blue {
		t.Errorf("max fold on tie picked %v, want the later point", got.Color)
	}
	if got := fold([3]core.ColoredPoint{a, b, b}, higher); got.Color != rl.Red {
		t.Errorf("max fold picked %v, want the unique highest point", got.Color)
	}
}

func TestUnknownColoringMode(t *testing.T) {
	src := &recordingSource{}
	_, err := BuildMeshes(singleTriangle(1, 2, 3), src, Options{Coloring: "median"})

	var cfgErr *core.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
	if cfgErr.Value != "median" {
		t.Errorf("Value = %q, want median", cfgErr.Value)
	}
	if len(src.calls) != 0 {
		t.Errorf("color source called %d times before failing, want 0", len(src.calls))
	}

	if _, err := ParseColoringMode("avg"); err != nil {
		t.Errorf("ParseColoringMode(avg): %v", err)
	}
	if _, err := ParseColoringMode("AVG"); err == nil {
		t.Error("ParseColoringMode(AVG) succeeded, modes are case sensitive")
	}
}

func TestMalformedTriangle(t *testing.T) {
	g := singleTriangle(1, 2, 3)
	g.Triangles = append(g.Triangles, core.Triangle{P1: 0, P2: 3, P3: 1})

	_, err := BuildMeshes(g, &recordingSource{}, Options{Coloring: ColorAll})
	var geomErr *core.MalformedGeometryError
	if !errors.As(err, &geomErr) {
		t.Fatalf("err = %v, want MalformedGeometryError", err)
	}
	if geomErr.Triangle != 1 || geomErr.Index != 3 || geomErr.Points != 3 {
		t.Errorf("got %+v, want triangle 1 index 3 of 3 points", geomErr)
	}

	g.Triangles[1].P2 = -1
	if err := Validate(g); err == nil {
		t.Error("Validate accepted a negative index")
	}
}

func TestElevationFactor(t *testing.T) {
	tests := []struct {
		name             string
		scale, elevation float64
		want             float64
	}{
		{"zero elevation", 30, 0, MinElevationFactor},
		{"tiny positive", 1, 100, MinElevationFactor},
		{"tiny negative", 1, -100, -MinElevationFactor},
		{"zero scale keeps elevation sign", 0, -100, -MinElevationFactor},
		{"exaggerated", 10, core.EarthRadiusFeet / 1000, 0.01},
		{"deep trench", 30, -36000, 30 * -36000 / core.EarthRadiusFeet},
		{"exactly at threshold", 1, core.EarthRadiusFeet * MinElevationFactor, MinElevationFactor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ElevationFactor(tc.scale, tc.elevation)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("ElevationFactor(%v, %v) = %v, want %v", tc.scale, tc.elevation, got, tc.want)
			}
			if math.Abs(got) < MinElevationFactor-1e-15 {
				t.Errorf("|ElevationFactor| = %v below minimum", math.Abs(got))
			}
		})
	}
}

func TestDisplacementAndOcean(t *testing.T) {
	g := octahedron()
	before := append([]core.Point(nil), g.Points...)

	meshes, err := BuildMeshes(g, &recordingSource{}, Options{ElevationScale: 30, Coloring: ColorAvg})
	if err != nil {
		t.Fatalf("BuildMeshes: %v", err)
	}

	for i, p := range g.Points {
		if p != before[i] {
			t.Fatalf("point %d mutated: %+v, was %+v", i, p, before[i])
		}
		want := 1 + ElevationFactor(30, p.Elevation)
		if got := meshes.Globe.Vertices[i].Len(); math.Abs(float64(got)-want) > 1e-6 {
			t.Errorf("globe vertex %d radius = %v, want %v", i, got, want)
		}
		if got := meshes.Ocean.Vertices[i].Len(); math.Abs(float64(got)-1) > 1e-6 {
			t.Errorf("ocean vertex %d radius = %v, want 1", i, got)
		}
	}

	if meshes.Ocean.Colored {
		t.Error("ocean mesh is colored")
	}
	if !meshes.Globe.Colored {
		t.Error("globe mesh is not colored")
	}
	if len(meshes.Ocean.Faces) != len(g.Triangles) || len(meshes.Globe.Faces) != len(g.Triangles) {
		t.Errorf("face counts = %d/%d, want %d", len(meshes.Globe.Faces), len(meshes.Ocean.Faces), len(g.Triangles))
	}
	if meshes.Globe.VertexNormals != nil {
		t.Error("vertex normals computed without being requested")
	}
}

func TestNormalsPointOutward(t *testing.T) {
	meshes, err := BuildMeshes(octahedron(), &recordingSource{}, Options{
		ElevationScale:       1,
		Coloring:             ColorAll,
		ComputeVertexNormals: true,
	})
	if err != nil {
		t.Fatalf("BuildMeshes: %v", err)
	}

	for i, f := range meshes.Ocean.Faces {
		centroid := meshes.Ocean.Vertices[f.A].Add(meshes.Ocean.Vertices[f.B]).Add(meshes.Ocean.Vertices[f.C])
		if f.Normal.Dot(centroid) <= 0 {
			t.Errorf("ocean face %d normal %v points inward", i, f.Normal)
		}
		if math.Abs(float64(f.Normal.Len())-1) > 1e-5 {
			t.Errorf("ocean face %d normal length %v, want 1", i, f.Normal.Len())
		}
	}
	for i, n := range meshes.Globe.VertexNormals {
		if n.Dot(meshes.Globe.Vertices[i]) <= 0 {
			t.Errorf("vertex normal %d %v points inward", i, n)
		}
	}
}

func TestInterleave(t *testing.T) {
	meshes, err := BuildMeshes(singleTriangle(10, 5, 20), &recordingSource{}, Options{ElevationScale: 30, Coloring: ColorAll})
	if err != nil {
		t.Fatalf("BuildMeshes: %v", err)
	}

	ocean := rl.NewColor(0, 0, 255, 204)
	buf := meshes.Ocean.Interleave(ocean)
	if len(buf) != 3*VertexStride {
		t.Fatalf("len(buf) = %d, want %d", len(buf), 3*VertexStride)
	}
	for v := 0; v < 3; v++ {
		alpha := buf[v*VertexStride+9]
		if math.Abs(float64(alpha)-0.8) > 1e-6 {
			t.Errorf("ocean vertex %d alpha = %v, want 0.8", v, alpha)
		}
	}

	buf = meshes.Globe.Interleave(ocean)
	// Second vertex carries the elevation-5 color in the red channel.
	if got, want := buf[VertexStride+6], float32(colorFor(5).R)/255; got != want {
		t.Errorf("vertex 1 red = %v, want %v", got, want)
	}

	if got := meshes.Globe.Indices(); len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("Indices() = %v, want [0 1 2]", got)
	}
	if got := len(meshes.Globe.FaceVertexColors()); got != 12 {
		t.Errorf("len(FaceVertexColors()) = %d, want 12", got)
	}
	if meshes.Ocean.FaceVertexColors() != nil {
		t.Error("ocean FaceVertexColors() should be nil")
	}

	inner, outer := meshes.Ocean.Bounds()
	if math.Abs(float64(inner)-1) > 1e-6 || math.Abs(float64(outer)-1) > 1e-6 {
		t.Errorf("ocean Bounds() = (%v, %v), want (1, 1)", inner, outer)
	}
}
