// Command globegen writes a generated globe as globe.json and reports what the
// mesh compositor makes of it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"planetviewer/core"
	"planetviewer/geometry"
	"planetviewer/gradient"
	"planetviewer/mesh"
)

func main() {
	var (
		subdivisions = flag.Int("subdivisions", 6, "Icosphere subdivisions")
		seed         = flag.Int64("seed", 1, "Terrain seed")
		out          = flag.String("out", "globe.json", "Output path (- for stdout)")
		smoothing    = flag.Int("smoothing", 1, "Neighbor-averaging passes over the terrain")
		scale        = flag.Float64("scale", 30, "Elevation scale used for the mesh report")
	)
	flag.Parse()

	globe, err := geometry.Icosphere(*subdivisions, geometry.FractalTerrain(*seed))
	if err != nil {
		log.Fatalf("Failed to generate globe: %v", err)
	}
	globe = geometry.Smooth(globe, *smoothing)

	lo, hi := globe.ElevationRange()
	fmt.Fprintf(os.Stderr, "=== Globe ===\n")
	fmt.Fprintf(os.Stderr, "Points: %d\n", len(globe.Points))
	fmt.Fprintf(os.Stderr, "Triangles: %d\n", len(globe.Triangles))
	fmt.Fprintf(os.Stderr, "Elevation: %.0f ft to %.0f ft\n", lo, hi)

	var land int
	for _, p := range globe.Points {
		if p.Elevation > 0 {
			land++
		}
	}
	fmt.Fprintf(os.Stderr, "Land: %.1f%%\n", 100*float64(land)/float64(len(globe.Points)))

	meshes, err := mesh.BuildMeshes(globe, gradient.Default(), mesh.Options{ElevationScale: *scale, Coloring: mesh.ColorMax})
	if err != nil {
		log.Fatalf("Failed to build mesh: %v", err)
	}
	inner, outer := meshes.Globe.Bounds()
	fmt.Fprintf(os.Stderr, "Mesh radius at scale %g: %.5f to %.5f\n", *scale, inner, outer)

	if err := write(*out, globe); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	if *out != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
	}
}

func write(path string, globe *core.Globe) error {
	if path == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := geometry.WriteGlobe(w, globe); err != nil {
			return err
		}
		return w.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := geometry.WriteGlobe(w, globe); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
