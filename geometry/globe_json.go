package geometry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/core"
)

// globeFile is the on-disk globe.json layout.
type globeFile struct {
	Points    []pointRecord    `json:"points"`
	Triangles []triangleRecord `json:"triangles"`
}

type pointRecord struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Elevation float64 `json:"elevation"`
}

type triangleRecord struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3"`
}

// LoadGlobe reads a globe.json file.
func LoadGlobe(path string) (*core.Globe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadGlobe(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadGlobe decodes a globe document. Positions are normalized onto the unit
// sphere; zero-length positions are rejected.
func ReadGlobe(r io.Reader) (*core.Globe, error) {
	var doc globeFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding globe: %w", err)
	}

	g := &core.Globe{
		Points:    make([]core.Point, len(doc.Points)),
		Triangles: make([]core.Triangle, len(doc.Triangles)),
	}
	for i, p := range doc.Points {
		pos := mgl64.Vec3{p.X, p.Y, p.Z}
		if pos.Len() == 0 {
			return nil, fmt.Errorf("point %d has no direction", i)
		}
		g.Points[i] = core.Point{Position: pos.Normalize(), Elevation: p.Elevation}
	}
	for i, t := range doc.Triangles {
		g.Triangles[i] = core.Triangle{P1: t.P1, P2: t.P2, P3: t.P3}
	}
	return g, nil
}

// WriteGlobe encodes g in the globe.json layout.
func WriteGlobe(w io.Writer, g *core.Globe) error {
	doc := globeFile{
		Points:    make([]pointRecord, len(g.Points)),
		Triangles: make([]triangleRecord, len(g.Triangles)),
	}
	for i, p := range g.Points {
		doc.Points[i] = pointRecord{X: p.Position[0], Y: p.Position[1], Z: p.Position[2], Elevation: p.Elevation}
	}
	for i, t := range g.Triangles {
		doc.Triangles[i] = triangleRecord{P1: t.P1, P2: t.P2, P3: t.P3}
	}
	return json.NewEncoder(w).Encode(doc)
}
