// Package config loads viewer settings. Files may be a JSON object, the
// legacy list of {"name", "default"} entries, or YAML.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"planetviewer/core"
	"planetviewer/gradient"
)

type Settings struct {
	ElevationScale       float64 `json:"elevation_scale" yaml:"elevation_scale"`
	TriangleColoring     string  `json:"triangle_coloring" yaml:"triangle_coloring"`
	Rotation             bool    `json:"rotation" yaml:"rotation"`
	RenderGlobeInterior  bool    `json:"render_globe_interior" yaml:"render_globe_interior"`
	ComputeVertexNormals bool    `json:"compute_vertex_normals" yaml:"compute_vertex_normals"`
	Material             string  `json:"material" yaml:"material"`

	AmbientLightIntensity float64 `json:"ambient_light_intensity" yaml:"ambient_light_intensity"`
	SunlightIntensity     float64 `json:"sunlight_intensity" yaml:"sunlight_intensity"`
	CameraLightIntensity  float64 `json:"camera_light_intensity" yaml:"camera_light_intensity"`

	InitialZoom  float64 `json:"initial_zoom" yaml:"initial_zoom"`
	Subdivisions int     `json:"subdivisions" yaml:"subdivisions"`
	TerrainSeed  int64   `json:"terrain_seed" yaml:"terrain_seed"`
	// TerrainSmoothing is the number of neighbor-averaging passes over
	// generated terrain.
	TerrainSmoothing int `json:"terrain_smoothing" yaml:"terrain_smoothing"`

	Gradient []GradientStop `json:"gradient,omitempty" yaml:"gradient,omitempty"`

	Window WindowSettings `json:"window" yaml:"window"`
	Server ServerSettings `json:"server" yaml:"server"`
}

// GradientStop overrides the built-in elevation colors.
type GradientStop struct {
	Elevation float64 `json:"elevation" yaml:"elevation"`
	Color     string  `json:"color" yaml:"color"`
}

type WindowSettings struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type ServerSettings struct {
	Addr             string `json:"addr" yaml:"addr"`
	UpdateIntervalMs int    `json:"updateIntervalMs" yaml:"updateIntervalMs"`
}

// Materials lists the accepted material names.
var Materials = []string{"lambert", "standard", "basic"}

// Defaults returns the settings used when no file is present.
func Defaults() Settings {
	return Settings{
		ElevationScale:        30,
		TriangleColoring:      "max",
		Rotation:              true,
		Material:              "lambert",
		AmbientLightIntensity: 0.3,
		SunlightIntensity:     0.6,
		CameraLightIntensity:  0.4,
		InitialZoom:           4,
		Subdivisions:          6,
		TerrainSeed:           1,
		TerrainSmoothing:      1,
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
		},
		Server: ServerSettings{
			Addr:             ":8080",
			UpdateIntervalMs: 16,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return s, nil
		}
		return s, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = decodeJSON(data, &s)
	}
	if err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return s, nil
}

// entry is one item of a config list: [{"name": "rotation", "default": true}, ...].
type entry struct {
	Name    string          `json:"name"`
	Default json.RawMessage `json:"default"`
}

func decodeJSON(data []byte, s *Settings) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return json.Unmarshal(trimmed, s)
	}

	var entries []entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return err
	}
	obj := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		if e.Name == "" || len(e.Default) == 0 {
			continue
		}
		obj[e.Name] = e.Default
	}
	merged, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, s)
}

// Validate checks values the renderer and camera depend on. The triangle
// coloring mode is checked when the mesh is built.
func (s Settings) Validate() error {
	if !isMaterial(s.Material) {
		return &core.ConfigurationError{Option: "material", Value: s.Material}
	}
	if math.IsNaN(s.ElevationScale) || math.IsInf(s.ElevationScale, 0) {
		return &core.ConfigurationError{Option: "elevation_scale", Value: fmt.Sprint(s.ElevationScale)}
	}
	if s.InitialZoom < 0.1 {
		return &core.ConfigurationError{Option: "initial_zoom", Value: fmt.Sprint(s.InitialZoom)}
	}
	if s.TerrainSmoothing < 0 {
		return &core.ConfigurationError{Option: "terrain_smoothing", Value: fmt.Sprint(s.TerrainSmoothing)}
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return &core.ConfigurationError{Option: "window", Value: fmt.Sprintf("%dx%d", s.Window.Width, s.Window.Height)}
	}
	if s.Server.UpdateIntervalMs <= 0 {
		return &core.ConfigurationError{Option: "server.updateIntervalMs", Value: fmt.Sprint(s.Server.UpdateIntervalMs)}
	}
	return nil
}

func isMaterial(m string) bool {
	for _, known := range Materials {
		if m == known {
			return true
		}
	}
	return false
}

// ColorSource builds the elevation gradient, falling back to the built-in
// earth gradient when no stops are configured.
func (s Settings) ColorSource() (*gradient.Gradient, error) {
	if len(s.Gradient) == 0 {
		return gradient.Default(), nil
	}
	stops := make([]gradient.Stop, len(s.Gradient))
	for i, gs := range s.Gradient {
		c, err := gradient.ParseHex(gs.Color)
		if err != nil {
			return nil, &core.ConfigurationError{Option: "gradient", Value: gs.Color}
		}
		stops[i] = gradient.Stop{Elevation: gs.Elevation, Color: c}
	}
	g, err := gradient.New(stops)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	return g, nil
}
