package core

import "fmt"

// ConfigurationError reports an option value the viewer cannot act on.
type ConfigurationError struct {
	Option string
	Value  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unrecognized %s setting %q", e.Option, e.Value)
}

// MalformedGeometryError reports a triangle that references a point outside the globe.
type MalformedGeometryError struct {
	Triangle int
	Index    int
	Points   int
}

func (e *MalformedGeometryError) Error() string {
	return fmt.Sprintf("triangle %d references point %d, globe has %d points", e.Triangle, e.Index, e.Points)
}
