package server

import (
	"fmt"

	"planetviewer/camera"
	"planetviewer/frame"
	"planetviewer/mesh"
)

// MeshData is one mesh as sent to browser clients. Colors holds RGBA bytes
// for each face vertex in face order (base64 in JSON) and is empty for the
// ocean.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
	Colors   []uint8   `json:"colors,omitempty"`
}

// MeshMessage is sent once when a client connects.
type MeshMessage struct {
	Type  string   `json:"type"`
	Globe MeshData `json:"globe"`
	Ocean MeshData `json:"ocean"`
}

// FrameMessage is broadcast every tick.
type FrameMessage struct {
	Type          string     `json:"type"`
	Frame         int        `json:"frame"`
	Camera        [3]float64 `json:"camera"`
	Target        [3]float64 `json:"target"`
	Light         [3]float64 `json:"light"`
	GlobeRotation float64    `json:"globeRotation"`
	Zoom          float64    `json:"zoom"`
	RotationSpeed float64    `json:"rotationSpeed"`
}

// InputMessage is a client input event. Clients normalize raw DOM events to
// these fields; which ones are read depends on Type.
type InputMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Delta  float64 `json:"delta"`
	DeltaY float64 `json:"deltaY"`
	Mode   int     `json:"deltaMode"`
	Height float64 `json:"height"`
}

// Input converts the message to a camera input.
func (m InputMessage) Input() (camera.Input, error) {
	switch m.Type {
	case "press":
		return camera.Press{X: m.X, Y: m.Y}, nil
	case "drag":
		return camera.Drag{X: m.X, Y: m.Y}, nil
	case "zoom":
		return camera.Zoom{Delta: m.Delta}, nil
	case "wheel":
		if m.Mode < int(camera.WheelPixel) || m.Mode > int(camera.WheelPage) {
			return nil, fmt.Errorf("wheel deltaMode %d", m.Mode)
		}
		return camera.Wheel{DeltaY: m.DeltaY, Mode: camera.WheelMode(m.Mode)}, nil
	case "pinchstart":
		return camera.PinchStart{X1: m.X1, Y1: m.Y1, X2: m.X2, Y2: m.Y2}, nil
	case "pinch":
		return camera.Pinch{X1: m.X1, Y1: m.Y1, X2: m.X2, Y2: m.Y2}, nil
	case "viewport":
		return camera.Viewport{Height: m.Height}, nil
	}
	return nil, fmt.Errorf("unknown input type %q", m.Type)
}

func meshData(m *mesh.Mesh) MeshData {
	return MeshData{
		Vertices: m.Positions(),
		Indices:  m.Indices(),
		Colors:   m.FaceVertexColors(),
	}
}

func frameMessage(n int, s frame.Scene) FrameMessage {
	return FrameMessage{
		Type:          "frame",
		Frame:         n,
		Camera:        s.Camera,
		Target:        s.Target,
		Light:         s.Light,
		GlobeRotation: s.GlobeRotation,
		Zoom:          s.Zoom,
		RotationSpeed: s.RotationSpeed,
	}
}
