// Package camera orbits a camera around the globe. Input moves a target orbit
// state immediately; each frame the actual state eases toward the target and is
// projected to a camera position looking at the origin.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/core"
)

const (
	// DefaultInitialZoom is the starting camera distance in globe radii.
	DefaultInitialZoom = 4.0
	// RotationFullSpeed is the globe spin per frame, in radians, at full autorotation.
	RotationFullSpeed = 0.01

	MinZoom = 0.1
	MaxPhi  = 180.0

	dragScaling      = 500.0
	zoomScaling      = 0.1
	touchZoomScaling = 0.03

	angleResponse    = 12.0
	zoomResponse     = 9.0
	rotationResponse = 2.0

	angleThreshold = 0.05
	zoomThreshold  = 0.0005
)

// OrbitState holds target and smoothed orbit values. Angles are in the viewer's
// doubled-degree convention: 360 of theta is a half turn around the globe.
type OrbitState struct {
	Theta, Phi, Zoom                   float64
	ActualTheta, ActualPhi, ActualZoom float64
	RotationSpeed                      float64
}

// Frame is the result of advancing the controller by one tick.
type Frame struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Light    mgl64.Vec3 // point light kept on the camera
	Changed  bool       // Position moved this tick
	Spin     float64    // globe rotation to add this tick, radians
}

// Controller owns the orbit state for one viewing session. It is not safe for
// concurrent use; feed input from other goroutines through a Queue.
type Controller struct {
	state       OrbitState
	initialZoom float64

	anchorX, anchorY float64
	touchDelta       float64
	viewportHeight   float64

	position    mgl64.Vec3
	view        mgl64.Mat4
	viewUpdates int
}

// NewController starts the camera on the +Z axis at initialZoom.
func NewController(initialZoom float64) *Controller {
	if initialZoom < MinZoom {
		initialZoom = DefaultInitialZoom
	}
	c := &Controller{
		state:          OrbitState{Zoom: initialZoom, ActualZoom: initialZoom},
		initialZoom:    initialZoom,
		viewportHeight: 720,
	}
	c.position = PositionFromAngles(0, 0, initialZoom)
	c.updateView()
	return c
}

// State returns a copy of the orbit state.
func (c *Controller) State() OrbitState {
	return c.state
}

// Position returns the last projected camera position.
func (c *Controller) Position() mgl64.Vec3 {
	return c.position
}

// SetViewportHeight sets the drawing height in pixels used to scale drags.
func (c *Controller) SetViewportHeight(h float64) {
	if h > 0 {
		c.viewportHeight = h
	}
}

// PressDown anchors a drag at (x, y).
func (c *Controller) PressDown(x, y float64) {
	c.anchorX, c.anchorY = x, y
}

// PressMove drags from the anchor to (x, y). Drags cover more angle when zoomed
// out so the globe tracks the pointer at any distance.
func (c *Controller) PressMove(x, y float64) {
	scale := dragScaling / c.viewportHeight
	scale *= math.Max(c.state.Zoom, 1) / c.initialZoom

	c.state.Theta -= (x - c.anchorX) * scale
	c.state.Phi += (y - c.anchorY) * scale
	c.state.Phi = core.Clamp(c.state.Phi, -MaxPhi, MaxPhi)

	c.PressDown(x, y)
}

// ZoomChange moves the target zoom; positive deltas move the camera away.
func (c *Controller) ZoomChange(delta float64) {
	c.state.Zoom = math.Max(MinZoom, c.state.Zoom+delta*zoomScaling)
}

// TouchesUpdate records the distance between two touches as the pinch baseline.
// Call it when a second touch starts or ends.
func (c *Controller) TouchesUpdate(x1, y1, x2, y2 float64) {
	c.touchDelta = math.Hypot(x2-x1, y2-y1)
}

// TouchesMove zooms by how far the pinch closed since the baseline and rebases
// the baseline to the new distance.
func (c *Controller) TouchesMove(x1, y1, x2, y2 float64) {
	d := math.Hypot(x2-x1, y2-y1)
	c.ZoomChange((c.touchDelta - d) * touchZoomScaling)
	c.touchDelta = d
}

// Advance eases the actual state toward the target by dt seconds and ramps the
// autorotation speed toward 1 when autorotate is set, toward 0 otherwise.
func (c *Controller) Advance(dt float64, autorotate bool) Frame {
	if dt < 0 {
		dt = 0
	}
	smoothing := math.Min(angleResponse*dt, 1)
	zoomSmoothing := math.Min(zoomResponse*dt, 1)
	rotationAccel := math.Min(rotationResponse*dt, 1)

	s := &c.state
	changed := false

	if s.ActualZoom != s.Zoom {
		s.ActualZoom = approach(s.ActualZoom, s.Zoom, zoomSmoothing, zoomThreshold)
		changed = true
	}
	if s.ActualTheta != s.Theta || s.ActualPhi != s.Phi {
		s.ActualTheta = approach(s.ActualTheta, s.Theta, smoothing, angleThreshold)
		s.ActualPhi = approach(s.ActualPhi, s.Phi, smoothing, angleThreshold)
		changed = true
	}
	if changed {
		c.position = PositionFromAngles(s.ActualTheta, s.ActualPhi, s.ActualZoom)
		c.updateView()
	}

	if autorotate {
		s.RotationSpeed = math.Min(s.RotationSpeed+rotationAccel, 1)
	} else {
		s.RotationSpeed = math.Max(s.RotationSpeed-rotationAccel, 0)
	}

	return Frame{
		Position: c.position,
		Light:    c.position,
		Changed:  changed,
		Spin:     s.RotationSpeed * RotationFullSpeed,
	}
}

// approach moves actual a fraction of the way to target and snaps once within
// threshold so the value settles instead of creeping forever.
func approach(actual, target, fraction, threshold float64) float64 {
	actual += (target - actual) * fraction
	if math.Abs(actual-target) < threshold {
		return target
	}
	return actual
}

// PositionFromAngles projects orbit angles and distance to Cartesian
// coordinates. Angles are halved before use: theta 0 looks down -Z from +Z,
// theta 360 from -Z, phi 180 from the north pole.
func PositionFromAngles(theta, phi, zoom float64) mgl64.Vec3 {
	t := theta * math.Pi / 360
	p := phi * math.Pi / 360
	return mgl64.Vec3{
		zoom * math.Sin(t) * math.Cos(p),
		zoom * math.Sin(p),
		zoom * math.Cos(t) * math.Cos(p),
	}
}

// ViewMatrix returns the look-at matrix from the current position to the
// origin. It is rebuilt only on ticks where the camera moved.
func (c *Controller) ViewMatrix() mgl64.Mat4 {
	return c.view
}

func (c *Controller) updateView() {
	c.viewUpdates++
	up := mgl64.Vec3{0, 1, 0}
	// At the poles the view direction is parallel to Y; pick an up vector
	// that follows theta instead.
	if math.Abs(c.state.ActualPhi) >= MaxPhi {
		t := c.state.ActualTheta * math.Pi / 360
		up = mgl64.Vec3{-math.Sin(t), 0, -math.Cos(t)}
		if c.state.ActualPhi < 0 {
			up = up.Mul(-1)
		}
	}
	c.view = mgl64.LookAtV(c.position, mgl64.Vec3{}, up)
}
