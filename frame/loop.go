// Package frame drives the per-tick update: queued input is applied to the
// camera, the camera eases toward its target, the globe spins, and the
// renderer draws the result.
package frame

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"planetviewer/camera"
)

// Scene is everything a renderer needs for one frame.
type Scene struct {
	Camera        mgl64.Vec3
	Target        mgl64.Vec3
	Light         mgl64.Vec3
	View          mgl64.Mat4
	GlobeRotation float64 // radians about +Y
	CameraMoved   bool
	Zoom          float64
	RotationSpeed float64
}

// Renderer draws scenes.
type Renderer interface {
	Render(Scene) error
	ShouldClose() bool
}

// EventPoller is implemented by renderers that must pump window events each frame.
type EventPoller interface {
	PollEvents()
}

// Loop owns the camera controller and is the only code that touches it after
// startup; input arrives through the queue.
type Loop struct {
	controller *camera.Controller
	queue      *camera.Queue
	renderer   Renderer
	autorotate bool

	last     time.Time
	rotation float64
	frames   int
}

func NewLoop(controller *camera.Controller, queue *camera.Queue, renderer Renderer, autorotate bool) *Loop {
	return &Loop{
		controller: controller,
		queue:      queue,
		renderer:   renderer,
		autorotate: autorotate,
	}
}

// SetAutorotate switches autorotation; the spin eases in or out over the next ticks.
func (l *Loop) SetAutorotate(on bool) {
	l.autorotate = on
}

// Rotation returns the accumulated globe rotation in radians.
func (l *Loop) Rotation() float64 {
	return l.rotation
}

// Frames returns how many ticks have run.
func (l *Loop) Frames() int {
	return l.frames
}

// Step applies queued input and advances the camera by dt without rendering.
func (l *Loop) Step(dt time.Duration) Scene {
	for _, in := range l.queue.Drain() {
		l.controller.Apply(in)
	}

	f := l.controller.Advance(dt.Seconds(), l.autorotate)
	if f.Spin > 0 {
		l.rotation = math.Mod(l.rotation+f.Spin, 2*math.Pi)
	}
	l.frames++

	state := l.controller.State()
	return Scene{
		Camera:        f.Position,
		Target:        f.Target,
		Light:         f.Light,
		View:          l.controller.ViewMatrix(),
		GlobeRotation: l.rotation,
		CameraMoved:   f.Changed,
		Zoom:          state.ActualZoom,
		RotationSpeed: state.RotationSpeed,
	}
}

// Tick steps by the time since the previous tick and renders. The first tick
// has dt 0. A long stall saturates every easing factor, so the camera lands on
// its target instead of overshooting.
func (l *Loop) Tick(now time.Time) (Scene, error) {
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	l.last = now

	scene := l.Step(dt)
	return scene, l.renderer.Render(scene)
}

// Run ticks until ctx is cancelled, the renderer asks to close, or rendering
// fails. With a nil ticks channel it runs as fast as the renderer presents
// frames; otherwise it ticks on each value received.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	poller, _ := l.renderer.(EventPoller)
	for {
		if poller != nil {
			poller.PollEvents()
		}
		if l.renderer.ShouldClose() {
			return nil
		}

		now := time.Now()
		if ticks != nil {
			select {
			case <-ctx.Done():
				return nil
			case now = <-ticks:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		if _, err := l.Tick(now); err != nil {
			return err
		}
	}
}
