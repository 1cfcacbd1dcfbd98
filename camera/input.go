package camera

import "sync"

// Input is a normalized user input event. Events are queued by whatever owns
// the device (window callbacks, a websocket reader) and applied to the
// controller once per tick.
type Input interface {
	apply(c *Controller)
}

// Press anchors a drag.
type Press struct{ X, Y float64 }

// Drag moves the pointer with the button held.
type Drag struct{ X, Y float64 }

// Zoom changes the target zoom by Delta zoom steps.
type Zoom struct{ Delta float64 }

// WheelMode is the unit a wheel delta is reported in.
type WheelMode int

const (
	WheelPixel WheelMode = iota
	WheelLine
	WheelPage
)

// Divisor converts a wheel delta in this mode to zoom steps.
func (m WheelMode) Divisor() float64 {
	switch m {
	case WheelLine:
		return 3
	case WheelPage:
		return 1
	default:
		return 100
	}
}

// Wheel is a scroll event; positive DeltaY zooms out.
type Wheel struct {
	DeltaY float64
	Mode   WheelMode
}

// PinchStart resets the pinch baseline when a two-finger gesture begins or
// one of several touches lifts.
type PinchStart struct{ X1, Y1, X2, Y2 float64 }

// Pinch zooms by the change in distance between two touches.
type Pinch struct{ X1, Y1, X2, Y2 float64 }

// Viewport reports a new drawing height in pixels.
type Viewport struct{ Height float64 }

func (e Press) apply(c *Controller)      { c.PressDown(e.X, e.Y) }
func (e Drag) apply(c *Controller)       { c.PressMove(e.X, e.Y) }
func (e Zoom) apply(c *Controller)       { c.ZoomChange(e.Delta) }
func (e Wheel) apply(c *Controller)      { c.ZoomChange(e.DeltaY / e.Mode.Divisor()) }
func (e PinchStart) apply(c *Controller) { c.TouchesUpdate(e.X1, e.Y1, e.X2, e.Y2) }
func (e Pinch) apply(c *Controller)      { c.TouchesMove(e.X1, e.Y1, e.X2, e.Y2) }
func (e Viewport) apply(c *Controller)   { c.SetViewportHeight(e.Height) }

// Apply feeds one input event to the controller.
func (c *Controller) Apply(in Input) {
	in.apply(c)
}

// Queue buffers input between ticks. Push may be called from any goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Input
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event.
func (q *Queue) Push(in Input) {
	q.mu.Lock()
	q.events = append(q.events, in)
	q.mu.Unlock()
}

// Drain returns the queued events in arrival order and empties the queue.
func (q *Queue) Drain() []Input {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// Len reports how many events are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
