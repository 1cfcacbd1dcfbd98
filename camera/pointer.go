package camera

// Pointer turns raw desktop pointer events into queued inputs. A drag only
// exists while the primary button is held; moves without it are dropped.
type Pointer struct {
	queue *Queue
	down  bool
}

func NewPointer(queue *Queue) *Pointer {
	return &Pointer{queue: queue}
}

// Button records a primary button transition at (x, y).
func (p *Pointer) Button(pressed bool, x, y float64) {
	p.down = pressed
	if pressed {
		p.queue.Push(Press{X: x, Y: y})
	}
}

// Move reports a cursor position.
func (p *Pointer) Move(x, y float64) {
	if p.down {
		p.queue.Push(Drag{X: x, Y: y})
	}
}

// Scroll reports a vertical scroll offset in lines. Scrolling up (positive
// offset) zooms in.
func (p *Pointer) Scroll(yoff float64) {
	if yoff == 0 {
		return
	}
	p.queue.Push(Wheel{DeltaY: -yoff, Mode: WheelLine})
}

// Resize reports a new framebuffer height.
func (p *Pointer) Resize(height int) {
	if height > 0 {
		p.queue.Push(Viewport{Height: float64(height)})
	}
}

// Dragging reports whether the primary button is held.
func (p *Pointer) Dragging() bool {
	return p.down
}
