package frame

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"planetviewer/camera"
)

type fakeRenderer struct {
	scenes     []Scene
	closeAfter int
	polls      int
	err        error
}

func (r *fakeRenderer) Render(s Scene) error {
	r.scenes = append(r.scenes, s)
	return r.err
}

func (r *fakeRenderer) ShouldClose() bool {
	return r.closeAfter > 0 && len(r.scenes) >= r.closeAfter
}

func (r *fakeRenderer) PollEvents() {
	r.polls++
}

func TestTickAppliesQueuedInput(t *testing.T) {
	q := camera.NewQueue()
	r := &fakeRenderer{}
	l := NewLoop(camera.NewController(4), q, r, false)

	for i := 0; i < 3; i++ {
		q.Push(camera.Zoom{Delta: -1})
	}

	start := time.Unix(0, 0)
	var scene Scene
	for i := 0; i < 300; i++ {
		var err error
		scene, err = l.Tick(start.Add(time.Duration(i) * 16 * time.Millisecond))
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	if q.Len() != 0 {
		t.Errorf("queue still holds %d events", q.Len())
	}
	if got := scene.Camera.Len(); math.Abs(got-3.7) > 1e-9 {
		t.Errorf("camera distance = %v, want 3.7", got)
	}
	if math.Abs(scene.Zoom-3.7) > 1e-9 {
		t.Errorf("scene zoom = %v, want 3.7", scene.Zoom)
	}
	if len(r.scenes) != 300 || l.Frames() != 300 {
		t.Errorf("rendered %d scenes over %d frames, want 300", len(r.scenes), l.Frames())
	}
	if scene.CameraMoved {
		t.Error("camera still moving after settling")
	}
}

func TestFirstTickHasNoElapsedTime(t *testing.T) {
	q := camera.NewQueue()
	l := NewLoop(camera.NewController(4), q, &fakeRenderer{}, true)
	q.Push(camera.Zoom{Delta: 10})

	scene, err := l.Tick(time.Now())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if scene.Zoom != 4 {
		t.Errorf("actual zoom moved to %v on the first tick", scene.Zoom)
	}
	if scene.GlobeRotation != 0 {
		t.Errorf("globe rotated %v on the first tick", scene.GlobeRotation)
	}
}

func TestAutorotationAccumulates(t *testing.T) {
	l := NewLoop(camera.NewController(4), camera.NewQueue(), &fakeRenderer{}, true)

	// Speeds ramp 0.2, 0.4, 0.6, 0.8, 1 at dt = 100ms.
	for i := 0; i < 5; i++ {
		l.Step(100 * time.Millisecond)
	}
	want := (0.2 + 0.4 + 0.6 + 0.8 + 1) * camera.RotationFullSpeed
	if math.Abs(l.Rotation()-want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", l.Rotation(), want)
	}

	l.SetAutorotate(false)
	for i := 0; i < 10; i++ {
		l.Step(100 * time.Millisecond)
	}
	stopped := l.Rotation()
	l.Step(100 * time.Millisecond)
	if l.Rotation() != stopped {
		t.Errorf("globe kept spinning after autorotation stopped")
	}
}

func TestRunStopsWhenRendererCloses(t *testing.T) {
	r := &fakeRenderer{closeAfter: 5}
	l := NewLoop(camera.NewController(4), camera.NewQueue(), r, false)

	if err := l.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.scenes) != 5 {
		t.Errorf("rendered %d scenes, want 5", len(r.scenes))
	}
	if r.polls < 5 {
		t.Errorf("polled events %d times, want at least 5", r.polls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	r := &fakeRenderer{}
	l := NewLoop(camera.NewController(4), camera.NewQueue(), r, false)

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, ticks) }()

	now := time.Now()
	for i := 0; i < 3; i++ {
		ticks <- now.Add(time.Duration(i) * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if l.Frames() != 3 {
		t.Errorf("ran %d frames, want 3", l.Frames())
	}
}

func TestRunReturnsRenderError(t *testing.T) {
	boom := errors.New("context lost")
	l := NewLoop(camera.NewController(4), camera.NewQueue(), &fakeRenderer{err: boom}, false)

	if err := l.Run(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}
