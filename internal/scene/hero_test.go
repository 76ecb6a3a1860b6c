package scene

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"sync"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

type recordingSurface struct {
	mu        sync.Mutex
	attached  *Field
	frames    []Frame
	limit     int
	releases  int
	attachErr error
	drawErr   error
}

func (s *recordingSurface) Attach(f *Field, proj Projection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = f
	return s.attachErr
}

func (s *recordingSurface) Draw(fr Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawErr != nil {
		return s.drawErr
	}
	s.frames = append(s.frames, fr)
	if s.limit > 0 && len(s.frames) >= s.limit {
		return ErrStop
	}
	return nil
}

func (s *recordingSurface) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return nil
}

func (s *recordingSurface) snapshot() ([]Frame, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...), s.releases
}

func seeded(seed uint64) Option {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return WithConfig(cfg)
}

func TestMountNilSurfaceIsInert(t *testing.T) {
	h, err := Mount(nil, Viewport{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Mounted() || h.Field() != nil {
		t.Fatal("expected inert hero without field")
	}
	if err := h.Run(context.Background()); err != nil {
		t.Errorf("Run on inert hero: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := h.Teardown(); err != nil {
			t.Errorf("Teardown on inert hero: %v", err)
		}
	}
}

func TestRunStopsOnErrStopAndReleasesOnce(t *testing.T) {
	s := &recordingSurface{limit: 5}
	h, err := Mount(s, Viewport{Width: 640, Height: 480},
		seeded(9), WithInterval(0), WithClock(&StepClock{Step: 0.5}))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if s.attached != h.Field() {
		t.Fatal("surface was not attached to the hero field")
	}

	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := h.Teardown(); err != nil {
		t.Fatalf("teardown: %v", err)
	}

	frames, releases := s.snapshot()
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	if releases != 1 {
		t.Errorf("expected exactly one release, got %d", releases)
	}
	for i, fr := range frames {
		if fr.Seq != i {
			t.Errorf("frame %d has seq %d", i, fr.Seq)
		}
		if fr.Pose != PoseAt(float64(i)*0.5) {
			t.Errorf("frame %d pose does not match clock", i)
		}
	}
}

func TestTeardownStopsRunningHero(t *testing.T) {
	s := &recordingSurface{}
	h, err := Mount(s, Viewport{Width: 320, Height: 200}, seeded(1), WithInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	if err := h.Teardown(); err != nil {
		t.Fatalf("teardown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after teardown")
	}

	frames, releases := s.snapshot()
	if len(frames) == 0 {
		t.Error("expected at least one frame before teardown")
	}
	if releases != 1 {
		t.Errorf("expected exactly one release, got %d", releases)
	}
	if err := h.Teardown(); err != nil {
		t.Errorf("second teardown: %v", err)
	}
	if err := h.Run(context.Background()); err != nil {
		t.Errorf("run after teardown: %v", err)
	}
	if _, releases := s.snapshot(); releases != 1 {
		t.Errorf("release repeated: %d", releases)
	}
}

func TestRunContextCancel(t *testing.T) {
	s := &recordingSurface{}
	h, err := Mount(s, Viewport{Width: 320, Height: 200}, seeded(2), WithInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()

	if err := h.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, releases := s.snapshot(); releases != 1 {
		t.Errorf("expected release on context exit, got %d", releases)
	}
}

func TestRunSurfaceError(t *testing.T) {
	boom := errors.New("boom")
	s := &recordingSurface{drawErr: boom}
	h, err := Mount(s, Viewport{Width: 10, Height: 10}, seeded(3), WithInterval(0))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := h.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected draw error, got %v", err)
	}
	if _, releases := s.snapshot(); releases != 1 {
		t.Errorf("expected release after draw error, got %d", releases)
	}
}

func TestMountAttachErrorReleases(t *testing.T) {
	s := &recordingSurface{attachErr: errors.New("no context")}
	if _, err := Mount(s, Viewport{Width: 10, Height: 10}, seeded(4)); err == nil {
		t.Fatal("expected attach error")
	}
	if _, releases := s.snapshot(); releases != 1 {
		t.Errorf("expected release after failed attach, got %d", releases)
	}
}

func TestResizeUpdatesProjection(t *testing.T) {
	s := &recordingSurface{limit: 2}
	h, err := Mount(s, Viewport{Width: 800, Height: 400}, seeded(5), WithInterval(0))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if got := h.Projection().Aspect; got != 2 {
		t.Fatalf("expected aspect 2, got %f", got)
	}
	h.Resize(Viewport{Width: 300, Height: 600})
	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	frames, _ := s.snapshot()
	if frames[0].Projection.Aspect != 0.5 {
		t.Errorf("expected resized aspect 0.5, got %f", frames[0].Projection.Aspect)
	}
}

func TestProjectOrigin(t *testing.T) {
	p := NewProjection(Viewport{Width: 800, Height: 600})
	x, y, ok := p.Project(r3.Vec{})
	if !ok || x != 400 || y != 300 {
		t.Errorf("expected origin at viewport center, got (%f, %f, %v)", x, y, ok)
	}
	if _, _, ok := p.Project(r3.Vec{Z: 20}); ok {
		t.Error("expected point behind the camera to be culled")
	}
}

func TestGIFSurface(t *testing.T) {
	var buf bytes.Buffer
	s := NewGIFSurface(&buf, 4)
	h, err := Mount(s, Viewport{Width: 160, Height: 90},
		seeded(6), WithInterval(0), WithClock(&StepClock{Step: 0.1}))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(g.Image))
	}
	if b := g.Image[0].Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Errorf("unexpected frame size %v", b)
	}
}

func TestGIFSurfaceRejectsEmptyViewport(t *testing.T) {
	if _, err := Mount(NewGIFSurface(&bytes.Buffer{}, 1), Viewport{}, seeded(1)); err == nil {
		t.Fatal("expected attach error for empty viewport")
	}
}

func TestClipSegment(t *testing.T) {
	x0, y0, x1, y1, ok := clipSegment(-10, 5, 30, 5, 0, 0, 10, 10)
	if !ok || x0 != 0 || x1 != 10 || y0 != 5 || y1 != 5 {
		t.Errorf("unexpected clip: (%f,%f)-(%f,%f) %v", x0, y0, x1, y1, ok)
	}
	if _, _, _, _, ok := clipSegment(-10, -10, -5, -5, 0, 0, 10, 10); ok {
		t.Error("expected segment outside box to be rejected")
	}
}
