package scene

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrStop is returned by a Surface that has drawn its last frame.
var ErrStop = errors.New("scene: surface finished")

// ErrRunning is returned when Run is called on a hero that is already running.
var ErrRunning = errors.New("scene: hero already running")

// DefaultInterval paces frames at 60 per second.
const DefaultInterval = time.Second / 60

// Frame is the per-tick input of a Surface.
type Frame struct {
	Seq        int        `json:"seq"`
	Pose       Pose       `json:"pose"`
	Projection Projection `json:"projection"`
}

// Surface is the display a hero renders into. Attach is called once on mount
// with the static field, Draw once per frame, Release once on teardown.
type Surface interface {
	Attach(f *Field, proj Projection) error
	Draw(fr Frame) error
	Release() error
}

// Option configures a Hero.
type Option func(*Hero)

// WithConfig sets the field configuration.
func WithConfig(cfg Config) Option {
	return func(h *Hero) { h.cfg = cfg }
}

// WithRand injects the random source used to generate the field.
func WithRand(rng *rand.Rand) Option {
	return func(h *Hero) { h.rng = rng }
}

// WithClock sets the animation clock.
func WithClock(c Clock) Option {
	return func(h *Hero) { h.clock = c }
}

// WithInterval sets the frame pacing. Zero or less draws frames back to back.
func WithInterval(d time.Duration) Option {
	return func(h *Hero) { h.interval = d }
}

// Hero owns a mounted surface, its point field and the frame loop.
type Hero struct {
	cfg      Config
	rng      *rand.Rand
	clock    Clock
	interval time.Duration

	surface Surface
	field   *Field

	mu       sync.Mutex
	proj     Projection
	running  bool
	released bool
	stop     chan struct{}
	stopOnce sync.Once
}

// Mount builds the field and attaches it to surface. A nil surface yields an
// inert hero: nothing is generated, Run returns at once and Teardown is a no-op.
// A typed nil of a surface outside this package must be passed as untyped nil.
func Mount(surface Surface, vp Viewport, opts ...Option) (*Hero, error) {
	h := &Hero{
		cfg:      DefaultConfig(),
		clock:    WallClock{},
		interval: DefaultInterval,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if absent(surface) {
		return h, nil
	}

	h.field = Generate(h.cfg, h.rng)
	h.proj = NewProjection(vp)
	if err := surface.Attach(h.field, h.proj); err != nil {
		_ = surface.Release()
		return nil, fmt.Errorf("attach surface: %w", err)
	}
	h.surface = surface
	return h, nil
}

// absent reports whether surface is nil, including a typed nil pointer to one
// of this package's surfaces.
func absent(surface Surface) bool {
	switch s := surface.(type) {
	case nil:
		return true
	case *GIFSurface:
		return s == nil
	}
	return false
}

// Mounted reports whether the hero has a surface.
func (h *Hero) Mounted() bool {
	return h.surface != nil
}

// Field returns the generated field, nil for an inert hero.
func (h *Hero) Field() *Field {
	return h.field
}

// Projection returns the current camera.
func (h *Hero) Projection() Projection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.proj
}

// Resize updates the camera for the next frame.
func (h *Hero) Resize(vp Viewport) {
	h.mu.Lock()
	h.proj = NewProjection(vp)
	h.mu.Unlock()
}

// Run draws frames until ctx is done, Teardown is called or the surface
// returns an error. ErrStop from the surface ends the loop without error.
// The surface is released when Run returns.
func (h *Hero) Run(ctx context.Context) (err error) {
	if h.surface == nil {
		return nil
	}
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrRunning
	}
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		if rerr := h.Teardown(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	var tick <-chan time.Time
	if h.interval > 0 {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for seq := 0; ; seq++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.stop:
			return nil
		default:
		}

		if err := h.draw(seq); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}

		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.stop:
			return nil
		case <-tick:
		}
	}
}

func (h *Hero) draw(seq int) error {
	t := h.clock.Now()
	fr := Frame{
		Seq:        seq,
		Pose:       PoseAt(t),
		Projection: h.Projection(),
	}
	return h.surface.Draw(fr)
}

// Teardown stops scheduling frames and releases the surface exactly once.
// If Run is active the release happens as Run returns. Safe to call any
// number of times, including on an inert hero.
func (h *Hero) Teardown() error {
	h.stopOnce.Do(func() { close(h.stop) })
	if h.surface == nil {
		return nil
	}

	h.mu.Lock()
	if h.running || h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	h.mu.Unlock()

	if err := h.surface.Release(); err != nil {
		return fmt.Errorf("release surface: %w", err)
	}
	return nil
}
