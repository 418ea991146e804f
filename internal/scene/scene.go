// Package scene defines the render-host boundary. The engine core never
// talks to a GPU; it pushes transforms to a Host and lets the embedder
// render them. Headless is the host used by tests and the demo binary.
package scene

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// TickFunc advances one frame by dt seconds.
type TickFunc func(dt float32)

// Host is the surface the engine drives each frame.
type Host interface {
	// OnTick registers a per-frame callback. Callbacks run in
	// registration order.
	OnTick(fn TickFunc)
	// PushTransform hands a named world transform to the host.
	PushTransform(name string, m mathx.Mat4)
	// Resize updates the host viewport.
	Resize(width, height int)
	// Run drives the tick loop at the given rate until ctx is done.
	Run(ctx context.Context, fps int) error
}

// Headless is a Host with no output surface. It records pushed transforms
// so tests and tools can inspect them.
type Headless struct {
	log *zap.Logger

	mu         sync.Mutex
	ticks      []TickFunc
	transforms map[string]mathx.Mat4
	width      int
	height     int
	frames     uint64
}

// NewHeadless creates a headless host.
func NewHeadless(log *zap.Logger) *Headless {
	if log == nil {
		log = zap.NewNop()
	}
	return &Headless{
		log:        log,
		transforms: make(map[string]mathx.Mat4),
		width:      1280,
		height:     720,
	}
}

// OnTick implements Host.
func (h *Headless) OnTick(fn TickFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ticks = append(h.ticks, fn)
}

// PushTransform implements Host.
func (h *Headless) PushTransform(name string, m mathx.Mat4) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transforms[name] = m
}

// Resize implements Host.
func (h *Headless) Resize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width = width
	h.height = height
	h.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Run implements Host: a fixed-rate tick loop until ctx is cancelled.
func (h *Headless) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			h.Step(dt)
		}
	}
}

// Step runs one frame directly, for tests and manual drivers.
func (h *Headless) Step(dt float32) {
	h.mu.Lock()
	ticks := make([]TickFunc, len(h.ticks))
	copy(ticks, h.ticks)
	h.frames++
	h.mu.Unlock()

	for _, fn := range ticks {
		fn(dt)
	}
}

// Transform returns the last transform pushed under name.
func (h *Headless) Transform(name string) (mathx.Mat4, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.transforms[name]
	return m, ok
}

// Frames returns the number of frames stepped so far.
func (h *Headless) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Viewport returns the current viewport size.
func (h *Headless) Viewport() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}
