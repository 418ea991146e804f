package scene

import (
	"context"
	"errors"
	"testing"
	"time"

	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

func TestHeadlessStepOrder(t *testing.T) {
	h := NewHeadless(nil)

	var order []int
	h.OnTick(func(float32) { order = append(order, 1) })
	h.OnTick(func(float32) { order = append(order, 2) })

	h.Step(0.016)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("tick order = %v, want [1 2]", order)
	}
	if h.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", h.Frames())
	}
}

func TestHeadlessTransforms(t *testing.T) {
	h := NewHeadless(nil)

	if _, ok := h.Transform("head"); ok {
		t.Error("Transform() found a transform never pushed")
	}

	m := mathx.Translate(1, 2, 3)
	h.PushTransform("head", m)
	got, ok := h.Transform("head")
	if !ok {
		t.Fatal("pushed transform not found")
	}
	if got != m {
		t.Error("stored transform differs from pushed transform")
	}
}

func TestHeadlessResize(t *testing.T) {
	h := NewHeadless(nil)
	h.Resize(640, 480)
	w, hgt := h.Viewport()
	if w != 640 || hgt != 480 {
		t.Errorf("Viewport() = %dx%d, want 640x480", w, hgt)
	}
}

func TestHeadlessRunStopsOnCancel(t *testing.T) {
	h := NewHeadless(nil)

	ticked := make(chan struct{}, 1)
	h.OnTick(func(float32) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, 120) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
