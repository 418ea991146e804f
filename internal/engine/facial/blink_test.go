package facial

import (
	"math/rand"
	"testing"
)

// stepUntilBlink advances the blinker in small steps until the lids start
// closing, returning the elapsed time. Fails the test after maxSeconds.
func stepUntilBlink(t *testing.T, b *Blinker, maxSeconds float32) float32 {
	t.Helper()
	const dt = 0.01
	var elapsed float32
	for elapsed < maxSeconds {
		b.Update(dt)
		elapsed += dt
		if b.Amount() > 0 {
			return elapsed
		}
	}
	t.Fatalf("no blink within %vs", maxSeconds)
	return 0
}

func TestBlinkScheduleWindow(t *testing.T) {
	// Several seeds: the first blink always starts between 2 and 6 seconds.
	for seed := int64(0); seed < 5; seed++ {
		b := NewBlinker(rand.New(rand.NewSource(seed)))
		start := stepUntilBlink(t, b, 7)
		if start < blinkMinInterval || start > blinkMaxInterval+0.1 {
			t.Errorf("seed %d: blink started at %vs, want within [%v, %v]", seed, start, blinkMinInterval, blinkMaxInterval)
		}
	}
}

func TestBlinkCycle(t *testing.T) {
	b := NewBlinker(rand.New(rand.NewSource(3)))
	stepUntilBlink(t, b, 7)

	// Lids close fully, then reopen; the whole blink takes ~0.15s.
	const dt = 0.005
	var peak, duration float32
	for i := 0; i < 100; i++ {
		if a := b.Amount(); a > peak {
			peak = a
		}
		if b.Amount() == 0 {
			break
		}
		b.Update(dt)
		duration += dt
	}
	if peak < 0.99 {
		t.Errorf("peak closure = %v, want 1", peak)
	}
	if duration > blinkDuration+0.02 {
		t.Errorf("blink took %vs, want about %vs", duration, blinkDuration)
	}
	if b.Amount() != 0 {
		t.Errorf("Amount() = %v after blink, want 0", b.Amount())
	}
}

func TestTriggerBlink(t *testing.T) {
	b := NewBlinker(rand.New(rand.NewSource(1)))
	b.TriggerBlink()
	b.Update(0.01)
	b.Update(0.01)
	if b.Amount() <= 0 {
		t.Error("TriggerBlink() did not start a blink")
	}
}

func TestBlinkDisabled(t *testing.T) {
	b := NewBlinker(rand.New(rand.NewSource(1)))
	b.Enabled = false
	for i := 0; i < 1000; i++ {
		b.Update(0.01)
	}
	if b.Amount() != 0 {
		t.Errorf("Amount() = %v with blinking disabled, want 0", b.Amount())
	}
}
