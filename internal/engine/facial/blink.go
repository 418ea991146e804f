package facial

import (
	"math/rand"
	"time"
)

// Blink timing. A blink takes blinkDuration seconds, half closing and half
// opening, and the pause between blinks is uniform in [blinkMinInterval,
// blinkMaxInterval].
const (
	blinkDuration    = 0.15
	blinkMinInterval = 2.0
	blinkMaxInterval = 6.0
)

type blinkState uint8

const (
	blinkOpen blinkState = iota
	blinkClosing
	blinkOpening
)

// Blinker schedules and animates automatic eye blinks. Amount goes 0 to 1
// and back over one blink. The timing fields may be tuned before the first
// Update.
type Blinker struct {
	Enabled     bool
	Duration    float32 // seconds per blink, half closing and half opening
	MinInterval float32 // seconds between blinks, lower bound
	MaxInterval float32 // seconds between blinks, upper bound

	rng     *rand.Rand
	state   blinkState
	next    float32 // seconds until the next blink starts
	elapsed float32 // seconds into the current phase
	amount  float32
}

// NewBlinker creates an enabled blinker with default timing. A nil rng gets
// a time-seeded one; tests pass a fixed seed for repeatable schedules.
func NewBlinker(rng *rand.Rand) *Blinker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &Blinker{
		Enabled:     true,
		Duration:    blinkDuration,
		MinInterval: blinkMinInterval,
		MaxInterval: blinkMaxInterval,
		rng:         rng,
	}
	b.next = b.interval()
	return b
}

// Amount returns the current lid closure, 0 open to 1 closed.
func (b *Blinker) Amount() float32 {
	return b.amount
}

// Update advances the blink cycle by dt seconds.
func (b *Blinker) Update(dt float32) {
	if !b.Enabled {
		b.state = blinkOpen
		b.amount = 0
		return
	}

	half := b.Duration / 2
	switch b.state {
	case blinkOpen:
		b.next -= dt
		if b.next <= 0 {
			b.state = blinkClosing
			b.elapsed = 0
		}
	case blinkClosing:
		b.elapsed += dt
		b.amount = b.elapsed / half
		if b.amount >= 1 {
			b.amount = 1
			b.state = blinkOpening
			b.elapsed = 0
		}
	case blinkOpening:
		b.elapsed += dt
		b.amount = 1 - b.elapsed/half
		if b.amount <= 0 {
			b.amount = 0
			b.state = blinkOpen
			b.next = b.interval()
		}
	}
}

// TriggerBlink starts a blink immediately unless one is in progress.
func (b *Blinker) TriggerBlink() {
	if b.state == blinkOpen {
		b.next = 0
	}
}

func (b *Blinker) interval() float32 {
	return b.MinInterval + b.rng.Float32()*(b.MaxInterval-b.MinInterval)
}
