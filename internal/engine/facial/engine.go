package facial

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Gaze tuning.
const (
	// gazeDeadZone is the minimum normalized direction component that
	// drives a look morph; smaller components leave the eyes neutral.
	gazeDeadZone = 0.1
	// maxGazeAngle is the eye rotation mapped to full morph weight, radians.
	maxGazeAngle = mathx.Pi / 4
)

// Engine resolves action units, emotions, visemes, blinking, and gaze into
// morph-target weights once per update.
//
// Resolution order: AU contributions combine per morph by maximum, a blended
// emotion mix contributes its summed per-morph weights, the current viseme
// then overwrites the mouth morphs it names (last write wins), and blinking
// and gaze overwrite the eye morphs they own.
type Engine struct {
	morphs  *model.MorphSet
	log     *zap.Logger
	blinker *Blinker

	aus          map[int]auActivation
	blend        map[string]float32
	visemeMorphs map[string]float32
	visemeWeight float32

	gazeTarget mathx.Vec3
	hasGaze    bool

	applied map[string]bool
}

// NewEngine creates a facial engine over a model's morph set. rng seeds the
// blink schedule; nil uses a time-seeded source.
func NewEngine(morphs *model.MorphSet, rng *rand.Rand, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		morphs:  morphs,
		log:     log,
		blinker: NewBlinker(rng),
		aus:     make(map[int]auActivation),
		applied: make(map[string]bool),
	}
}

// Blinker exposes the automatic blink controller.
func (e *Engine) Blinker() *Blinker {
	return e.blinker
}

// SetAU activates an action unit at a FACS intensity of 0 to 5. Intensity 0
// deactivates it.
func (e *Engine) SetAU(id int, intensity float32) error {
	if _, ok := LookupAU(id); !ok {
		return fmt.Errorf("unknown action unit %d", id)
	}
	if intensity <= 0 {
		delete(e.aus, id)
		return nil
	}
	e.aus[id] = auActivation{weight: 1, intensity: mathx.Clamp(intensity, 0, MaxIntensity)}
	return nil
}

// PlayEmotion replaces the active expression with a preset at the given
// intensity, 0 to 1.
func (e *Engine) PlayEmotion(name string, intensity float32) error {
	preset, err := presetFor(name)
	if err != nil {
		return err
	}
	intensity = mathx.Clamp01(intensity)

	e.aus = make(map[int]auActivation, len(preset))
	e.blend = nil
	for _, aw := range preset {
		e.aus[aw.au] = auActivation{weight: aw.weight, intensity: intensity * MaxIntensity}
	}
	e.log.Debug("emotion set", zap.String("emotion", name), zap.Float32("intensity", intensity))
	return nil
}

// BlendEmotions replaces the active expression with a normalized mix of
// presets. Weights are relative; {happiness: 1, sadness: 1} plays each at
// half strength. Each preset resolves to its per-morph weights first, and
// presets reaching the same morph sum rather than shadow each other; the
// sum is clamped at application time.
func (e *Engine) BlendEmotions(weights map[string]float32) error {
	var total float32
	for name, w := range weights {
		if _, err := presetFor(name); err != nil {
			return err
		}
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return fmt.Errorf("emotion blend needs at least one positive weight")
	}

	blended := make(map[string]float32)
	for name, w := range weights {
		if w <= 0 {
			continue
		}
		preset, _ := presetFor(name)
		scale := w / total
		for _, aw := range preset {
			for morph, influence := range actionUnits[aw.au].Influences {
				blended[morph] += aw.weight * influence * scale
			}
		}
	}

	e.aus = make(map[int]auActivation)
	e.blend = blended
	return nil
}

// ClearExpression deactivates every action unit and any blended mix.
func (e *Engine) ClearExpression() {
	e.aus = make(map[int]auActivation)
	e.blend = nil
}

// SetViseme sets the current speech mouth shape at the given weight, 0 to 1.
// "sil" (or weight 0) rests the mouth.
func (e *Engine) SetViseme(name string, weight float32) error {
	v, err := visemeFor(name)
	if err != nil {
		return err
	}
	e.visemeMorphs = v
	e.visemeWeight = mathx.Clamp01(weight)
	return nil
}

// SetGazeTarget aims the eyes at a point in head-local space. Direction
// components inside the dead zone drive no look morphs.
func (e *Engine) SetGazeTarget(target mathx.Vec3) {
	e.gazeTarget = target
	e.hasGaze = true
}

// ClearGaze releases the eyes to neutral.
func (e *Engine) ClearGaze() {
	e.hasGaze = false
}

// Update resolves the current facial state into morph weights. Morphs driven
// last update but not this one are returned to zero.
func (e *Engine) Update(dt float32) {
	resolve := make(map[string]float32)

	// Action units, combined per morph by maximum.
	for id, act := range e.aus {
		au := actionUnits[id]
		for morph, influence := range au.Influences {
			if c := act.contribution(influence); c > resolve[morph] {
				resolve[morph] = c
			}
		}
	}

	// A blended emotion mix arrives already summed per morph.
	for morph, w := range e.blend {
		if w > resolve[morph] {
			resolve[morph] = w
		}
	}

	// The viseme owns the mouth morphs it names.
	if e.visemeWeight > 0 {
		for morph, w := range e.visemeMorphs {
			resolve[morph] = w * e.visemeWeight
		}
	}

	// Blinking owns the lids.
	e.blinker.Update(dt)
	if e.blinker.Enabled {
		resolve["eyeBlinkLeft"] = e.blinker.Amount()
		resolve["eyeBlinkRight"] = e.blinker.Amount()
	}

	if e.hasGaze {
		e.applyGaze(resolve)
	}

	// Zero out anything no longer driven, then write the new weights.
	for morph := range e.applied {
		if _, still := resolve[morph]; !still {
			e.morphs.Set(morph, 0)
		}
	}
	applied := make(map[string]bool, len(resolve))
	for morph, w := range resolve {
		e.morphs.Set(morph, mathx.Clamp01(w))
		applied[morph] = true
	}
	e.applied = applied
}

// applyGaze converts the gaze target direction into eye-look morph weights.
// Horizontal and vertical components inside the dead zone stay neutral.
func (e *Engine) applyGaze(resolve map[string]float32) {
	dir := e.gazeTarget.Normalize()
	if dir.Length() == 0 {
		return
	}

	var h, v float32
	if mathx.Abs(dir.X) >= gazeDeadZone {
		yaw := mathx.Atan2(dir.X, dir.Z)
		h = mathx.Clamp(yaw/maxGazeAngle, -1, 1)
	}
	if mathx.Abs(dir.Y) >= gazeDeadZone {
		pitch := mathx.Atan2(dir.Y, mathx.Sqrt(dir.X*dir.X+dir.Z*dir.Z))
		v = mathx.Clamp(pitch/maxGazeAngle, -1, 1)
	}

	if h > 0 { // target to the character's right
		resolve["eyeLookOutRight"] = h
		resolve["eyeLookInLeft"] = h
	} else if h < 0 {
		resolve["eyeLookOutLeft"] = -h
		resolve["eyeLookInRight"] = -h
	}
	if v > 0 {
		resolve["eyeLookUpLeft"] = v
		resolve["eyeLookUpRight"] = v
	} else if v < 0 {
		resolve["eyeLookDownLeft"] = -v
		resolve["eyeLookDownRight"] = -v
	}
}
