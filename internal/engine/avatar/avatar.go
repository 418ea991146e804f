// Package avatar is the engine facade: one animated character, its loaded
// model, and the animation, facial, and IK subsystems driving it.
package avatar

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/cache"
	"github.com/lumina3d/avatarcore/internal/engine/animation"
	"github.com/lumina3d/avatarcore/internal/engine/facial"
	"github.com/lumina3d/avatarcore/internal/engine/ik"
	"github.com/lumina3d/avatarcore/internal/engine/model"
	"github.com/lumina3d/avatarcore/internal/loader"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// ikChain is one named IK chain with its current target.
type ikChain struct {
	chain   *ik.Chain
	target  mathx.Vec3
	enabled bool
}

// Avatar owns one character. All methods are safe for a single goroutine
// driving Update plus control calls from the same goroutine; cross-goroutine
// control goes through the mutex.
type Avatar struct {
	log      *zap.Logger
	pipeline *loader.Pipeline
	cache    *cache.Cache
	rng      *rand.Rand

	mu         sync.Mutex
	model      *model.AnimatedModel
	mixer      *animation.Mixer
	procedural *animation.ProceduralRunner
	face       *facial.Engine
	chains     map[string]*ikChain
	disposed   bool
}

// New creates an avatar without a model; call LoadModel before Update does
// anything. rng seeds the blink schedule and may be nil.
func New(pipeline *loader.Pipeline, c *cache.Cache, rng *rand.Rand, log *zap.Logger) *Avatar {
	if log == nil {
		log = zap.NewNop()
	}
	return &Avatar{
		log:      log,
		pipeline: pipeline,
		cache:    c,
		rng:      rng,
		chains:   make(map[string]*ikChain),
	}
}

// LoadModel fetches a model through the cache or the pipeline and installs
// it, rebuilding every subsystem around the new skeleton and morph set. The
// previous model is disposed.
func (a *Avatar) LoadModel(ctx context.Context, opts loader.Options) error {
	var m *model.AnimatedModel
	if opts.Cache && a.cache != nil {
		if cached, ok := a.cache.Get(opts.URL); ok {
			a.log.Debug("model served from cache", zap.String("url", opts.URL))
			m = cached
		}
	}
	if m == nil {
		loaded, err := a.pipeline.Load(ctx, opts)
		if err != nil {
			return err
		}
		m = loaded
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.install(m)
	return nil
}

// UseModel installs an already-built model, for tests and embedders that
// bypass the pipeline.
func (a *Avatar) UseModel(m *model.AnimatedModel) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.install(m)
}

func (a *Avatar) install(m *model.AnimatedModel) {
	if a.model != nil {
		a.model.Dispose()
	}
	a.model = m
	a.mixer = animation.NewMixer(m.Skeleton, a.log)
	a.procedural = animation.NewProceduralRunner(m.Skeleton, a.log)
	a.face = facial.NewEngine(m.Morphs, a.rng, a.log)
	a.chains = make(map[string]*ikChain)
}

// Model returns the installed model, or nil.
func (a *Avatar) Model() *model.AnimatedModel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

// PlayAnimation starts a clip on the base layer.
func (a *Avatar) PlayAnimation(name string, fadeIn float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	clip, err := a.clip(name)
	if err != nil {
		return err
	}
	a.mixer.Play(clip, animation.PlayOptions{Layer: animation.LayerBase, FadeIn: fadeIn})
	return nil
}

// StopAnimation stops a base-layer clip with an optional fade-out.
func (a *Avatar) StopAnimation(name string, fadeOut float32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mixer == nil {
		return false
	}
	return a.mixer.Stop(name, animation.LayerBase, fadeOut)
}

// PlayGesture starts a clip on the gesture layer. onFinished, if set, fires
// exactly once when a one-shot gesture completes.
func (a *Avatar) PlayGesture(name string, onFinished func(clip string)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	clip, err := a.clip(name)
	if err != nil {
		return err
	}
	a.mixer.Play(clip, animation.PlayOptions{
		Layer:      animation.LayerGestures,
		OnFinished: onFinished,
	})
	return nil
}

// StopGesture stops a gesture-layer clip.
func (a *Avatar) StopGesture(name string, fadeOut float32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mixer == nil {
		return false
	}
	return a.mixer.Stop(name, animation.LayerGestures, fadeOut)
}

// IsPlaying reports whether a clip is active on the base or gesture layer.
func (a *Avatar) IsPlaying(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mixer == nil {
		return false
	}
	return a.mixer.IsPlaying(name, animation.LayerBase) ||
		a.mixer.IsPlaying(name, animation.LayerGestures)
}

// AddProcedural registers a generated motion.
func (a *Avatar) AddProcedural(p animation.Procedural) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.procedural == nil {
		return errNoModel
	}
	return a.procedural.Add(p)
}

// RemoveProcedural unregisters a generated motion.
func (a *Avatar) RemoveProcedural(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.procedural == nil {
		return false
	}
	return a.procedural.Remove(name)
}

// PlayEmotion sets a facial expression preset at intensity 0 to 1.
func (a *Avatar) PlayEmotion(name string, intensity float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.face == nil {
		return errNoModel
	}
	return a.face.PlayEmotion(name, intensity)
}

// BlendEmotions mixes expression presets by normalized weights.
func (a *Avatar) BlendEmotions(weights map[string]float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.face == nil {
		return errNoModel
	}
	return a.face.BlendEmotions(weights)
}

// SetViseme sets the speech mouth shape.
func (a *Avatar) SetViseme(name string, weight float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.face == nil {
		return errNoModel
	}
	return a.face.SetViseme(name, weight)
}

// SetGazeTarget aims the eyes at a head-local point.
func (a *Avatar) SetGazeTarget(target mathx.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.face != nil {
		a.face.SetGazeTarget(target)
	}
}

// Face exposes the facial engine for direct AU control, or nil before a
// model is installed.
func (a *Avatar) Face() *facial.Engine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.face
}

// AddIKChain creates a named chain over a contiguous bone run.
func (a *Avatar) AddIKChain(name string, bones []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil || a.model.Skeleton == nil {
		return errNoModel
	}
	c, err := ik.NewChain(a.model.Skeleton, bones, a.log)
	if err != nil {
		return err
	}
	a.chains[name] = &ikChain{chain: c}
	return nil
}

// SetIKTarget aims a chain at a world-space point and enables it.
func (a *Avatar) SetIKTarget(chain string, target mathx.Vec3) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.chains[chain]
	if !ok {
		return fmt.Errorf("unknown ik chain %q", chain)
	}
	c.target = target
	c.enabled = true
	return nil
}

// DisableIK stops a chain from solving.
func (a *Avatar) DisableIK(chain string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.chains[chain]
	if !ok {
		return fmt.Errorf("unknown ik chain %q", chain)
	}
	c.enabled = false
	return nil
}

// Update advances the character one tick: skeletal mixing, procedural
// motion, facial resolution, then IK. Subsystem problems are logged and
// skipped; a tick never fails.
func (a *Avatar) Update(dt float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil || a.disposed {
		return
	}

	a.mixer.Update(dt)
	a.procedural.Update(dt)
	a.face.Update(dt)

	for name, c := range a.chains {
		if !c.enabled {
			continue
		}
		if !c.chain.Solve(c.target) {
			a.log.Debug("ik target unreachable", zap.String("chain", name))
		}
		if v := c.chain.Violations(); len(v) > 0 {
			a.log.Debug("ik constraints exceeded", zap.String("chain", name), zap.Strings("bones", v))
		}
	}
}

// CacheStats returns a snapshot of the model cache accounting.
func (a *Avatar) CacheStats() cache.Stats {
	if a.cache == nil {
		return cache.Stats{}
	}
	return a.cache.Stats()
}

// ClearCache drops every cached model, keeping hit accounting.
func (a *Avatar) ClearCache() {
	if a.cache != nil {
		a.cache.Clear()
	}
}

// Dispose releases the current model. The avatar cannot be used afterwards.
func (a *Avatar) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return
	}
	a.disposed = true
	if a.model != nil {
		a.model.Dispose()
		a.model = nil
	}
}

var errNoModel = fmt.Errorf("no model installed")

func (a *Avatar) clip(name string) (*model.Clip, error) {
	if a.model == nil {
		return nil, errNoModel
	}
	clip := a.model.Clip(name)
	if clip == nil {
		return nil, fmt.Errorf("clip %q not in model", name)
	}
	return clip, nil
}
