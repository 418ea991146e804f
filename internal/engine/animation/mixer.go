package animation

import (
	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// PlayOptions configures one Play call.
type PlayOptions struct {
	Layer  Layer
	Weight float32 // 0 means the layer default
	Speed  float32 // 0 means 1
	FadeIn float32 // seconds; 0 starts at full weight

	// OnFinished fires exactly once when a one-shot clip reaches its end.
	// Looping clips never finish.
	OnFinished func(clip string)
}

// ActiveAnimation is one playing clip on one layer.
type ActiveAnimation struct {
	clip   *model.Clip
	layer  Layer
	weight float32
	speed  float32

	elapsed     float32 // clip time, scaled by speed
	wallElapsed float32 // real seconds since Play; fades run on this clock
	fadeIn      float32

	fadingOut   bool
	fadeOut     float32
	fadeOutLeft float32

	onFinished func(string)
	notified   bool
}

// Clip returns the clip name.
func (a *ActiveAnimation) Clip() string { return a.clip.Name }

// Elapsed returns seconds played, scaled by speed.
func (a *ActiveAnimation) Elapsed() float32 { return a.elapsed }

// effectiveWeight folds fade-in and fade-out into the configured weight.
func (a *ActiveAnimation) effectiveWeight() float32 {
	w := a.weight
	if a.fadeIn > 0 && a.wallElapsed < a.fadeIn {
		w *= a.wallElapsed / a.fadeIn
	}
	if a.fadingOut && a.fadeOut > 0 {
		w *= a.fadeOutLeft / a.fadeOut
	}
	return mathx.Clamp01(w)
}

// Mixer blends active clips into a skeleton's local bone transforms. At most
// one ActiveAnimation exists per (layer, clip name); replaying a clip on the
// same layer restarts it.
type Mixer struct {
	skeleton *model.Skeleton
	log      *zap.Logger
	layers   map[Layer][]*ActiveAnimation
}

// NewMixer creates a mixer driving the given skeleton.
func NewMixer(skeleton *model.Skeleton, log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mixer{
		skeleton: skeleton,
		log:      log,
		layers:   make(map[Layer][]*ActiveAnimation),
	}
}

// Play starts a clip on a layer, replacing a previous instance of the same
// clip there.
func (m *Mixer) Play(clip *model.Clip, opts PlayOptions) *ActiveAnimation {
	if opts.Weight == 0 {
		opts.Weight = opts.Layer.DefaultWeight()
	}
	if opts.Speed == 0 {
		opts.Speed = 1
	}

	a := &ActiveAnimation{
		clip:       clip,
		layer:      opts.Layer,
		weight:     opts.Weight,
		speed:      opts.Speed,
		fadeIn:     opts.FadeIn,
		onFinished: opts.OnFinished,
	}

	active := m.layers[opts.Layer]
	replaced := false
	for i, old := range active {
		if old.clip.Name == clip.Name {
			active[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		active = append(active, a)
	}
	m.layers[opts.Layer] = active

	m.log.Debug("clip started",
		zap.String("clip", clip.Name),
		zap.String("layer", opts.Layer.String()),
		zap.Float32("weight", opts.Weight),
		zap.Float32("speed", opts.Speed))
	return a
}

// Stop removes a clip from a layer, fading out over fadeOut seconds when
// positive. Returns false if the clip was not playing there.
func (m *Mixer) Stop(clipName string, layer Layer, fadeOut float32) bool {
	active := m.layers[layer]
	for i, a := range active {
		if a.clip.Name != clipName {
			continue
		}
		if fadeOut <= 0 {
			m.layers[layer] = append(active[:i], active[i+1:]...)
		} else if !a.fadingOut {
			a.fadingOut = true
			a.fadeOut = fadeOut
			a.fadeOutLeft = fadeOut
		}
		return true
	}
	return false
}

// StopLayer stops every clip on a layer.
func (m *Mixer) StopLayer(layer Layer, fadeOut float32) {
	for _, a := range m.layers[layer] {
		m.Stop(a.clip.Name, layer, fadeOut)
	}
}

// IsPlaying reports whether the named clip is active on the layer.
func (m *Mixer) IsPlaying(clipName string, layer Layer) bool {
	for _, a := range m.layers[layer] {
		if a.clip.Name == clipName {
			return true
		}
	}
	return false
}

// Active returns the names of the clips playing on a layer.
func (m *Mixer) Active(layer Layer) []string {
	active := m.layers[layer]
	names := make([]string, len(active))
	for i, a := range active {
		names[i] = a.clip.Name
	}
	return names
}

// Update advances every active clip by dt seconds and writes the blended
// pose into the skeleton's local transforms, then refreshes world positions.
// Finished one-shots are removed after their notification fires.
func (m *Mixer) Update(dt float32) {
	if m.skeleton == nil {
		return
	}
	m.skeleton.ResetToBind()

	for _, layer := range layerOrder {
		active := m.layers[layer]
		if len(active) == 0 {
			continue
		}

		keep := active[:0]
		for _, a := range active {
			a.elapsed += dt * a.speed
			a.wallElapsed += dt
			if a.fadingOut {
				a.fadeOutLeft -= dt
			}

			w := a.effectiveWeight()
			if w > 0 {
				t := a.clip.LoopTime(a.elapsed)
				mode := layer.Blend()
				a.clip.Sample(t, func(bone string, pose model.BonePose) {
					m.apply(bone, pose, w, mode)
				})
			}

			if a.clip.Finished(a.elapsed) {
				if a.onFinished != nil && !a.notified {
					a.notified = true
					a.onFinished(a.clip.Name)
				}
				m.log.Debug("clip finished", zap.String("clip", a.clip.Name), zap.String("layer", layer.String()))
				continue
			}
			if a.fadingOut && a.fadeOutLeft <= 0 {
				continue
			}
			keep = append(keep, a)
		}
		m.layers[layer] = keep
	}

	m.skeleton.UpdateWorld()
}

// apply blends one sampled bone pose into the skeleton at weight w.
func (m *Mixer) apply(bone string, pose model.BonePose, w float32, mode BlendMode) {
	b := m.skeleton.Bone(bone)
	if b == nil {
		return
	}

	switch mode {
	case BlendAdditive:
		if pose.HasPos {
			b.Position = b.Position.Add(pose.Position.Scale(w))
		}
		if pose.HasRot {
			delta := mathx.QuatIdentity().Slerp(pose.Rotation, w)
			b.Rotation = b.Rotation.Mul(delta).Normalize()
		}
		if pose.HasScale {
			b.Scale = b.Scale.Mul(mathx.Vec3One().Lerp(pose.Scale, w))
		}
	default:
		if pose.HasPos {
			b.Position = b.Position.Lerp(pose.Position, w)
		}
		if pose.HasRot {
			b.Rotation = b.Rotation.Slerp(pose.Rotation, w)
		}
		if pose.HasScale {
			b.Scale = b.Scale.Lerp(pose.Scale, w)
		}
	}
}
