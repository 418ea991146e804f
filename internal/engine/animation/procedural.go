package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// ProceduralKind selects a motion generator.
type ProceduralKind uint8

const (
	Breathing ProceduralKind = iota // rhythmic scale pulse
	Sway                           // figure-eight positional drift
	Noise                          // smooth pseudo-random positional jitter
	Custom                         // caller-supplied waveform
)

// String returns a human-readable kind name.
func (k ProceduralKind) String() string {
	switch k {
	case Breathing:
		return "breathing"
	case Sway:
		return "sway"
	case Noise:
		return "noise"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// CustomFunc generates a positional offset for a custom procedural motion at
// time t seconds.
type CustomFunc func(t float32) mathx.Vec3

// Procedural is one generated motion bound to a bone. The union is tagged by
// Kind: Breathing uses Amplitude as per-axis scale gain, Sway and Noise use
// it as positional extent, Custom ignores everything but Fn.
type Procedural struct {
	Name      string
	Kind      ProceduralKind
	Bone      string
	Amplitude mathx.Vec3
	Frequency float32 // Hz
	Phase     float32 // radians
	Seed      int64   // Noise only
	Weight    float32 // 0 means the procedural layer default
	Fn        CustomFunc
}

// ProceduralRunner applies generated motions additively on top of the mixed
// skeletal pose. Run it after the mixer each tick.
type ProceduralRunner struct {
	skeleton *model.Skeleton
	log      *zap.Logger
	time     float32
	motions  []*Procedural
}

// NewProceduralRunner creates a runner over the skeleton.
func NewProceduralRunner(skeleton *model.Skeleton, log *zap.Logger) *ProceduralRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProceduralRunner{skeleton: skeleton, log: log}
}

// Add registers a motion, replacing any existing motion with the same name.
func (r *ProceduralRunner) Add(p Procedural) error {
	if p.Name == "" {
		return fmt.Errorf("procedural motion needs a name")
	}
	if p.Kind == Custom && p.Fn == nil {
		return fmt.Errorf("custom motion %q needs a waveform function", p.Name)
	}
	if r.skeleton == nil || !r.skeleton.Has(p.Bone) {
		return fmt.Errorf("motion %q targets unknown bone %q", p.Name, p.Bone)
	}
	if p.Weight == 0 {
		p.Weight = LayerProcedural.DefaultWeight()
	}
	if p.Frequency == 0 {
		p.Frequency = 1
	}

	for i, old := range r.motions {
		if old.Name == p.Name {
			r.motions[i] = &p
			return nil
		}
	}
	r.motions = append(r.motions, &p)
	r.log.Debug("procedural motion added", zap.String("name", p.Name), zap.String("kind", p.Kind.String()))
	return nil
}

// Remove unregisters a motion by name.
func (r *ProceduralRunner) Remove(name string) bool {
	for i, p := range r.motions {
		if p.Name == name {
			r.motions = append(r.motions[:i], r.motions[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the registered motion names.
func (r *ProceduralRunner) Active() []string {
	names := make([]string, len(r.motions))
	for i, p := range r.motions {
		names[i] = p.Name
	}
	return names
}

// Update advances time and applies every motion to its bone, then refreshes
// world positions.
func (r *ProceduralRunner) Update(dt float32) {
	if r.skeleton == nil || len(r.motions) == 0 {
		return
	}
	r.time += dt

	for _, p := range r.motions {
		b := r.skeleton.Bone(p.Bone)
		if b == nil {
			continue
		}
		r.applyMotion(b, p)
	}
	r.skeleton.UpdateWorld()
}

func (r *ProceduralRunner) applyMotion(b *model.Bone, p *Procedural) {
	t := r.time
	w := p.Weight

	switch p.Kind {
	case Breathing:
		s := mathx.Sin(2*mathx.Pi*p.Frequency*t + p.Phase)
		factor := mathx.Vec3{
			X: 1 + p.Amplitude.X*s*w,
			Y: 1 + p.Amplitude.Y*s*w,
			Z: 1 + p.Amplitude.Z*s*w,
		}
		b.Scale = b.Scale.Mul(factor)
	case Sway:
		angle := 2*mathx.Pi*p.Frequency*t + p.Phase
		offset := mathx.Vec3{
			X: p.Amplitude.X * mathx.Sin(angle),
			Z: p.Amplitude.Z * mathx.Cos(1.3*angle),
		}
		b.Position = b.Position.Add(offset.Scale(w))
	case Noise:
		seed := float32(p.Seed)
		offset := mathx.Vec3{
			X: p.Amplitude.X * mathx.SmoothNoise1D(t*p.Frequency+p.Phase, seed),
			Y: p.Amplitude.Y * mathx.SmoothNoise1D(t*p.Frequency+p.Phase, seed+1),
			Z: p.Amplitude.Z * mathx.SmoothNoise1D(t*p.Frequency+p.Phase, seed+2),
		}
		b.Position = b.Position.Add(offset.Scale(w))
	case Custom:
		b.Position = b.Position.Add(p.Fn(t).Scale(w))
	}
}
