package avatar

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumina3d/avatarcore/internal/cache"
	"github.com/lumina3d/avatarcore/internal/engine/animation"
	"github.com/lumina3d/avatarcore/internal/engine/facial"
	"github.com/lumina3d/avatarcore/internal/engine/model"
	"github.com/lumina3d/avatarcore/internal/loader"
	"github.com/lumina3d/avatarcore/pkg/avm"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

func buildTestModel(t *testing.T) *model.AnimatedModel {
	t.Helper()
	mk := func(name string, parent int, y float32) *model.Bone {
		b := &model.Bone{
			Name:         name,
			Parent:       parent,
			BindPosition: mathx.Vec3{Y: y},
			BindRotation: mathx.QuatIdentity(),
			BindScale:    mathx.Vec3One(),
		}
		b.ResetToBind()
		return b
	}
	sk, err := model.NewSkeleton([]*model.Bone{
		mk("hips", -1, 1),
		mk("spine", 0, 0.5),
		mk("head", 1, 0.5),
	})
	if err != nil {
		t.Fatalf("NewSkeleton() error: %v", err)
	}

	idle := &model.Clip{
		Name: "idle", Duration: 1, Loop: model.LoopRepeat,
		Tracks: []model.BoneTrack{{
			Bone:    "hips",
			PosKeys: []model.VecKey{{Time: 0, Value: mathx.Vec3{Y: 1}}, {Time: 1, Value: mathx.Vec3{Y: 1}}},
		}},
	}
	wave := &model.Clip{
		Name: "wave", Duration: 1, Loop: model.LoopOnce,
		Tracks: []model.BoneTrack{{
			Bone: "head",
			RotKeys: []model.QuatKey{
				{Time: 0, Value: mathx.QuatIdentity()},
				{Time: 1, Value: mathx.QuatFromEuler(0, 1.2, 0)},
			},
		}},
	}

	return &model.AnimatedModel{
		ID:       "test",
		Skeleton: sk,
		Clips:    map[string]*model.Clip{"idle": idle, "wave": wave},
		Morphs: model.NewMorphSet([]string{
			"mouthSmileLeft", "mouthSmileRight",
			"cheekSquintLeft", "cheekSquintRight",
			"eyeSquintLeft", "eyeSquintRight",
			"eyeBlinkLeft", "eyeBlinkRight",
			"jawOpen",
		}),
	}
}

func newTestAvatar(t *testing.T) *Avatar {
	t.Helper()
	a := New(nil, nil, rand.New(rand.NewSource(1)), nil)
	a.UseModel(buildTestModel(t))
	return a
}

func TestWaveGestureLifecycle(t *testing.T) {
	a := newTestAvatar(t)

	if err := a.PlayAnimation("idle", 0); err != nil {
		t.Fatalf("PlayAnimation() error: %v", err)
	}

	finished := 0
	if err := a.PlayGesture("wave", func(clip string) {
		if clip != "wave" {
			t.Errorf("finished clip = %q, want %q", clip, "wave")
		}
		finished++
	}); err != nil {
		t.Fatalf("PlayGesture() error: %v", err)
	}
	if !a.IsPlaying("wave") {
		t.Fatal("wave not playing after PlayGesture")
	}

	// 1.5 seconds of ticks; the 1s one-shot finishes partway through.
	for i := 0; i < 15; i++ {
		a.Update(0.1)
	}

	if finished != 1 {
		t.Errorf("finished notifications = %d, want exactly 1", finished)
	}
	if a.IsPlaying("wave") {
		t.Error("wave still active after finishing")
	}
	if !a.IsPlaying("idle") {
		t.Error("idle dropped while the gesture played")
	}
}

func TestUpdateRunsAllSubsystems(t *testing.T) {
	a := newTestAvatar(t)
	m := a.Model()

	if err := a.PlayAnimation("idle", 0); err != nil {
		t.Fatal(err)
	}
	if err := a.PlayEmotion(facial.EmotionHappiness, 1); err != nil {
		t.Fatal(err)
	}
	if err := a.AddProcedural(animation.Procedural{
		Name:      "breath",
		Kind:      animation.Breathing,
		Bone:      "spine",
		Amplitude: mathx.Vec3{Y: 0.1},
		Frequency: 0.25,
		Weight:    1,
	}); err != nil {
		t.Fatal(err)
	}
	if err := a.AddIKChain("look", []string{"hips", "spine", "head"}); err != nil {
		t.Fatal(err)
	}
	if err := a.SetIKTarget("look", mathx.Vec3{X: 0.5, Y: 1.5}); err != nil {
		t.Fatal(err)
	}

	a.Update(1)

	if got := m.Morphs.Get("mouthSmileLeft"); got != 1 {
		t.Errorf("mouthSmileLeft = %v, want 1 (facial ran)", got)
	}
	if got := m.Skeleton.Bone("spine").Scale.Y; got <= 1 {
		t.Errorf("spine scale Y = %v, want > 1 (breathing ran)", got)
	}
	head := m.Skeleton.Bone("head").World
	if head.X == 0 {
		t.Error("head world X unchanged; ik did not solve toward the target")
	}
}

func TestControlWithoutModel(t *testing.T) {
	a := New(nil, nil, nil, nil)

	if err := a.PlayAnimation("idle", 0); err == nil {
		t.Error("PlayAnimation accepted without a model")
	}
	if err := a.PlayEmotion(facial.EmotionAnger, 1); err == nil {
		t.Error("PlayEmotion accepted without a model")
	}
	if err := a.AddIKChain("arm", []string{"a", "b"}); err == nil {
		t.Error("AddIKChain accepted without a model")
	}
	a.Update(0.1) // must not panic
}

func TestUnknownNames(t *testing.T) {
	a := newTestAvatar(t)

	if err := a.PlayAnimation("moonwalk", 0); err == nil {
		t.Error("unknown clip accepted")
	}
	if err := a.SetIKTarget("tail", mathx.Vec3{}); err == nil {
		t.Error("unknown ik chain accepted")
	}
	if a.StopAnimation("moonwalk", 0) {
		t.Error("StopAnimation reported success for a clip never played")
	}
}

func TestDispose(t *testing.T) {
	a := newTestAvatar(t)
	m := a.Model()

	a.Dispose()
	if !m.Disposed() {
		t.Error("model not disposed")
	}
	a.Update(0.1) // no-op after dispose
	a.Dispose()   // idempotent
	if a.Model() != nil {
		t.Error("Model() != nil after Dispose")
	}
}

func TestLoadModelUsesCache(t *testing.T) {
	doc := &avm.Document{
		Version: avm.Version{Major: 1},
		Nodes:   []avm.Node{{Name: "root", ParentIndex: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}},
		Bones: []avm.Bone{
			{Name: "hips", ParentIndex: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		},
		Meshes: []avm.Mesh{{
			Name:          "body",
			Positions:     [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Indices:       []uint32{0, 1, 2},
			MaterialIndex: -1,
		}},
	}
	data, err := avm.Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "character.avm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	url := "file://" + path

	c := cache.New(cache.DefaultCapacity, nil)
	p := loader.New(c, nil, 0)
	a := New(p, c, nil, nil)

	opts := loader.Options{URL: url, Cache: true}
	if err := a.LoadModel(context.Background(), opts); err != nil {
		t.Fatalf("first LoadModel() error: %v", err)
	}
	if err := a.LoadModel(context.Background(), opts); err != nil {
		t.Fatalf("second LoadModel() error: %v", err)
	}

	stats := a.CacheStats()
	if stats.Hits != 1 {
		t.Errorf("cache hits = %d, want 1 (second load served from cache)", stats.Hits)
	}
	if a.Model() == nil {
		t.Fatal("no model installed")
	}

	a.ClearCache()
	if got := a.CacheStats().EntryCount; got != 0 {
		t.Errorf("cache entries after ClearCache = %d, want 0", got)
	}
}
