package facial

import (
	"math/rand"
	"testing"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

func testMorphs() *model.MorphSet {
	return model.NewMorphSet([]string{
		"browInnerUp", "browOuterUpLeft", "browOuterUpRight",
		"browDownLeft", "browDownRight",
		"eyeWideLeft", "eyeWideRight",
		"eyeSquintLeft", "eyeSquintRight",
		"eyeBlinkLeft", "eyeBlinkRight",
		"eyeLookInLeft", "eyeLookInRight", "eyeLookOutLeft", "eyeLookOutRight",
		"eyeLookUpLeft", "eyeLookUpRight", "eyeLookDownLeft", "eyeLookDownRight",
		"cheekSquintLeft", "cheekSquintRight",
		"noseSneerLeft", "noseSneerRight",
		"jawOpen", "tongueOut",
		"mouthSmileLeft", "mouthSmileRight",
		"mouthFrownLeft", "mouthFrownRight",
		"mouthDimpleLeft", "mouthDimpleRight",
		"mouthLowerDownLeft", "mouthLowerDownRight",
		"mouthStretchLeft", "mouthStretchRight",
		"mouthPressLeft", "mouthPressRight",
		"mouthPucker",
	})
}

// newTestEngine returns an engine with blinking off so expression tests see
// stable lid weights.
func newTestEngine(t *testing.T) (*Engine, *model.MorphSet) {
	t.Helper()
	morphs := testMorphs()
	e := NewEngine(morphs, rand.New(rand.NewSource(1)), nil)
	e.Blinker().Enabled = false
	return e, morphs
}

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

func TestAUContributionsCombineByMax(t *testing.T) {
	e, morphs := newTestEngine(t)

	// AU6 drives eyeSquint at 0.4 influence, AU7 at full influence. At
	// these intensities they contribute 0.3 and 0.7; max wins.
	if err := e.SetAU(6, 3.75); err != nil {
		t.Fatalf("SetAU(6) error: %v", err)
	}
	if err := e.SetAU(7, 3.5); err != nil {
		t.Fatalf("SetAU(7) error: %v", err)
	}
	e.Update(0.016)

	if got := morphs.Get("eyeSquintLeft"); !approx(got, 0.7) {
		t.Errorf("eyeSquintLeft = %v, want 0.7 (max of 0.3 and 0.7)", got)
	}

	// Dropping the stronger AU reveals the weaker contribution.
	if err := e.SetAU(7, 0); err != nil {
		t.Fatalf("SetAU(7, 0) error: %v", err)
	}
	e.Update(0.016)
	if got := morphs.Get("eyeSquintLeft"); !approx(got, 0.3) {
		t.Errorf("eyeSquintLeft = %v, want 0.3 after removing AU7", got)
	}
}

func TestSetAUUnknown(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.SetAU(99, 3); err == nil {
		t.Error("unknown action unit accepted")
	}
}

func TestPlayEmotionHappiness(t *testing.T) {
	e, morphs := newTestEngine(t)

	if err := e.PlayEmotion(EmotionHappiness, 1); err != nil {
		t.Fatalf("PlayEmotion() error: %v", err)
	}
	e.Update(0.016)

	if got := morphs.Get("mouthSmileLeft"); !approx(got, 1) {
		t.Errorf("mouthSmileLeft = %v, want 1", got)
	}
	if got := morphs.Get("cheekSquintLeft"); !approx(got, 0.8) {
		t.Errorf("cheekSquintLeft = %v, want 0.8", got)
	}
	if got := morphs.Get("mouthFrownLeft"); !approx(got, 0) {
		t.Errorf("mouthFrownLeft = %v, want 0", got)
	}
}

func TestPlayEmotionIntensityScales(t *testing.T) {
	e, morphs := newTestEngine(t)

	if err := e.PlayEmotion(EmotionHappiness, 0.5); err != nil {
		t.Fatalf("PlayEmotion() error: %v", err)
	}
	e.Update(0.016)
	if got := morphs.Get("mouthSmileLeft"); !approx(got, 0.5) {
		t.Errorf("mouthSmileLeft at half intensity = %v, want 0.5", got)
	}
}

func TestPlayEmotionReplacesPrevious(t *testing.T) {
	e, morphs := newTestEngine(t)

	if err := e.PlayEmotion(EmotionHappiness, 1); err != nil {
		t.Fatal(err)
	}
	e.Update(0.016)
	if err := e.PlayEmotion(EmotionSadness, 1); err != nil {
		t.Fatal(err)
	}
	e.Update(0.016)

	if got := morphs.Get("mouthSmileLeft"); !approx(got, 0) {
		t.Errorf("mouthSmileLeft = %v, want 0 after switching to sadness", got)
	}
	if got := morphs.Get("mouthFrownLeft"); !approx(got, 1) {
		t.Errorf("mouthFrownLeft = %v, want 1", got)
	}
}

func TestBlendEmotionsNormalizes(t *testing.T) {
	e, morphs := newTestEngine(t)

	// Equal weights mean each preset at half strength, regardless of the
	// absolute values passed.
	if err := e.BlendEmotions(map[string]float32{
		EmotionHappiness: 2,
		EmotionSadness:   2,
	}); err != nil {
		t.Fatalf("BlendEmotions() error: %v", err)
	}
	e.Update(0.016)

	if got := morphs.Get("mouthSmileLeft"); !approx(got, 0.5) {
		t.Errorf("mouthSmileLeft = %v, want 0.5", got)
	}
	if got := morphs.Get("mouthFrownLeft"); !approx(got, 0.5) {
		t.Errorf("mouthFrownLeft = %v, want 0.5", got)
	}
}

func TestBlendEmotionsSumsSharedMorphs(t *testing.T) {
	e, morphs := newTestEngine(t)

	// Happiness reaches eyeSquintLeft through AU6 (0.8 weight, 0.4
	// influence) and anger through AU7 (0.7 weight, full influence). At
	// half strength each the contributions sum: 0.16 + 0.35 = 0.51.
	if err := e.BlendEmotions(map[string]float32{
		EmotionHappiness: 1,
		EmotionAnger:     1,
	}); err != nil {
		t.Fatalf("BlendEmotions() error: %v", err)
	}
	e.Update(0.016)

	if got := morphs.Get("eyeSquintLeft"); !approx(got, 0.51) {
		t.Errorf("eyeSquintLeft = %v, want 0.51 (summed across presets)", got)
	}
	// Morphs reached by only one preset carry just that share.
	if got := morphs.Get("mouthSmileLeft"); !approx(got, 0.5) {
		t.Errorf("mouthSmileLeft = %v, want 0.5", got)
	}
	if got := morphs.Get("browDownLeft"); !approx(got, 0.5) {
		t.Errorf("browDownLeft = %v, want 0.5", got)
	}
}

func TestBlendEmotionsValidation(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.BlendEmotions(map[string]float32{"boredom": 1}); err == nil {
		t.Error("unknown emotion accepted in blend")
	}
	if err := e.BlendEmotions(map[string]float32{EmotionAnger: 0}); err == nil {
		t.Error("all-zero blend accepted")
	}
}

func TestVisemeOverridesExpression(t *testing.T) {
	e, morphs := newTestEngine(t)

	// Surprise drops the jaw through AU26; a closing viseme takes the
	// mouth over regardless.
	if err := e.PlayEmotion(EmotionSurprise, 1); err != nil {
		t.Fatal(err)
	}
	e.Update(0.016)
	if got := morphs.Get("jawOpen"); !approx(got, 0.6) {
		t.Fatalf("jawOpen from surprise = %v, want 0.6", got)
	}

	if err := e.SetViseme("nn", 1); err != nil {
		t.Fatalf("SetViseme() error: %v", err)
	}
	e.Update(0.016)
	if got := morphs.Get("jawOpen"); !approx(got, 0.15) {
		t.Errorf("jawOpen with viseme = %v, want 0.15 (viseme wins)", got)
	}
}

func TestVisemeSilRestsMouth(t *testing.T) {
	e, morphs := newTestEngine(t)

	if err := e.SetViseme("ou", 1); err != nil {
		t.Fatal(err)
	}
	e.Update(0.016)
	if got := morphs.Get("mouthPucker"); !approx(got, 0.9) {
		t.Fatalf("mouthPucker = %v, want 0.9", got)
	}

	if err := e.SetViseme("sil", 1); err != nil {
		t.Fatal(err)
	}
	e.Update(0.016)
	if got := morphs.Get("mouthPucker"); !approx(got, 0) {
		t.Errorf("mouthPucker after sil = %v, want 0", got)
	}
}

func TestSetVisemeUnknown(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.SetViseme("zz", 1); err == nil {
		t.Error("unknown viseme accepted")
	}
}

func TestGazeDirections(t *testing.T) {
	e, morphs := newTestEngine(t)

	// Straight ahead: neutral eyes.
	e.SetGazeTarget(mathx.Vec3{Z: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookOutRight"); !approx(got, 0) {
		t.Errorf("eyeLookOutRight looking ahead = %v, want 0", got)
	}

	// Hard right: both eyes track right at full weight.
	e.SetGazeTarget(mathx.Vec3{X: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookOutRight"); !approx(got, 1) {
		t.Errorf("eyeLookOutRight = %v, want 1", got)
	}
	if got := morphs.Get("eyeLookInLeft"); !approx(got, 1) {
		t.Errorf("eyeLookInLeft = %v, want 1", got)
	}
	if got := morphs.Get("eyeLookOutLeft"); !approx(got, 0) {
		t.Errorf("eyeLookOutLeft = %v, want 0", got)
	}

	// Straight up.
	e.SetGazeTarget(mathx.Vec3{Y: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookUpLeft"); !approx(got, 1) {
		t.Errorf("eyeLookUpLeft = %v, want 1", got)
	}
}

func TestGazeDeadZone(t *testing.T) {
	e, morphs := newTestEngine(t)

	// A horizontal component inside the dead zone keeps the eyes neutral.
	e.SetGazeTarget(mathx.Vec3{X: 0.05, Z: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookOutRight"); !approx(got, 0) {
		t.Errorf("eyeLookOutRight inside dead zone = %v, want 0", got)
	}

	// Past the dead zone it drives.
	e.SetGazeTarget(mathx.Vec3{X: 0.3, Z: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookOutRight"); got == 0 {
		t.Error("eyeLookOutRight = 0 for a component past the dead zone")
	}

	// Vertical dead zone is independent of the horizontal.
	e.SetGazeTarget(mathx.Vec3{X: 0.3, Y: 0.05, Z: 1})
	e.Update(0.016)
	if got := morphs.Get("eyeLookUpLeft"); !approx(got, 0) {
		t.Errorf("eyeLookUpLeft inside dead zone = %v, want 0", got)
	}
	if got := morphs.Get("eyeLookOutRight"); got == 0 {
		t.Error("horizontal look lost while vertical is in its dead zone")
	}

	e.ClearGaze()
	e.Update(0.016)
	if got := morphs.Get("eyeLookOutRight"); !approx(got, 0) {
		t.Errorf("eyeLookOutRight after ClearGaze = %v, want 0", got)
	}
}
