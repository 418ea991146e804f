package animation

import (
	"testing"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

func testClips() func(string) *model.Clip {
	clips := map[string]*model.Clip{
		"idle": constantClip("idle", "hips", mathx.Vec3{}, 1, model.LoopRepeat),
		"walk": constantClip("walk", "hips", mathx.Vec3{X: 1}, 1, model.LoopRepeat),
		"run":  constantClip("run", "hips", mathx.Vec3{X: 2}, 1, model.LoopRepeat),
		"wave": constantClip("wave", "head", mathx.Vec3{X: 1}, 1, model.LoopOnce),
	}
	return func(name string) *model.Clip { return clips[name] }
}

func locomotionStates() []State {
	return []State{
		{
			Name: "idle",
			Clip: "idle",
			Transitions: []Transition{
				{To: "walk", Conditions: []Condition{{Param: "speed", Op: OpGreater, Value: 0.1}}, FadeTime: 0.2},
				{To: "wave", Conditions: []Condition{{Param: "wave", Op: OpTrigger}}},
			},
		},
		{
			Name: "walk",
			Clip: "walk",
			Transitions: []Transition{
				{To: "run", Conditions: []Condition{{Param: "speed", Op: OpGreater, Value: 2}}, FadeTime: 0.2},
				{To: "idle", Conditions: []Condition{{Param: "speed", Op: OpLess, Value: 0.1}}, FadeTime: 0.2},
			},
		},
		{
			Name: "run",
			Clip: "run",
			Transitions: []Transition{
				{To: "walk", Conditions: []Condition{{Param: "speed", Op: OpLess, Value: 2}}, FadeTime: 0.2},
			},
		},
		{
			Name: "wave",
			Clip: "wave",
			Transitions: []Transition{
				{To: "idle", Conditions: []Condition{{Param: "done", Op: OpTrigger}}},
			},
		},
	}
}

func newTestMachine(t *testing.T) (*StateMachine, *Mixer) {
	t.Helper()
	m := NewMixer(testSkeleton(t), nil)
	sm, err := NewStateMachine(m, testClips(), locomotionStates(), "idle", nil)
	if err != nil {
		t.Fatalf("NewStateMachine() error: %v", err)
	}
	return sm, m
}

func TestStateMachineInitialState(t *testing.T) {
	sm, m := newTestMachine(t)
	if got := sm.Current(); got != "idle" {
		t.Errorf("Current() = %q, want %q", got, "idle")
	}
	if !m.IsPlaying("idle", LayerBase) {
		t.Error("initial clip not playing on the base layer")
	}
}

func TestStateMachineParamTransition(t *testing.T) {
	sm, m := newTestMachine(t)

	sm.SetParam("speed", 1)
	sm.Update()
	if got := sm.Current(); got != "walk" {
		t.Fatalf("Current() = %q, want %q", got, "walk")
	}
	if !m.IsPlaying("walk", LayerBase) {
		t.Error("walk clip not playing after transition")
	}

	// One transition per update even when another condition already holds.
	sm.SetParam("speed", 3)
	sm.Update()
	if got := sm.Current(); got != "run" {
		t.Errorf("Current() = %q, want %q", got, "run")
	}

	sm.SetParam("speed", 0)
	sm.Update() // run -> walk
	sm.Update() // walk -> idle
	if got := sm.Current(); got != "idle" {
		t.Errorf("Current() = %q, want %q", got, "idle")
	}
}

func TestStateMachineFirstMatchWins(t *testing.T) {
	m := NewMixer(testSkeleton(t), nil)
	states := []State{
		{
			Name: "start",
			Clip: "idle",
			Transitions: []Transition{
				{To: "first", Conditions: []Condition{{Param: "x", Op: OpGreater, Value: 0}}},
				{To: "second", Conditions: []Condition{{Param: "x", Op: OpGreater, Value: 0}}},
			},
		},
		{Name: "first", Clip: "walk"},
		{Name: "second", Clip: "run"},
	}
	sm, err := NewStateMachine(m, testClips(), states, "start", nil)
	if err != nil {
		t.Fatalf("NewStateMachine() error: %v", err)
	}

	sm.SetParam("x", 1)
	sm.Update()
	if got := sm.Current(); got != "first" {
		t.Errorf("Current() = %q, want %q (declaration order decides)", got, "first")
	}
}

func TestStateMachineCompareOps(t *testing.T) {
	tests := []struct {
		name  string
		op    CompareOp
		value float32
		param float32
		want  bool
	}{
		{"equal hit", OpEqual, 1, 1, true},
		{"equal miss", OpEqual, 1, 2, false},
		{"not equal hit", OpNotEqual, 1, 2, true},
		{"not equal miss", OpNotEqual, 1, 1, false},
		{"greater hit", OpGreater, 1, 1.5, true},
		{"greater miss at boundary", OpGreater, 1, 1, false},
		{"greater equal at boundary", OpGreaterEqual, 1, 1, true},
		{"greater equal below", OpGreaterEqual, 1, 0.9, false},
		{"less hit", OpLess, 1, 0.5, true},
		{"less miss at boundary", OpLess, 1, 1, false},
		{"less equal at boundary", OpLessEqual, 1, 1, true},
		{"less equal above", OpLessEqual, 1, 1.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMixer(testSkeleton(t), nil)
			states := []State{
				{
					Name: "a",
					Clip: "idle",
					Transitions: []Transition{
						{To: "b", Conditions: []Condition{{Param: "x", Op: tt.op, Value: tt.value}}},
					},
				},
				{Name: "b", Clip: "walk"},
			}
			sm, err := NewStateMachine(m, testClips(), states, "a", nil)
			if err != nil {
				t.Fatalf("NewStateMachine() error: %v", err)
			}

			sm.SetParam("x", tt.param)
			sm.Update()
			got := sm.Current() == "b"
			if got != tt.want {
				t.Errorf("transition taken = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateMachineTriggerConsumed(t *testing.T) {
	sm, _ := newTestMachine(t)

	sm.Trigger("wave")
	sm.Update()
	if got := sm.Current(); got != "wave" {
		t.Fatalf("Current() = %q, want %q", got, "wave")
	}

	// "done" has not fired; the consumed "wave" trigger must not linger.
	sm.Update()
	if got := sm.Current(); got != "wave" {
		t.Errorf("Current() = %q, want to stay in %q", got, "wave")
	}

	sm.Trigger("done")
	sm.Update()
	if got := sm.Current(); got != "idle" {
		t.Errorf("Current() = %q, want %q", got, "idle")
	}
}

func TestStateMachineBoolParam(t *testing.T) {
	m := NewMixer(testSkeleton(t), nil)
	states := []State{
		{
			Name: "grounded",
			Clip: "idle",
			Transitions: []Transition{
				{To: "airborne", Conditions: []Condition{{Param: "jumping", Op: OpEqual, Value: 1}}},
			},
		},
		{Name: "airborne", Clip: "walk"},
	}
	sm, err := NewStateMachine(m, testClips(), states, "grounded", nil)
	if err != nil {
		t.Fatalf("NewStateMachine() error: %v", err)
	}

	sm.SetBool("jumping", false)
	sm.Update()
	if sm.Current() != "grounded" {
		t.Fatal("transitioned on a false bool")
	}

	sm.SetBool("jumping", true)
	sm.Update()
	if got := sm.Current(); got != "airborne" {
		t.Errorf("Current() = %q, want %q", got, "airborne")
	}
}

func TestStateMachineValidation(t *testing.T) {
	m := NewMixer(testSkeleton(t), nil)

	_, err := NewStateMachine(m, testClips(), []State{{Name: "a", Clip: "idle"}}, "missing", nil)
	if err == nil {
		t.Error("unknown initial state accepted")
	}

	_, err = NewStateMachine(m, testClips(), []State{
		{Name: "a", Clip: "idle", Transitions: []Transition{{To: "ghost"}}},
	}, "a", nil)
	if err == nil {
		t.Error("transition to undefined state accepted")
	}

	_, err = NewStateMachine(m, testClips(), []State{
		{Name: "a", Clip: "idle"},
		{Name: "a", Clip: "walk"},
	}, "a", nil)
	if err == nil {
		t.Error("duplicate state name accepted")
	}
}
