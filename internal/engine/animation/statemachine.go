package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
)

// CompareOp is a transition condition operator.
type CompareOp uint8

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	// OpTrigger fires on a pending trigger of the condition's name and
	// consumes it when the transition is taken.
	OpTrigger
)

// Condition gates a transition on one parameter.
type Condition struct {
	Param string
	Op    CompareOp
	Value float32
}

// Transition moves the machine to another state when all its conditions
// hold. Transitions are evaluated in declaration order; the first match wins.
type Transition struct {
	To         string
	Conditions []Condition
	FadeTime   float32 // cross-fade seconds, 0 for a hard cut
}

// State binds one clip to a machine state.
type State struct {
	Name        string
	Clip        string
	Speed       float32 // 0 means 1
	Transitions []Transition
}

// StateMachine drives the base layer from named states and numeric
// parameters. Booleans are parameters with values 0 and 1.
type StateMachine struct {
	mixer *Mixer
	clips func(name string) *model.Clip
	log   *zap.Logger

	states   map[string]*State
	current  *State
	params   map[string]float32
	triggers map[string]bool
}

// NewStateMachine builds a machine over the given states, starting in
// initial. clips resolves state clip names against the loaded model.
func NewStateMachine(mixer *Mixer, clips func(string) *model.Clip, states []State, initial string, log *zap.Logger) (*StateMachine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	byName := make(map[string]*State, len(states))
	for i := range states {
		s := &states[i]
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate state %q", s.Name)
		}
		byName[s.Name] = s
	}
	for _, s := range byName {
		for _, tr := range s.Transitions {
			if _, ok := byName[tr.To]; !ok {
				return nil, fmt.Errorf("state %q: transition to unknown state %q", s.Name, tr.To)
			}
		}
	}
	start, ok := byName[initial]
	if !ok {
		return nil, fmt.Errorf("initial state %q not defined", initial)
	}

	sm := &StateMachine{
		mixer:    mixer,
		clips:    clips,
		log:      log,
		states:   byName,
		params:   make(map[string]float32),
		triggers: make(map[string]bool),
	}
	sm.enter(start, 0)
	return sm, nil
}

// Current returns the active state name.
func (sm *StateMachine) Current() string {
	return sm.current.Name
}

// SetParam sets a numeric parameter.
func (sm *StateMachine) SetParam(name string, value float32) {
	sm.params[name] = value
}

// SetBool sets a boolean parameter as 0 or 1.
func (sm *StateMachine) SetBool(name string, value bool) {
	if value {
		sm.params[name] = 1
	} else {
		sm.params[name] = 0
	}
}

// Trigger arms a one-shot trigger consumed by the next transition taken on it.
func (sm *StateMachine) Trigger(name string) {
	sm.triggers[name] = true
}

// Update evaluates the current state's transitions in order and takes the
// first whose conditions all hold. At most one transition fires per update.
func (sm *StateMachine) Update() {
	for _, tr := range sm.current.Transitions {
		if !sm.matches(tr.Conditions) {
			continue
		}
		for _, c := range tr.Conditions {
			if c.Op == OpTrigger {
				delete(sm.triggers, c.Param)
			}
		}
		prev := sm.current.Name
		sm.enter(sm.states[tr.To], tr.FadeTime)
		sm.log.Debug("state transition",
			zap.String("from", prev),
			zap.String("to", tr.To))
		return
	}
}

func (sm *StateMachine) matches(conds []Condition) bool {
	for _, c := range conds {
		switch c.Op {
		case OpTrigger:
			if !sm.triggers[c.Param] {
				return false
			}
		case OpEqual:
			if sm.params[c.Param] != c.Value {
				return false
			}
		case OpNotEqual:
			if sm.params[c.Param] == c.Value {
				return false
			}
		case OpGreater:
			if !(sm.params[c.Param] > c.Value) {
				return false
			}
		case OpGreaterEqual:
			if !(sm.params[c.Param] >= c.Value) {
				return false
			}
		case OpLess:
			if !(sm.params[c.Param] < c.Value) {
				return false
			}
		case OpLessEqual:
			if !(sm.params[c.Param] <= c.Value) {
				return false
			}
		}
	}
	return true
}

// enter switches the base layer to the state's clip with a cross-fade.
func (sm *StateMachine) enter(s *State, fade float32) {
	if sm.current != nil && sm.current.Clip != s.Clip {
		sm.mixer.Stop(sm.current.Clip, LayerBase, fade)
	}
	sm.current = s

	clip := sm.clips(s.Clip)
	if clip == nil {
		sm.log.Warn("state clip missing from model", zap.String("state", s.Name), zap.String("clip", s.Clip))
		return
	}
	if !sm.mixer.IsPlaying(s.Clip, LayerBase) {
		sm.mixer.Play(clip, PlayOptions{Layer: LayerBase, Speed: s.Speed, FadeIn: fade})
	}
}
