package model

import (
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// MorphSet holds the model's named morph-target channels and their current
// weights. Weights written through Set are clamped to [0, 1] before they
// reach the render buffer; composition above 1 happens upstream.
type MorphSet struct {
	names   []string
	weights map[string]float32
}

// NewMorphSet creates a morph set with all weights at zero.
func NewMorphSet(names []string) *MorphSet {
	weights := make(map[string]float32, len(names))
	for _, n := range names {
		weights[n] = 0
	}
	ordered := make([]string, len(names))
	copy(ordered, names)
	return &MorphSet{names: ordered, weights: weights}
}

// Names returns the channel names in declaration order.
func (m *MorphSet) Names() []string {
	return m.names
}

// Has reports whether the named channel exists.
func (m *MorphSet) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.weights[name]
	return ok
}

// Set writes a channel weight, clamped to [0, 1]. Returns false if the
// channel does not exist.
func (m *MorphSet) Set(name string, weight float32) bool {
	if m == nil {
		return false
	}
	if _, ok := m.weights[name]; !ok {
		return false
	}
	m.weights[name] = mathx.Clamp01(weight)
	return true
}

// Get returns the current weight of a channel (0 if absent).
func (m *MorphSet) Get(name string) float32 {
	if m == nil {
		return 0
	}
	return m.weights[name]
}

// Reset zeroes every channel weight.
func (m *MorphSet) Reset() {
	for n := range m.weights {
		m.weights[n] = 0
	}
}

// Count returns the number of channels.
func (m *MorphSet) Count() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// clone deep-copies the morph set.
func (m *MorphSet) clone() *MorphSet {
	if m == nil {
		return nil
	}
	out := NewMorphSet(m.names)
	for k, v := range m.weights {
		out.weights[k] = v
	}
	return out
}
