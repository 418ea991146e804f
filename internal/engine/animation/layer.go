// Package animation implements layered skeletal animation: a clip mixer with
// cross-fades, a parameter-driven state machine, and procedural motion
// generators layered on top of keyframed clips.
package animation

// Layer identifies one of the fixed mixing layers, applied in declaration
// order every update.
type Layer uint8

const (
	LayerBase       Layer = iota // locomotion and idle clips
	LayerGestures                // one-shot gestures over the base
	LayerFacial                  // additive facial bone motion (jaw, eyes)
	LayerProcedural              // additive generated motion
)

// String returns a human-readable layer name.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerGestures:
		return "gestures"
	case LayerFacial:
		return "facial"
	case LayerProcedural:
		return "procedural"
	default:
		return "unknown"
	}
}

// BlendMode describes how a layer's pose combines with the layers below it.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // weighted overwrite
	BlendAdditive                  // weighted offset on top
)

// Blend returns the layer's blend mode. The facial and procedural layers are
// additive; their tracks are authored as offsets (zero position and identity
// rotation mean no change).
func (l Layer) Blend() BlendMode {
	if l == LayerFacial || l == LayerProcedural {
		return BlendAdditive
	}
	return BlendNormal
}

// DefaultWeight returns the layer's weight when the caller does not set one.
func (l Layer) DefaultWeight() float32 {
	if l == LayerProcedural {
		return 0.5
	}
	return 1
}

// layerOrder is the fixed application order for mixing.
var layerOrder = [...]Layer{LayerBase, LayerGestures, LayerFacial, LayerProcedural}
