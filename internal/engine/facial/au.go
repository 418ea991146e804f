// Package facial drives morph-target weights from FACS action units,
// emotion presets, speech visemes, automatic blinking, and gaze.
package facial

// ActionUnit is one FACS (Facial Action Coding System) action unit mapped
// onto the morph targets it moves. Influence is the morph weight produced at
// maximum intensity.
type ActionUnit struct {
	ID         int
	Name       string
	Influences map[string]float32
}

// MaxIntensity is the FACS intensity ceiling; the A-E scoring scale maps to
// 1 through 5.
const MaxIntensity = 5

// actionUnits is the supported subset of FACS, keyed by AU number. Morph
// names follow the ARKit blend-shape convention.
var actionUnits = map[int]ActionUnit{
	1: {ID: 1, Name: "inner brow raiser", Influences: map[string]float32{
		"browInnerUp": 1,
	}},
	2: {ID: 2, Name: "outer brow raiser", Influences: map[string]float32{
		"browOuterUpLeft":  1,
		"browOuterUpRight": 1,
	}},
	4: {ID: 4, Name: "brow lowerer", Influences: map[string]float32{
		"browDownLeft":  1,
		"browDownRight": 1,
	}},
	5: {ID: 5, Name: "upper lid raiser", Influences: map[string]float32{
		"eyeWideLeft":  1,
		"eyeWideRight": 1,
	}},
	6: {ID: 6, Name: "cheek raiser", Influences: map[string]float32{
		"cheekSquintLeft":  1,
		"cheekSquintRight": 1,
		// raised cheeks narrow the eyes slightly
		"eyeSquintLeft":  0.4,
		"eyeSquintRight": 0.4,
	}},
	7: {ID: 7, Name: "lid tightener", Influences: map[string]float32{
		"eyeSquintLeft":  1,
		"eyeSquintRight": 1,
	}},
	9: {ID: 9, Name: "nose wrinkler", Influences: map[string]float32{
		"noseSneerLeft":  1,
		"noseSneerRight": 1,
	}},
	12: {ID: 12, Name: "lip corner puller", Influences: map[string]float32{
		"mouthSmileLeft":  1,
		"mouthSmileRight": 1,
	}},
	14: {ID: 14, Name: "dimpler", Influences: map[string]float32{
		"mouthDimpleLeft":  1,
		"mouthDimpleRight": 1,
	}},
	15: {ID: 15, Name: "lip corner depressor", Influences: map[string]float32{
		"mouthFrownLeft":  1,
		"mouthFrownRight": 1,
	}},
	16: {ID: 16, Name: "lower lip depressor", Influences: map[string]float32{
		"mouthLowerDownLeft":  1,
		"mouthLowerDownRight": 1,
	}},
	20: {ID: 20, Name: "lip stretcher", Influences: map[string]float32{
		"mouthStretchLeft":  1,
		"mouthStretchRight": 1,
	}},
	23: {ID: 23, Name: "lip tightener", Influences: map[string]float32{
		"mouthPressLeft":  1,
		"mouthPressRight": 1,
	}},
	26: {ID: 26, Name: "jaw drop", Influences: map[string]float32{
		"jawOpen": 0.6,
	}},
}

// LookupAU returns the action unit for a FACS number.
func LookupAU(id int) (ActionUnit, bool) {
	au, ok := actionUnits[id]
	return au, ok
}

// auActivation is one active AU with its preset weight and FACS intensity.
type auActivation struct {
	weight    float32 // preset contribution weight, 0..1
	intensity float32 // FACS intensity, 0..5
}

// contribution returns the morph weight this activation produces for a given
// influence.
func (a auActivation) contribution(influence float32) float32 {
	return a.weight * (a.intensity / MaxIntensity) * influence
}
