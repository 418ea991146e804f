package facial

import "fmt"

// visemes maps speech viseme names to morph weights. The set follows the
// Oculus/ARKit lipsync convention; "sil" is the silent rest pose.
var visemes = map[string]map[string]float32{
	"sil": {},
	"aa": {
		"jawOpen": 0.7,
	},
	"E": {
		"jawOpen":          0.3,
		"mouthStretchLeft": 0.4, "mouthStretchRight": 0.4,
	},
	"ih": {
		"jawOpen":        0.2,
		"mouthSmileLeft": 0.3, "mouthSmileRight": 0.3,
	},
	"oh": {
		"jawOpen":     0.5,
		"mouthPucker": 0.6,
	},
	"ou": {
		"jawOpen":     0.2,
		"mouthPucker": 0.9,
	},
	"FF": {
		"mouthLowerDownLeft": 0.4, "mouthLowerDownRight": 0.4,
		"mouthPressLeft": 0.3, "mouthPressRight": 0.3,
	},
	"TH": {
		"jawOpen":         0.2,
		"tongueOut":       0.5,
		"mouthStretchLeft": 0.2, "mouthStretchRight": 0.2,
	},
	"DD": {
		"jawOpen": 0.25,
	},
	"kk": {
		"jawOpen": 0.3,
	},
	"CH": {
		"jawOpen":     0.25,
		"mouthPucker": 0.4,
	},
	"SS": {
		"mouthStretchLeft": 0.3, "mouthStretchRight": 0.3,
	},
	"nn": {
		"jawOpen": 0.15,
	},
	"RR": {
		"jawOpen":     0.2,
		"mouthPucker": 0.5,
	},
	"PP": {
		"mouthPressLeft": 0.8, "mouthPressRight": 0.8,
	},
}

// Visemes returns the supported viseme names.
func Visemes() []string {
	names := make([]string, 0, len(visemes))
	for name := range visemes {
		names = append(names, name)
	}
	return names
}

// visemeFor resolves a viseme name.
func visemeFor(name string) (map[string]float32, error) {
	v, ok := visemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown viseme %q", name)
	}
	return v, nil
}
