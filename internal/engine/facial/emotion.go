package facial

import "fmt"

// The seven universal emotions, each expressed as a weighted AU combination.
const (
	EmotionHappiness = "happiness"
	EmotionSadness   = "sadness"
	EmotionAnger     = "anger"
	EmotionFear      = "fear"
	EmotionSurprise  = "surprise"
	EmotionDisgust   = "disgust"
	EmotionContempt  = "contempt"
)

// auWeight pairs an AU number with its contribution weight inside a preset.
type auWeight struct {
	au     int
	weight float32
}

var emotionPresets = map[string][]auWeight{
	EmotionHappiness: {
		{au: 6, weight: 0.8},
		{au: 12, weight: 1},
	},
	EmotionSadness: {
		{au: 1, weight: 0.8},
		{au: 4, weight: 0.5},
		{au: 15, weight: 1},
	},
	EmotionAnger: {
		{au: 4, weight: 1},
		{au: 5, weight: 0.6},
		{au: 7, weight: 0.7},
		{au: 23, weight: 0.8},
	},
	EmotionFear: {
		{au: 1, weight: 0.7},
		{au: 2, weight: 0.6},
		{au: 4, weight: 0.4},
		{au: 5, weight: 1},
		{au: 7, weight: 0.4},
		{au: 20, weight: 0.8},
		{au: 26, weight: 0.5},
	},
	EmotionSurprise: {
		{au: 1, weight: 0.9},
		{au: 2, weight: 0.9},
		{au: 5, weight: 0.8},
		{au: 26, weight: 1},
	},
	EmotionDisgust: {
		{au: 9, weight: 1},
		{au: 15, weight: 0.6},
		{au: 16, weight: 0.5},
	},
	EmotionContempt: {
		{au: 12, weight: 0.5}, // unilateral in FACS; approximated bilaterally
		{au: 14, weight: 1},
	},
}

// Emotions returns the names of the built-in presets.
func Emotions() []string {
	names := make([]string, 0, len(emotionPresets))
	for name := range emotionPresets {
		names = append(names, name)
	}
	return names
}

// presetFor resolves an emotion name.
func presetFor(name string) ([]auWeight, error) {
	preset, ok := emotionPresets[name]
	if !ok {
		return nil, fmt.Errorf("unknown emotion %q", name)
	}
	return preset, nil
}
