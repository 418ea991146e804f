// Package config handles engine configuration loading and management.
package config

import "time"

// Config holds all engine settings.
type Config struct {
	Cache     CacheConfig     `yaml:"cache"`
	Loader    LoaderConfig    `yaml:"loader"`
	Animation AnimationConfig `yaml:"animation"`
	Facial    FacialConfig    `yaml:"facial"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CacheConfig holds model cache settings.
type CacheConfig struct {
	CapacityBytes int64 `yaml:"capacity_bytes"`
}

// LoaderConfig holds loading pipeline settings.
type LoaderConfig struct {
	EnableLOD    bool          `yaml:"enable_lod"`
	LODDistances []float32     `yaml:"lod_distances"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
}

// AnimationConfig holds procedural motion defaults.
type AnimationConfig struct {
	BreathingAmplitude float32 `yaml:"breathing_amplitude"`
	BreathingFrequency float32 `yaml:"breathing_frequency"` // Hz
	SwayAmplitude      float32 `yaml:"sway_amplitude"`
	SwayFrequency      float32 `yaml:"sway_frequency"` // Hz
}

// FacialConfig holds blink timing settings.
type FacialConfig struct {
	BlinkEnabled     bool    `yaml:"blink_enabled"`
	BlinkMinInterval float32 `yaml:"blink_min_interval"` // seconds
	BlinkMaxInterval float32 `yaml:"blink_max_interval"` // seconds
	BlinkDuration    float32 `yaml:"blink_duration"`     // seconds
}

// ViewerConfig holds demo host settings.
type ViewerConfig struct {
	ModelURL string `yaml:"model_url"`
	Watch    bool   `yaml:"watch"`
	FPS      int    `yaml:"fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			CapacityBytes: 100 * 1024 * 1024,
		},
		Loader: LoaderConfig{
			EnableLOD:    true,
			LODDistances: []float32{10, 25, 50, 100},
			HTTPTimeout:  30 * time.Second,
		},
		Animation: AnimationConfig{
			BreathingAmplitude: 0.02,
			BreathingFrequency: 0.25,
			SwayAmplitude:      0.01,
			SwayFrequency:      0.1,
		},
		Facial: FacialConfig{
			BlinkEnabled:     true,
			BlinkMinInterval: 2,
			BlinkMaxInterval: 6,
			BlinkDuration:    0.15,
		},
		Viewer: ViewerConfig{
			ModelURL: "",
			Watch:    false,
			FPS:      60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
