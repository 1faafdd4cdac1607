package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml.
type Config struct {
	FrameIntervalMS    float64 `yaml:"frame_interval_ms"`    // 5 (by default)
	DebugPause         bool    `yaml:"debug_pause"`          // false (by default)
	Profiling          bool    `yaml:"profiling"`            // false (by default)
	HostCallbackBuffer int     `yaml:"host_callback_buffer"` // 64 (by default)
}

// defaultConfig returns the scheduler's built-in defaults, used when the
// config file is absent or a field is missing/out of range.
func defaultConfig() Config {
	return Config{
		FrameIntervalMS:    defaultFrameIntervalMS,
		DebugPause:         false,
		Profiling:          false,
		HostCallbackBuffer: 64,
	}
}

// LoadConfig reads YAML and overrides defaults; empty path = defaults only.
func LoadConfig(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps: a frame interval outside (0, 1000] ms falls back to the
	// default; 1000 ms is the longest interval ForceFrameRate(1) gives.
	if cfg.FrameIntervalMS <= 0 || cfg.FrameIntervalMS > 1000 {
		cfg.FrameIntervalMS = defaultFrameIntervalMS
	}
	if cfg.HostCallbackBuffer <= 0 {
		cfg.HostCallbackBuffer = 64
	}

	return cfg
}
