// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Rig      RigConfig      `yaml:"rig"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// CameraConfig holds the orbit camera settings.
type CameraConfig struct {
	Distance float32 `yaml:"distance"` // meters from the pivot
	Height   float32 `yaml:"height"`   // pivot height above the floor
	FOV      float32 `yaml:"fov"`      // vertical field of view, degrees
}

// RigConfig holds the rig description to load and how the demo drives it.
type RigConfig struct {
	Path        string  `yaml:"path"`         // rig description YAML; empty uses the built-in full-body rig
	TargetSpeed float32 `yaml:"target_speed"` // radians per second the demo targets orbit at
	DrawDebug   bool    `yaml:"draw_debug"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			Distance: 2.5,
			Height:   1.0,
			FOV:      45,
		},
		Rig: RigConfig{
			Path:        "",
			TargetSpeed: 0.8,
			DrawDebug:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
