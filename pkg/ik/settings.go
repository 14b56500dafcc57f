package ik

// Settings are the per-frame knobs shared by all solver components.
type Settings struct {
	// ContinuousRotations favors angular continuity with the pose the
	// animation produced this frame over the shortest rotation from the
	// reference pose. Avoids axis flips on fast-moving targets.
	ContinuousRotations bool `yaml:"continuous_rotations"`

	// MaxIterations bounds iterative solves. Iteration stops early once
	// the end effector is within Tolerance of the target.
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float32 `yaml:"tolerance"`
}

// DefaultSettings returns the settings used when none are provided.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: 10,
		Tolerance:     0.0001,
	}
}

// sanitized fills in unusable values so iterative solves always make
// progress and terminate.
func (s Settings) sanitized() Settings {
	if s.MaxIterations < 1 {
		s.MaxIterations = DefaultSettings().MaxIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = DefaultSettings().Tolerance
	}
	return s
}
