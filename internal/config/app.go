package config

import (
	"interview-runtime/internal/runtime"
)

// RuntimeSettings converts the runtime section. Zero values fall back to
// the runtime defaults.
func (c *Config) RuntimeSettings() runtime.Settings {
	return runtime.Settings{
		AutoSaveDelay:          c.Runtime.AutoSaveDelay,
		SavedIndicatorDuration: c.Runtime.SavedIndicatorDuration,
		TickInterval:           c.Runtime.TickInterval,
		ScoreMultiplier:        c.Runtime.ScoreMultiplier,
		AccumulateTimeSpent:    c.Runtime.AccumulateTimeSpent,
	}
}

// RuntimeOptions returns the runtime options implied by the configuration.
func (c *Config) RuntimeOptions() []runtime.Option {
	return []runtime.Option{runtime.WithSettings(c.RuntimeSettings())}
}
