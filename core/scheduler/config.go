package scheduler

import "time"

// Config controls the periodic sync pass.
type Config struct {
	// Enabled starts the periodic sync pass with the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Interval is the time between two passes.
	Interval time.Duration `mapstructure:"interval" default:"2m"`
	// RunOnStart runs a pass immediately instead of waiting for the first tick.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

// Every returns the interval with its default applied.
func (c Config) Every() time.Duration {
	if c.Interval <= 0 {
		return 2 * time.Minute
	}
	return c.Interval
}
