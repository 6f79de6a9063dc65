package pipeline

import (
	"time"
)

// Config represents the pipeline execution configuration
type Config struct {
	// Step-specific timeouts
	StepTimeouts map[string]time.Duration `json:"step_timeouts"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDMerge:    DefaultMergeTimeout,
			StepIDFeatures: DefaultFeaturesTimeout,
			StepIDXG:       DefaultXGTimeout,
			StepIDTrain:    DefaultTrainTimeout,
		},
	}
}

// GetStepTimeout returns the timeout for a specific step
func (c *Config) GetStepTimeout(id string) time.Duration {
	if timeout, ok := c.StepTimeouts[id]; ok && timeout > 0 {
		return timeout
	}
	return DefaultStepTimeout
}

// SetStepTimeout sets the timeout for a specific step
func (c *Config) SetStepTimeout(id string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[id] = timeout
}
