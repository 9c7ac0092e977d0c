package comparator

import (
	"fmt"

	"github.com/viant/cpusched/engine"
)

// Config represents comparator configuration
type Config struct {
	// Workers bounds how many engines run at once.
	Workers int `json:"workers" yaml:"workers"`
	// MaxTicks caps each engine run.
	MaxTicks int `json:"maxTicks" yaml:"maxTicks"`
	// Quantum applies when the workload does not set one.
	Quantum int `json:"quantum" yaml:"quantum"`
	// AgingInterval enables priority aging in every engine; 0 disables it.
	AgingInterval int `json:"agingInterval,omitempty" yaml:"agingInterval,omitempty"`
}

// DefaultConfig returns the default comparator configuration
func DefaultConfig() Config {
	return Config{
		Workers:  8,
		MaxTicks: engine.DefaultMaxTicks,
		Quantum:  2,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("comparator: workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("comparator: maxTicks must be >= 1, got %d", c.MaxTicks)
	}
	if c.AgingInterval < 0 {
		return fmt.Errorf("comparator: agingInterval must be >= 0, got %d", c.AgingInterval)
	}
	if c.Quantum < 1 {
		return fmt.Errorf("comparator: quantum must be >= 1, got %d", c.Quantum)
	}
	return nil
}
