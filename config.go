package cpusched

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/cpusched/engine"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/service/comparator"
	"github.com/viant/cpusched/service/messaging/memory"
	"github.com/viant/cpusched/service/workload"
)

// Config is a serialisable representation of the service configuration.
// It can be loaded from JSON or YAML; zero-valued sections fall back to
// DefaultConfig.
type Config struct {
	Engine     EngineConfig     `json:"engine" yaml:"engine"`
	Comparator ComparatorConfig `json:"comparator" yaml:"comparator"`
	Events     EventsConfig     `json:"events" yaml:"events"`
}

type EngineConfig struct {
	// Algorithm used by sessions created without one.
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Quantum   int    `json:"quantum" yaml:"quantum"`
	MaxTicks  int    `json:"maxTicks" yaml:"maxTicks"`
	// AgingInterval lowers waiting priorities every n ticks; 0 disables aging.
	AgingInterval int `json:"agingInterval,omitempty" yaml:"agingInterval,omitempty"`
}

type ComparatorConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

type EventsConfig struct {
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
	// MaxRetries bounds redeliveries of an event whose handler panicked.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

// DefaultConfig returns a Config populated with the package defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Algorithm: model.FCFS.String(),
			Quantum:   comparator.DefaultConfig().Quantum,
			MaxTicks:  engine.DefaultMaxTicks,
		},
		Comparator: ComparatorConfig{Workers: comparator.DefaultConfig().Workers},
		Events: EventsConfig{
			QueueBuffer: memory.DefaultConfig().QueueBuffer,
			MaxRetries:  memory.DefaultConfig().MaxRetries,
		},
	}
}

// Validate returns an error describing the first invalid setting or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := model.ParseAlgorithm(c.Engine.Algorithm); err != nil {
		return fmt.Errorf("engine.algorithm: %w", err)
	}
	if c.Engine.Quantum < 1 {
		return fmt.Errorf("engine.quantum must be >= 1, got %d", c.Engine.Quantum)
	}
	if c.Engine.MaxTicks < 1 {
		return fmt.Errorf("engine.maxTicks must be >= 1, got %d", c.Engine.MaxTicks)
	}
	if c.Engine.AgingInterval < 0 {
		return fmt.Errorf("engine.agingInterval must be >= 0, got %d", c.Engine.AgingInterval)
	}
	if c.Comparator.Workers < 1 {
		return fmt.Errorf("comparator.workers must be >= 1, got %d", c.Comparator.Workers)
	}
	if c.Events.QueueBuffer < 1 {
		return fmt.Errorf("events.queueBuffer must be >= 1, got %d", c.Events.QueueBuffer)
	}
	if c.Events.MaxRetries < 0 {
		return fmt.Errorf("events.maxRetries must be >= 0, got %d", c.Events.MaxRetries)
	}
	return nil
}

func (c *Config) engineOptions() []engine.Option {
	return []engine.Option{engine.WithMaxTicks(c.Engine.MaxTicks), engine.WithAging(c.Engine.AgingInterval)}
}

// comparatorConfig derives the comparator settings
func (c *Config) comparatorConfig() comparator.Config {
	return comparator.Config{
		Workers:       c.Comparator.Workers,
		MaxTicks:      c.Engine.MaxTicks,
		Quantum:       c.Engine.Quantum,
		AgingInterval: c.Engine.AgingInterval,
	}
}

// LoadConfig reads a JSON or YAML config from URL on top of DefaultConfig
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := workload.New(afs.New(), "", options...).Unmarshal(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
