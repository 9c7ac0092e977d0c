package model

import "fmt"

// ProcessSpec holds the immutable inputs of a submitted process
type ProcessSpec struct {
	Arrival  int `json:"arrivalTime" yaml:"arrivalTime"`
	Burst    int `json:"burstTime" yaml:"burstTime"`
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Workload is a serialisable process list together with the policy it
// should be simulated under. Algorithm and Quantum are optional.
type Workload struct {
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Algorithm string        `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Quantum   int           `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Processes []ProcessSpec `json:"processes" yaml:"processes"`
}

// Validate returns the first invalid process description, if any
func (w *Workload) Validate() error {
	if w == nil {
		return fmt.Errorf("workload was nil")
	}
	if w.Quantum < 0 {
		return fmt.Errorf("workload %q: quantum must not be negative, got %d", w.Name, w.Quantum)
	}
	if w.Algorithm != "" {
		if _, err := ParseAlgorithm(w.Algorithm); err != nil {
			return fmt.Errorf("workload %q: %w", w.Name, err)
		}
	}
	for i, spec := range w.Processes {
		if spec.Burst < 1 {
			return fmt.Errorf("workload %q: process[%d]: burst time must be >= 1, got %d", w.Name, i, spec.Burst)
		}
		if spec.Arrival < 0 {
			return fmt.Errorf("workload %q: process[%d]: arrival time must be >= 0, got %d", w.Name, i, spec.Arrival)
		}
	}
	return nil
}
