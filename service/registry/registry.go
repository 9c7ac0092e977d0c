package registry

import (
	"errors"
	"fmt"

	"github.com/viant/cpusched/model"
)

var (
	// ErrInvalidBurst is returned when a process asks for less than one CPU unit.
	ErrInvalidBurst = errors.New("registry: burst time must be >= 1")

	// ErrInvalidArrival is returned for negative arrival times.
	ErrInvalidArrival = errors.New("registry: arrival time must be >= 0")
)

// Admitter receives processes transitioning from NEW to READY
type Admitter interface {
	Admit(p *model.Process)
}

// Registry keeps processes indexed by pid. PIDs are assigned in submission
// order and never reused.
type Registry struct {
	processes []*model.Process
}

// Submit registers a new process and returns its pid
func (r *Registry) Submit(arrival, burst, priority int) (int, error) {
	if burst < 1 {
		return -1, fmt.Errorf("%w: got %d", ErrInvalidBurst, burst)
	}
	if arrival < 0 {
		return -1, fmt.Errorf("%w: got %d", ErrInvalidArrival, arrival)
	}
	pid := len(r.processes)
	r.processes = append(r.processes, model.NewProcess(pid, arrival, burst, priority))
	return pid, nil
}

// AdmitArrivals moves every NEW process with Arrival <= tick into READY and
// hands it to ready in pid order. It returns the admitted pids.
func (r *Registry) AdmitArrivals(tick int, ready Admitter) ([]int, error) {
	var admitted []int
	for _, p := range r.processes {
		if p.State != model.StateNew || p.Arrival > tick {
			continue
		}
		if err := p.Transition(model.StateReady); err != nil {
			return admitted, err
		}
		ready.Admit(p)
		admitted = append(admitted, p.PID)
	}
	return admitted, nil
}

// AllTerminated reports whether every process finished; true for an empty registry
func (r *Registry) AllTerminated() bool {
	for _, p := range r.processes {
		if !p.IsTerminated() {
			return false
		}
	}
	return true
}

// Get returns the process with pid or nil
func (r *Registry) Get(pid int) *model.Process {
	if pid < 0 || pid >= len(r.processes) {
		return nil
	}
	return r.processes[pid]
}

// Processes returns the live process list; callers must not modify it.
func (r *Registry) Processes() []*model.Process {
	return r.processes
}

func (r *Registry) Len() int {
	return len(r.processes)
}

// Executed returns the CPU units consumed across all processes
func (r *Registry) Executed() int {
	total := 0
	for _, p := range r.processes {
		total += p.Executed()
	}
	return total
}

// EarliestArrival returns the minimum arrival time; ok is false when empty
func (r *Registry) EarliestArrival() (arrival int, ok bool) {
	for i, p := range r.processes {
		if i == 0 || p.Arrival < arrival {
			arrival = p.Arrival
		}
	}
	return arrival, len(r.processes) > 0
}

// Specs returns the submitted inputs in pid order
func (r *Registry) Specs() []model.ProcessSpec {
	ret := make([]model.ProcessSpec, len(r.processes))
	for i, p := range r.processes {
		ret[i] = p.Spec()
	}
	return ret
}

// Clone returns deep copies of all processes
func (r *Registry) Clone() []*model.Process {
	ret := make([]*model.Process, len(r.processes))
	for i, p := range r.processes {
		ret[i] = p.Clone()
	}
	return ret
}

// Reset restores every process to NEW keeping pids and inputs
func (r *Registry) Reset() {
	for _, p := range r.processes {
		p.Reset()
	}
}

// Clear drops the whole workload
func (r *Registry) Clear() {
	r.processes = nil
}

// New creates an empty registry
func New() *Registry {
	return &Registry{}
}
