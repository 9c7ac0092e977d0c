package model

import "fmt"

// IdlePID is the sentinel occupant used when no process holds the CPU
const IdlePID = -1

// Process represents a simulated process control block
type Process struct {
	PID      int `json:"pid" yaml:"pid"`
	Arrival  int `json:"arrivalTime" yaml:"arrivalTime"`
	Burst    int `json:"burstTime" yaml:"burstTime"`
	Priority int `json:"priority" yaml:"priority"`

	Remaining  int   `json:"remainingTime" yaml:"remainingTime"`
	State      State `json:"state" yaml:"state"`
	Start      int   `json:"startTime" yaml:"startTime"`
	Finish     int   `json:"finishTime" yaml:"finishTime"`
	Wait       int   `json:"waitTime" yaml:"waitTime"`
	Response   int   `json:"responseTime" yaml:"responseTime"`
	Turnaround int   `json:"turnaroundTime" yaml:"turnaroundTime"`

	// Level is the feedback queue level, always 0 outside MLFQ.
	Level int `json:"level" yaml:"level"`
	// QuantumLeft counts the ticks left in the current time slice (RR, MLFQ).
	QuantumLeft int `json:"quantumLeft" yaml:"quantumLeft"`
	// EffectivePriority is the priority the Priority policy compares. It
	// equals Priority unless aging lowered it while the process waited.
	EffectivePriority int `json:"effectivePriority" yaml:"effectivePriority"`
}

// NewProcess creates a process in state NEW
func NewProcess(pid, arrival, burst, priority int) *Process {
	ret := &Process{PID: pid, Arrival: arrival, Burst: burst, Priority: priority}
	ret.Reset()
	return ret
}

// Reset restores run-time fields from the immutable inputs
func (p *Process) Reset() {
	p.Remaining = p.Burst
	p.State = StateNew
	p.Start = -1
	p.Finish = -1
	p.Wait = 0
	p.Response = -1
	p.Turnaround = 0
	p.Level = 0
	p.QuantumLeft = 0
	p.EffectivePriority = p.Priority
}

// Age lowers the effective priority by one level, never below zero
func (p *Process) Age() bool {
	if p.EffectivePriority <= 0 {
		return false
	}
	p.EffectivePriority--
	return true
}

// Transition moves the process to next or returns ErrIllegalTransition
func (p *Process) Transition(next State) error {
	if !p.State.CanTransition(next) {
		return fmt.Errorf("%w: pid %d %v -> %v", ErrIllegalTransition, p.PID, p.State, next)
	}
	p.State = next
	return nil
}

// Executed returns CPU units consumed so far
func (p *Process) Executed() int {
	return p.Burst - p.Remaining
}

// Dispatched reports whether the process ever held the CPU
func (p *Process) Dispatched() bool {
	return p.Start >= 0
}

func (p *Process) IsTerminated() bool {
	return p.State == StateTerminated
}

// Clone returns an independent copy
func (p *Process) Clone() *Process {
	if p == nil {
		return nil
	}
	ret := *p
	return &ret
}

// Spec returns the immutable submission inputs
func (p *Process) Spec() ProcessSpec {
	return ProcessSpec{Arrival: p.Arrival, Burst: p.Burst, Priority: p.Priority}
}
