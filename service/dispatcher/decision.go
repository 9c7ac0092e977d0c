package dispatcher

import "github.com/viant/cpusched/model"

// Action tells the engine what to do with the running process
type Action int

const (
	// Keep leaves the running process on the CPU.
	Keep Action = iota
	// Renew grants a fresh time slice in place because nothing else is ready.
	Renew
	// RequeueBack returns the process to the back of its level.
	RequeueBack
	// RequeueFront returns the process to the front of its level.
	RequeueFront
	// Demote moves the process one level down after its quantum expired.
	Demote
)

// Decision is the outcome of a preemption check
type Decision struct {
	Action Action
	Reason model.PreemptReason
}

// Preempts reports whether the running process leaves the CPU
func (d Decision) Preempts() bool {
	return d.Action == RequeueBack || d.Action == RequeueFront || d.Action == Demote
}
