package dispatcher

import (
	"fmt"

	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/service/queue"
	"github.com/viant/cpusched/service/registry"
)

// Dispatcher applies one scheduling algorithm to a registry and its ready queues
type Dispatcher struct {
	algorithm model.Algorithm
	queue     *queue.Manager
	registry  *registry.Registry
}

// Select returns the pid to run next or model.IdlePID when nothing is ready.
// Ties go to the earliest queue position.
func (d *Dispatcher) Select() int {
	switch d.algorithm {
	case model.FCFS, model.RoundRobin:
		return d.queue.Front(0)
	case model.SJF:
		return d.pick(func(candidate, best *model.Process) bool { return candidate.Burst < best.Burst })
	case model.SRTF:
		return d.pick(func(candidate, best *model.Process) bool { return candidate.Remaining < best.Remaining })
	case model.Priority:
		return d.pick(func(candidate, best *model.Process) bool { return candidate.EffectivePriority < best.EffectivePriority })
	case model.LJF:
		return d.pick(func(candidate, best *model.Process) bool { return candidate.Burst > best.Burst })
	case model.LRTF:
		return d.pick(func(candidate, best *model.Process) bool { return candidate.Remaining > best.Remaining })
	case model.MLFQ:
		level := d.queue.HighestNonEmpty()
		if level < 0 {
			return model.IdlePID
		}
		return d.queue.Front(level)
	}
	panic(fmt.Sprintf("dispatcher: unsupported algorithm %v", d.algorithm))
}

// pick scans level 0 and keeps the first process no other candidate beats
func (d *Dispatcher) pick(better func(candidate, best *model.Process) bool) int {
	var best *model.Process
	for _, pid := range d.queue.Level(0) {
		candidate := d.registry.Get(pid)
		if best == nil || better(candidate, best) {
			best = candidate
		}
	}
	if best == nil {
		return model.IdlePID
	}
	return best.PID
}

// Check evaluates whether running must leave the CPU at the start of a tick.
// Equal candidate values never preempt.
func (d *Dispatcher) Check(running *model.Process) Decision {
	switch d.algorithm {
	case model.FCFS, model.SJF, model.Priority, model.LJF:
		return Decision{Action: Keep}
	case model.RoundRobin:
		if running.QuantumLeft > 0 {
			return Decision{Action: Keep}
		}
		if d.queue.Len() == 0 {
			return Decision{Action: Renew, Reason: model.ReasonQuantum}
		}
		return Decision{Action: RequeueBack, Reason: model.ReasonQuantum}
	case model.SRTF:
		if next := d.registry.Get(d.Select()); next != nil && next.Remaining < running.Remaining {
			return Decision{Action: RequeueBack, Reason: model.ReasonShorterRemaining}
		}
		return Decision{Action: Keep}
	case model.LRTF:
		if next := d.registry.Get(d.Select()); next != nil && next.Remaining > running.Remaining {
			return Decision{Action: RequeueBack, Reason: model.ReasonLongerRemaining}
		}
		return Decision{Action: Keep}
	case model.MLFQ:
		if d.queue.Quantum(running.Level) > 0 && running.QuantumLeft <= 0 {
			return Decision{Action: Demote, Reason: model.ReasonQuantum}
		}
		if level := d.queue.HighestNonEmpty(); level >= 0 && level < running.Level {
			return Decision{Action: RequeueFront, Reason: model.ReasonHigherLevel}
		}
		return Decision{Action: Keep}
	}
	panic(fmt.Sprintf("dispatcher: unsupported algorithm %v", d.algorithm))
}

// Preempt applies decision to running, returning it to READY. For demotions
// from and to hold the queue levels; otherwise both equal the current level.
func (d *Dispatcher) Preempt(running *model.Process, decision Decision) (from, to int, err error) {
	from, to = running.Level, running.Level
	switch decision.Action {
	case Renew:
		running.QuantumLeft = d.queue.Quantum(running.Level)
		return from, to, nil
	case Keep:
		return from, to, nil
	}
	if err = running.Transition(model.StateReady); err != nil {
		return from, to, err
	}
	switch decision.Action {
	case RequeueBack:
		d.queue.Requeue(running, false)
	case RequeueFront:
		d.queue.Requeue(running, true)
	case Demote:
		from, to = d.queue.Demote(running)
	}
	return from, to, nil
}

// Dispatch removes pid from the ready queues and gives it the CPU at tick
func (d *Dispatcher) Dispatch(pid, tick int) (*model.Process, error) {
	p := d.registry.Get(pid)
	if p == nil || !d.queue.Remove(pid) {
		return nil, fmt.Errorf("dispatcher: pid %d is not ready", pid)
	}
	if err := p.Transition(model.StateRunning); err != nil {
		return nil, err
	}
	if !p.Dispatched() {
		p.Start = tick
		p.Response = tick - p.Arrival
	}
	if d.algorithm == model.RoundRobin {
		p.QuantumLeft = d.queue.Quantum(0)
	}
	return p, nil
}

// Algorithm returns the policy in use
func (d *Dispatcher) Algorithm() model.Algorithm {
	return d.algorithm
}

// New creates a dispatcher
func New(algorithm model.Algorithm, queue *queue.Manager, registry *registry.Registry) *Dispatcher {
	return &Dispatcher{algorithm: algorithm, queue: queue, registry: registry}
}
