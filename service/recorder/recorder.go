package recorder

import (
	"github.com/viant/cpusched/model"
)

// Recorder appends CPU history one tick at a time
type Recorder struct {
	gantt           []model.GanttEntry
	events          []model.Event
	previous        int
	busy            int
	contextSwitches int
}

func (r *Recorder) Arrive(tick, pid int) {
	r.append(model.Event{Tick: tick, Kind: model.EventArrive, PID: pid})
}

func (r *Recorder) Preempt(tick, pid int, reason model.PreemptReason) {
	r.append(model.Event{Tick: tick, Kind: model.EventPreempt, PID: pid, Reason: reason})
}

// Demote logs an MLFQ level change that accompanied a preemption
func (r *Recorder) Demote(tick, pid, from, to int) {
	r.append(model.Event{Tick: tick, Kind: model.EventDemote, PID: pid, FromLevel: from, ToLevel: to})
}

func (r *Recorder) Complete(tick, pid int) {
	r.append(model.Event{Tick: tick, Kind: model.EventComplete, PID: pid})
}

// RecordTick records occupant (a pid or model.IdlePID) for the unit
// [tick, tick+1). A dispatch is logged only when the occupant changed since
// the previous tick, preceded by a context switch when both occupants are
// processes. Occupied units are counted as busy.
func (r *Recorder) RecordTick(occupant, tick int) {
	if occupant != model.IdlePID && occupant != r.previous {
		if r.previous != model.IdlePID {
			r.contextSwitches++
			r.append(model.Event{Tick: tick, Kind: model.EventContextSwitch, PID: occupant, FromPID: r.previous, ToPID: occupant})
		}
		r.append(model.Event{Tick: tick, Kind: model.EventDispatch, PID: occupant})
	}
	if occupant == model.IdlePID {
		r.append(model.Event{Tick: tick, Kind: model.EventIdle, PID: model.IdlePID})
	} else {
		r.busy++
	}
	r.previous = occupant
	if n := len(r.gantt); n > 0 {
		last := &r.gantt[n-1]
		if last.PID == occupant && last.End == tick {
			last.End = tick + 1
			return
		}
	}
	r.gantt = append(r.gantt, model.GanttEntry{PID: occupant, Start: tick, End: tick + 1})
}

func (r *Recorder) append(event model.Event) {
	r.events = append(r.events, event)
}

// ContextSwitches returns the number of context_switch events logged
func (r *Recorder) ContextSwitches() int {
	return r.contextSwitches
}

// BusyUnits returns the number of non-idle ticks recorded
func (r *Recorder) BusyUnits() int {
	return r.busy
}

// Gantt returns a copy of the timeline
func (r *Recorder) Gantt() []model.GanttEntry {
	ret := make([]model.GanttEntry, len(r.gantt))
	copy(ret, r.gantt)
	return ret
}

// Events returns a copy of the event log
func (r *Recorder) Events() []model.Event {
	ret := make([]model.Event, len(r.events))
	copy(ret, r.events)
	return ret
}

// EventsSince returns a copy of the events logged after the first n
func (r *Recorder) EventsSince(n int) []model.Event {
	if n < 0 {
		n = 0
	}
	if n >= len(r.events) {
		return nil
	}
	ret := make([]model.Event, len(r.events)-n)
	copy(ret, r.events[n:])
	return ret
}

// Reset drops all recorded history
func (r *Recorder) Reset() {
	r.gantt = nil
	r.events = nil
	r.previous = model.IdlePID
	r.busy = 0
	r.contextSwitches = 0
}

// New creates an empty recorder
func New() *Recorder {
	ret := &Recorder{}
	ret.Reset()
	return ret
}
