package model

// EventKind represents the type of kernel event
type EventKind string

const (
	EventArrive        EventKind = "arrive"
	EventPreempt       EventKind = "preempt"
	EventDemote        EventKind = "demote"
	EventContextSwitch EventKind = "context_switch"
	EventDispatch      EventKind = "dispatch"
	EventComplete      EventKind = "complete"
	EventIdle          EventKind = "idle"
)

// PreemptReason explains why a running process was returned to ready
type PreemptReason string

const (
	ReasonQuantum          PreemptReason = "quantum"
	ReasonShorterRemaining PreemptReason = "shorter-remaining"
	ReasonLongerRemaining  PreemptReason = "longer-remaining"
	ReasonHigherLevel      PreemptReason = "higher-level"
)

// Event is a single entry of the append-only kernel log. Within one tick
// events are ordered: arrivals, preemption/demotion, context switch and
// dispatch, completion, idle.
type Event struct {
	Tick   int           `json:"tick" yaml:"tick"`
	Kind   EventKind     `json:"event" yaml:"event"`
	PID    int           `json:"pid" yaml:"pid"`
	Reason PreemptReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	// FromPID and ToPID are set for context switches.
	FromPID int `json:"fromPid" yaml:"fromPid"`
	ToPID   int `json:"toPid" yaml:"toPid"`
	// FromLevel and ToLevel are set for demotions.
	FromLevel int `json:"fromLevel" yaml:"fromLevel"`
	ToLevel   int `json:"toLevel" yaml:"toLevel"`
}
