package model

// GanttEntry is one run-length-encoded interval [Start, End) of CPU occupancy
type GanttEntry struct {
	PID   int `json:"pid" yaml:"pid"`
	Start int `json:"startTime" yaml:"startTime"`
	End   int `json:"endTime" yaml:"endTime"`
}

// Idle reports whether no process occupied the CPU during the interval
func (g GanttEntry) Idle() bool {
	return g.PID == IdlePID
}

// Len returns the interval length in ticks
func (g GanttEntry) Len() int {
	return g.End - g.Start
}
