package model

// ReadyLevel describes one ready queue. Quantum is 0 when the level runs
// without a time slice.
type ReadyLevel struct {
	Level   int   `json:"level" yaml:"level"`
	Quantum int   `json:"quantum" yaml:"quantum"`
	PIDs    []int `json:"pids" yaml:"pids"`
}

// Snapshot is the full simulation state exposed after every tick. It never
// shares memory with the engine.
type Snapshot struct {
	Tick            int             `json:"currentTime" yaml:"currentTime"`
	RunningPID      int             `json:"runningPid" yaml:"runningPid"`
	Completed       bool            `json:"isCompleted" yaml:"isCompleted"`
	Algorithm       Algorithm       `json:"algorithm" yaml:"algorithm"`
	Quantum         int             `json:"timeQuantum" yaml:"timeQuantum"`
	Processes       []*Process      `json:"processes" yaml:"processes"`
	Gantt           []GanttEntry    `json:"gantt" yaml:"gantt"`
	ReadyQueues     []ReadyLevel    `json:"readyQueues" yaml:"readyQueues"`
	Metrics         Metrics         `json:"metrics" yaml:"metrics"`
	MetricsHistory  []MetricsSample `json:"metricsHistory,omitempty" yaml:"metricsHistory,omitempty"`
	Events          []Event         `json:"kernelLog" yaml:"kernelLog"`
	ContextSwitches int             `json:"contextSwitches" yaml:"contextSwitches"`
}

// Process returns the process view with the given pid or nil
func (s *Snapshot) Process(pid int) *Process {
	if s == nil || pid < 0 || pid >= len(s.Processes) {
		return nil
	}
	return s.Processes[pid]
}

// ReadyPIDs flattens all ready levels, highest level first
func (s *Snapshot) ReadyPIDs() []int {
	var ret []int
	for _, level := range s.ReadyQueues {
		ret = append(ret, level.PIDs...)
	}
	return ret
}
