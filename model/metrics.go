package model

// Metrics aggregates scheduling performance over the processes submitted to
// a simulation.
type Metrics struct {
	AvgWait         float64 `json:"avgWaitTime" yaml:"avgWaitTime"`
	AvgTurnaround   float64 `json:"avgTurnaroundTime" yaml:"avgTurnaroundTime"`
	AvgResponse     float64 `json:"avgResponseTime" yaml:"avgResponseTime"`
	CPUUtilization  float64 `json:"cpuUtilization" yaml:"cpuUtilization"`
	Throughput      float64 `json:"throughput" yaml:"throughput"`
	TotalIdle       int     `json:"totalIdleTime" yaml:"totalIdleTime"`
	BusyTime        int     `json:"busyTime" yaml:"busyTime"`
	TotalTime       int     `json:"totalExecutionTime" yaml:"totalExecutionTime"`
	ContextSwitches int     `json:"contextSwitches" yaml:"contextSwitches"`
	Completed       int     `json:"completed" yaml:"completed"`
}

// MetricsSample is one point of the per-tick metrics time series
type MetricsSample struct {
	Tick             int     `json:"tick" yaml:"tick"`
	RunningPID       int     `json:"runningPid" yaml:"runningPid"`
	ReadyQueueLength int     `json:"readyQueueLength" yaml:"readyQueueLength"`
	CPUUtilization   float64 `json:"cpuUtilization" yaml:"cpuUtilization"`
	Throughput       float64 `json:"throughput" yaml:"throughput"`
	ContextSwitches  int     `json:"contextSwitches" yaml:"contextSwitches"`
	AvgWait          float64 `json:"avgWaitTime" yaml:"avgWaitTime"`
	AvgTurnaround    float64 `json:"avgTurnaroundTime" yaml:"avgTurnaroundTime"`
	AvgResponse      float64 `json:"avgResponseTime" yaml:"avgResponseTime"`
}
