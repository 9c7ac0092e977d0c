// Package model contains the in-memory representation of a scheduling
// simulation: processes and their state machine, the closed set of
// scheduling algorithms, kernel events, Gantt intervals, metrics and the
// snapshot exposed to presentation layers.
//
// Workloads are typically loaded from a YAML or JSON document into Workload
// and submitted to an engine process by process.
package model
