// Package recorder keeps the execution history of a simulation: the
// run-length encoded Gantt timeline and the append-only kernel event log.
package recorder
