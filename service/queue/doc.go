// Package queue maintains the ready queues of a simulation: a single FIFO
// sequence for flat policies, or the three-level ladder of the multi-level
// feedback queue with its per-level quantum bookkeeping.
package queue
