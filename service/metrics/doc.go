// Package metrics computes scheduling performance figures. Values are always
// recomputed from the process list so they can never drift from it.
package metrics
