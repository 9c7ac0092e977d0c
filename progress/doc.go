// Package progress tracks how far a simulation session or an algorithm
// comparison has advanced. A tracker travels in a context so that nested
// components can report without a global registry.
package progress
