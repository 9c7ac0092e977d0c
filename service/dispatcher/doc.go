// Package dispatcher decides which ready process occupies the CPU for the
// next tick and when a running process must give it up. Every scheduling
// algorithm is a variant of a closed set handled by a single switch.
package dispatcher
