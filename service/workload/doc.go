// Package workload reads and writes process workloads as YAML or JSON from
// any location afs supports (local files, embedded assets, object stores).
package workload
