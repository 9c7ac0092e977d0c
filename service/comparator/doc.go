// Package comparator runs one workload under several scheduling algorithms
// concurrently, one independent engine per algorithm.
package comparator
