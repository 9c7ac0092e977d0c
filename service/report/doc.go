// Package report renders snapshots and comparisons as text tables.
package report
