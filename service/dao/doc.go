// Package dao defines a generic persistence contract keyed by id together
// with the errors every implementation reports.
package dao
