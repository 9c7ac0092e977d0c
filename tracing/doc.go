// Package tracing wraps OpenTelemetry so that simulation runs and
// comparisons can be traced without callers importing the SDK. Until Init
// or InitWithExporter is called spans are no-ops.
package tracing
