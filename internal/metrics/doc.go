// Package metrics provides Prometheus-based metrics collection for the
// orchestration core. This package is internal and should not be imported
// by external projects.
//
// The Collector registers its vectors through promauto under a caller-chosen
// namespace and records team, task, execution, and messaging metrics. The
// label sets stay low-cardinality on purpose: states, outcomes, and message
// kinds, never free-text IDs.
package metrics
