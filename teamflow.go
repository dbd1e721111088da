// Package teamflow provides a top-level convenience entry point for
// creating a team registry with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/teamflow"
//
//	registry := teamflow.New(myExecutor)
//	registry := teamflow.New(myExecutor, teamflow.WithLogger(logger), teamflow.WithAutoChain())
//
// This is a thin wrapper around [team.NewRegistry]; both produce
// identical results. Use this package when you prefer the shorter
// import path.
package teamflow

import (
	"github.com/BaSui01/teamflow/team"
)

// Option configures the registry created by [New].
type Option = team.Option

// Executor is the capability contract tasks execute against.
type Executor = team.Executor

// ExecutorFunc adapts a plain function to [Executor].
type ExecutorFunc = team.ExecutorFunc

// New creates a [team.Registry] executing tasks through executor.
func New(executor Executor, opts ...Option) *team.Registry {
	return team.NewRegistry(executor, opts...)
}

// Re-export registry options so callers never need to import team/ for
// configuration alone.

// WithLogger sets the registry logger.
var WithLogger = team.WithLogger

// WithMetrics registers Prometheus metrics under a namespace.
var WithMetrics = team.WithMetrics

// WithMessageStore mirrors message logs to a durable store.
var WithMessageStore = team.WithMessageStore

// WithTaskStore mirrors task snapshots to a durable store.
var WithTaskStore = team.WithTaskStore

// WithExecTimeout bounds each external execution call.
var WithExecTimeout = team.WithExecTimeout

// WithAutoChain chains new tasks to the most recently assigned one.
var WithAutoChain = team.WithAutoChain

// WithRateLimit caps external execution calls per second.
var WithRateLimit = team.WithRateLimit

// WithOrchestrationConfig applies a loaded orchestration configuration.
var WithOrchestrationConfig = team.WithOrchestrationConfig
