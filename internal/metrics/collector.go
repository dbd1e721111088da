package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records orchestration metrics.
type Collector struct {
	// Registry metrics
	teamsCreated prometheus.Counter
	agentsAdded  prometheus.Counter

	// Task metrics
	tasksAssigned   prometheus.Counter
	taskTransitions *prometheus.CounterVec

	// Execution metrics
	executionsTotal   *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec

	// Messaging metrics
	messagesTotal *prometheus.CounterVec

	// Integration metrics
	integrationsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a metrics collector. Vectors register in the default
// Prometheus registry under the given namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.teamsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teams_created_total",
			Help:      "Total number of teams created",
		},
	)

	c.agentsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agents_added_total",
			Help:      "Total number of agents added across all teams",
		},
	)

	c.tasksAssigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_assigned_total",
			Help:      "Total number of tasks assigned",
		},
	)

	c.taskTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_state_transitions_total",
			Help:      "Total number of task state transitions",
		},
		[]string{"from_state", "to_state"},
	)

	c.executionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_executions_total",
			Help:      "Total number of task executions by outcome",
		},
		[]string{"outcome"}, // completed, failed
	)

	c.executionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_execution_duration_seconds",
			Help:      "Task execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	c.messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of messages appended to team logs",
		},
		[]string{"kind"}, // direct, broadcast
	)

	c.integrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrations_total",
			Help:      "Total number of result integrations by outcome",
		},
		[]string{"outcome"}, // completed, failed, rejected
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// Record methods tolerate a nil receiver so callers running without
// metrics need no guards.

// RecordTeamCreated records a team creation.
func (c *Collector) RecordTeamCreated() {
	if c == nil {
		return
	}
	c.teamsCreated.Inc()
}

// RecordAgentAdded records an agent joining a team.
func (c *Collector) RecordAgentAdded() {
	if c == nil {
		return
	}
	c.agentsAdded.Inc()
}

// RecordTaskAssigned records a task assignment.
func (c *Collector) RecordTaskAssigned() {
	if c == nil {
		return
	}
	c.tasksAssigned.Inc()
}

// RecordTaskTransition records a task state transition.
func (c *Collector) RecordTaskTransition(from, to string) {
	if c == nil {
		return
	}
	c.taskTransitions.WithLabelValues(from, to).Inc()
}

// RecordExecution records one external execution attempt and its duration.
func (c *Collector) RecordExecution(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.executionsTotal.WithLabelValues(outcome).Inc()
	c.executionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordMessage records a message append; kind is "direct" or "broadcast".
func (c *Collector) RecordMessage(kind string) {
	if c == nil {
		return
	}
	c.messagesTotal.WithLabelValues(kind).Inc()
}

// RecordIntegration records an integration attempt by outcome.
func (c *Collector) RecordIntegration(outcome string) {
	if c == nil {
		return
	}
	c.integrationsTotal.WithLabelValues(outcome).Inc()
}
