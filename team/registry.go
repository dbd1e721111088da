package team

import (
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/config"
	"github.com/BaSui01/teamflow/internal/metrics"
	"github.com/BaSui01/teamflow/persistence"
	"github.com/BaSui01/teamflow/types"
)

const tracerName = "github.com/BaSui01/teamflow/team"

// Registry owns all teams of one process and the shared infrastructure
// they execute against. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	teams map[string]*Team
	order []string

	executor  Executor
	msgStore  persistence.MessageStore
	taskStore persistence.TaskStore

	logger    *zap.Logger
	metrics   *metrics.Collector
	metricsNS string
	tracer    trace.Tracer

	execTimeout time.Duration
	autoChain   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics registers orchestration metrics under the given Prometheus
// namespace. Metrics are off without this option. Each namespace can be
// registered only once per process.
func WithMetrics(namespace string) Option {
	return func(r *Registry) {
		r.metricsNS = namespace
	}
}

// WithMessageStore mirrors team message logs to a durable store.
func WithMessageStore(store persistence.MessageStore) Option {
	return func(r *Registry) {
		r.msgStore = store
	}
}

// WithTaskStore mirrors task snapshots to a durable store.
func WithTaskStore(store persistence.TaskStore) Option {
	return func(r *Registry) {
		r.taskStore = store
	}
}

// WithExecTimeout bounds each external execution call that arrives
// without its own deadline. Zero disables the core-imposed deadline.
func WithExecTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.execTimeout = d
	}
}

// WithAutoChain makes newly assigned tasks without explicit
// dependencies depend on the most recently assigned task of their team.
func WithAutoChain() Option {
	return func(r *Registry) {
		r.autoChain = true
	}
}

// WithRateLimit caps external execution calls across all teams at rps
// per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(r *Registry) {
		r.executor = NewRateLimitedExecutor(r.executor, rps, burst)
	}
}

// WithOrchestrationConfig applies a loaded orchestration configuration.
// It covers exec timeout, auto-chaining, and rate limiting; metrics stay
// opt-in through WithMetrics.
func WithOrchestrationConfig(cfg config.OrchestrationConfig) Option {
	return func(r *Registry) {
		r.execTimeout = cfg.ExecTimeout
		r.autoChain = cfg.AutoChain
		if cfg.ExecRateRPS > 0 {
			r.executor = NewRateLimitedExecutor(r.executor, cfg.ExecRateRPS, cfg.ExecRateBurst)
		}
	}
}

// NewRegistry creates a registry that executes tasks through executor.
func NewRegistry(executor Executor, opts ...Option) *Registry {
	r := &Registry{
		teams:    make(map[string]*Team),
		executor: executor,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metricsNS != "" {
		r.metrics = metrics.NewCollector(r.metricsNS, r.logger)
	}
	r.tracer = otel.Tracer(tracerName)
	return r
}

// Create makes a new empty team with the given name and goal.
func (r *Registry) Create(name, goal string) (*Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "team name must not be empty")
	}
	if strings.TrimSpace(goal) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "team goal must not be empty")
	}

	t := &Team{
		id:          types.NewTeamID(),
		name:        name,
		goal:        goal,
		createdAt:   time.Now(),
		lastAction:  actionCreate,
		roster:      newRoster(),
		tasks:       newTaskTable(),
		graph:       NewGraph(),
		executor:    r.executor,
		taskStore:   r.taskStore,
		logger:      r.logger,
		metrics:     r.metrics,
		tracer:      r.tracer,
		execTimeout: r.execTimeout,
		autoChain:   r.autoChain,
	}
	t.bus = newMessageBus(r.msgStore, r.logger)

	r.mu.Lock()
	r.teams[t.id] = t
	r.order = append(r.order, t.id)
	r.mu.Unlock()

	r.metrics.RecordTeamCreated()
	r.logger.Info("team created",
		zap.String("team_id", t.id),
		zap.String("name", name))
	return t, nil
}

// Get resolves a team by ID.
func (r *Registry) Get(teamID string) (*Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[teamID]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "team %s not found", teamID)
	}
	return t, nil
}

// List returns all teams in creation order.
func (r *Registry) List() []*Team {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}
	return out
}

// Len returns the number of teams.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams)
}
