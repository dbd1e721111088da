package team

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/internal/metrics"
	"github.com/BaSui01/teamflow/persistence"
	"github.com/BaSui01/teamflow/types"
)

// Action labels recorded as a team's lastAction after each mutating
// operation.
const (
	actionCreate    = "create_team"
	actionAddAgent  = "add_agent"
	actionAssign    = "assign_task"
	actionExecute   = "execute_task"
	actionResume    = "resume_task"
	actionMessage   = "send_message"
	actionBroadcast = "broadcast_message"
)

// Team is the aggregate owning one team's agents, tasks, dependency
// graph, and message log. All exported methods are safe for concurrent
// use.
//
// The team lock is never held across an executor call: execution
// commits the running transition, releases the lock for the call, then
// reacquires it to commit the outcome.
type Team struct {
	id        string
	name      string
	goal      string
	createdAt time.Time

	mu         sync.RWMutex
	lastAction string
	roster     *roster
	tasks      *taskTable
	graph      *Graph
	bus        *messageBus

	executor  Executor
	taskStore persistence.TaskStore

	logger  *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer

	execTimeout time.Duration
	autoChain   bool
}

// ID returns the team's identifier.
func (t *Team) ID() string { return t.id }

// Name returns the team's display name.
func (t *Team) Name() string { return t.name }

// Goal returns the team's shared objective.
func (t *Team) Goal() string { return t.goal }

// AddAgent registers a new agent with the given role and skills and
// returns its snapshot. Role must be non-empty; duplicate roles are
// allowed.
func (t *Team) AddAgent(role string, skills []string) (*types.Agent, error) {
	if strings.TrimSpace(role) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "agent role must not be empty")
	}

	agent := &types.Agent{
		ID:        types.NewAgentID(),
		TeamID:    t.id,
		Role:      role,
		Skills:    append([]string(nil), skills...),
		Status:    types.AgentIdle,
		CreatedAt: time.Now(),
	}

	t.mu.Lock()
	t.roster.add(agent)
	t.lastAction = actionAddAgent
	t.mu.Unlock()

	t.metrics.RecordAgentAdded()
	t.logger.Info("agent added",
		zap.String("team_id", t.id),
		zap.String("agent_id", agent.ID),
		zap.String("role", role))
	return agent.Clone(), nil
}

// ListAgents returns snapshots of all agents in join order.
func (t *Team) ListAgents() []*types.Agent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roster.list()
}

// FindAgentByRole returns the first agent whose role matches,
// case-insensitively, in join order.
func (t *Team) FindAgentByRole(role string) (*types.Agent, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	agent, ok := t.roster.byRole(role)
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "no agent with role %q in team %s", role, t.id)
	}
	return agent.Clone(), nil
}

// AssignTask creates a task for the given agent. Tasks with unmet
// dependencies start pending; tasks whose dependencies are already all
// completed (or absent) start ready. A cyclic dependency set is
// rejected before any state changes.
//
// When auto-chaining is enabled and no explicit dependencies are given,
// the task depends on the most recently assigned task.
func (t *Team) AssignTask(ctx context.Context, agentID, description, taskContext string, dependsOn []string) (*types.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "task description must not be empty")
	}

	t.mu.Lock()
	if _, ok := t.roster.get(agentID); !ok {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "agent %s not found in team %s", agentID, t.id)
	}

	var missing []string
	for _, depID := range dependsOn {
		if _, ok := t.tasks.get(depID); !ok {
			missing = append(missing, depID)
		}
	}
	if len(missing) > 0 {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "unknown dependency task(s) in team %s", t.id).
			WithDetails(missing...)
	}

	auto := false
	if t.autoChain && len(dependsOn) == 0 {
		if last := t.tasks.last(); last != nil {
			dependsOn = []string{last.ID}
			auto = true
		}
	}

	task := &types.Task{
		ID:             types.NewTaskID(),
		TeamID:         t.id,
		AgentID:        agentID,
		Description:    description,
		Context:        taskContext,
		DependsOn:      append([]string(nil), dependsOn...),
		State:          types.TaskPending,
		AutoDependency: auto,
		CreatedAt:      time.Now(),
	}

	// Graph insertion is all-or-nothing: a cycle leaves both graph and
	// task table untouched.
	if err := t.graph.Add(task.ID, task.DependsOn); err != nil {
		t.mu.Unlock()
		return nil, err
	}

	if len(t.tasks.unmet(task)) == 0 {
		task.State = types.TaskReady
	}

	t.tasks.add(task)
	t.lastAction = actionAssign
	snapshot := task.Clone()
	t.mu.Unlock()

	t.metrics.RecordTaskAssigned()
	if snapshot.State == types.TaskReady {
		t.metrics.RecordTaskTransition(string(types.TaskPending), string(types.TaskReady))
	}
	t.persistTask(ctx, snapshot)
	t.logger.Info("task assigned",
		zap.String("team_id", t.id),
		zap.String("task_id", snapshot.ID),
		zap.String("agent_id", agentID),
		zap.String("state", string(snapshot.State)),
		zap.Int("dependencies", len(snapshot.DependsOn)))
	return snapshot, nil
}

// ExecuteTask runs a ready task through the execution capability and
// returns the task snapshot after the outcome commits. A capability
// failure is not an error: the snapshot carries the failed state and
// failure reason. Errors are reserved for validation problems such as
// an unknown task, unmet dependencies, or a busy agent.
func (t *Team) ExecuteTask(ctx context.Context, taskID string) (*types.Task, error) {
	return t.execute(ctx, taskID, false)
}

// ResumeTask re-runs a failed task. The task moves failed -> running
// and commits like a first execution; a prior failure reason is cleared
// on success.
func (t *Team) ResumeTask(ctx context.Context, taskID string) (*types.Task, error) {
	return t.execute(ctx, taskID, true)
}

func (t *Team) execute(ctx context.Context, taskID string, resume bool) (*types.Task, error) {
	action := actionExecute
	if resume {
		action = actionResume
	}

	// Phase one: validate and win the transition to running while
	// holding the lock. A concurrent attempt on the same task loses
	// here with INVALID_STATE.
	t.mu.Lock()
	task, ok := t.tasks.get(taskID)
	if !ok {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "task %s not found in team %s", taskID, t.id)
	}

	if resume {
		if task.State != types.TaskFailed {
			t.mu.Unlock()
			return nil, types.Errorf(types.ErrInvalidState,
				"task %s is %s, only failed tasks can be resumed", taskID, task.State)
		}
	} else {
		switch task.State {
		case types.TaskReady:
		case types.TaskPending:
			unmet := t.tasks.unmet(task)
			t.mu.Unlock()
			return nil, types.Errorf(types.ErrDependencyNotSatisfied,
				"task %s has unmet dependencies", taskID).WithDetails(unmet...)
		default:
			t.mu.Unlock()
			return nil, types.Errorf(types.ErrInvalidState,
				"task %s is %s, expected ready", taskID, task.State)
		}
	}

	// Dependencies are rechecked at the execution boundary even for
	// ready tasks.
	if unmet := t.tasks.unmet(task); len(unmet) > 0 {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrDependencyNotSatisfied,
			"task %s has unmet dependencies", taskID).WithDetails(unmet...)
	}

	agent, ok := t.roster.get(task.AgentID)
	if !ok {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "agent %s not found in team %s", task.AgentID, t.id)
	}
	if agent.Status == types.AgentBusy {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrInvalidState,
			"agent %s is busy with another task", agent.ID)
	}

	fromState := task.State
	task.State = types.TaskRunning
	task.StartedAt = time.Now()
	agent.Status = types.AgentBusy
	t.lastAction = action

	req := &ExecutionRequest{
		TeamID:      t.id,
		TeamName:    t.name,
		TeamGoal:    t.goal,
		TaskID:      task.ID,
		AgentID:     agent.ID,
		Role:        agent.Role,
		Skills:      append([]string(nil), agent.Skills...),
		Description: task.Description,
		Context:     t.dependencyContext(task),
	}
	running := task.Clone()
	t.mu.Unlock()

	t.metrics.RecordTaskTransition(string(fromState), string(types.TaskRunning))
	t.persistTask(ctx, running)

	// Phase two: call the capability without holding the lock. Other
	// team operations proceed meanwhile.
	execCtx := ctx
	if t.execTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			execCtx, cancel = context.WithTimeout(ctx, t.execTimeout)
			defer cancel()
		}
	}

	execCtx, span := t.tracer.Start(execCtx, "team.execute_task",
		trace.WithAttributes(
			attribute.String("team.id", t.id),
			attribute.String("task.id", task.ID),
			attribute.String("agent.id", agent.ID),
			attribute.String("agent.role", agent.Role),
			attribute.Bool("resume", resume),
		))
	started := time.Now()
	result, execErr := t.executor.Execute(execCtx, req)
	elapsed := time.Since(started)
	if execErr != nil {
		span.RecordError(execErr)
		span.SetStatus(codes.Error, execErr.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	// Phase three: commit the outcome and free the agent.
	t.mu.Lock()
	agent.Status = types.AgentIdle
	var promoted []string
	if execErr != nil {
		task.State = types.TaskFailed
		task.FailureReason = failureReason(execErr)
		task.Resumable = true
	} else {
		task.State = types.TaskCompleted
		task.Result = result
		task.FailureReason = ""
		task.Resumable = false
		task.CompletedAt = time.Now()
		promoted = t.tasks.cascade(task.ID, t.graph)
	}
	snapshot := task.Clone()
	t.mu.Unlock()

	if execErr != nil {
		t.metrics.RecordTaskTransition(string(types.TaskRunning), string(types.TaskFailed))
		t.metrics.RecordExecution("failed", elapsed)
		t.logger.Warn("task execution failed",
			zap.String("team_id", t.id),
			zap.String("task_id", task.ID),
			zap.Duration("elapsed", elapsed),
			zap.Error(execErr))
	} else {
		t.metrics.RecordTaskTransition(string(types.TaskRunning), string(types.TaskCompleted))
		t.metrics.RecordExecution("completed", elapsed)
		for range promoted {
			t.metrics.RecordTaskTransition(string(types.TaskPending), string(types.TaskReady))
		}
		t.logger.Info("task completed",
			zap.String("team_id", t.id),
			zap.String("task_id", task.ID),
			zap.Duration("elapsed", elapsed),
			zap.Strings("promoted", promoted))
	}
	t.persistTask(ctx, snapshot)

	return snapshot, nil
}

// TaskResult returns the snapshot of a task that has completed or
// failed. Tasks that have produced no outcome yet yield NOT_READY.
func (t *Team) TaskResult(taskID string) (*types.Task, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	task, ok := t.tasks.get(taskID)
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "task %s not found in team %s", taskID, t.id)
	}
	if task.State != types.TaskCompleted && task.State != types.TaskFailed {
		return nil, types.Errorf(types.ErrNotReady,
			"task %s is %s and has no result yet", taskID, task.State)
	}
	return task.Clone(), nil
}

// TasksOrdered returns snapshots of every task in assignment order.
func (t *Team) TasksOrdered() []*types.Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tasks.ordered()
}

// Outcomes returns snapshots of every task that has completed or
// failed, in assignment order. For the full task table regardless of
// state, as the get_results action reports it, use TasksOrdered.
func (t *Team) Outcomes() []*types.Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*types.Task
	for _, task := range t.tasks.ordered() {
		if task.State == types.TaskCompleted || task.State == types.TaskFailed {
			out = append(out, task)
		}
	}
	return out
}

// SendMessage appends a direct message from one agent to another. Both
// agents must exist and content must be non-empty.
func (t *Team) SendMessage(ctx context.Context, from, to, content string) (*types.Message, error) {
	return t.appendMessage(ctx, from, to, content)
}

// Broadcast appends a message from one agent to the whole team. Agents
// added later still see earlier broadcasts: the log is team-wide, not
// per-recipient.
func (t *Team) Broadcast(ctx context.Context, from, content string) (*types.Message, error) {
	return t.appendMessage(ctx, from, "", content)
}

func (t *Team) appendMessage(ctx context.Context, from, to, content string) (*types.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "message content must not be empty")
	}

	t.mu.Lock()
	if _, ok := t.roster.get(from); !ok {
		t.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "sender agent %s not found in team %s", from, t.id)
	}
	if to != "" {
		if _, ok := t.roster.get(to); !ok {
			t.mu.Unlock()
			return nil, types.Errorf(types.ErrNotFound, "recipient agent %s not found in team %s", to, t.id)
		}
	}

	msg := &types.Message{
		ID:        types.NewMessageID(),
		TeamID:    t.id,
		From:      from,
		To:        to,
		Content:   content,
		Timestamp: time.Now(),
	}
	t.bus.append(msg)
	if to == "" {
		t.lastAction = actionBroadcast
	} else {
		t.lastAction = actionMessage
	}
	t.mu.Unlock()

	kind := "direct"
	if msg.IsBroadcast() {
		kind = "broadcast"
	}
	t.metrics.RecordMessage(kind)
	t.bus.persist(ctx, msg)
	return msg.Clone(), nil
}

// Messages returns the messages visible to agentID in append order:
// those addressed to it and all broadcasts. An empty agentID returns
// the whole log.
func (t *Team) Messages(agentID string) ([]*types.Message, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if agentID != "" {
		if _, ok := t.roster.get(agentID); !ok {
			return nil, types.Errorf(types.ErrNotFound, "agent %s not found in team %s", agentID, t.id)
		}
	}
	return t.bus.visibleTo(agentID), nil
}

// Context returns the team's bookkeeping snapshot. Reading it never
// changes team state, so repeated calls without intervening mutations
// return identical snapshots.
func (t *Team) Context() *types.ContextSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &types.ContextSnapshot{
		TeamID:     t.id,
		LastAction: t.lastAction,
		AgentIDs:   t.roster.ids(),
	}
}

// dependencyContext frames completed dependency results into the task's
// execution context. Caller holds the team lock.
func (t *Team) dependencyContext(task *types.Task) string {
	var sections []string
	for _, depID := range task.DependsOn {
		dep, ok := t.tasks.get(depID)
		if !ok || dep.State != types.TaskCompleted || dep.Result == "" {
			continue
		}
		role := strings.ToUpper(t.roster.roleOf(dep.AgentID))
		sections = append(sections, fmt.Sprintf(
			"--- DEPENDENCY RESULT FROM %s (TASK %s) ---\n%s\n--- END OF DEPENDENCY RESULT ---",
			role, dep.ID, dep.Result))
	}
	if len(sections) == 0 {
		return task.Context
	}
	framed := "RESULTS FROM DEPENDENCY TASKS:\n\n" + strings.Join(sections, "\n\n")
	if task.Context == "" {
		return framed
	}
	return task.Context + "\n\n" + framed
}

// persistTask mirrors a task snapshot to the durable store. Failures
// are logged and swallowed; the in-memory table is authoritative.
func (t *Team) persistTask(ctx context.Context, task *types.Task) {
	if t.taskStore == nil {
		return
	}
	// The committed transition must reach the store even when the
	// execution context already expired.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := t.taskStore.SaveTask(ctx, task); err != nil {
		t.logger.Warn("task store save failed",
			zap.String("team_id", t.id),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
}
