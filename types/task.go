package types

import "time"

// TaskState represents a task's position in its lifecycle.
type TaskState string

const (
	// TaskPending means at least one dependency has not completed.
	TaskPending TaskState = "pending"
	// TaskReady means every dependency has completed and the task may run.
	TaskReady TaskState = "ready"
	// TaskRunning means the execution capability is working on the task.
	TaskRunning TaskState = "running"
	// TaskCompleted means execution succeeded and the result is recorded.
	TaskCompleted TaskState = "completed"
	// TaskFailed means execution raised; the task may be resumed.
	TaskFailed TaskState = "failed"
)

// taskTransitions is the allowed state machine:
//
//	pending --(all deps completed)--> ready
//	ready   --(execute)-->            running
//	running --(success)-->            completed
//	running --(error/timeout)-->      failed
//	failed  --(resume)-->             running
var taskTransitions = map[TaskState][]TaskState{
	TaskPending: {TaskReady},
	TaskReady:   {TaskRunning},
	TaskRunning: {TaskCompleted, TaskFailed},
	TaskFailed:  {TaskRunning},
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
// Failed is not terminal: it can be resumed back to running.
func (s TaskState) Terminal() bool {
	return s == TaskCompleted
}

// Task is a unit of work assigned to an agent within a team.
type Task struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	AgentID     string    `json:"agent_id"`
	Description string    `json:"description"`
	Context     string    `json:"context,omitempty"`
	DependsOn   []string  `json:"depends_on,omitempty"`
	State       TaskState `json:"state"`

	// Result is set once the task completes.
	Result string `json:"result,omitempty"`
	// FailureReason is set once the task fails.
	FailureReason string `json:"failure_reason,omitempty"`
	// Resumable marks a failed task as eligible for resume.
	Resumable bool `json:"resumable,omitempty"`

	// Sequence is the 1-based assignment order within the team.
	Sequence int `json:"sequence"`
	// AutoDependency marks a dependency that was chained automatically
	// rather than supplied by the caller.
	AutoDependency bool `json:"auto_dependency,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Clone returns a deep copy of the task. Snapshots returned by read
// operations are clones so callers can never mutate owned state.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.DependsOn = append([]string(nil), t.DependsOn...)
	return &c
}
