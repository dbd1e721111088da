package team

import (
	"time"

	"github.com/BaSui01/teamflow/types"
)

// Workflow status values reported by Status.
const (
	WorkflowComplete   = "complete"
	WorkflowInProgress = "in_progress"
)

// AgentWorkload summarizes one agent's task load by state.
type AgentWorkload struct {
	Role    string                  `json:"role"`
	Status  types.AgentStatus       `json:"status"`
	Total   int                     `json:"total"`
	ByState map[types.TaskState]int `json:"by_state"`
}

// TeamStatus is a point-in-time aggregate view of a team.
type TeamStatus struct {
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"created_at"`

	AgentCount   int `json:"agent_count"`
	TaskCount    int `json:"task_count"`
	MessageCount int `json:"message_count"`

	TaskCounts map[types.TaskState]int  `json:"task_counts"`
	Workloads  map[string]*AgentWorkload `json:"workloads"`

	// Blocked maps each pending task to its unmet dependency IDs.
	Blocked map[string][]string `json:"blocked,omitempty"`
	// NextExecutable lists ready task IDs in assignment order.
	NextExecutable []string `json:"next_executable,omitempty"`

	// WorkflowStatus is "complete" when every task has completed,
	// otherwise "in_progress". A team with no tasks counts as complete.
	WorkflowStatus string `json:"workflow_status"`
}

// Status returns the team's aggregate view: per-state task counts,
// per-agent workloads, blocked tasks with their unmet dependencies, and
// the ready tasks executable next.
func (t *Team) Status() *TeamStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := &TeamStatus{
		TeamID:       t.id,
		Name:         t.name,
		Goal:         t.goal,
		CreatedAt:    t.createdAt,
		AgentCount:   t.roster.len(),
		TaskCount:    t.tasks.len(),
		MessageCount: t.bus.len(),
		TaskCounts:   t.tasks.counts(),
		Workloads:    make(map[string]*AgentWorkload, t.roster.len()),
	}

	for _, id := range t.roster.order {
		agent := t.roster.agents[id]
		st.Workloads[id] = &AgentWorkload{
			Role:    agent.Role,
			Status:  agent.Status,
			ByState: make(map[types.TaskState]int),
		}
	}

	for _, id := range t.tasks.order {
		task := t.tasks.tasks[id]
		if w, ok := st.Workloads[task.AgentID]; ok {
			w.Total++
			w.ByState[task.State]++
		}
		switch task.State {
		case types.TaskPending:
			if st.Blocked == nil {
				st.Blocked = make(map[string][]string)
			}
			st.Blocked[task.ID] = t.tasks.unmet(task)
		case types.TaskReady:
			st.NextExecutable = append(st.NextExecutable, task.ID)
		}
	}

	st.WorkflowStatus = WorkflowInProgress
	if t.tasks.allCompleted() {
		st.WorkflowStatus = WorkflowComplete
	}
	return st
}
