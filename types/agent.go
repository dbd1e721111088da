package types

import "time"

// AgentStatus represents an agent's availability.
type AgentStatus string

const (
	// AgentIdle means the agent has no task running.
	AgentIdle AgentStatus = "idle"
	// AgentBusy means the agent is executing exactly one task.
	AgentBusy AgentStatus = "busy"
)

// Agent is a role-labeled worker to which tasks are assigned. It is a handle
// identifying who executes a task, not the execution capability itself.
type Agent struct {
	ID        string      `json:"id"`
	TeamID    string      `json:"team_id"`
	Role      string      `json:"role"`
	Skills    []string    `json:"skills,omitempty"`
	Status    AgentStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Clone returns a deep copy of the agent.
func (a *Agent) Clone() *Agent {
	if a == nil {
		return nil
	}
	c := *a
	c.Skills = append([]string(nil), a.Skills...)
	return &c
}
