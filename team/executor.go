package team

import (
	"context"

	"github.com/BaSui01/teamflow/types"
)

// ExecutionRequest carries everything an executor needs to run a single
// task on behalf of an agent. Context already contains the framed results
// of completed dependency tasks when the task has any.
type ExecutionRequest struct {
	TeamID      string   `json:"team_id"`
	TeamName    string   `json:"team_name"`
	TeamGoal    string   `json:"team_goal"`
	TaskID      string   `json:"task_id,omitempty"`
	AgentID     string   `json:"agent_id,omitempty"`
	Role        string   `json:"role"`
	Skills      []string `json:"skills,omitempty"`
	Description string   `json:"description"`
	Context     string   `json:"context,omitempty"`

	// Integration is non-empty only for result-integration requests, in
	// which case TaskID and AgentID are empty and Description holds the
	// team goal.
	Integration []IntegrationInput `json:"integration,omitempty"`
}

// IntegrationInput is one completed task's contribution to an
// integration request, ordered by assignment sequence.
type IntegrationInput struct {
	TaskID      string `json:"task_id"`
	Sequence    int    `json:"sequence"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Result      string `json:"result"`
}

// Executor is the capability boundary between the orchestration core and
// whatever actually performs work (an LLM call, a remote worker, a test
// stub). Implementations must honor ctx cancellation; the team never
// holds its lock across an Execute call.
type Executor interface {
	Execute(ctx context.Context, req *ExecutionRequest) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req *ExecutionRequest) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, req *ExecutionRequest) (string, error) {
	return f(ctx, req)
}

// IsIntegration reports whether the request asks for result integration
// rather than task execution.
func (r *ExecutionRequest) IsIntegration() bool {
	return len(r.Integration) > 0
}

var _ Executor = ExecutorFunc(nil)

// failureReason extracts a human-readable reason from an executor error,
// unwrapping structured errors so the stored reason stays concise.
func failureReason(err error) string {
	return types.AsError(err).Message
}
