// Package api exposes the orchestration core as a uniform
// action/request/response surface, suitable for embedding behind any
// transport. Every response carries the team's current lastAction and,
// on failure, a normalized error object; an action either fully commits
// or fails with no mutation.
package api

import (
	"github.com/BaSui01/teamflow/types"
)

// Action names one orchestration operation.
type Action string

const (
	ActionCreate           Action = "create"
	ActionAddAgent         Action = "add_agent"
	ActionAssignTask       Action = "assign_task"
	ActionExecuteTask      Action = "execute_task"
	ActionMessage          Action = "message"
	ActionBroadcast        Action = "broadcast"
	ActionGetResults       Action = "get_results"
	ActionTeamStatus       Action = "team_status"
	ActionGetContext       Action = "get_context"
	ActionGetTaskResult    Action = "get_task_result"
	ActionListMessages     Action = "list_messages"
	ActionIntegrateResults Action = "integrate_results"
)

// Request is one orchestration action with its parameters. Which fields
// are required depends on the action.
type Request struct {
	Action Action `json:"action"`

	// create
	Name string `json:"name,omitempty"`
	Goal string `json:"goal,omitempty"`

	// Everything below create operates on an existing team.
	TeamID string `json:"team_id,omitempty"`

	// add_agent
	Role   string   `json:"role,omitempty"`
	Skills []string `json:"skills,omitempty"`

	// assign_task
	AgentID     string   `json:"agent_id,omitempty"`
	Description string   `json:"task,omitempty"`
	Context     string   `json:"context,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`

	// execute_task / get_task_result
	TaskID string `json:"task_id,omitempty"`
	// Resume re-runs a failed task instead of starting a ready one.
	Resume bool `json:"resume,omitempty"`

	// message / broadcast
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Content string `json:"content,omitempty"`

	// list_messages; empty means the whole team log.
	ForAgentID string `json:"for_agent_id,omitempty"`

	// integrate_results
	AllowPartial bool `json:"allow_partial,omitempty"`
}

// ErrorInfo is the normalized error object attached to failed
// responses.
type ErrorInfo struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Response is the uniform action result envelope.
type Response struct {
	OK         bool       `json:"ok"`
	TeamID     string     `json:"team_id,omitempty"`
	LastAction string     `json:"last_action,omitempty"`
	Data       any        `json:"data,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
}

// errorInfo builds an ErrorInfo from any error, normalizing
// unstructured ones.
func errorInfo(err error) *ErrorInfo {
	e := types.AsError(err)
	if e == nil {
		return nil
	}
	return &ErrorInfo{
		Kind:    string(e.Kind),
		Message: e.Message,
		Details: append([]string(nil), e.Details...),
	}
}
