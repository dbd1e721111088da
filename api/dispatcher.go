package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/team"
	"github.com/BaSui01/teamflow/types"
)

// Dispatcher routes action requests to a team registry.
type Dispatcher struct {
	registry *team.Registry
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry. A nil
// logger defaults to no-op.
func NewDispatcher(registry *team.Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch executes one action and returns its response envelope.
// Dispatch never returns an error: failures are encoded in the
// response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	if req.Action == ActionCreate {
		t, err := d.registry.Create(req.Name, req.Goal)
		if err != nil {
			return fail("", "", err)
		}
		return ok(t, map[string]string{"team_id": t.ID()})
	}

	t, err := d.registry.Get(req.TeamID)
	if err != nil {
		return fail(req.TeamID, "", err)
	}

	switch req.Action {
	case ActionAddAgent:
		agent, err := t.AddAgent(req.Role, req.Skills)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, agent)

	case ActionAssignTask:
		task, err := t.AssignTask(ctx, req.AgentID, req.Description, req.Context, req.DependsOn)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, task)

	case ActionExecuteTask:
		var task *types.Task
		if req.Resume {
			task, err = t.ResumeTask(ctx, req.TaskID)
		} else {
			task, err = t.ExecuteTask(ctx, req.TaskID)
		}
		if err != nil {
			return failTeam(t, err)
		}
		// A failed execution is a committed outcome, not a dispatch
		// error; the snapshot carries state and failureReason.
		return ok(t, task)

	case ActionMessage:
		msg, err := t.SendMessage(ctx, req.From, req.To, req.Content)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, msg)

	case ActionBroadcast:
		msg, err := t.Broadcast(ctx, req.From, req.Content)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, msg)

	case ActionGetResults:
		snap := make(map[string]*types.Task)
		for _, task := range t.TasksOrdered() {
			snap[task.ID] = task
		}
		return ok(t, snap)

	case ActionTeamStatus:
		return ok(t, t.Status())

	case ActionGetContext:
		return ok(t, t.Context())

	case ActionGetTaskResult:
		task, err := t.TaskResult(req.TaskID)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, task)

	case ActionListMessages:
		msgs, err := t.Messages(req.ForAgentID)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, msgs)

	case ActionIntegrateResults:
		var opts []team.IntegrateOption
		if req.AllowPartial {
			opts = append(opts, team.WithAllowPartial())
		}
		artifact, err := t.IntegrateResults(ctx, opts...)
		if err != nil {
			return failTeam(t, err)
		}
		return ok(t, map[string]string{"artifact": artifact})

	default:
		d.logger.Warn("unknown action", zap.String("action", string(req.Action)))
		return failTeam(t, types.Errorf(types.ErrInvalidArgument, "unknown action %q", req.Action))
	}
}

func ok(t *team.Team, data any) *Response {
	return &Response{
		OK:         true,
		TeamID:     t.ID(),
		LastAction: t.Context().LastAction,
		Data:       data,
	}
}

func failTeam(t *team.Team, err error) *Response {
	return &Response{
		OK:         false,
		TeamID:     t.ID(),
		LastAction: t.Context().LastAction,
		Error:      errorInfo(err),
	}
}

func fail(teamID, lastAction string, err error) *Response {
	return &Response{
		OK:         false,
		TeamID:     teamID,
		LastAction: lastAction,
		Error:      errorInfo(err),
	}
}
