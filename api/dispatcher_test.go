package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/team"
	"github.com/BaSui01/teamflow/types"
)

// flakyExecutor fails until recovered.
type flakyExecutor struct {
	fail bool
}

func (e *flakyExecutor) Execute(ctx context.Context, req *team.ExecutionRequest) (string, error) {
	if e.fail {
		return "", errors.New("capability down")
	}
	if req.IsIntegration() {
		return "integrated artifact", nil
	}
	return "done: " + req.Description, nil
}

func newTestDispatcher(exec team.Executor) *Dispatcher {
	return NewDispatcher(team.NewRegistry(exec), zap.NewNop())
}

func dispatch(t *testing.T, d *Dispatcher, req *Request) *Response {
	t.Helper()
	resp := d.Dispatch(context.Background(), req)
	require.NotNil(t, resp)
	return resp
}

func TestDispatcher_FullWorkflow(t *testing.T) {
	exec := &flakyExecutor{}
	d := newTestDispatcher(exec)

	// create
	resp := dispatch(t, d, &Request{Action: ActionCreate, Name: "research", Goal: "survey"})
	require.True(t, resp.OK)
	assert.Equal(t, "create_team", resp.LastAction)
	teamID := resp.TeamID
	require.NotEmpty(t, teamID)

	// add_agent
	resp = dispatch(t, d, &Request{Action: ActionAddAgent, TeamID: teamID, Role: "researcher", Skills: []string{"search"}})
	require.True(t, resp.OK)
	agent := resp.Data.(*types.Agent)
	assert.Equal(t, "add_agent", resp.LastAction)

	// assign_task: a then b depending on a
	resp = dispatch(t, d, &Request{Action: ActionAssignTask, TeamID: teamID, AgentID: agent.ID, Description: "find sources"})
	require.True(t, resp.OK)
	taskA := resp.Data.(*types.Task)
	assert.Equal(t, types.TaskReady, taskA.State)

	resp = dispatch(t, d, &Request{Action: ActionAssignTask, TeamID: teamID, AgentID: agent.ID, Description: "summarize", DependsOn: []string{taskA.ID}})
	require.True(t, resp.OK)
	taskB := resp.Data.(*types.Task)
	assert.Equal(t, types.TaskPending, taskB.State)

	// execute_task on the pending task surfaces the unmet dependency.
	resp = dispatch(t, d, &Request{Action: ActionExecuteTask, TeamID: teamID, TaskID: taskB.ID})
	require.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrDependencyNotSatisfied), resp.Error.Kind)
	assert.Contains(t, resp.Error.Details, taskA.ID)

	// integrate_results is premature.
	resp = dispatch(t, d, &Request{Action: ActionIntegrateResults, TeamID: teamID})
	require.False(t, resp.OK)
	assert.Equal(t, string(types.ErrIncompleteTasks), resp.Error.Kind)

	// execute both tasks
	resp = dispatch(t, d, &Request{Action: ActionExecuteTask, TeamID: teamID, TaskID: taskA.ID})
	require.True(t, resp.OK)
	assert.Equal(t, types.TaskCompleted, resp.Data.(*types.Task).State)

	resp = dispatch(t, d, &Request{Action: ActionExecuteTask, TeamID: teamID, TaskID: taskB.ID})
	require.True(t, resp.OK)
	assert.Equal(t, "execute_task", resp.LastAction)

	// messaging
	resp = dispatch(t, d, &Request{Action: ActionBroadcast, TeamID: teamID, From: agent.ID, Content: "all done"})
	require.True(t, resp.OK)
	assert.Equal(t, "broadcast_message", resp.LastAction)

	resp = dispatch(t, d, &Request{Action: ActionListMessages, TeamID: teamID, ForAgentID: agent.ID})
	require.True(t, resp.OK)
	assert.Len(t, resp.Data.([]*types.Message), 1)

	// reads
	resp = dispatch(t, d, &Request{Action: ActionGetResults, TeamID: teamID})
	require.True(t, resp.OK)
	results := resp.Data.(map[string]*types.Task)
	assert.Len(t, results, 2)
	assert.Equal(t, "done: find sources", results[taskA.ID].Result)

	resp = dispatch(t, d, &Request{Action: ActionGetTaskResult, TeamID: teamID, TaskID: taskB.ID})
	require.True(t, resp.OK)

	resp = dispatch(t, d, &Request{Action: ActionTeamStatus, TeamID: teamID})
	require.True(t, resp.OK)
	assert.Equal(t, team.WorkflowComplete, resp.Data.(*team.TeamStatus).WorkflowStatus)

	resp = dispatch(t, d, &Request{Action: ActionGetContext, TeamID: teamID})
	require.True(t, resp.OK)
	snap := resp.Data.(*types.ContextSnapshot)
	assert.Equal(t, []string{agent.ID}, snap.AgentIDs)

	// integrate_results
	resp = dispatch(t, d, &Request{Action: ActionIntegrateResults, TeamID: teamID})
	require.True(t, resp.OK)
	assert.Equal(t, map[string]string{"artifact": "integrated artifact"}, resp.Data)
}

func TestDispatcher_ExecuteFailureIsCommittedNotError(t *testing.T) {
	exec := &flakyExecutor{fail: true}
	d := newTestDispatcher(exec)

	resp := dispatch(t, d, &Request{Action: ActionCreate, Name: "n", Goal: "g"})
	teamID := resp.TeamID
	agent := dispatch(t, d, &Request{Action: ActionAddAgent, TeamID: teamID, Role: "worker"}).Data.(*types.Agent)
	task := dispatch(t, d, &Request{Action: ActionAssignTask, TeamID: teamID, AgentID: agent.ID, Description: "risky"}).Data.(*types.Task)

	// The capability error arrives as a committed failed snapshot.
	resp = dispatch(t, d, &Request{Action: ActionExecuteTask, TeamID: teamID, TaskID: task.ID})
	require.True(t, resp.OK)
	snap := resp.Data.(*types.Task)
	assert.Equal(t, types.TaskFailed, snap.State)
	assert.Equal(t, "capability down", snap.FailureReason)
	assert.True(t, snap.Resumable)

	// resume after recovery
	exec.fail = false
	resp = dispatch(t, d, &Request{Action: ActionExecuteTask, TeamID: teamID, TaskID: task.ID, Resume: true})
	require.True(t, resp.OK)
	assert.Equal(t, types.TaskCompleted, resp.Data.(*types.Task).State)
	assert.Equal(t, "resume_task", resp.LastAction)
}

func TestDispatcher_Errors(t *testing.T) {
	d := newTestDispatcher(&flakyExecutor{})

	t.Run("create validation", func(t *testing.T) {
		resp := dispatch(t, d, &Request{Action: ActionCreate, Name: "", Goal: "g"})
		require.False(t, resp.OK)
		assert.Equal(t, string(types.ErrInvalidArgument), resp.Error.Kind)
	})

	t.Run("unknown team", func(t *testing.T) {
		resp := dispatch(t, d, &Request{Action: ActionTeamStatus, TeamID: "team_nope"})
		require.False(t, resp.OK)
		assert.Equal(t, string(types.ErrNotFound), resp.Error.Kind)
		assert.Equal(t, "team_nope", resp.TeamID)
	})

	t.Run("unknown action", func(t *testing.T) {
		created := dispatch(t, d, &Request{Action: ActionCreate, Name: "n", Goal: "g"})
		resp := dispatch(t, d, &Request{Action: "explode", TeamID: created.TeamID})
		require.False(t, resp.OK)
		assert.Equal(t, string(types.ErrInvalidArgument), resp.Error.Kind)
	})
}

func TestResponse_JSONShape(t *testing.T) {
	d := newTestDispatcher(&flakyExecutor{})
	resp := dispatch(t, d, &Request{Action: ActionTeamStatus, TeamID: "team_nope"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["ok"])
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["kind"])
	assert.NotEmpty(t, errObj["message"])
	assert.NotContains(t, decoded, "data")
}
