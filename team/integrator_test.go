package team

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/teamflow/types"
)

func TestTeam_IntegrateResults(t *testing.T) {
	exec := &recordingExecutor{}
	tm := newTestTeam(t, exec)
	researcher := addAgent(t, tm, "researcher")
	writer := addAgent(t, tm, "writer")

	a := assign(t, tm, researcher.ID, "find sources")
	b := assign(t, tm, writer.ID, "write summary", a.ID)

	// Integration while b is pending names it and changes nothing.
	_, err := tm.IntegrateResults(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrIncompleteTasks))
	assert.Contains(t, types.AsError(err).Details, a.ID)
	assert.Contains(t, types.AsError(err).Details, b.ID)

	_, err = tm.ExecuteTask(context.Background(), a.ID)
	require.NoError(t, err)
	_, err = tm.ExecuteTask(context.Background(), b.ID)
	require.NoError(t, err)

	exec.result = "final report"
	artifact, err := tm.IntegrateResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "final report", artifact)

	// Inputs arrive in assignment order with role attribution.
	req := exec.last()
	require.NotNil(t, req)
	assert.True(t, req.IsIntegration())
	assert.Equal(t, "integrator", req.Role)
	require.Len(t, req.Integration, 2)
	assert.Equal(t, a.ID, req.Integration[0].TaskID)
	assert.Equal(t, "researcher", req.Integration[0].Role)
	assert.Equal(t, 1, req.Integration[0].Sequence)
	assert.Equal(t, b.ID, req.Integration[1].TaskID)
	assert.Equal(t, "writer", req.Integration[1].Role)

	// Integration mutates no task, so it can repeat.
	_, err = tm.IntegrateResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, WorkflowComplete, tm.Status().WorkflowStatus)
}

func TestTeam_IntegrateResults_AllowPartial(t *testing.T) {
	exec := &recordingExecutor{}
	tm := newTestTeam(t, exec)
	agent := addAgent(t, tm, "researcher")

	a := assign(t, tm, agent.ID, "done part")
	assign(t, tm, agent.ID, "unfinished part", a.ID)

	// Nothing completed yet: partial integration still needs input.
	_, err := tm.IntegrateResults(context.Background(), WithAllowPartial())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrIncompleteTasks))

	_, err = tm.ExecuteTask(context.Background(), a.ID)
	require.NoError(t, err)

	exec.result = "partial artifact"
	artifact, err := tm.IntegrateResults(context.Background(), WithAllowPartial())
	require.NoError(t, err)
	assert.Equal(t, "partial artifact", artifact)
	require.Len(t, exec.last().Integration, 1)
	assert.Equal(t, a.ID, exec.last().Integration[0].TaskID)
}

func TestTeam_IntegrateResults_CapabilityError(t *testing.T) {
	exec := &recordingExecutor{}
	tm := newTestTeam(t, exec)
	agent := addAgent(t, tm, "researcher")
	a := assign(t, tm, agent.ID, "work")

	_, err := tm.ExecuteTask(context.Background(), a.ID)
	require.NoError(t, err)

	exec.err = errors.New("integrator offline")
	_, err = tm.IntegrateResults(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrExecutionFailed))

	// Task state is untouched by the failed integration.
	assert.Equal(t, WorkflowComplete, tm.Status().WorkflowStatus)
}
