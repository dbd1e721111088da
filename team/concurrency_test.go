package team

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/teamflow/types"
)

// gateExecutor blocks every call until released.
type gateExecutor struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func newGateExecutor() *gateExecutor {
	return &gateExecutor{release: make(chan struct{})}
}

func (e *gateExecutor) Execute(ctx context.Context, req *ExecutionRequest) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	select {
	case <-e.release:
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *gateExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestTeam_ConcurrentExecute_ExactlyOneWinner(t *testing.T) {
	exec := newGateExecutor()
	tm := newTestTeam(t, exec)
	agent := addAgent(t, tm, "researcher")
	task := assign(t, tm, agent.ID, "contested work")

	const attempts = 8
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := tm.ExecuteTask(context.Background(), task.ID)
			results <- err
		}()
	}

	// Exactly one attempt reaches the capability; release it once it
	// has.
	waitFor(t, func() bool { return exec.callCount() == 1 })
	close(exec.release)

	var wins, losses int
	for i := 0; i < attempts; i++ {
		err := <-results
		if err == nil {
			wins++
		} else {
			require.True(t, types.IsKind(err, types.ErrInvalidState))
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
	assert.Equal(t, 1, exec.callCount())

	snap, err := tm.TaskResult(task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, snap.State)
}

func TestTeam_ReadsProceedDuringExecution(t *testing.T) {
	exec := newGateExecutor()
	tm := newTestTeam(t, exec)
	agent := addAgent(t, tm, "researcher")
	task := assign(t, tm, agent.ID, "slow work")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = tm.ExecuteTask(context.Background(), task.ID)
	}()

	waitFor(t, func() bool { return exec.callCount() == 1 })

	// The team lock is free while the capability runs.
	st := tm.Status()
	assert.Equal(t, 1, st.TaskCounts[types.TaskRunning])
	assert.Equal(t, types.AgentBusy, tm.ListAgents()[0].Status)
	assert.Equal(t, "execute_task", tm.Context().LastAction)

	close(exec.release)
	<-done
}

func TestTeam_ExecuteReady_RunsAllReadyTasks(t *testing.T) {
	tm := newTestTeam(t, echoExecutor)
	a1 := addAgent(t, tm, "researcher")
	a2 := addAgent(t, tm, "writer")

	t1 := assign(t, tm, a1.ID, "one")
	t2 := assign(t, tm, a2.ID, "two")
	assign(t, tm, a1.ID, "later", t1.ID)

	out, err := tm.ExecuteReady(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, types.TaskCompleted, out[t1.ID].State)
	assert.Equal(t, types.TaskCompleted, out[t2.ID].State)

	// The task promoted by t1's completion waits for the next round.
	st := tm.Status()
	assert.Equal(t, 1, st.TaskCounts[types.TaskReady])

	out, err = tm.ExecuteReady(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, WorkflowComplete, tm.Status().WorkflowStatus)
}

func TestTeam_ExecuteReady_SharedAgentLosesGracefully(t *testing.T) {
	exec := newGateExecutor()
	tm := newTestTeam(t, exec)
	agent := addAgent(t, tm, "researcher")

	assign(t, tm, agent.ID, "one")
	assign(t, tm, agent.ID, "two")

	type round struct {
		out map[string]*types.Task
		err error
	}
	done := make(chan round, 1)
	go func() {
		out, err := tm.ExecuteReady(context.Background())
		done <- round{out, err}
	}()

	// One task holds the agent; the other must be skipped, not failed.
	waitFor(t, func() bool { return exec.callCount() == 1 })
	// Give the losing goroutine time to hit the busy agent before the
	// winner finishes.
	time.Sleep(100 * time.Millisecond)
	close(exec.release)

	r := <-done
	require.NoError(t, r.err)
	assert.Len(t, r.out, 1)

	st := tm.Status()
	assert.Equal(t, 1, st.TaskCounts[types.TaskCompleted])
	assert.Equal(t, 1, st.TaskCounts[types.TaskReady])
}

func TestTeam_ConcurrentAssignAndMessage(t *testing.T) {
	tm := newTestTeam(t, echoExecutor)
	agent := addAgent(t, tm, "researcher")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tm.AssignTask(context.Background(), agent.ID, "parallel work", "", nil)
			assert.NoError(t, err)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tm.Broadcast(context.Background(), agent.ID, "ping")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, tm.TasksOrdered(), 20)
	msgs, err := tm.Messages("")
	require.NoError(t, err)
	assert.Len(t, msgs, 20)

	// Sequence numbers stay dense and unique under contention.
	seen := make(map[int]bool)
	for _, task := range tm.TasksOrdered() {
		assert.False(t, seen[task.Sequence])
		seen[task.Sequence] = true
		assert.GreaterOrEqual(t, task.Sequence, 1)
		assert.LessOrEqual(t, task.Sequence, 20)
	}
}
