package team

import "github.com/BaSui01/teamflow/types"

// taskTable holds a team's tasks keyed by ID, preserving assignment
// order. Access is serialized by the owning Team's lock.
type taskTable struct {
	tasks   map[string]*types.Task
	order   []string
	nextSeq int
}

func newTaskTable() *taskTable {
	return &taskTable{tasks: make(map[string]*types.Task), nextSeq: 1}
}

// add stores the task and stamps its assignment sequence number.
func (tt *taskTable) add(task *types.Task) {
	task.Sequence = tt.nextSeq
	tt.nextSeq++
	tt.tasks[task.ID] = task
	tt.order = append(tt.order, task.ID)
}

func (tt *taskTable) get(taskID string) (*types.Task, bool) {
	t, ok := tt.tasks[taskID]
	return t, ok
}

// last returns the most recently assigned task, or nil for an empty
// table.
func (tt *taskTable) last() *types.Task {
	if len(tt.order) == 0 {
		return nil
	}
	return tt.tasks[tt.order[len(tt.order)-1]]
}

// ordered returns clones of all tasks in assignment order.
func (tt *taskTable) ordered() []*types.Task {
	out := make([]*types.Task, 0, len(tt.order))
	for _, id := range tt.order {
		out = append(out, tt.tasks[id].Clone())
	}
	return out
}

// unmet lists the dependencies of task that have not completed, in
// declaration order.
func (tt *taskTable) unmet(task *types.Task) []string {
	var unmet []string
	for _, depID := range task.DependsOn {
		dep, ok := tt.tasks[depID]
		if !ok || dep.State != types.TaskCompleted {
			unmet = append(unmet, depID)
		}
	}
	return unmet
}

// cascade promotes pending dependents of completedID whose dependencies
// are now all satisfied, returning the promoted task IDs.
func (tt *taskTable) cascade(completedID string, graph *Graph) []string {
	var promoted []string
	for _, depID := range graph.Dependents(completedID) {
		dep, ok := tt.tasks[depID]
		if !ok || dep.State != types.TaskPending {
			continue
		}
		if len(tt.unmet(dep)) == 0 {
			dep.State = types.TaskReady
			promoted = append(promoted, dep.ID)
		}
	}
	return promoted
}

// readyIDs lists tasks currently in the ready state, in assignment
// order.
func (tt *taskTable) readyIDs() []string {
	var ids []string
	for _, id := range tt.order {
		if tt.tasks[id].State == types.TaskReady {
			ids = append(ids, id)
		}
	}
	return ids
}

// counts tallies tasks per state.
func (tt *taskTable) counts() map[types.TaskState]int {
	c := make(map[types.TaskState]int)
	for _, t := range tt.tasks {
		c[t.State]++
	}
	return c
}

// allCompleted reports whether every task has completed. An empty table
// counts as complete.
func (tt *taskTable) allCompleted() bool {
	for _, t := range tt.tasks {
		if t.State != types.TaskCompleted {
			return false
		}
	}
	return true
}

func (tt *taskTable) len() int {
	return len(tt.tasks)
}
