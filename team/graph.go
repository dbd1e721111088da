package team

import (
	"fmt"

	"github.com/BaSui01/teamflow/types"
)

// Graph tracks dependency edges between tasks of one team. An edge runs
// from a task to each task it depends on. The graph is kept acyclic:
// Add rejects any insertion that would close a cycle, leaving the graph
// untouched.
//
// Graph is not safe for concurrent use; the owning Team serializes
// access under its own lock.
type Graph struct {
	deps       map[string][]string // task -> tasks it depends on
	dependents map[string][]string // task -> tasks depending on it
}

// NewGraph creates an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// Add registers taskID with its dependencies. The insertion is
// all-or-nothing: if the new edges would create a cycle the graph is
// rolled back and a CYCLIC_DEPENDENCY error is returned.
func (g *Graph) Add(taskID string, dependsOn []string) error {
	if _, exists := g.deps[taskID]; exists {
		return types.Errorf(types.ErrInvalidState, "task %s already in dependency graph", taskID)
	}

	g.deps[taskID] = append([]string(nil), dependsOn...)
	for _, dep := range dependsOn {
		g.dependents[dep] = append(g.dependents[dep], taskID)
	}

	if cycle := g.findCycle(taskID); cycle != "" {
		g.remove(taskID, dependsOn)
		return types.NewError(types.ErrCyclicDependency,
			fmt.Sprintf("adding task %s would create a dependency cycle", taskID)).
			WithDetails(cycle)
	}
	return nil
}

// Dependencies returns the direct dependencies of taskID.
func (g *Graph) Dependencies(taskID string) []string {
	return append([]string(nil), g.deps[taskID]...)
}

// Dependents returns the tasks that directly depend on taskID.
func (g *Graph) Dependents(taskID string) []string {
	return append([]string(nil), g.dependents[taskID]...)
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int {
	return len(g.deps)
}

// remove undoes a trial insertion of taskID.
func (g *Graph) remove(taskID string, dependsOn []string) {
	delete(g.deps, taskID)
	for _, dep := range dependsOn {
		back := g.dependents[dep]
		for i, id := range back {
			if id == taskID {
				g.dependents[dep] = append(back[:i], back[i+1:]...)
				break
			}
		}
		if len(g.dependents[dep]) == 0 {
			delete(g.dependents, dep)
		}
	}
}

// findCycle runs a DFS from start along dependency edges and returns the
// node where a back edge was found, or "" when no cycle exists.
func (g *Graph) findCycle(start string) string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	return g.cycleDFS(start, visited, recStack)
}

func (g *Graph) cycleDFS(nodeID string, visited, recStack map[string]bool) string {
	visited[nodeID] = true
	recStack[nodeID] = true

	for _, dep := range g.deps[nodeID] {
		if !visited[dep] {
			if at := g.cycleDFS(dep, visited, recStack); at != "" {
				return at
			}
		} else if recStack[dep] {
			// Back edge closes a cycle.
			return dep
		}
	}

	recStack[nodeID] = false
	return ""
}
