package team

import (
	"strings"

	"github.com/BaSui01/teamflow/types"
)

// roster holds a team's agents in the order they joined. Access is
// serialized by the owning Team's lock.
type roster struct {
	agents map[string]*types.Agent
	order  []string
}

func newRoster() *roster {
	return &roster{agents: make(map[string]*types.Agent)}
}

func (r *roster) add(agent *types.Agent) {
	r.agents[agent.ID] = agent
	r.order = append(r.order, agent.ID)
}

func (r *roster) get(agentID string) (*types.Agent, bool) {
	a, ok := r.agents[agentID]
	return a, ok
}

// byRole returns the first agent whose role matches case-insensitively,
// in join order.
func (r *roster) byRole(role string) (*types.Agent, bool) {
	for _, id := range r.order {
		if a := r.agents[id]; strings.EqualFold(a.Role, role) {
			return a, true
		}
	}
	return nil, false
}

// roleOf resolves an agent ID to its role, falling back to "unknown"
// for IDs no longer on the roster.
func (r *roster) roleOf(agentID string) string {
	if a, ok := r.agents[agentID]; ok {
		return a.Role
	}
	return "unknown"
}

func (r *roster) ids() []string {
	return append([]string(nil), r.order...)
}

// list returns clones of all agents in join order.
func (r *roster) list() []*types.Agent {
	out := make([]*types.Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id].Clone())
	}
	return out
}

func (r *roster) len() int {
	return len(r.agents)
}
