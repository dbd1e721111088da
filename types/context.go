package types

// ContextSnapshot is a read-only view of a team's bookkeeping state for
// client-side continuity. Retrieving it twice without an intervening
// mutation yields identical output: callers carry IDs themselves instead of
// relying on hidden session state.
type ContextSnapshot struct {
	TeamID     string   `json:"team_id"`
	LastAction string   `json:"last_action"`
	AgentIDs   []string `json:"agent_ids"`
}
