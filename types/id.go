package types

import "github.com/google/uuid"

// Identifier prefixes. The short hex suffix keeps IDs readable in logs and
// responses while UUIDv4 keeps them collision-resistant.
const (
	teamIDPrefix    = "team_"
	agentIDPrefix   = "agent_"
	taskIDPrefix    = "task_"
	messageIDPrefix = "msg_"
)

func newID(prefix string, n int) string {
	return prefix + uuid.New().String()[:n]
}

// NewTeamID generates a unique team identifier, e.g. "team_3f9c2a1b".
func NewTeamID() string {
	return newID(teamIDPrefix, 8)
}

// NewAgentID generates a unique agent identifier, e.g. "agent_9b1c4d".
func NewAgentID() string {
	return newID(agentIDPrefix, 6)
}

// NewTaskID generates a unique task identifier, e.g. "task_7e2f01".
func NewTaskID() string {
	return newID(taskIDPrefix, 6)
}

// NewMessageID generates a unique message identifier, e.g. "msg_c04a9e".
func NewMessageID() string {
	return newID(messageIDPrefix, 6)
}
