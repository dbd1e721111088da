package types

import "time"

// Message is one entry in a team's append-only message log. Messages are
// never mutated or deleted after append.
type Message struct {
	ID      string `json:"id"`
	TeamID  string `json:"team_id"`
	From    string `json:"from"`
	// To is empty for broadcasts: every other agent in the team is an
	// implicit recipient.
	To        string    `json:"to,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IsBroadcast reports whether the message addresses the whole team.
func (m *Message) IsBroadcast() bool {
	return m.To == ""
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
