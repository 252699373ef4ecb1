package core

import "time"

// Message is the domain model for a chat message. Messages are immutable
// once constructed; ordering within a room is arrival order, which is
// authoritative even when timestamps disagree.
type Message struct {
	ID        string
	Room      string
	Sender    string
	Text      string
	Timestamp string // ISO-8601, as produced by the sender
	System    bool
}

// LocalTime renders the message timestamp as local wall-clock time for
// display. Falls back to the raw string if it does not parse.
func (m Message) LocalTime() string {
	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return m.Timestamp
	}
	return ts.Local().Format("15:04:05")
}
