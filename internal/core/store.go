package core

import "sort"

// Store holds all per-room client state: message history, unread counts and
// the online-user set. It is pure data, mutated only by the Engine's
// reduction loop; nothing here is safe for concurrent use.
type Store struct {
	messages map[string][]Message
	unread   map[string]int
	presence map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		messages: make(map[string][]Message),
		unread:   make(map[string]int),
		presence: make(map[string]struct{}),
	}
}

// Append adds a message to the end of its room's history, creating the
// room's sequence on first use.
func (s *Store) Append(msg Message) {
	s.messages[msg.Room] = append(s.messages[msg.Room], msg)
}

// Messages returns a copy of the room's history in arrival order.
func (s *Store) Messages(room string) []Message {
	msgs := s.messages[room]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Unread returns the unread count for a room.
func (s *Store) Unread(room string) int {
	return s.unread[room]
}

// IncrementUnread bumps the unread count for a room by one.
func (s *Store) IncrementUnread(room string) {
	s.unread[room]++
}

// ResetUnread zeroes the unread count for a room.
func (s *Store) ResetUnread(room string) {
	s.unread[room] = 0
}

// UnreadCounts returns a copy of all non-zero unread counts.
func (s *Store) UnreadCounts() map[string]int {
	out := make(map[string]int, len(s.unread))
	for room, n := range s.unread {
		if n > 0 {
			out[room] = n
		}
	}
	return out
}

// ReplacePresence replaces the online-user set with the given snapshot,
// excluding self. Entries from a prior snapshot never survive.
func (s *Store) ReplacePresence(users []string, self string) {
	s.presence = make(map[string]struct{}, len(users))
	for _, u := range users {
		if u == self {
			continue
		}
		s.presence[u] = struct{}{}
	}
}

// Presence returns the online users sorted by name.
func (s *Store) Presence() []string {
	out := make([]string, 0, len(s.presence))
	for u := range s.presence {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Clear drops all state. Used on session teardown.
func (s *Store) Clear() {
	s.messages = make(map[string][]Message)
	s.unread = make(map[string]int)
	s.presence = make(map[string]struct{})
}
