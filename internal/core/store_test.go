package core

import (
	"reflect"
	"testing"
)

func TestStoreAppendPreservesArrivalOrder(t *testing.T) {
	s := NewStore()

	s.Append(Message{Room: "Tech", Sender: "bob", Text: "first", Timestamp: "2024-01-01T00:00:02Z"})
	s.Append(Message{Room: "Tech", Sender: "carol", Text: "second", Timestamp: "2024-01-01T00:00:01Z"})
	s.Append(Message{Room: "Music", Sender: "bob", Text: "elsewhere"})

	msgs := s.Messages("Tech")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages in Tech, got %d", len(msgs))
	}
	// Arrival order, not timestamp order.
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatalf("order violated: %v", msgs)
	}
	if len(s.Messages("Music")) != 1 {
		t.Fatal("expected 1 message in Music")
	}
}

func TestStoreMessagesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(Message{Room: "Tech", Text: "hi"})

	msgs := s.Messages("Tech")
	msgs[0].Text = "mutated"

	if s.Messages("Tech")[0].Text != "hi" {
		t.Fatal("store history must not be mutable through Messages")
	}
}

func TestStoreUnreadAccounting(t *testing.T) {
	s := NewStore()

	for i := 0; i < 3; i++ {
		s.IncrementUnread("Sports")
	}
	if got := s.Unread("Sports"); got != 3 {
		t.Fatalf("unread = %d, want 3", got)
	}

	s.ResetUnread("Sports")
	if got := s.Unread("Sports"); got != 0 {
		t.Fatalf("unread after reset = %d, want 0", got)
	}

	s.IncrementUnread("Music")
	counts := s.UnreadCounts()
	if !reflect.DeepEqual(counts, map[string]int{"Music": 1}) {
		t.Fatalf("counts = %v", counts)
	}
}

func TestStorePresenceReplaceExcludesSelf(t *testing.T) {
	s := NewStore()

	s.ReplacePresence([]string{"bob", "carol", "alice"}, "alice")
	if got := s.Presence(); !reflect.DeepEqual(got, []string{"bob", "carol"}) {
		t.Fatalf("presence = %v", got)
	}

	// Full replace: stale entries never survive the next snapshot.
	s.ReplacePresence([]string{"dave"}, "alice")
	if got := s.Presence(); !reflect.DeepEqual(got, []string{"dave"}) {
		t.Fatalf("presence after replace = %v", got)
	}

	// Self absent from the payload is not an error.
	s.ReplacePresence([]string{"bob"}, "alice")
	if got := s.Presence(); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Fatalf("presence = %v", got)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Append(Message{Room: "Tech", Text: "hi"})
	s.IncrementUnread("Tech")
	s.ReplacePresence([]string{"bob"}, "alice")

	s.Clear()

	if len(s.Messages("Tech")) != 0 || s.Unread("Tech") != 0 || len(s.Presence()) != 0 {
		t.Fatal("clear must drop all state")
	}
}
