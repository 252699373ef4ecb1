package proto

import (
	"encoding/json"
	"testing"
)

func TestDecodeMessageNormalizesBodyField(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"text field", `{"room":"Tech","text":"hi","sender":"bob","timestamp":"2024-01-01T00:00:00Z"}`, "hi"},
		{"message alias", `{"room":"Tech","message":"yo","sender":"bob","timestamp":"2024-01-01T00:00:00Z"}`, "yo"},
		{"text wins over alias", `{"room":"Tech","text":"hi","message":"yo","sender":"bob","timestamp":"2024-01-01T00:00:00Z"}`, "hi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := DecodeMessage(json.RawMessage(tc.payload))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Text != tc.want {
				t.Fatalf("text = %q, want %q", msg.Text, tc.want)
			}
			if msg.Message != "" {
				t.Fatalf("alias field should be cleared after normalization, got %q", msg.Message)
			}
		})
	}
}

func TestDecodeMessageKeepsSystemFlag(t *testing.T) {
	msg, err := DecodeMessage(json.RawMessage(`{"room":"General","text":"bob joined","sender":"server","timestamp":"2024-01-01T00:00:00Z","system":true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !msg.System {
		t.Fatal("expected system flag to survive decoding")
	}
}

func TestDecodeRoomJoinedForms(t *testing.T) {
	room, err := DecodeRoomJoined(json.RawMessage(`"Sports"`))
	if err != nil {
		t.Fatalf("bare form: %v", err)
	}
	if room != "Sports" {
		t.Fatalf("bare form room = %q", room)
	}

	room, err = DecodeRoomJoined(json.RawMessage(`{"room":"Music"}`))
	if err != nil {
		t.Fatalf("object form: %v", err)
	}
	if room != "Music" {
		t.Fatalf("object form room = %q", room)
	}

	if _, err := DecodeRoomJoined(json.RawMessage(`42`)); err == nil {
		t.Fatal("expected error for non-room payload")
	}
}

func TestDecodeUsers(t *testing.T) {
	users, err := DecodeUsers(json.RawMessage(`["bob","carol","alice"]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 3 || users[0] != "bob" {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestNewEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(EventJoinRoom, JoinRoomData{Room: "Tech"})
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}
	if env.Event != EventJoinRoom {
		t.Fatalf("event = %q", env.Event)
	}

	var data JoinRoomData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Room != "Tech" {
		t.Fatalf("room = %q", data.Room)
	}
}
