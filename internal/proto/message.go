package proto

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire frame for both directions: an event name plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	// Outbound events.
	EventJoin        = "join"
	EventJoinRoom    = "joinRoom"
	EventRoomMessage = "roomMessage"

	// Inbound events. EventRoomMessage travels both ways.
	EventUsers      = "users"
	EventRoomJoined = "roomJoined"
)

// JoinData announces the client identity to the server.
type JoinData struct {
	Username string `json:"username"`
}

// JoinRoomData requests subscription to a room's broadcast.
type JoinRoomData struct {
	Room string `json:"room"`
}

// MessageData is a chat message payload. Servers are inconsistent about the
// body field name: some send "text", older ones send "message". Decode with
// DecodeMessage, which normalizes both into Text.
type MessageData struct {
	ID        string `json:"id,omitempty"`
	Room      string `json:"room,omitempty"`
	Text      string `json:"text,omitempty"`
	Message   string `json:"message,omitempty"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	System    bool   `json:"system,omitempty"`
}

// NewEnvelope wraps a payload into a wire envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return Envelope{Event: event, Data: data}, nil
}

// DecodeMessage parses a roomMessage payload and normalizes the body field.
func DecodeMessage(data json.RawMessage) (MessageData, error) {
	var msg MessageData
	if err := json.Unmarshal(data, &msg); err != nil {
		return MessageData{}, fmt.Errorf("unmarshal roomMessage: %w", err)
	}
	if msg.Text == "" {
		msg.Text = msg.Message
	}
	msg.Message = ""
	return msg, nil
}

// DecodeUsers parses a users payload: the full online-user snapshot.
func DecodeUsers(data json.RawMessage) ([]string, error) {
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	return users, nil
}

// DecodeRoomJoined parses a roomJoined payload. Accepts both a bare room
// name and an object form {"room": name}.
func DecodeRoomJoined(data json.RawMessage) (string, error) {
	var room string
	if err := json.Unmarshal(data, &room); err == nil {
		return room, nil
	}
	var obj JoinRoomData
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("unmarshal roomJoined: %w", err)
	}
	return obj.Room, nil
}
