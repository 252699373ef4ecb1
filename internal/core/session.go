package core

import (
	"context"
	"encoding/json"
)

// Session abstracts the transport connection for the Engine. The engine
// never dials or reconnects; it only emits intents and subscribes to
// inbound events. Implementations deliver events in network-arrival order
// and own any queuing of emits made before the connection is up.
type Session interface {
	// Emit sends an event with the given payload to the server.
	Emit(ctx context.Context, event string, payload any) error

	// On registers a handler for an inbound event and returns a cancel
	// function that removes exactly that registration.
	On(event string, fn func(data json.RawMessage)) (cancel func())
}
