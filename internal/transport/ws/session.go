// Package ws implements the transport session: one WebSocket connection
// per client process, with emit and subscribe-by-event primitives. Events
// are dispatched to subscribers in network-arrival order.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

const outboundBuffer = 32

// Session owns a single server connection. Emits made before Run starts
// pumping are queued in the outbound buffer; beyond that the session drops
// rather than blocks.
type Session struct {
	conn *websocket.Conn
	log  *zerolog.Logger

	mu       sync.Mutex
	nextID   int
	handlers map[string]map[int]func(json.RawMessage)

	outbound chan proto.Envelope
}

// Dial connects to a wirechat server and returns a session ready to Run.
func Dial(ctx context.Context, url string, logger *zerolog.Logger) (*Session, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newSession(conn, logger), nil
}

func newSession(conn *websocket.Conn, logger *zerolog.Logger) *Session {
	return &Session{
		conn:     conn,
		log:      logger,
		handlers: make(map[string]map[int]func(json.RawMessage)),
		outbound: make(chan proto.Envelope, outboundBuffer),
	}
}

// On registers a handler for an inbound event. The returned cancel removes
// exactly that registration; cancelling twice is a no-op.
func (s *Session) On(event string, fn func(json.RawMessage)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handlers[event] == nil {
		s.handlers[event] = make(map[int]func(json.RawMessage))
	}
	s.nextID++
	id := s.nextID
	s.handlers[event][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers[event], id)
	}
}

// Emit queues an event for the server. The session does not retry: when
// the outbound buffer is full the envelope is dropped and logged.
func (s *Session) Emit(_ context.Context, event string, payload any) error {
	env, err := proto.NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	select {
	case s.outbound <- env:
		return nil
	default:
		s.log.Warn().Str("event", event).Msg("outbound buffer full, dropping")
		return nil
	}
}

// Run pumps the connection until the context is cancelled or the
// connection fails. A clean remote close returns nil.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- s.readLoop(ctx)
	}()
	go func() {
		errCh <- s.writeLoop(ctx)
	}()

	err := <-errCh
	cancel() // stop the other loop
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if st := websocket.CloseStatus(err); st != 0 {
			status = st
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			s.log.Warn().Err(err).Msg("session closed with error")
		}
	}

	_ = s.conn.Close(status, reason)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close tears the connection down out of band.
func (s *Session) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		var env proto.Envelope
		if err := wsjson.Read(ctx, s.conn, &env); err != nil {
			return err
		}
		s.dispatch(env)
	}
}

func (s *Session) writeLoop(ctx context.Context) error {
	for {
		select {
		case env := <-s.outbound:
			if err := wsjson.Write(ctx, s.conn, env); err != nil {
				s.log.Error().Err(err).Str("event", env.Event).Msg("write envelope")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch invokes the current subscribers for an envelope synchronously,
// preserving arrival order across events.
func (s *Session) dispatch(env proto.Envelope) {
	s.mu.Lock()
	fns := make([]func(json.RawMessage), 0, len(s.handlers[env.Event]))
	for _, fn := range s.handlers[env.Event] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		s.log.Debug().Str("event", env.Event).Msg("no subscriber for event")
		return
	}
	for _, fn := range fns {
		fn(env.Data)
	}
}
