package core

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-client/internal/log"
)

type emittedEvent struct {
	event string
	data  json.RawMessage
}

// fakeSession records emits and lets tests fire inbound events through the
// registered handlers, standing in for the websocket transport.
type fakeSession struct {
	mu            sync.Mutex
	emits         []emittedEvent
	handlers      map[string]map[int]func(json.RawMessage)
	nextID        int
	cancels       int
	registrations int
}

func newFakeSession() *fakeSession {
	return &fakeSession{handlers: make(map[string]map[int]func(json.RawMessage))}
}

func (f *fakeSession) Emit(_ context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emittedEvent{event: event, data: data})
	return nil
}

func (f *fakeSession) On(event string, fn func(json.RawMessage)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handlers[event] == nil {
		f.handlers[event] = make(map[int]func(json.RawMessage))
	}
	f.nextID++
	f.registrations++
	id := f.nextID
	f.handlers[event][id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.handlers[event][id]; ok {
			delete(f.handlers[event], id)
			f.cancels++
		}
	}
}

// fire delivers an inbound event to every registered handler, as the read
// loop would.
func (f *fakeSession) fire(t *testing.T, event string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", event, err)
	}

	f.mu.Lock()
	fns := make([]func(json.RawMessage), 0, len(f.handlers[event]))
	for _, fn := range f.handlers[event] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(data)
	}
}

func (f *fakeSession) emitted(event string) []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []emittedEvent
	for _, e := range f.emits {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSession) handlerCount(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers[event])
}

// mustEmit polls until at least n emits of the given event were recorded.
func (f *fakeSession) mustEmit(t *testing.T, event string, n int) []emittedEvent {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := f.emitted(event); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d %s emits, got %d", n, event, len(f.emitted(event)))
	return nil
}

// fakeNotifier records every dispatched effect.
type fakeNotifier struct {
	mu         sync.Mutex
	permission bool
	sounds     int
	notices    [][2]string
	titles     []string
}

func (n *fakeNotifier) RequestPermission() bool {
	return n.permission
}

func (n *fakeNotifier) PlaySound() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sounds++
}

func (n *fakeNotifier) Notify(title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, [2]string{title, body})
}

func (n *fakeNotifier) SetTitle(title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *fakeNotifier) soundCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sounds
}

func (n *fakeNotifier) lastTitle() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.titles) == 0 {
		return ""
	}
	return n.titles[len(n.titles)-1]
}

func (n *fakeNotifier) notifications() [][2]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([][2]string, len(n.notices))
	copy(out, n.notices)
	return out
}

// startEngine runs an engine in the default rooms and waits for the
// initial join sequence to complete.
func startEngine(t *testing.T, username string) (*Engine, *fakeSession, *fakeNotifier) {
	t.Helper()

	session := newFakeSession()
	notifier := &fakeNotifier{permission: true}
	engine := newEngineForTest(t, session, notifier, username)
	return engine, session, notifier
}

// newEngineForTest wires an engine to the given doubles and starts its loop.
func newEngineForTest(t *testing.T, session *fakeSession, notifier *fakeNotifier, username string) *Engine {
	t.Helper()

	logger := log.NewWithOutput("error", io.Discard)
	engine := NewEngine(session, NewStore(), NewRegistry(nil), notifier, username, "", logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go engine.Run(ctx)

	session.mustEmit(t, "joinRoom", 1)
	return engine
}
