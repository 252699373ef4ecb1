package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

const (
	// idleTitle is the window title when no unseen activity is pending.
	idleTitle = "Chat App"

	commandBuffer = 64
	updateBuffer  = 64
)

// ErrUnknownRoom is returned when a switch targets a room outside the registry.
var ErrUnknownRoom = errors.New("unknown room")

// Engine is the session/room synchronization state machine. It owns the
// subscription lifecycle on the transport session, applies every inbound
// event to the Store, decides notification side effects, and carries the
// outbound send path. All reductions run on the single Run goroutine;
// public methods are safe to call from anywhere.
type Engine struct {
	session  Session
	store    *Store
	rooms    *Registry
	notifier Notifier
	log      *zerolog.Logger

	username   string
	activeRoom string
	visible    bool
	canNotify  bool

	commands chan command
	updates  chan Update
	done     chan struct{}

	// cancel functions for the subscription set of the current
	// (username, activeRoom) pair
	subs []func()
}

// NewEngine constructs an engine for the given identity. startRoom falls
// back to the registry default when empty or unknown.
func NewEngine(session Session, store *Store, rooms *Registry, notifier Notifier, username, startRoom string, logger *zerolog.Logger) *Engine {
	if !rooms.Contains(startRoom) {
		startRoom = rooms.Default()
	}
	return &Engine{
		session:    session,
		store:      store,
		rooms:      rooms,
		notifier:   notifier,
		log:        logger,
		username:   username,
		activeRoom: startRoom,
		visible:    true,
		commands:   make(chan command, commandBuffer),
		updates:    make(chan Update, updateBuffer),
		done:       make(chan struct{}),
	}
}

// Updates returns the channel of state-change notifications for the view.
// It is closed when the engine stops.
func (e *Engine) Updates() <-chan Update {
	return e.updates
}

// Run drives the reduction loop until the context is cancelled. It must be
// running before any intent method is useful.
func (e *Engine) Run(ctx context.Context) {
	e.canNotify = e.notifier.RequestPermission()
	if !e.canNotify {
		e.log.Debug().Msg("system notifications unavailable, sound and title effects only")
	}

	// Initial activation of the start room mirrors a room switch: unread
	// reset, idle title, subscriptions and the join sequence.
	e.store.ResetUnread(e.activeRoom)
	e.notifier.SetTitle(idleTitle)
	e.resubscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			e.teardown()
			return
		case cmd := <-e.commands:
			e.apply(ctx, cmd)
		}
	}
}

// SwitchRoom activates a room. Idempotent: switching to the already active
// room re-runs the same activation.
func (e *Engine) SwitchRoom(room string) error {
	if !e.rooms.Contains(room) {
		return fmt.Errorf("%w: %s", ErrUnknownRoom, room)
	}
	e.post(command{kind: cmdSwitchRoom, room: room})
	return nil
}

// Send submits chat text for the active room. Empty or whitespace-only
// text is a no-op.
func (e *Engine) Send(text string) {
	e.post(command{kind: cmdSend, text: text})
}

// SetVisible records whether the client surface is currently in view.
// Messages arriving while hidden still mutate state; only notification
// effects are gated on this flag.
func (e *Engine) SetVisible(visible bool) {
	e.post(command{kind: cmdSetVisible, visible: visible})
}

// Snapshot returns a consistent copy of session state. Returns the zero
// snapshot after the engine has stopped.
func (e *Engine) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case e.commands <- command{kind: cmdSnapshot, reply: reply}:
	case <-e.done:
		return Snapshot{}
	}
	select {
	case snap := <-reply:
		return snap
	case <-e.done:
		return Snapshot{}
	}
}

func (e *Engine) post(cmd command) {
	select {
	case e.commands <- cmd:
	case <-e.done:
	}
}

func (e *Engine) apply(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdSwitchRoom:
		e.applySwitchRoom(ctx, cmd.room)
	case cmdSend:
		e.applySend(ctx, cmd.text)
	case cmdSetVisible:
		e.visible = cmd.visible
	case cmdUsers:
		e.store.ReplacePresence(cmd.users, e.username)
		e.pushUpdate(Update{Kind: UpdatePresence, Users: e.store.Presence()})
	case cmdRoomJoined:
		e.store.ResetUnread(cmd.room)
	case cmdRoomMessage:
		e.applyMessage(cmd.msg)
	case cmdSnapshot:
		cmd.reply <- e.snapshot()
	}
}

func (e *Engine) applySwitchRoom(ctx context.Context, room string) {
	e.activeRoom = room
	e.store.ResetUnread(room)
	e.notifier.SetTitle(idleTitle)
	e.resubscribe(ctx)
	e.pushUpdate(Update{Kind: UpdateRoomSwitched, Room: room, ActiveRoom: room})
}

func (e *Engine) applySend(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	payload := proto.MessageData{
		ID:        uuid.NewString(),
		Room:      e.activeRoom,
		Text:      text,
		Sender:    e.username,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	// Not appended locally: the message enters the store only when the
	// server echoes it back through the inbound path.
	if err := e.session.Emit(ctx, proto.EventRoomMessage, payload); err != nil {
		e.log.Warn().Err(err).Str("room", e.activeRoom).Msg("emit roomMessage")
	}
}

// applyMessage is the critical inbound reduction: append, unread
// accounting, then notification policy. Store mutation always comes first
// and is never rolled back by effect failures.
func (e *Engine) applyMessage(msg Message) {
	if msg.Room == "" {
		msg.Room = e.rooms.Default()
		e.log.Debug().Str("sender", msg.Sender).Msg("message without room, defaulting")
	}

	e.store.Append(msg)

	if msg.Room != e.activeRoom && !msg.System {
		e.store.IncrementUnread(msg.Room)
	}

	if !msg.System && msg.Sender != e.username {
		e.notifier.PlaySound()
		if !e.visible {
			e.notifier.SetTitle(fmt.Sprintf("🔔 New message in %s", msg.Room))
			if e.canNotify {
				e.notifier.Notify(fmt.Sprintf("New message from %s", msg.Sender), msg.Text)
			}
		}
	}

	e.pushUpdate(Update{Kind: UpdateMessage, Message: msg, Room: msg.Room, ActiveRoom: e.activeRoom})
}

// resubscribe tears down the subscription set of the previous
// (username, activeRoom) pair and establishes the next one, then re-runs
// the join sequence so the server knows which room's broadcast we want.
func (e *Engine) resubscribe(ctx context.Context) {
	for _, cancel := range e.subs {
		cancel()
	}
	e.subs = e.subs[:0]

	e.subs = append(e.subs,
		e.session.On(proto.EventUsers, e.onUsers),
		e.session.On(proto.EventRoomJoined, e.onRoomJoined),
		e.session.On(proto.EventRoomMessage, e.onRoomMessage),
	)

	if err := e.session.Emit(ctx, proto.EventJoin, proto.JoinData{Username: e.username}); err != nil {
		e.log.Warn().Err(err).Msg("emit join")
	}
	if err := e.session.Emit(ctx, proto.EventJoinRoom, proto.JoinRoomData{Room: e.activeRoom}); err != nil {
		e.log.Warn().Err(err).Str("room", e.activeRoom).Msg("emit joinRoom")
	}
}

// Event handlers run on the session's read goroutine. They only decode and
// forward into the loop, so reductions always observe current state
// instead of values captured at subscription time.

func (e *Engine) onUsers(data json.RawMessage) {
	users, err := proto.DecodeUsers(data)
	if err != nil {
		e.log.Warn().Err(err).Msg("decode users")
		return
	}
	e.post(command{kind: cmdUsers, users: users})
}

func (e *Engine) onRoomJoined(data json.RawMessage) {
	room, err := proto.DecodeRoomJoined(data)
	if err != nil {
		e.log.Warn().Err(err).Msg("decode roomJoined")
		return
	}
	e.post(command{kind: cmdRoomJoined, room: room})
}

func (e *Engine) onRoomMessage(data json.RawMessage) {
	msg, err := proto.DecodeMessage(data)
	if err != nil {
		e.log.Warn().Err(err).Msg("decode roomMessage")
		return
	}
	e.post(command{kind: cmdRoomMessage, msg: Message{
		ID:        msg.ID,
		Room:      msg.Room,
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		System:    msg.System,
	}})
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Username:   e.username,
		ActiveRoom: e.activeRoom,
		Rooms:      e.rooms.List(),
		Presence:   e.store.Presence(),
		Unread:     e.store.UnreadCounts(),
		Messages:   e.store.Messages(e.activeRoom),
	}
}

func (e *Engine) pushUpdate(u Update) {
	select {
	case e.updates <- u:
	default:
		// Drop if the view is a slow consumer; it can re-sync via Snapshot.
		e.log.Debug().Msg("dropping view update")
	}
}

func (e *Engine) teardown() {
	for _, cancel := range e.subs {
		cancel()
	}
	e.subs = nil
	e.store.Clear()
	close(e.done)
	close(e.updates)
}
