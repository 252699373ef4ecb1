// Package view renders session state to a terminal and forwards user
// intent (send, room switch, focus changes) to the sync engine.
package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/core"
)

// ErrQuit is returned from Run when the user asks to leave.
var ErrQuit = errors.New("quit")

// View is the interactive terminal surface.
type View struct {
	engine *core.Engine
	in     io.Reader
	out    io.Writer
	log    *zerolog.Logger
}

// New builds a view bound to the given engine and streams.
func New(engine *core.Engine, in io.Reader, out io.Writer, logger *zerolog.Logger) *View {
	return &View{engine: engine, in: in, out: out, log: logger}
}

// PromptUsername reads a non-empty username, re-prompting on blank input.
// It reads directly from the shared reader so no input is buffered away
// from the chat loop that follows.
func PromptUsername(in *bufio.Reader, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "Enter your username: ")
		line, err := in.ReadString('\n')
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read username: %w", err)
		}
	}
}

// Run consumes engine updates and the input stream until the context is
// cancelled, input ends, or the user quits.
func (v *View) Run(ctx context.Context) error {
	go v.renderLoop(ctx)

	snap := v.engine.Snapshot()
	fmt.Fprintf(v.out, "Joined %s as %s. Type /help for commands.\n", snap.ActiveRoom, snap.Username)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(v.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := v.handleLine(line); err != nil {
				return err
			}
		}
	}
}

func (v *View) handleLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		v.engine.Send(line)
		return nil
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	switch cmd {
	case "/room":
		room := strings.TrimSpace(arg)
		if room == "" {
			fmt.Fprintln(v.out, "usage: /room <name>")
			return nil
		}
		if err := v.engine.SwitchRoom(room); err != nil {
			fmt.Fprintf(v.out, "no such room: %s\n", room)
		}
	case "/rooms":
		v.renderRooms()
	case "/users":
		v.renderUsers()
	case "/away":
		v.engine.SetVisible(false)
		fmt.Fprintln(v.out, "marked away; notifications enabled")
	case "/back":
		v.engine.SetVisible(true)
		fmt.Fprintln(v.out, "welcome back")
	case "/help":
		fmt.Fprintln(v.out, "/room <name>  switch room\n/rooms        list rooms with unread counts\n/users        list online users\n/away, /back  toggle focus\n/quit         exit")
	case "/quit":
		return ErrQuit
	default:
		fmt.Fprintf(v.out, "unknown command %s, try /help\n", cmd)
	}
	return nil
}

func (v *View) renderLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-v.engine.Updates():
			if !ok {
				v.log.Debug().Msg("engine updates closed")
				return
			}
			v.render(u)
		}
	}
}

func (v *View) render(u core.Update) {
	switch u.Kind {
	case core.UpdateMessage:
		// Only the active room streams inline; other rooms surface through
		// their unread badge.
		if u.Room != u.ActiveRoom {
			return
		}
		v.printMessage(u.Message)
	case core.UpdateRoomSwitched:
		snap := v.engine.Snapshot()
		fmt.Fprintf(v.out, "--- %s ---\n", snap.ActiveRoom)
		for _, msg := range snap.Messages {
			v.printMessage(msg)
		}
	case core.UpdatePresence:
		// Quiet; visible on demand via /users.
	}
}

func (v *View) printMessage(msg core.Message) {
	if msg.System {
		fmt.Fprintf(v.out, "-- %s --\n", msg.Text)
		return
	}
	fmt.Fprintf(v.out, "[%s] %s: %s\n", msg.LocalTime(), msg.Sender, msg.Text)
}

func (v *View) renderRooms() {
	snap := v.engine.Snapshot()
	for _, room := range snap.Rooms {
		marker := "  "
		if room == snap.ActiveRoom {
			marker = "* "
		}
		badge := ""
		if n := snap.Unread[room]; n > 0 {
			badge = fmt.Sprintf(" (%d)", n)
		}
		fmt.Fprintf(v.out, "%s%s%s\n", marker, room, badge)
	}
}

func (v *View) renderUsers() {
	snap := v.engine.Snapshot()
	if len(snap.Presence) == 0 {
		fmt.Fprintln(v.out, "nobody else is online")
		return
	}
	for _, user := range snap.Presence {
		fmt.Fprintln(v.out, user)
	}
}
