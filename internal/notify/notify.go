// Package notify provides the host notification capabilities for a
// terminal client: bell sound, window title via OSC escape, and desktop
// notifications through notify-send when available. Every effect is
// best-effort; failures are logged at debug level and swallowed.
package notify

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Terminal dispatches notification effects against a TTY.
type Terminal struct {
	log      *zerolog.Logger
	soundCmd []string
	sendPath string

	mu  sync.Mutex
	out io.Writer
}

// NewTerminal builds a dispatcher writing escape sequences to out.
// soundCommand optionally names an external player invocation (for example
// "paplay /usr/share/sounds/notification.ogg"); when empty the terminal
// bell is used.
func NewTerminal(out io.Writer, soundCommand string, logger *zerolog.Logger) *Terminal {
	return &Terminal{
		log:      logger,
		soundCmd: strings.Fields(soundCommand),
		out:      out,
	}
}

// RequestPermission probes for notify-send once. A missing binary disables
// desktop notifications for the whole session; it is never re-probed.
func (t *Terminal) RequestPermission() bool {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		t.log.Debug().Err(err).Msg("notify-send not found")
		return false
	}
	t.sendPath = path
	return true
}

// PlaySound plays the notification sound: the configured player command
// when set, the terminal bell otherwise.
func (t *Terminal) PlaySound() {
	if len(t.soundCmd) > 0 {
		cmd := exec.Command(t.soundCmd[0], t.soundCmd[1:]...)
		go func() {
			if err := cmd.Run(); err != nil {
				t.log.Debug().Err(err).Msg("sound command failed")
			}
		}()
		return
	}
	t.write("\a")
}

// Notify raises a desktop notification. No-op when RequestPermission did
// not find a sender.
func (t *Terminal) Notify(title, body string) {
	if t.sendPath == "" {
		return
	}
	cmd := exec.Command(t.sendPath, title, body)
	go func() {
		if err := cmd.Run(); err != nil {
			t.log.Debug().Err(err).Msg("notify-send failed")
		}
	}()
}

// SetTitle sets the terminal window title via the OSC 0 sequence.
func (t *Terminal) SetTitle(title string) {
	t.write(fmt.Sprintf("\x1b]0;%s\a", title))
}

func (t *Terminal) write(seq string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, seq); err != nil {
		t.log.Debug().Err(err).Msg("terminal write failed")
	}
}
