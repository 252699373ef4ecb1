// Package app wires the transport session, sync engine, view and optional
// status endpoint into one runnable client.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/notify"
	"github.com/vovakirdan/wirechat-client/internal/status"
	"github.com/vovakirdan/wirechat-client/internal/transport/ws"
	"github.com/vovakirdan/wirechat-client/internal/view"
)

// App owns the client lifecycle.
type App struct {
	cfg config.Config
	log *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	return &App{cfg: cfg, log: logger}
}

// Run connects, starts all loops and blocks until context cancellation,
// a transport failure, or the user quitting. A user-initiated quit and a
// clean remote close both return nil.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdin := bufio.NewReader(os.Stdin)

	username := a.cfg.Username
	if username == "" {
		name, err := view.PromptUsername(stdin, os.Stdout)
		if err != nil {
			return fmt.Errorf("collect username: %w", err)
		}
		username = name
	}

	dialCtx, dialCancel := context.WithTimeout(ctx, a.cfg.DialTimeout)
	session, err := ws.Dial(dialCtx, a.cfg.ServerURL, a.log)
	dialCancel()
	if err != nil {
		return err
	}

	a.log.Info().Str("server", a.cfg.ServerURL).Str("user", username).Msg("connected")

	registry := core.NewRegistry(a.cfg.Rooms)
	notifier := notify.NewTerminal(os.Stdout, a.cfg.SoundCommand, a.log)
	engine := core.NewEngine(session, core.NewStore(), registry, notifier, username, a.cfg.Room, a.log)

	go engine.Run(ctx)

	sessionErr := make(chan error, 1)
	go func() {
		sessionErr <- session.Run(ctx)
	}()

	var statusSrv *stdhttp.Server
	statusErr := make(chan error, 1)
	if a.cfg.StatusAddr != "" {
		statusSrv = status.NewServer(engine, a.cfg.StatusAddr, a.log)
		a.log.Info().Str("addr", a.cfg.StatusAddr).Msg("status endpoint enabled")
		go func() {
			if err := statusSrv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				statusErr <- err
			}
		}()
	}

	viewErr := make(chan error, 1)
	go func() {
		viewErr <- view.New(engine, stdin, os.Stdout, a.log).Run(ctx)
	}()

	defer a.cleanup(statusSrv, session)

	select {
	case <-ctx.Done():
		return nil
	case err := <-sessionErr:
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		return nil
	case err := <-statusErr:
		return fmt.Errorf("status server: %w", err)
	case err := <-viewErr:
		if err == nil || errors.Is(err, view.ErrQuit) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("view: %w", err)
	}
}

// cleanup shuts down the status endpoint and the connection.
func (a *App) cleanup(statusSrv *stdhttp.Server, session *ws.Session) {
	if statusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := statusSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("status server shutdown")
		}
	}
	if err := session.Close(); err != nil {
		a.log.Debug().Err(err).Msg("close session")
	}
}
