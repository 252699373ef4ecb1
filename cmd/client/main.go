package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-client/internal/app"
	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:          "wirechat-client",
		Short:        "Terminal chat client for wirechat servers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New("info")
			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Debug().Str("config", path).Msg("configuration loaded")

			return app.New(cfg, logger).Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to config file")
	flags.StringVar(&overrides.ServerURL, "server", "", "WebSocket server URL")
	flags.StringVarP(&overrides.Username, "user", "u", "", "username (prompted when empty)")
	flags.StringVarP(&overrides.Room, "room", "r", "", "room to join on start")
	flags.StringSliceVar(&overrides.Rooms, "rooms", nil, "joinable room list")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&overrides.SoundCommand, "sound-command", "", "external notification sound command")
	flags.StringVar(&overrides.StatusAddr, "status-addr", "", "local status endpoint address (disabled when empty)")

	return cmd
}
