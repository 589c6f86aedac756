package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MLShukai/obs-rec/internal/daemon"
	"github.com/MLShukai/obs-rec/internal/history"
	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/media/ffprobe"
	"github.com/MLShukai/obs-rec/internal/media/normalize"
	"github.com/MLShukai/obs-rec/internal/notifications"
	"github.com/MLShukai/obs-rec/internal/services/discord"
	"github.com/MLShukai/obs-rec/internal/services/ffmpeg"
	"github.com/MLShukai/obs-rec/internal/services/obs"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the recording daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			publisher, err := discord.NewSession(cfg, logger)
			if err != nil {
				return fmt.Errorf("create publisher: %w", err)
			}

			recorder := obs.NewClient(cfg, logger)
			normalizer := normalize.New(
				ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Video.FFmpegBinary)),
				ffprobe.NewClient(ffprobe.WithBinary(cfg.Video.FFprobeBinary)),
				logger,
			)
			notifier := notifications.NewService(cfg)

			d, err := daemon.New(cfg, store, recorder, publisher, normalizer, notifier, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}

			return d.Run(signalCtx)
		},
	}
}
