package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/media/ffprobe"
	"github.com/MLShukai/obs-rec/internal/media/normalize"
	"github.com/MLShukai/obs-rec/internal/services/ffmpeg"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var budgetMB float64

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Normalize a single video file to the size budget and canonical container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			budget := budgetMB
			if budget <= 0 {
				budget = cfg.Video.MaxSizeMB
			}

			normalizer := normalize.New(
				ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Video.FFmpegBinary)),
				ffprobe.NewClient(ffprobe.WithBinary(cfg.Video.FFprobeBinary)),
				logger,
			)

			result, err := normalizer.Process(cmd.Context(), args[0], budget)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&budgetMB, "budget-mb", 0, "Size budget in megabytes (defaults to video.max_size_mb)")
	return cmd
}
