package normalize

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/services"
	"github.com/MLShukai/obs-rec/internal/services/ffmpeg"
)

// DurationProber reports artifact durations, container tier first.
type DurationProber interface {
	FormatDuration(ctx context.Context, path string) (float64, error)
	StreamDuration(ctx context.Context, path string) (float64, error)
}

// Normalizer shrinks and remuxes captured artifacts so they fit the publish
// channel's size and container constraints.
type Normalizer struct {
	client ffmpeg.Client
	prober DurationProber
	logger *slog.Logger
}

// New constructs a Normalizer from its external tool clients.
func New(client ffmpeg.Client, prober DurationProber, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		client: client,
		prober: prober,
		logger: logging.NewComponentLogger(logger, "normalize"),
	}
}

// Process normalizes the artifact at path against the given size budget and
// returns the path of the compliant artifact.
//
// An artifact that is already under budget and in the canonical container is
// returned unchanged without touching the filesystem. Otherwise the artifact
// is re-encoded (bitrate-capped when oversize, container-only when not) to a
// sibling path, the original is deleted best-effort, and the new path is
// returned. Only missing-input and tool failures escape; probe and cleanup
// failures are absorbed with warnings.
func (n *Normalizer) Process(ctx context.Context, path string, budgetMB float64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "normalize", "stat input", path, err)
		}
		return "", services.Wrap(services.ErrTransient, "normalize", "stat input", path, err)
	}

	plan := planFor(info.Size(), path, budgetMB)
	if plan.Compliant() {
		n.logger.Info("artifact already compliant",
			logging.String("path", path),
			logging.Float64("size_mb", float64(info.Size())/(1024*1024)),
			logging.Float64("budget_mb", budgetMB),
		)
		return path, nil
	}

	output := outputPath(path)
	req := ffmpeg.Request{Input: path, Output: output, Preset: convertPreset}
	if plan.NeedsShrink {
		duration := n.probeDuration(ctx, path)
		plan.VideoBitrateKbps = VideoBitrateKbps(budgetMB, duration)
		req.VideoBitrateKbps = plan.VideoBitrateKbps
		req.Preset = shrinkPreset
	}

	n.logger.Info("normalizing artifact",
		logging.String("input", path),
		logging.String("output", output),
		logging.Bool("shrink", plan.NeedsShrink),
		logging.Bool("container", plan.NeedsContainer),
		logging.Int("video_bitrate_kbps", plan.VideoBitrateKbps),
	)

	result, err := n.client.Transcode(ctx, req)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "normalize", "transcode", result.Output, err)
	}

	outInfo, err := os.Stat(output)
	if err != nil {
		// The tool reported success but left no file behind. An
		// inconsistent report is still a processing failure.
		return "", services.Wrap(services.ErrExternalTool, "normalize", "verify output", "transcode produced no file at "+output, err)
	}

	n.logger.Info("artifact normalized",
		logging.String("output", output),
		logging.Float64("size_mb", float64(outInfo.Size())/(1024*1024)),
		logging.Duration("elapsed", result.Elapsed),
	)

	if plan.NeedsShrink {
		if outMB := float64(outInfo.Size()) / (1024 * 1024); outMB > budgetMB {
			n.logger.Warn("output still exceeds budget",
				logging.String("output", output),
				logging.Float64("size_mb", outMB),
				logging.Float64("budget_mb", budgetMB),
			)
		}
	}

	if output != path {
		if err := os.Remove(path); err != nil {
			n.logger.Warn("failed to delete superseded artifact",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}

	return output, nil
}

// probeDuration resolves the artifact duration via the two probe tiers,
// substituting DefaultDurationSeconds when both fail.
func (n *Normalizer) probeDuration(ctx context.Context, path string) float64 {
	duration, err := n.prober.FormatDuration(ctx, path)
	if err == nil {
		return duration
	}
	n.logger.Debug("container duration unavailable, trying stream tier",
		logging.String("path", path),
		logging.Error(err),
	)

	duration, streamErr := n.prober.StreamDuration(ctx, path)
	if streamErr == nil {
		return duration
	}

	n.logger.Warn("duration probe failed, using default duration",
		logging.String("path", path),
		logging.Float64("default_seconds", DefaultDurationSeconds),
		logging.Error(streamErr),
	)
	return DefaultDurationSeconds
}
