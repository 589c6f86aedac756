package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/MLShukai/obs-rec/internal/history"
	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/services"
)

// runCycle performs one record → normalize → publish pass.
func (d *Daemon) runCycle(ctx context.Context) error {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := d.logger.With(logging.String(logging.FieldRunID, runID))

	cycle, err := d.store.NewCycle(ctx, runID)
	if err != nil {
		return fmt.Errorf("record cycle start: %w", err)
	}

	started := time.Now()
	logger.Info("starting capture cycle")

	clipDuration := time.Duration(d.cfg.Recording.ClipSeconds) * time.Second
	artifactPath, err := d.recorder.RecordClip(ctx, clipDuration)
	if err != nil {
		d.failCycle(ctx, logger, cycle, "record clip", err)
		return fmt.Errorf("record clip: %w", err)
	}

	cycle.ArtifactPath = artifactPath
	cycle.Status = history.StatusRecorded
	if info, statErr := os.Stat(artifactPath); statErr == nil {
		cycle.ArtifactBytes = info.Size()
	}
	d.updateCycle(ctx, logger, cycle)
	logger.Info("recording captured",
		logging.String("path", artifactPath),
		logging.Float64("size_mb", float64(cycle.ArtifactBytes)/(1024*1024)),
	)

	publishPath, err := d.normalizer.Process(ctx, artifactPath, d.cfg.Video.MaxSizeMB)
	if err != nil {
		d.failCycle(ctx, logger, cycle, "normalize artifact", err)
		return fmt.Errorf("normalize artifact: %w", err)
	}

	cycle.PublishedPath = publishPath
	cycle.Status = history.StatusNormalized
	if info, statErr := os.Stat(publishPath); statErr == nil {
		cycle.PublishedBytes = info.Size()
	}
	d.updateCycle(ctx, logger, cycle)

	message := d.publishMessage(started)
	if err := d.publisher.PublishRecording(ctx, message, publishPath); err != nil {
		// The artifact stays on disk so a failed publish never loses the
		// recording silently.
		d.failCycle(ctx, logger, cycle, "publish recording", err)
		return fmt.Errorf("publish recording: %w", err)
	}

	if err := os.Remove(publishPath); err != nil {
		logger.Warn("failed to delete published artifact",
			logging.String("path", publishPath),
			logging.Error(err),
		)
	}

	cycle.Status = history.StatusPublished
	d.updateCycle(ctx, logger, cycle)

	sizeMB := float64(cycle.PublishedBytes) / (1024 * 1024)
	if err := d.notifier.NotifyRecordingPublished(ctx, publishPath, sizeMB); err != nil {
		logger.Warn("publish notification failed", logging.Error(err))
	}

	logger.Info("capture cycle completed",
		logging.Duration("elapsed", time.Since(started)),
		logging.Float64("published_mb", sizeMB),
	)
	return nil
}

func (d *Daemon) publishMessage(started time.Time) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("📹 Recording from %s on %s", started.Format("2006-01-02 15:04:05"), hostname)
}

func (d *Daemon) failCycle(ctx context.Context, logger *slog.Logger, cycle *history.Cycle, detail string, failure error) {
	// Failure state must persist even when the cycle died to cancellation.
	ctx = context.WithoutCancel(ctx)

	cycle.Status = history.StatusFailed
	cycle.ErrorMessage = failure.Error()
	d.updateCycle(ctx, logger, cycle)

	if errors.Is(failure, context.Canceled) {
		return
	}
	if err := d.notifier.NotifyCycleFailed(ctx, failure, detail); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}

func (d *Daemon) updateCycle(ctx context.Context, logger *slog.Logger, cycle *history.Cycle) {
	if err := d.store.Update(ctx, cycle); err != nil {
		logger.Warn("failed to persist cycle state",
			logging.Int64("cycle_id", cycle.ID),
			logging.Error(err),
		)
	}
}
