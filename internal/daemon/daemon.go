package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/MLShukai/obs-rec/internal/config"
	"github.com/MLShukai/obs-rec/internal/history"
	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/media/normalize"
	"github.com/MLShukai/obs-rec/internal/notifications"
	"github.com/MLShukai/obs-rec/internal/services/discord"
	"github.com/MLShukai/obs-rec/internal/services/obs"
)

// Daemon coordinates the periodic capture workflow and enforces
// single-instance execution.
type Daemon struct {
	cfg        *config.Config
	store      *history.Store
	recorder   obs.Controller
	publisher  discord.Publisher
	normalizer *normalize.Normalizer
	notifier   notifications.Service
	logger     *slog.Logger

	lockPath string
	lock     *flock.Flock
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *history.Store, recorder obs.Controller, publisher discord.Publisher, normalizer *normalize.Normalizer, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || recorder == nil || publisher == nil || normalizer == nil {
		return nil, errors.New("daemon requires config, store, recorder, publisher, and normalizer")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "obsrec.lock")
	return &Daemon{
		cfg:        cfg,
		store:      store,
		recorder:   recorder,
		publisher:  publisher,
		normalizer: normalizer,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Run acquires the daemon lock, connects the recorder and publisher, and
// drives capture cycles until the context is cancelled. A failed cycle is
// logged and retried after the error backoff; it never terminates the
// schedule.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another obsrec daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	if err := d.recorder.Connect(ctx); err != nil {
		return fmt.Errorf("connect recorder: %w", err)
	}
	defer func() {
		if err := d.recorder.Close(); err != nil {
			d.logger.Warn("failed to close recorder", logging.Error(err))
		}
	}()

	if err := d.publisher.Open(); err != nil {
		return fmt.Errorf("open publisher: %w", err)
	}
	defer func() {
		if err := d.publisher.Close(); err != nil {
			d.logger.Warn("failed to close publisher", logging.Error(err))
		}
	}()

	d.logger.Info("obsrec daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("interval_seconds", d.cfg.Recording.IntervalSeconds),
		logging.Int("clip_seconds", d.cfg.Recording.ClipSeconds),
	)

	interval := time.Duration(d.cfg.Recording.IntervalSeconds) * time.Second
	retry := time.Duration(d.cfg.Recording.ErrorRetrySeconds) * time.Second

	for {
		if err := d.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.logger.Info("obsrec daemon shutting down")
				return nil
			}
			d.logger.Error("capture cycle failed", logging.Error(err))
			if !d.wait(ctx, retry) {
				return nil
			}
			continue
		}
		if !d.wait(ctx, interval) {
			return nil
		}
	}
}

// wait sleeps for the given duration unless the context ends first. It
// reports false when the daemon should shut down.
func (d *Daemon) wait(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		d.logger.Info("obsrec daemon shutting down")
		return false
	case <-timer.C:
		return true
	}
}
