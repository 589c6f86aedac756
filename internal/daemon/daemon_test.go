package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MLShukai/obs-rec/internal/history"
	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/media/normalize"
	"github.com/MLShukai/obs-rec/internal/services/ffmpeg"
	"github.com/MLShukai/obs-rec/internal/testsupport"
)

type fakeRecorder struct {
	dir       string
	extension string
	sizeBytes int64
	fail      error

	clips []time.Duration
}

func (f *fakeRecorder) Connect(context.Context) error { return nil }
func (f *fakeRecorder) Close() error                  { return nil }
func (f *fakeRecorder) IsRecording(context.Context) (bool, error) {
	return false, nil
}
func (f *fakeRecorder) StartRecording(context.Context) error { return nil }
func (f *fakeRecorder) StopRecording(context.Context) (string, error) {
	return "", errors.New("not recording")
}

func (f *fakeRecorder) RecordClip(_ context.Context, duration time.Duration) (string, error) {
	f.clips = append(f.clips, duration)
	if f.fail != nil {
		return "", f.fail
	}
	path := filepath.Join(f.dir, "capture"+f.extension)
	writeArtifact(path, f.sizeBytes)
	return path, nil
}

func writeArtifact(path string, size int64) {
	data := make([]byte, size)
	_ = os.WriteFile(path, data, 0o644)
}

type fakePublisher struct {
	fail     error
	messages []string
	paths    []string
}

func (f *fakePublisher) Open() error  { return nil }
func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) PublishRecording(_ context.Context, message, filePath string) error {
	if f.fail != nil {
		return f.fail
	}
	f.messages = append(f.messages, message)
	f.paths = append(f.paths, filePath)
	return nil
}

type fakeNotifier struct {
	published []string
	failures  []string
}

func (f *fakeNotifier) NotifyRecordingPublished(_ context.Context, filename string, _ float64) error {
	f.published = append(f.published, filename)
	return nil
}

func (f *fakeNotifier) NotifyCycleFailed(_ context.Context, _ error, detail string) error {
	f.failures = append(f.failures, detail)
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

type passthroughTranscoder struct {
	calls []ffmpeg.Request
}

func (p *passthroughTranscoder) Transcode(_ context.Context, req ffmpeg.Request) (ffmpeg.Result, error) {
	p.calls = append(p.calls, req)
	writeArtifact(req.Output, 1024)
	return ffmpeg.Result{}, nil
}

type fixedProber struct{ seconds float64 }

func (f fixedProber) FormatDuration(context.Context, string) (float64, error) {
	return f.seconds, nil
}

func (f fixedProber) StreamDuration(context.Context, string) (float64, error) {
	return f.seconds, nil
}

type fixture struct {
	daemon    *Daemon
	store     *history.Store
	recorder  *fakeRecorder
	publisher *fakePublisher
	notifier  *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	recorder := &fakeRecorder{
		dir:       t.TempDir(),
		extension: ".mp4",
		sizeBytes: 4 * 1024 * 1024,
	}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	normalizer := normalize.New(&passthroughTranscoder{}, fixedProber{seconds: 30}, logging.NewNop())

	d, err := New(cfg, store, recorder, publisher, normalizer, notifier, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &fixture{
		daemon:    d,
		store:     store,
		recorder:  recorder,
		publisher: publisher,
		notifier:  notifier,
	}
}

func lastCycle(t *testing.T, store *history.Store) *history.Cycle {
	t.Helper()
	cycles, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(cycles))
	}
	return cycles[0]
}

func TestRunCyclePublishesCompliantRecording(t *testing.T) {
	f := newFixture(t)

	if err := f.daemon.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	if len(f.recorder.clips) != 1 || f.recorder.clips[0] != 30*time.Second {
		t.Fatalf("clip durations = %v", f.recorder.clips)
	}
	if len(f.publisher.paths) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(f.publisher.paths))
	}
	if len(f.publisher.messages) != 1 || f.publisher.messages[0] == "" {
		t.Fatalf("publish message = %v", f.publisher.messages)
	}

	// The published artifact is removed once Discord accepted it.
	if _, err := os.Stat(f.publisher.paths[0]); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("published artifact should be deleted, stat returned %v", err)
	}

	cycle := lastCycle(t, f.store)
	if cycle.Status != history.StatusPublished {
		t.Fatalf("status = %q", cycle.Status)
	}
	if cycle.ArtifactBytes != 4*1024*1024 {
		t.Fatalf("artifact bytes = %d", cycle.ArtifactBytes)
	}
	if len(f.notifier.published) != 1 {
		t.Fatalf("expected publish notification, got %v", f.notifier.published)
	}
	if len(f.notifier.failures) != 0 {
		t.Fatalf("unexpected failure notifications: %v", f.notifier.failures)
	}
}

func TestRunCycleNormalizesForeignContainer(t *testing.T) {
	f := newFixture(t)
	f.recorder.extension = ".mkv"

	if err := f.daemon.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	if len(f.publisher.paths) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(f.publisher.paths))
	}
	if filepath.Ext(f.publisher.paths[0]) != ".mp4" {
		t.Fatalf("published path should be mp4, got %q", f.publisher.paths[0])
	}

	cycle := lastCycle(t, f.store)
	if cycle.PublishedPath != f.publisher.paths[0] {
		t.Fatalf("published path mismatch: %q vs %q", cycle.PublishedPath, f.publisher.paths[0])
	}
}

func TestRunCycleRecordsRecorderFailure(t *testing.T) {
	f := newFixture(t)
	f.recorder.fail = errors.New("obs is offline")

	err := f.daemon.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected error from failed recording")
	}

	cycle := lastCycle(t, f.store)
	if cycle.Status != history.StatusFailed {
		t.Fatalf("status = %q", cycle.Status)
	}
	if cycle.ErrorMessage == "" {
		t.Fatal("error message should be recorded")
	}
	if len(f.notifier.failures) != 1 {
		t.Fatalf("expected failure notification, got %v", f.notifier.failures)
	}
	if len(f.publisher.paths) != 0 {
		t.Fatal("nothing may be published after a failed recording")
	}
}

func TestRunCycleKeepsArtifactWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	f.publisher.fail = errors.New("discord rejected upload")

	err := f.daemon.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected error from failed publish")
	}

	cycle := lastCycle(t, f.store)
	if cycle.Status != history.StatusFailed {
		t.Fatalf("status = %q", cycle.Status)
	}
	if cycle.PublishedPath == "" {
		t.Fatal("normalized path should still be recorded")
	}
	if _, statErr := os.Stat(cycle.PublishedPath); statErr != nil {
		t.Fatalf("artifact must stay on disk after failed publish: %v", statErr)
	}
	if len(f.notifier.failures) != 1 {
		t.Fatalf("expected failure notification, got %v", f.notifier.failures)
	}
}

func TestRunCycleSkipsFailureNotificationOnShutdown(t *testing.T) {
	f := newFixture(t)
	f.recorder.fail = context.Canceled

	if err := f.daemon.runCycle(context.Background()); err == nil {
		t.Fatal("expected propagated cancellation")
	}

	if len(f.notifier.failures) != 0 {
		t.Fatalf("cancellation must not page anyone, got %v", f.notifier.failures)
	}
	cycle := lastCycle(t, f.store)
	if cycle.Status != history.StatusFailed {
		t.Fatalf("status = %q", cycle.Status)
	}
}
