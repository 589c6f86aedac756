package discord_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MLShukai/obs-rec/internal/logging"
	"github.com/MLShukai/obs-rec/internal/services/discord"
	"github.com/MLShukai/obs-rec/internal/testsupport"
)

func TestNewSessionRequiresToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Discord.Token = "   "

	if _, err := discord.NewSession(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for blank token")
	}
}

func TestNewSessionDefersConnection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	session, err := discord.NewSession(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if session == nil {
		t.Fatal("expected session")
	}
}

func TestPublishRecordingFailsFastOnMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	session, err := discord.NewSession(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "gone.mp4")
	err = session.PublishRecording(context.Background(), "hello", missing)
	if err == nil {
		t.Fatal("expected error for missing recording")
	}
	if !strings.Contains(err.Error(), "open recording") {
		t.Fatalf("error should name the open failure, got %v", err)
	}
}
