package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/MLShukai/obs-rec/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Discord.Token = "test-token"
	cfg.Discord.ChannelID = "123456789012345678"
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBudgetMB overrides the normalization size budget on the test config.
func WithBudgetMB(budget float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Video.MaxSizeMB = budget
	}
}

// WithNtfyTopic sets the ntfy topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
