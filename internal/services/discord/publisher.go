package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/MLShukai/obs-rec/internal/config"
	"github.com/MLShukai/obs-rec/internal/logging"
)

// Publisher defines the publish channel surface the daemon depends on.
type Publisher interface {
	Open() error
	Close() error
	PublishRecording(ctx context.Context, message, filePath string) error
}

// Session publishes recordings to a Discord text channel.
type Session struct {
	session   *discordgo.Session
	channelID string
	logger    *slog.Logger
}

// NewSession constructs a session from configuration. The gateway connection
// is not opened until Open is called.
func NewSession(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	token := strings.TrimSpace(cfg.Discord.Token)
	if token == "" {
		return nil, errors.New("discord token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &Session{
		session:   session,
		channelID: cfg.Discord.ChannelID,
		logger:    logging.NewComponentLogger(logger, "discord"),
	}, nil
}

// Open connects to the Discord gateway, validating the token.
func (s *Session) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	s.logger.Info("discord session opened", logging.String("channel_id", s.channelID))
	return nil
}

// Close tears down the gateway connection.
func (s *Session) Close() error {
	return s.session.Close()
}

// PublishRecording posts the message with the recording attached to the
// configured channel.
func (s *Session) PublishRecording(ctx context.Context, message, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open recording %s: %w", filePath, err)
	}
	defer file.Close()

	_, err = s.session.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Content: message,
		Files: []*discordgo.File{
			{Name: filepath.Base(filePath), Reader: file},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("post recording to channel %s: %w", s.channelID, err)
	}

	s.logger.Info("recording published",
		logging.String("channel_id", s.channelID),
		logging.String("file", filepath.Base(filePath)),
	)
	return nil
}

var _ Publisher = (*Session)(nil)
