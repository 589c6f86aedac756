package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDiscord(); err != nil {
		return err
	}
	if err := c.validateOBS(); err != nil {
		return err
	}
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDiscord() error {
	if c.Discord.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/obsrec/config.toml"
		}
		return fmt.Errorf("discord.token is required. Set DISCORD_BOT_TOKEN env var or edit %s (create with 'obsrec config init')", defaultPath)
	}
	if c.Discord.ChannelID == "" {
		return errors.New("discord.channel_id is required. Set DISCORD_CHANNEL_ID env var or add it to the config file")
	}
	if _, err := strconv.ParseUint(c.Discord.ChannelID, 10, 64); err != nil {
		return fmt.Errorf("discord.channel_id must be a numeric snowflake, got %q", c.Discord.ChannelID)
	}
	return nil
}

func (c *Config) validateOBS() error {
	if c.OBS.Port < 1 || c.OBS.Port > 65535 {
		return fmt.Errorf("obs.port must be between 1 and 65535, got %d", c.OBS.Port)
	}
	return nil
}

func (c *Config) validateRecording() error {
	if c.Recording.ClipSeconds <= 0 {
		return errors.New("recording.clip_seconds must be positive")
	}
	if c.Recording.IntervalSeconds <= 0 {
		return errors.New("recording.interval_seconds must be positive")
	}
	if c.Recording.ErrorRetrySeconds <= 0 {
		return errors.New("recording.error_retry_seconds must be positive")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.MaxSizeMB <= 0 {
		return errors.New("video.max_size_mb must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
