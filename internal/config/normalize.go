package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDiscord()
	c.normalizeOBS()
	c.normalizeVideo()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// Secrets may arrive via environment variables instead of the config file so
// the TOML on disk never has to hold credentials.
func (c *Config) normalizeDiscord() {
	if env := strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN")); env != "" {
		c.Discord.Token = env
	}
	if env := strings.TrimSpace(os.Getenv("DISCORD_CHANNEL_ID")); env != "" {
		c.Discord.ChannelID = env
	}
	c.Discord.Token = strings.TrimSpace(c.Discord.Token)
	c.Discord.ChannelID = strings.TrimSpace(c.Discord.ChannelID)
}

func (c *Config) normalizeOBS() {
	if env := strings.TrimSpace(os.Getenv("OBS_PASSWORD")); env != "" {
		c.OBS.Password = env
	}
	c.OBS.Host = strings.TrimSpace(c.OBS.Host)
	if c.OBS.Host == "" {
		c.OBS.Host = defaultOBSHost
	}
	if c.OBS.Port == 0 {
		c.OBS.Port = defaultOBSPort
	}
	if c.OBS.ConnectTimeout <= 0 {
		c.OBS.ConnectTimeout = defaultOBSConnectTimeout
	}
}

func (c *Config) normalizeVideo() {
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	if c.Video.FFmpegBinary == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	c.Video.FFprobeBinary = strings.TrimSpace(c.Video.FFprobeBinary)
	if c.Video.FFprobeBinary == "" {
		c.Video.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
