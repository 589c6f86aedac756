package main

import (
	"errors"

	"github.com/MLShukai/obs-rec/internal/config"
)

// commandContext shares lazily-loaded configuration between commands.
type commandContext struct {
	configFlag *string

	cfg       *config.Config
	cfgPath   string
	cfgExists bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configValue() string {
	if c.configFlag == nil {
		return ""
	}
	return *c.configFlag
}

// ensureConfig loads and caches the configuration.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, exists, err := config.Load(c.configValue())
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("configuration unavailable")
	}
	c.cfg = cfg
	c.cfgPath = path
	c.cfgExists = exists
	return cfg, nil
}
