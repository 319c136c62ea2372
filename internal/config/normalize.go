package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.OutputRoot = strings.TrimSpace(c.OutputRoot)
	if c.OutputRoot == "" {
		c.OutputRoot = defaultOutputRoot
	}
	var err error
	if c.OutputRoot, err = expandHome(c.OutputRoot); err != nil {
		return fmt.Errorf("output_root: %w", err)
	}

	if c.QueueCapacity == 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	c.DirPerm = strings.TrimSpace(c.DirPerm)
	if c.DirPerm == "" {
		c.DirPerm = defaultDirPerm
	}
	c.normalizeLogging()
	return nil
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
