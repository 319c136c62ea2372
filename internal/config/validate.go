package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.QueueCapacity < 0 {
		return errors.New("queue_capacity must not be negative")
	}
	if c.MaxWorkers < 0 {
		return errors.New("max_workers must not be negative")
	}
	if _, err := c.DirMode(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// DirMode parses DirPerm as an octal permission.
func (c *Config) DirMode() (os.FileMode, error) {
	perm, err := strconv.ParseUint(c.DirPerm, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("dir_perm: %q is not an octal permission", c.DirPerm)
	}
	if perm == 0 || perm > 0o777 {
		return 0, fmt.Errorf("dir_perm: %q is out of range", c.DirPerm)
	}
	return os.FileMode(perm), nil
}
