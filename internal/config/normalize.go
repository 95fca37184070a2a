package config

import (
	"path/filepath"
	"strings"
)

// normalize trims strings, expands ~ in path fields, and fills derived
// defaults that depend on other fields.
func (c *Config) normalize() error {
	var err error

	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Paths.ReviewDir, err = expandPath(strings.TrimSpace(c.Paths.ReviewDir)); err != nil {
		return err
	}

	c.Source.Driver = strings.ToLower(strings.TrimSpace(c.Source.Driver))
	c.Source.DSN = strings.TrimSpace(c.Source.DSN)
	c.Source.Table = strings.TrimSpace(c.Source.Table)
	if c.Source.Table == "" {
		c.Source.Table = defaultSourceTable
	}
	if path := strings.TrimSpace(c.Source.Path); path != "" {
		if c.Source.Path, err = expandPath(path); err != nil {
			return err
		}
	} else {
		c.Source.Path = ""
	}

	c.Sink.Driver = strings.ToLower(strings.TrimSpace(c.Sink.Driver))
	c.Sink.BaseURL = strings.TrimRight(strings.TrimSpace(c.Sink.BaseURL), "/")
	c.Sink.AuthToken = strings.TrimSpace(c.Sink.AuthToken)
	if c.Sink.RequestTimeout <= 0 {
		c.Sink.RequestTimeout = defaultSinkRequestTimeout
	}
	if dir := strings.TrimSpace(c.Sink.Dir); dir != "" {
		if c.Sink.Dir, err = expandPath(dir); err != nil {
			return err
		}
	} else if c.Paths.DataDir != "" {
		c.Sink.Dir = filepath.Join(c.Paths.DataDir, "out")
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
