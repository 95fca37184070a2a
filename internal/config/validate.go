package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateSink(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSource() error {
	switch c.Source.Driver {
	case "csv", "sqlite":
		if c.Source.Path == "" {
			return fmt.Errorf("source.path must be set for the %s driver", c.Source.Driver)
		}
	case "mysql":
		if c.Source.DSN == "" {
			return errors.New("source.dsn must be set for the mysql driver")
		}
	default:
		return fmt.Errorf("source.driver: unsupported value %q (expected csv, sqlite, or mysql)", c.Source.Driver)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	for name, weight := range map[string]float64{
		"matching.name_weight":    m.NameWeight,
		"matching.address_weight": m.AddressWeight,
		"matching.title_weight":   m.TitleWeight,
		"matching.company_weight": m.CompanyWeight,
	} {
		if weight <= 0 || weight >= 1 {
			return fmt.Errorf("%s must be between 0 and 1 exclusive", name)
		}
	}
	sum := m.NameWeight + m.AddressWeight + m.TitleWeight + m.CompanyWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1.0, got %g", sum)
	}
	if m.MinGroupThreshold <= 0 || m.MinGroupThreshold >= 1 {
		return errors.New("matching.min_group_threshold must be between 0 and 1")
	}
	if m.AutoAcceptThreshold <= 0 || m.AutoAcceptThreshold >= 1 {
		return errors.New("matching.auto_accept_threshold must be between 0 and 1")
	}
	if m.AutoAcceptThreshold < m.MinGroupThreshold {
		return errors.New("matching.auto_accept_threshold must not be below matching.min_group_threshold")
	}
	if m.MissingFieldScore < 0 || m.MissingFieldScore > 1 {
		return errors.New("matching.missing_field_score must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSink() error {
	switch c.Sink.Driver {
	case "file":
		if c.Sink.Dir == "" {
			return errors.New("sink.dir must be set for the file driver")
		}
	case "rtdb":
		if c.Sink.BaseURL == "" {
			return errors.New("sink.base_url must be set for the rtdb driver")
		}
	default:
		return fmt.Errorf("sink.driver: unsupported value %q (expected file or rtdb)", c.Sink.Driver)
	}
	return nil
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
