package ingest

import (
	"context"
	"fmt"

	"execlink/internal/config"
	"execlink/internal/records"
)

// Source yields one batch of raw records.
type Source interface {
	// Name identifies the source in logs and notifications.
	Name() string
	// Fetch loads the full batch. Implementations return records in source
	// order with identifiers already assigned.
	Fetch(ctx context.Context) ([]records.Record, error)
}

// Open builds the source selected by the configuration.
func Open(cfg *config.Config) (Source, error) {
	switch cfg.Source.Driver {
	case "csv":
		return NewCSVSource(cfg.Source.Path), nil
	case "sqlite":
		return NewSQLiteSource(cfg.Source.Path, cfg.Source.Table), nil
	case "mysql":
		return NewMySQLSource(cfg.Source.DSN, cfg.Source.Table), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}
