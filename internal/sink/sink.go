package sink

import (
	"context"
	"fmt"

	"execlink/internal/canonical"
	"execlink/internal/config"
)

// Result summarizes one upload batch.
type Result struct {
	Persons int
	Links   int
	// Failures lists per-record upload errors that did not abort the batch.
	Failures []string
}

// Failed reports whether any record in the batch was dropped.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Sink persists canonical output. Implementations return an error only for
// batch-level failures; individual record problems land in Result.Failures.
type Sink interface {
	Name() string
	Upload(ctx context.Context, persons []canonical.PersonRecord, links []canonical.CompanyLink) (Result, error)
}

// Open builds the sink selected by the configuration.
func Open(cfg *config.Config) (Sink, error) {
	switch cfg.Sink.Driver {
	case "file":
		return NewFileSink(cfg.Sink.Dir), nil
	case "rtdb":
		return NewRTDBSink(cfg.Sink.BaseURL, cfg.Sink.AuthToken, cfg.Sink.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown sink driver %q", cfg.Sink.Driver)
	}
}
