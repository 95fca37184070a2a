package testsupport

import (
	"path/filepath"
	"testing"

	"execlink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReviewDir = filepath.Join(base, "review")
	cfgVal.Source.Path = filepath.Join(base, "records.csv")
	cfgVal.Sink.Dir = filepath.Join(base, "out")
	cfgVal.Review.OpenArtifact = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSource overrides the record source on the test config.
func WithSource(driver, path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.Driver = driver
		b.cfg.Source.Path = path
	}
}

// WithSink overrides the sink driver and base URL on the test config.
func WithSink(driver, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sink.Driver = driver
		b.cfg.Sink.BaseURL = baseURL
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
