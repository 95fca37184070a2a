package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	ReviewDir string `toml:"review_dir"`
}

// Source describes where raw executive records come from.
type Source struct {
	// Driver selects the record source: "csv", "sqlite", or "mysql".
	Driver string `toml:"driver"`
	// Path is the CSV file or SQLite database path.
	Path string `toml:"path"`
	// DSN is the MySQL data source name. Tunnel management is external;
	// point the DSN at the local forwarded port.
	DSN string `toml:"dsn"`
	// Table is the executives table name for database drivers.
	Table string `toml:"table"`
}

// Matching contains the similarity weights and confidence thresholds. The
// four weights must sum to exactly 1.0.
type Matching struct {
	NameWeight          float64 `toml:"name_weight"`
	AddressWeight       float64 `toml:"address_weight"`
	TitleWeight         float64 `toml:"title_weight"`
	CompanyWeight       float64 `toml:"company_weight"`
	MinGroupThreshold   float64 `toml:"min_group_threshold"`
	AutoAcceptThreshold float64 `toml:"auto_accept_threshold"`
	MissingFieldScore   float64 `toml:"missing_field_score"`
}

// Sink describes where canonical records are written.
type Sink struct {
	// Driver selects the sink: "file" or "rtdb".
	Driver string `toml:"driver"`
	// BaseURL is the realtime database root, e.g. https://project.firebaseio.com.
	BaseURL string `toml:"base_url"`
	// AuthToken is appended as the auth query parameter on rtdb writes.
	AuthToken      string `toml:"auth_token"`
	RequestTimeout int    `toml:"request_timeout"`
	// Dir is the file sink output directory. Defaults under data_dir.
	Dir string `toml:"dir"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Review contains interactive review behavior.
type Review struct {
	// OpenArtifact opens the exported review document in the platform
	// viewer before the interactive session starts.
	OpenArtifact bool `toml:"open_artifact"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for execlink.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Source        Source        `toml:"source"`
	Matching      Matching      `toml:"matching"`
	Sink          Sink          `toml:"sink"`
	Notifications Notifications `toml:"notifications"`
	Review        Review        `toml:"review"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/execlink/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("execlink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.ReviewDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Sink.Driver == "file" && strings.TrimSpace(c.Sink.Dir) != "" {
		if err := os.MkdirAll(c.Sink.Dir, 0o755); err != nil {
			return fmt.Errorf("create sink directory %q: %w", c.Sink.Dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
