package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"plantdoc/internal/logging"
)

// ConfigFilename is the name of the YAML file inside the home directory.
const ConfigFilename = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`

	HTTP *http.Client `yaml:"-"` // optional; defaults to a client with the request timeout
}

// ServiceConfig points the client at a Diagnosis Service.
type ServiceConfig struct {
	BaseURL        string `yaml:"base_url"` // e.g. http://127.0.0.1:8080
	Token          string `yaml:"token"`    // bearer token; overrides stored credentials
	SubmitTimeout  string `yaml:"submit_timeout"`
	RequestTimeout string `yaml:"request_timeout"`
}

// ClientConfig configures local state and batch behaviour.
type ClientConfig struct {
	Home          string `yaml:"home"` // state directory, e.g. $HOME/.plantdoc
	MaxImageBytes int64  `yaml:"max_image_bytes"`
	Parallel      int    `yaml:"parallel"`
	CacheMaxAge   string `yaml:"cache_max_age"` // empty keeps entries until invalidated
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// ServerConfig configures the development Diagnosis Service.
type ServerConfig struct {
	Listen       string `yaml:"listen"`
	MonthlyLimit int    `yaml:"monthly_limit"`
	TrialDays    int    `yaml:"trial_days"`
	RecentLimit  int    `yaml:"recent_limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:        "http://127.0.0.1:8080",
			SubmitTimeout:  "60s",
			RequestTimeout: "30s",
		},
		Client: ClientConfig{
			Home:          DefaultHome(),
			MaxImageBytes: 10 << 20,
			Parallel:      2,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Server: ServerConfig{
			Listen:       ":8080",
			MonthlyLimit: 5,
			TrialDays:    7,
			RecentLimit:  5,
		},
	}
}

// DefaultHome returns $HOME/.plantdoc, or .plantdoc when no home directory
// is known.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".plantdoc"
	}
	return filepath.Join(home, ".plantdoc")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. A .env file next to the config is loaded into the environment
// first, then PLANTDOC_* variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PLANTDOC_SERVICE_URL"); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv("PLANTDOC_TOKEN"); v != "" {
		c.Service.Token = v
	}
	if v := os.Getenv("PLANTDOC_HOME"); v != "" {
		c.Client.Home = v
	}
	if v := os.Getenv("PLANTDOC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PLANTDOC_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("PLANTDOC_MONTHLY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.MonthlyLimit = n
		}
	}
}

// GetSubmitTimeout returns the per-submission timeout as a duration.
func (c *Config) GetSubmitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Service.SubmitTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetRequestTimeout returns the timeout for non-upload requests.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Service.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheMaxAge returns how long history entries stay fresh. Zero means
// until invalidated.
func (c *Config) GetCacheMaxAge() time.Duration {
	d, err := time.ParseDuration(c.Client.CacheMaxAge)
	if err != nil {
		return 0
	}
	return d
}

// LoggingOptions converts the logging section for the logging package.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, Format: c.Logging.Format, File: c.Logging.File}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service base URL not configured (set service.base_url or PLANTDOC_SERVICE_URL)")
	}
	if c.Client.Home == "" {
		return fmt.Errorf("client home not configured (set client.home or PLANTDOC_HOME)")
	}
	if c.Client.Parallel < 1 {
		return fmt.Errorf("client.parallel must be at least 1, got %d", c.Client.Parallel)
	}
	return nil
}
