// Package config loads the settings shared by the server and the directory
// console. Values come from defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rai/userdirectory/internal/platform/httpserver"
	"github.com/rai/userdirectory/internal/platform/spanner"
)

// Store drivers.
const (
	StoreJSONFile = "jsonfile"
	StoreMemory   = "memory"
	StoreSpanner  = "spanner"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel  string            `yaml:"log_level"`
	Server    httpserver.Config `yaml:"server"`
	Store     StoreConfig       `yaml:"store"`
	Spanner   spanner.Config    `yaml:"spanner"`
	Directory DirectoryConfig   `yaml:"directory"`
}

// StoreConfig selects where the users backend keeps its records.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path of the db.json file for the jsonfile driver.
	Path       string `yaml:"path"`
	IDStrategy string `yaml:"id_strategy"`
}

// DirectoryConfig configures the directory client.
type DirectoryConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	PageSize int           `yaml:"page_size"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server:   httpserver.DefaultConfig(),
		Store: StoreConfig{
			Driver:     StoreJSONFile,
			Path:       "db.json",
			IDStrategy: "sequence",
		},
		Spanner: spanner.Config{
			ProjectID:  "local-project",
			InstanceID: "local-instance",
			DatabaseID: "app-db",
		},
		Directory: DirectoryConfig{
			BaseURL:  fmt.Sprintf("http://localhost:%d", httpserver.DefaultPort),
			Timeout:  10 * time.Second,
			PageSize: 6,
		},
	}
}

// Load builds the configuration. path may be empty; a named file that
// does not exist is an error.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, lookup func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	var errs []error
	env := func(key, defaultValue string) string {
		return getEnv(lookup, key, defaultValue)
	}
	envInt := func(key string, defaultValue int) int {
		v := lookup(key)
		if v == "" {
			return defaultValue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return defaultValue
		}
		return n
	}
	envDuration := func(key string, defaultValue time.Duration) time.Duration {
		v := lookup(key)
		if v == "" {
			return defaultValue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return defaultValue
		}
		return d
	}

	c.LogLevel = env("USERDIR_LOG_LEVEL", c.LogLevel)

	c.Server.Host = env("USERDIR_HOST", c.Server.Host)
	c.Server.Port = envInt("PORT", c.Server.Port)
	c.Server.Port = envInt("USERDIR_PORT", c.Server.Port)
	if origins := lookup("USERDIR_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Store.Driver = env("USERDIR_STORE", c.Store.Driver)
	c.Store.Path = env("USERDIR_DB_PATH", c.Store.Path)
	c.Store.IDStrategy = env("USERDIR_ID_STRATEGY", c.Store.IDStrategy)

	c.Spanner.ProjectID = env("SPANNER_PROJECT_ID", c.Spanner.ProjectID)
	c.Spanner.InstanceID = env("SPANNER_INSTANCE_ID", c.Spanner.InstanceID)
	c.Spanner.DatabaseID = env("SPANNER_DATABASE_ID", c.Spanner.DatabaseID)
	c.Spanner.EmulatorHost = env("SPANNER_EMULATOR_HOST", c.Spanner.EmulatorHost)
	c.Spanner.ReadStaleness = envDuration("SPANNER_READ_STALENESS", c.Spanner.ReadStaleness)

	c.Directory.BaseURL = env("USERDIR_BASE_URL", c.Directory.BaseURL)
	c.Directory.Timeout = envDuration("USERDIR_TIMEOUT", c.Directory.Timeout)
	c.Directory.PageSize = envInt("USERDIR_PAGE_SIZE", c.Directory.PageSize)

	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	switch c.Store.Driver {
	case StoreJSONFile:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store path is required for the jsonfile driver"))
		}
	case StoreMemory:
	case StoreSpanner:
		if err := c.Spanner.Validate(); err != nil {
			errs = append(errs, err)
		}
		if c.Spanner.ReadStaleness < 0 {
			errs = append(errs, errors.New("spanner read staleness must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	switch c.Store.IDStrategy {
	case "", "sequence", "uuid":
	default:
		errs = append(errs, fmt.Errorf("unknown id strategy %q", c.Store.IDStrategy))
	}
	if c.Directory.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("directory page size must be positive, got %d", c.Directory.PageSize))
	}
	if c.Directory.Timeout < 0 {
		errs = append(errs, errors.New("directory timeout must not be negative"))
	}

	return errors.Join(errs...)
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger returns the JSON logger every binary uses, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(lookup func(string) string, key, defaultValue string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
