// Package spanner provides Cloud Spanner client initialization and
// transaction scopes for the Spanner-backed user store.
package spanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/spanner"
)

// Config holds Spanner connection configuration.
type Config struct {
	ProjectID  string `yaml:"project_id"`
	InstanceID string `yaml:"instance_id"`
	DatabaseID string `yaml:"database_id"`
	// EmulatorHost, when set, points the client at the Spanner emulator.
	// The client library reads SPANNER_EMULATOR_HOST itself; this is for logging.
	EmulatorHost string `yaml:"emulator_host"`
	// ReadStaleness, when positive, makes list reads use bounded-stale
	// read-only transactions.
	ReadStaleness time.Duration `yaml:"read_staleness"`
}

// DSN returns the Spanner database connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s",
		c.ProjectID, c.InstanceID, c.DatabaseID)
}

// Validate reports a missing part of the database path.
func (c Config) Validate() error {
	if c.ProjectID == "" || c.InstanceID == "" || c.DatabaseID == "" {
		return fmt.Errorf("spanner: project, instance and database are required (got %q)", c.DSN())
	}
	return nil
}

// NewClient creates a new Spanner client from config.
// The caller is responsible for closing the client when done.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*spanner.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := spanner.NewClient(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create spanner client: %w", err)
	}
	if logger != nil {
		logger.Info("connected to spanner",
			slog.String("dsn", cfg.DSN()),
			slog.String("emulator_host", cfg.EmulatorHost),
		)
	}
	return client, nil
}
