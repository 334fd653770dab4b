package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
	"github.com/techmaxsolucoes/bkflow-dmn/internal/validation"
)

type Config struct {
	Tables []core.DecisionTable `yaml:"tables"`
	Audit  AuditConfig          `yaml:"audit"`
}

// AuditConfig holds configuration for trace recording and export.
type AuditConfig struct {
	// Enabled turns audit recording on for every evaluation.
	Enabled bool `yaml:"enabled"`

	// Type selects where finished trails go: "memory" keeps them
	// in-process only, "file" appends JSON lines to Path.
	Type string `yaml:"type"`

	// Path of the export file when Type is "file".
	Path string `yaml:"path"`
}

func (a *AuditConfig) Validate() error {
	switch a.Type {
	case "", "memory":
		// in-process only
	case "file":
		if a.Path == "" {
			return fmt.Errorf("audit type 'file' requires a path")
		}
	default:
		return fmt.Errorf("unknown audit type '%s' (expected 'memory' or 'file')", a.Type)
	}
	return nil
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation
// fails. Decision-table expression cells are compiled as part of
// validation, so a loaded Config is ready for the engine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	tables, err := validation.ValidateTables(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("validating decision tables: %w", err)
	}
	cfg.Tables = tables

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("no decision tables configured")
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("validating audit config: %w", err)
	}
	return nil
}
