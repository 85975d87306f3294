package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Table names used under [tables].
const (
	TableQcDocs       = "qc_docs"
	TableOperationLog = "operation_log"
)

// Config represents the application configuration.
type Config struct {
	DBPath   string                 `toml:"db_path"`
	LogFile  string                 `toml:"log_file"`
	LogLevel string                 `toml:"log_level"`
	Locale   string                 `toml:"locale"`
	Operator string                 `toml:"operator"`
	UI       UISettings             `toml:"ui"`
	Tables   map[string]TableConfig `toml:"tables"`
}

// UISettings represents UI-related configuration.
type UISettings struct {
	ResetSortOnLeave bool `toml:"reset_sort_on_leave"`
	Mouse            bool `toml:"mouse"`
}

// TableConfig lists the column keys that never react to header clicks.
type TableConfig struct {
	Unsortable []string `toml:"unsortable"`
}

// Dir returns the default qcreg directory (~/.qcreg).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".qcreg"), nil
}

// Default returns the configuration used when no file exists. Paths are
// placed in dir.
func Default(dir string) *Config {
	operator := os.Getenv("USER")
	if operator == "" {
		operator = "operator"
	}
	return &Config{
		DBPath:   filepath.Join(dir, "qcreg.db"),
		LogFile:  filepath.Join(dir, "qcreg.log"),
		LogLevel: "info",
		Locale:   "en",
		Operator: operator,
		UI: UISettings{
			ResetSortOnLeave: true,
			Mouse:            true,
		},
		Tables: map[string]TableConfig{
			TableQcDocs:       {Unsortable: []string{"id"}},
			TableOperationLog: {Unsortable: []string{"id"}},
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults
// for the file's directory and is written out for the user to edit.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Tables == nil {
		cfg.Tables = make(map[string]TableConfig)
	}
	for name, table := range Default("").Tables {
		if _, ok := cfg.Tables[name]; !ok {
			cfg.Tables[name] = table
		}
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Unsortable returns the unsortable column keys configured for a table.
func (c *Config) Unsortable(table string) []string {
	return c.Tables[table].Unsortable
}
