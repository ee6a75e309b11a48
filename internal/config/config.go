// Package config loads payrun settings from a TOML file, overlaying
// user-provided values on safe defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full payrun configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	Audit  AuditConfig  `toml:"audit"`
	Ledger LedgerConfig `toml:"ledger"`
}

// APIConfig configures serve mode.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// AuditConfig configures the per-run rejection journal.
type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// LedgerConfig configures engine behavior.
type LedgerConfig struct {
	// StrictClient rejects dispute/resolve/chargeback rows whose client
	// field does not match the owner of the referenced deposit. Off by
	// default: the deposit's client is authoritative.
	StrictClient bool `toml:"strict_client"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8730,
			Metrics: true,
		},
		Audit: AuditConfig{
			Enabled: false,
			DBPath:  filepath.Join(defaultHome(), "audit.db"),
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return filepath.Join(defaultHome(), "config.toml")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".payrun"
	}
	return filepath.Join(home, ".payrun")
}

// Load reads the TOML file at path on top of DefaultConfig. A missing file
// is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
