// Package config loads cartctl configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"

	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Session  SessionConfig  `yaml:"session"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
}

type AppConfig struct {
	// Env selects the logger preset: "dev" logs human-readable, anything else JSON.
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	// Currency is the ISO code cart totals are displayed in.
	Currency string `yaml:"currency"`
}

type SessionConfig struct {
	ID string `yaml:"id"`
	// Storage is one of memory, file, postgres.
	Storage string `yaml:"storage"`
	// Dir holds session files when Storage is file.
	Dir string `yaml:"dir"`
}

type CatalogConfig struct {
	// Source is one of file, postgres.
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

func DefaultConfig() *Config {
	dir := ".extract-cart"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".extract-cart")
	}

	return &Config{
		App: AppConfig{
			Env:      "dev",
			LogLevel: "info",
			Currency: "USD",
		},
		Session: SessionConfig{
			ID:      "default",
			Storage: StorageFile,
			Dir:     filepath.Join(dir, "sessions"),
		},
		Catalog: CatalogConfig{
			Source: CatalogFile,
			Path:   "catalog.yaml",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	} else if data, err := os.ReadFile("cartctl.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Currency = getEnv("CART_CURRENCY", c.App.Currency)
	c.Session.ID = getEnv("CART_SESSION", c.Session.ID)
	c.Session.Storage = getEnv("CART_STORAGE", c.Session.Storage)
	c.Session.Dir = getEnv("CART_SESSION_DIR", c.Session.Dir)
	c.Catalog.Source = getEnv("CART_CATALOG", c.Catalog.Source)
	c.Catalog.Path = getEnv("CART_CATALOG_PATH", c.Catalog.Path)
	c.Database.URL = getEnv("CART_DATABASE_URL", c.Database.URL)
}

func (c *Config) Validate() error {
	if c.Session.ID == "" {
		return fmt.Errorf("session.id is required")
	}

	switch c.Session.Storage {
	case StorageMemory, StoragePostgres:
	case StorageFile:
		if c.Session.Dir == "" {
			return fmt.Errorf("session.dir is required for file storage")
		}
	default:
		return fmt.Errorf("session.storage[%s] is not one of memory, file, postgres", c.Session.Storage)
	}

	switch c.Catalog.Source {
	case CatalogFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for file catalog")
		}
	case CatalogPostgres:
	default:
		return fmt.Errorf("catalog.source[%s] is not one of file, postgres", c.Catalog.Source)
	}

	if c.NeedsDatabase() && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for postgres storage or catalog")
	}

	return nil
}

func (c *Config) NeedsDatabase() bool {
	return c.Session.Storage == StoragePostgres || c.Catalog.Source == CatalogPostgres
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
