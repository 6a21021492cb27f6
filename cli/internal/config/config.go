// Package config loads CLI settings from .badger.yaml, the environment and
// .env files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/badger-go/database"
)

// AppFs is the file system configuration and SQL files are read from.
var AppFs = afero.NewOsFs()

// EnvPrefix prefixes environment overrides, e.g. BADGER_DATABASE_URL.
const EnvPrefix = "BADGER"

// Config holds the application configuration
type Config struct {
	DatabaseURL     string
	Provider        string
	Timeout         time.Duration
	MaxConnections  int
	Format          string
	Debug           bool
	RequiredVersion string

	// File is the config file that was read, empty if none.
	File string
}

// LoadConfig loads configuration from various sources. An explicit file
// must exist; otherwise .badger.yaml is searched in the working directory,
// the home directory and ~/.config/badger.
func LoadConfig(file string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".badger")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "badger"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("timeout", "30s")
	v.SetDefault("format", "table")
	v.SetDefault("debug", false)
	v.SetDefault("max_connections", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	url := v.GetString("database_url")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}

	cfg := &Config{
		DatabaseURL:     url,
		Provider:        v.GetString("provider"),
		Timeout:         v.GetDuration("timeout"),
		MaxConnections:  v.GetInt("max_connections"),
		Format:          v.GetString("format"),
		Debug:           v.GetBool("debug"),
		RequiredVersion: v.GetString("required_version"),
		File:            v.ConfigFileUsed(),
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %q", v.GetString("timeout"))
	}
	return cfg, nil
}

// loadDotEnv applies .env (without overriding the environment) and then
// .env.local (overriding it).
func loadDotEnv() error {
	for _, f := range []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	} {
		data, err := afero.ReadFile(AppFs, f.name)
		if err != nil {
			continue
		}
		vars, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		for k, val := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Database returns the adapter configuration.
func (c *Config) Database() database.Config {
	provider := c.Provider
	if provider == "" {
		provider = InferProvider(c.DatabaseURL)
	}
	return database.Config{
		Provider:       provider,
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
	}
}

// InferProvider guesses the provider from a connection string.
func InferProvider(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"), strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql"
	case strings.HasPrefix(lower, "sqlite"), strings.HasPrefix(lower, "file:"),
		strings.Contains(lower, ":memory:"),
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	default:
		return ""
	}
}
