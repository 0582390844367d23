// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// DatabaseURL is the connection string for the staging destination:
	// a postgres URL, a mysql DSN, or a sqlite file path.
	DatabaseURL string

	// Driver selects the storage backend: postgres, sqlite, or mysql.
	Driver string

	// Schema qualifies staging table names on backends that support it.
	Schema string

	// DataDir is the default root for directory runs.
	DataDir string

	// Provider labels registered source files.
	Provider string

	Debug bool
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win. The database
// URL is validated lazily by RequireDSN so metadata-only invocations work
// without one.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SCHEMA", "horse_handicapping")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("PROVIDER", "equibase")
	v.SetDefault("DEBUG", false)

	return &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		Driver:      v.GetString("DB_DRIVER"),
		Schema:      v.GetString("DB_SCHEMA"),
		DataDir:     v.GetString("DATA_DIR"),
		Provider:    v.GetString("PROVIDER"),
		Debug:       v.GetBool("DEBUG"),
	}
}

// RequireDSN returns the database URL, or an error when none is configured.
// Called by commands that actually write to the destination; returning an
// error keeps the failure on the command's own error path.
func (c *Config) RequireDSN() (string, error) {
	if c.DatabaseURL == "" {
		return "", errors.New("config: DATABASE_URL must be set")
	}
	return c.DatabaseURL, nil
}

func newViper() *viper.Viper {
	// Silently load .env, fine if the file doesn't exist.
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}
