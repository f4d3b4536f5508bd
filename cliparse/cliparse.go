// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Data sources
const (
	SourceFile = "file"
	SourceDB   = "db"
)

const (
	DefaultPort        = 8080
	DefaultProfile     = "indiana"
	DefaultSessionIdle = 30 * time.Minute
)

type Config struct {
	Port         int
	Profile      string
	ProfileFile  string
	DatasetURL   string
	BoundaryURL  string
	DatabaseURL  string
	DatabaseType string
	DataSource   string
	SessionIdle  time.Duration
}

// BindFlags registers the configuration flags on fs
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVar(&cfg.Profile, "profile", "", "Built-in profile (indiana, indiana-change, national, national-change)")
	fs.StringVar(&cfg.ProfileFile, "profile-file", "", "Profile YAML file, overrides --profile")
	fs.StringVar(&cfg.DatasetURL, "dataset", "", "Turnout dataset path or URL")
	fs.StringVar(&cfg.BoundaryURL, "boundaries", "", "Boundary GeoJSON path or URL")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DataSource, "source", "", "Where records come from (file or db)")
	fs.DurationVar(&cfg.SessionIdle, "session-idle", 0, "Idle time before a session is dropped")
}

// Resolve fills unset values from the environment, then defaults, and
// validates the result
func Resolve(cfg Config) (Config, error) {
	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	envString(&cfg.Profile, "PROFILE", DefaultProfile)
	envString(&cfg.ProfileFile, "PROFILE_FILE", "")
	envString(&cfg.DatasetURL, "DATASET_URL", "")
	envString(&cfg.BoundaryURL, "BOUNDARY_URL", "")
	envString(&cfg.DatabaseURL, "DATABASE_URL", "")
	envString(&cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	envString(&cfg.DataSource, "DATA_SOURCE", SourceFile)

	if cfg.SessionIdle == 0 {
		if s := os.Getenv("SESSION_IDLE"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_IDLE env variable")
			}
			cfg.SessionIdle = d
		} else {
			cfg.SessionIdle = DefaultSessionIdle
		}
	}

	switch cfg.DatabaseType {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	switch cfg.DataSource {
	case SourceFile:
	case SourceDB:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required when source is db (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("invalid data source %q (use file or db)", cfg.DataSource)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from a .env file into the environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(filename string) error {
	err := godotenv.Load(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return nil
}

func envString(dst *string, key, fallback string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
		return
	}
	*dst = fallback
}
