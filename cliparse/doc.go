// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

Each command binds the flags on its own flag set and resolves after
parsing:

	var cfg cliparse.Config
	cliparse.BindFlags(cmd.Flags(), &cfg)
	// after parsing
	cfg, err := cliparse.Resolve(cfg)

# Config Fields

  - Port: Server listen port (default: 8080)
  - Profile: Built-in profile name (default: indiana)
  - ProfileFile: Profile YAML file, takes precedence over Profile
  - DatasetURL: Turnout dataset path or URL (default: the profile's dataset)
  - BoundaryURL: Boundary GeoJSON path or URL (default: the profile's boundaries)
  - DatabaseURL: Database connection string (required when DataSource is db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DataSource: file or db (default: file)
  - SessionIdle: Idle time before a session is dropped (default: 30m)

# CLI Flags

	-p, --port           Server port
	--profile            Built-in profile
	--profile-file       Profile YAML file
	--dataset            Dataset path or URL
	--boundaries         Boundary GeoJSON path or URL
	-d, --database-url   Database URL
	-t, --database-type  Database type
	--source             file or db
	--session-idle       Session idle timeout

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	PROFILE       → --profile
	PROFILE_FILE  → --profile-file
	DATASET_URL   → --dataset
	BOUNDARY_URL  → --boundaries
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	DATA_SOURCE   → --source
	SESSION_IDLE  → --session-idle

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file into the environment first; variables already set are kept.

# Validation

Resolve returns an error if:

  - PORT or SESSION_IDLE cannot be parsed
  - the database type is not sqlite or postgres
  - the data source is not file or db
  - the data source is db and no database URL is given
*/
package cliparse
