// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voter turnout map service.

The service joins per-region turnout records to region boundaries,
classifies every region into a color bucket and compares two elections
for a selected region.

# Commands

	turnout serve     - load the dataset and serve the map API
	turnout import    - store a dataset in the database under the profile's name
	turnout compare   - print the panel for one region
	turnout profiles  - list the built-in profiles

# Starting the Server

With the built-in Indiana profile and its files in the working directory:

	go run . serve

Or with flags:

	go run . serve -p 8080 --profile national --dataset data.json --boundaries states.geojson

Records can come from the database instead of a file:

	go run . import voterdata.json -d turnout.db
	go run . serve --source db -d turnout.db

# Configuration

Flags win over environment variables, which win over defaults. A .env file
in the working directory is loaded first.

  - PORT (-p): Server port (default: 8080)
  - PROFILE (--profile): Built-in profile (default: indiana)
  - PROFILE_FILE (--profile-file): Profile YAML file
  - DATASET_URL (--dataset): Turnout dataset path or URL
  - BOUNDARY_URL (--boundaries): Boundary GeoJSON path or URL
  - DATA_SOURCE (--source): file or db (default: file)
  - DATABASE_URL (-d): Database URL, required when source is db
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_IDLE (--session-idle): Idle time before a session is dropped

# Architecture

  - turnout: record normalization and the (region, period, category) index
  - classify: buckets, palettes and legends
  - compare: field-by-field comparison of two records
  - selection: the region, period and category state machine
  - boundary: GeoJSON boundaries and region ids
  - profile: dataset profiles (shape, scheme, periods)
  - source: initial load of records and boundaries
  - render: scene, coordinator and renderers
  - session: per-viewer coordinators
  - handlers, router, middleware, models: HTTP API
  - db: schema and record storage
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
