// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dbarwick10/VoterTurnout/turnout"
)

// ErrEmptyDataset is returned when a dataset has no stored records
var ErrEmptyDataset = errors.New("dataset has no records")

// ImportRecords replaces a dataset's stored records. Records keep their
// source order through seq.
func ImportRecords(ctx context.Context, db *sql.DB, dataset string, raws []turnout.RawRecord) (int, error) {
	if dataset == "" {
		return 0, errors.New("dataset name required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM turnout_record WHERE dataset = $1`, dataset); err != nil {
		return 0, fmt.Errorf("failed to clear dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO turnout_record (dataset, seq, payload)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, raw := range raws {
		payload, err := json.Marshal(raw)
		if err != nil {
			return 0, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, dataset, i, string(payload)); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("dataset imported", "dataset", dataset, "records", len(raws))
	return len(raws), nil
}

// LoadRecords reads a dataset's records back in import order
func LoadRecords(ctx context.Context, db *sql.DB, dataset string) ([]turnout.RawRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT seq, payload FROM turnout_record
		WHERE dataset = $1
		ORDER BY seq
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var raws []turnout.RawRecord
	for rows.Next() {
		var seq int
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
		dec.UseNumber()
		var raw turnout.RawRecord
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", seq, err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyDataset, dataset)
	}
	return raws, nil
}

// Store reads one dataset from the database
type Store struct {
	db      *sql.DB
	dataset string
}

// NewStore returns a store for the named dataset
func NewStore(db *sql.DB, dataset string) *Store {
	return &Store{db: db, dataset: dataset}
}

// Records loads the dataset's records
func (s *Store) Records(ctx context.Context) ([]turnout.RawRecord, error) {
	return LoadRecords(ctx, s.db, s.dataset)
}
