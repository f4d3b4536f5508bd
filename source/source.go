// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbarwick10/VoterTurnout/boundary"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

// ErrLoad marks a failed initial load. Nothing can render without both inputs.
var ErrLoad = errors.New("initial data load failed")

// DefaultClient is used for http(s) locations
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// RecordSource yields the raw turnout records of one dataset
type RecordSource interface {
	Records(ctx context.Context) ([]turnout.RawRecord, error)
}

// FileRecords reads a JSON dataset from a path or URL
type FileRecords struct {
	Location string
	Client   *http.Client
}

// Records fetches and decodes the dataset
func (f FileRecords) Records(ctx context.Context) ([]turnout.RawRecord, error) {
	data, err := Fetch(ctx, f.Client, f.Location)
	if err != nil {
		return nil, err
	}
	return turnout.DecodeRecords(data)
}

// Bundle is everything the map needs, loaded together
type Bundle struct {
	Records    []turnout.RawRecord
	Boundaries []boundary.Boundary
}

// Load fetches records and boundaries in parallel. Either failure fails the
// whole load; a partial bundle is never returned.
func Load(ctx context.Context, records RecordSource, boundaryLocation string, key boundary.KeySpec, client *http.Client) (Bundle, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	var b Bundle
	g.Go(func() error {
		raws, err := records.Records(ctx)
		if err != nil {
			return fmt.Errorf("turnout dataset: %w", err)
		}
		b.Records = raws
		return nil
	})
	g.Go(func() error {
		data, err := Fetch(ctx, client, boundaryLocation)
		if err != nil {
			return fmt.Errorf("boundaries: %w", err)
		}
		bs, err := boundary.Parse(data, key)
		if err != nil {
			return fmt.Errorf("boundaries: %w", err)
		}
		b.Boundaries = bs
		return nil
	})

	if err := g.Wait(); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	slog.Info("data loaded",
		"records", len(b.Records),
		"boundaries", len(b.Boundaries),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// Fetch reads a location: an http(s) URL, a file:// URL, or a path
func Fetch(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("no location given")
	}

	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return data, nil
	}

	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, location)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", location, err)
	}
	return data, nil
}
