// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbarwick10/VoterTurnout/cliparse"
	"github.com/dbarwick10/VoterTurnout/db"
	"github.com/dbarwick10/VoterTurnout/middleware"
	"github.com/dbarwick10/VoterTurnout/profile"
	"github.com/dbarwick10/VoterTurnout/render"
	"github.com/dbarwick10/VoterTurnout/router"
	"github.com/dbarwick10/VoterTurnout/selection"
	"github.com/dbarwick10/VoterTurnout/session"
	"github.com/dbarwick10/VoterTurnout/source"
	"github.com/dbarwick10/VoterTurnout/turnout"
)

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "turnout",
		Short: "Voter turnout choropleth service",
		Long: `Joins turnout records to region boundaries, classifies every region
into a color bucket and compares two elections side by side.

Run "turnout serve" to start the map API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(profilesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var cfg cliparse.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the map API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.Resolve(cfg)
			if err != nil {
				return err
			}

			scene, closeDB, err := loadScene(cmd.Context(), cfg)
			if err != nil {
				slog.Error("initial load failed", "error", err)
				return err
			}
			defer closeDB()

			registry := session.NewRegistry(scene)

			// Create server
			server := http.Server{
				Handler: middleware.CORS(router.NewRouter(registry)),
				Addr:    ":" + strconv.Itoa(cfg.Port),
			}

			stopPrune := make(chan struct{})
			go pruneSessions(registry, cfg.SessionIdle, stopPrune)
			defer close(stopPrune)

			// signal.Notify requires the channel to be buffered
			ctrlc := make(chan os.Signal, 1)
			signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
			go func() {
				// Wait for Ctrl-C signal
				<-ctrlc
				server.Close()
			}()

			// Start server
			slog.Info("Listening", "port", cfg.Port, "profile", scene.Profile().Name)
			err = server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				slog.Error("Server closed", "error", err)
				return err
			}
			slog.Info("Server closed", "error", err)
			return nil
		},
	}

	cliparse.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func importCmd() *cobra.Command {
	var cfg cliparse.Config

	cmd := &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Store a turnout dataset in the database under the profile's name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.Resolve(cfg)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("database URL required for import (use -d or DATABASE_URL env)")
			}

			prof, err := loadProfile(cfg)
			if err != nil {
				return err
			}

			data, err := source.Fetch(cmd.Context(), source.DefaultClient, args[0])
			if err != nil {
				return err
			}
			raws, err := turnout.DecodeRecords(data)
			if err != nil {
				return err
			}

			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := db.ImportRecords(cmd.Context(), conn, prof.Name, raws)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %q\n", n, prof.Name)
			return nil
		},
	}

	cliparse.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func compareCmd() *cobra.Command {
	var (
		cfg              cliparse.Config
		currentCategory  string
		previousCategory string
		currentPeriod    string
		previousPeriod   string
	)

	cmd := &cobra.Command{
		Use:   "compare <region>",
		Short: "Print the panel for one region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.Resolve(cfg)
			if err != nil {
				return err
			}

			scene, closeDB, err := loadScene(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			frames := render.NewFrameRenderer()
			coord := render.NewCoordinator(scene, frames)

			// periods first: a period change returns to the whole territory
			var steps []func() error
			if currentPeriod != "" {
				steps = append(steps, func() error { return coord.SelectPeriod(selection.Current, currentPeriod) })
			}
			if previousPeriod != "" {
				steps = append(steps, func() error { return coord.SelectPeriod(selection.Previous, previousPeriod) })
			}
			steps = append(steps, func() error { return coord.SelectRegion(args[0]) })
			if currentCategory != "" {
				steps = append(steps, func() error { return coord.SelectCategory(selection.Current, currentCategory) })
			}
			if previousCategory != "" {
				steps = append(steps, func() error { return coord.SelectCategory(selection.Previous, previousCategory) })
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}

			return render.NewTextRenderer(cmd.OutOrStdout()).PaintPanel(frames.Last().Panel)
		},
	}

	cliparse.BindFlags(cmd.Flags(), &cfg)
	cmd.Flags().StringVar(&currentPeriod, "current", "", "Current period (default: profile's)")
	cmd.Flags().StringVar(&previousPeriod, "previous", "", "Previous period (default: profile's)")
	cmd.Flags().StringVar(&currentCategory, "current-category", "", "Current category")
	cmd.Flags().StringVar(&previousCategory, "previous-category", "", "Previous category")
	return cmd
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range profile.Names() {
				p, err := profile.Load(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-8s %s\n", p.Name, p.Scheme, p.Description)
			}
			return nil
		},
	}
}

func loadProfile(cfg cliparse.Config) (profile.Profile, error) {
	if cfg.ProfileFile != "" {
		return profile.LoadFile(cfg.ProfileFile)
	}
	return profile.Load(cfg.Profile)
}

func openDB(cfg cliparse.Config) (*sql.DB, error) {
	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)
	return conn, nil
}

// loadScene runs the initial load: profile, records, boundaries, index.
// The returned func closes the database when records came from one.
func loadScene(ctx context.Context, cfg cliparse.Config) (*render.Scene, func(), error) {
	noop := func() {}

	prof, err := loadProfile(cfg)
	if err != nil {
		return nil, noop, err
	}

	datasetURL := cfg.DatasetURL
	if datasetURL == "" {
		datasetURL = prof.Dataset
	}
	boundaryURL := cfg.BoundaryURL
	if boundaryURL == "" {
		boundaryURL = prof.Boundaries
	}

	var records source.RecordSource = source.FileRecords{Location: datasetURL, Client: source.DefaultClient}
	closeDB := noop
	if cfg.DataSource == cliparse.SourceDB {
		conn, err := openDB(cfg)
		if err != nil {
			return nil, noop, err
		}
		closeDB = func() { conn.Close() }
		records = db.NewStore(conn, prof.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	bundle, err := source.Load(ctx, records, boundaryURL, prof.BoundaryKey, source.DefaultClient)
	if err != nil {
		closeDB()
		return nil, noop, err
	}

	idx, err := turnout.Build(bundle.Records, prof.Shape)
	if err != nil {
		closeDB()
		return nil, noop, fmt.Errorf("%w: %w", source.ErrLoad, err)
	}

	scene, err := render.NewScene(idx, bundle.Boundaries, prof)
	if err != nil {
		closeDB()
		return nil, noop, err
	}

	slog.Info("scene ready",
		"profile", prof.Name,
		"records", idx.Len(),
		"skipped", idx.Skipped(),
		"regions", len(bundle.Boundaries),
		"periods", len(idx.Periods()))
	return scene, closeDB, nil
}

// pruneSessions drops idle sessions until stop is closed
func pruneSessions(registry *session.Registry, maxIdle time.Duration, stop <-chan struct{}) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := registry.Prune(maxIdle); n > 0 {
				slog.Info("pruned idle sessions", "count", n, "live", registry.Len())
			}
		case <-stop:
			return
		}
	}
}
