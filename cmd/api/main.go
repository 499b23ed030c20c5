// Velolog-API is the blog mirror proxy.
//
// It pulls a velog user's posts into a local sqlite database on demand
// and serves them back out as JSON for the frontend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/njwon19/velolog/internal/api"
	"github.com/njwon19/velolog/internal/logger"
	"github.com/njwon19/velolog/internal/migrations"
	"github.com/njwon19/velolog/internal/sqlite"
	"github.com/njwon19/velolog/internal/sync"
	"github.com/njwon19/velolog/internal/velog"
)

type config struct {
	Port     int    `env:"PORT, default=8787"`
	Database string `env:"DATABASE, required"`

	// The velog account being mirrored and the secret guarding the
	// sync endpoint
	VelogUsername string `env:"VELOG_USERNAME, required"`
	SyncSecret    string `env:"SYNC_SECRET, required"`
	VelogAPI      string `env:"VELOG_API, default=https://v2.velog.io/graphql"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// A local .env is optional; real deployments set the environment
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LoggerFormat))

	// Start the application
	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	slog.Info("running", "port", cfg.Port, "database", cfg.Database, "username", cfg.VelogUsername)

	// Connect to the db
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	repo := sqlite.New(dbx)
	syncer := sync.New(velog.New(cfg.VelogAPI), repo)
	s := api.NewServer(api.ServerConfig{
		Port:       cfg.Port,
		Username:   cfg.VelogUsername,
		SyncSecret: cfg.SyncSecret,
	}, repo, syncer)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Start the server
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
