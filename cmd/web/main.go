// Velolog-Web is the reader-facing frontend.
//
// It renders the post list and detail pages from the mirror API's data;
// all filtering and pagination happens here, in memory.
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

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-retry"

	"github.com/njwon19/velolog/internal/logger"
	"github.com/njwon19/velolog/internal/web"
	"github.com/njwon19/velolog/internal/webclient"
)

type config struct {
	Port    int    `env:"PORT, default=8788"`
	APIBase string `env:"API_BASE, default=http://localhost:8787"`

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

	client := webclient.New(cfg.APIBase)

	// Wait until the API is reachable before serving pages off it
	if err := retry.Fibonacci(ctx, 1*time.Second, func(ctx context.Context) error {
		if err := client.Health(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		log.Fatalf("api never became healthy: %s", err)
	}

	s, err := web.NewServer(web.ServerConfig{Port: cfg.Port}, client)
	if err != nil {
		log.Fatalf("error building server: %s", err)
	}

	var g run.Group
	g.Add(func() error {
		slog.Info("serving", "port", cfg.Port, "api", cfg.APIBase)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}
		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt))

	if err := g.Run(); err != nil {
		var sigErr run.SignalError
		if errors.As(err, &sigErr) {
			slog.Info("shutting down", "signal", sigErr.Signal)
			return
		}
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}
