package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/helixml/curator"
	"github.com/helixml/curator/infrastructure/api"
	"github.com/helixml/curator/internal/config"
	"github.com/helixml/curator/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DATA_DIR                     Data directory (default: ~/.curator)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/curator.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  API_KEYS                     Comma-separated list of valid API keys
  CORS_ORIGINS                 Comma-separated list of allowed origins (default: *)

  GENERATION_API_*             Remote generation API
    BASE_URL                   Base URL; unset serves generation locally
    KEY                        API key sent as a bearer token
    TIMEOUT                    Request timeout in seconds
  GENERATION_MAX_RETRIES       Retries of rate-limited calls (default: 2)
  GENERATION_INITIAL_DELAY     Delay before the first retry in seconds (default: 2)
  GENERATION_BACKOFF_FACTOR    Delay multiplier per retry (default: 2)

  TEXT_ENDPOINT_*              OpenAI-compatible text provider
    BASE_URL, MODEL, API_KEY, TIMEOUT

  REDIS_ADDR                   Redis address for cache invalidation fan-out
  REDIS_CHANNEL                Redis channel (default: curator:invalidate)
  PLATFORMS                    Platforms to draft for (default: facebook,instagram,linkedin,twitter)
  PLATFORMS_FILE               YAML file with per-platform prompts
  PROGRESS_LOG_INTERVAL        Minimum seconds between progress log lines`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	slogger := log.Configure(cfg).Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting curator", attrs...)

	client, err := curator.New(clientOptions(cfg, slogger)...)
	if err != nil {
		return fmt.Errorf("create curator client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil && !errors.Is(err, curator.ErrClientClosed) {
			slogger.Error("failed to close curator client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client,
		api.WithCORSOrigins(cfg.CORSOrigins()),
		api.WithVersion(version),
	)
	router := apiServer.Router()
	apiServer.MountRoutes()

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"curator","version":"%s"}`, version)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg.Addr(), slogger)
	server.Router().Mount("/", router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Start()
	})
	group.Go(func() error {
		if err := client.ForwardInvalidations(groupCtx); err != nil {
			slogger.Warn("invalidation forwarding stopped", slog.Any("error", err))
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		slogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
