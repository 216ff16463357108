package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cargotrack/internal/api"
	"cargotrack/internal/config"
	"cargotrack/internal/db"
	"cargotrack/internal/identity"
	"cargotrack/internal/logging"
	"cargotrack/internal/model"
	"cargotrack/internal/store"
)

func main() {
	cfg := config.Load()

	fs := flag.NewFlagSet("cargotrack", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", cfg.DatabasePath, "")
	fs.StringVar(&dbPath, "d", cfg.DatabasePath, "")

	var addr string
	fs.StringVar(&addr, "addr", cfg.Addr, "")
	fs.StringVar(&addr, "a", cfg.Addr, "")

	var logsDir string
	fs.StringVar(&logsDir, "logs", cfg.LogsDirectory, "")
	fs.StringVar(&logsDir, "l", cfg.LogsDirectory, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: cargotrack [flags]

Flags:
  -d, -db <path>          SQLite database path (default: cargotrack.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -logs <dir>         log directory (default: none, stdout only)
  -h, -help               show this help and exit

Environment (overridden by flags where both exist):
  ADDR, DATABASE_PATH, BASE_URL, LOGS_DIRECTORY,
  IDENTITY_MODE (local|remote), IDENTITY_API_URL, IDENTITY_API_KEY,
  IDENTITY_DEV_EMAIL, IDENTITY_DEV_NAME
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Open database, creating the schema on first run.
	database, err := db.Open(dbPath)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("migrating database", zap.Error(err))
	}
	logger.Info("database ready", zap.String("path", dbPath))

	// Pick the identity provider.
	svc, err := buildIdentity(cfg, database, logger)
	if err != nil {
		logger.Fatal("configuring identity provider", zap.Error(err))
	}

	// Prune expired sessions and stale auth codes hourly (local mode keeps
	// them in our own table; remote mode has nothing to prune).
	var pruner *cron.Cron
	if cfg.Identity.Mode == "local" {
		pruner = cron.New()
		pruner.AddFunc("@hourly", func() {
			n, err := store.PruneSessions(context.Background(), database)
			if err != nil {
				logger.Error("pruning sessions", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Info("pruned expired sessions", zap.Int64("count", n))
			}
		})
		pruner.Start()
		defer pruner.Stop()
	}

	handler := api.LoggingMiddleware(logger)(api.NewRouter(database, svc, logger))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", addr), zap.String("identity", cfg.Identity.Mode))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped, closing database")
}

// buildIdentity wires the configured identity provider.
func buildIdentity(cfg *config.Config, database *sql.DB, logger *zap.Logger) (identity.Service, error) {
	switch cfg.Identity.Mode {
	case "remote":
		if cfg.Identity.APIURL == "" || cfg.Identity.APIKey == "" {
			return nil, fmt.Errorf("IDENTITY_API_URL and IDENTITY_API_KEY are required in remote mode")
		}
		return &identity.Remote{
			APIURL: cfg.Identity.APIURL,
			APIKey: cfg.Identity.APIKey,
		}, nil
	case "local":
		secret, err := store.GetSigningSecret(context.Background(), database)
		if err != nil {
			return nil, err
		}
		name := cfg.Identity.DevName
		logger.Warn("using local identity provider, every login authenticates the dev user",
			zap.String("email", cfg.Identity.DevEmail))
		return &identity.Local{
			DB:      database,
			Secret:  secret,
			BaseURL: cfg.BaseURL,
			User: model.User{
				ID:    "local:" + cfg.Identity.DevEmail,
				Email: cfg.Identity.DevEmail,
				Name:  &name,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown IDENTITY_MODE %q (want local or remote)", cfg.Identity.Mode)
	}
}
