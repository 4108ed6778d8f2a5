package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/recipe-share/backend/internal/metrics"
	"github.com/anonto42/recipe-share/backend/internal/router"
	"github.com/anonto42/recipe-share/backend/internal/services"
	"github.com/anonto42/recipe-share/backend/internal/validators"
	"github.com/anonto42/recipe-share/backend/pkg/config"
	"github.com/anonto42/recipe-share/backend/pkg/firebase"
	"github.com/anonto42/recipe-share/backend/pkg/logging"
	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cmd := &cli.Command{
		Name:  "recipe-share",
		Usage: "Recipe sharing API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "HTTP API port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "metrics-port", Usage: "Prometheus metrics port", Sources: cli.EnvVars("METRICS_PORT")},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Sources: cli.EnvVars("LOG_LEVEL")},
			&cli.StringFlag{Name: "mongo-uri", Usage: "MongoDB connection string", Sources: cli.EnvVars("MONGO_URI")},
			&cli.StringFlag{Name: "mongo-database", Usage: "MongoDB database name", Sources: cli.EnvVars("MONGO_DATABASE")},
			&cli.StringFlag{Name: "postgres-url", Usage: "PostgreSQL DSN", Sources: cli.EnvVars("POSTGRES_URL")},
			&cli.DurationFlag{Name: "token-ttl", Usage: "Lifetime of issued tokens", Sources: cli.EnvVars("TOKEN_TTL")},
			&cli.StringFlag{Name: "firebase-credentials", Usage: "Path to a Firebase service account file", Sources: cli.EnvVars("FIREBASE_CREDENTIALS_PATH")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			applyFlags(cmd, cfg)
			return run(ctx, cfg)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}
	if cmd.IsSet("metrics-port") {
		cfg.MetricsPort = cmd.String("metrics-port")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("mongo-uri") {
		cfg.MongoURI = cmd.String("mongo-uri")
	}
	if cmd.IsSet("mongo-database") {
		cfg.MongoDatabase = cmd.String("mongo-database")
	}
	if cmd.IsSet("postgres-url") {
		cfg.PostgresUrl = cmd.String("postgres-url")
	}
	if cmd.IsSet("token-ttl") {
		cfg.TokenTTL = cmd.Duration("token-ttl")
	}
	if cmd.IsSet("firebase-credentials") {
		cfg.FirebaseCredentialsPath = cmd.String("firebase-credentials")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.SetDefault(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var verifier services.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrNotConfigured):
		logger.Info("firebase login disabled")
	case err != nil:
		return fmt.Errorf("failed to initialize firebase: %w", err)
	default:
		verifier = firebaseApp.AuthClient
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v := validators.NewValidator()
	e.Validator = v

	config.SetupMiddleware(e, logger)

	if err := router.SetupRoutes(ctx, e, router.Dependencies{
		DB:         db,
		Tokens:     tokens,
		Validator:  v,
		BcryptCost: cfg.BcryptCost,
		Firebase:   verifier,
		Logger:     logger,
	}); err != nil {
		return err
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics server starting", slog.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(e.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}
