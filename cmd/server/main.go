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

	"github.com/anonto42/pixgram/backend/internal/handlers"
	"github.com/anonto42/pixgram/backend/internal/ratelimit"
	"github.com/anonto42/pixgram/backend/internal/repositories"
	"github.com/anonto42/pixgram/backend/internal/router"
	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/anonto42/pixgram/backend/pkg/config"
	"github.com/anonto42/pixgram/backend/pkg/firebase"
	"github.com/anonto42/pixgram/backend/pkg/media"
	"github.com/anonto42/pixgram/backend/pkg/validator"
	"github.com/labstack/echo/v4"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.InitLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger, db)
}

// serve wires the application on top of db and blocks until ctx is done.
// db is closed on every return path.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *config.DB) error {
	defer db.CloseDB()

	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	store, err := newObjectStore(cfg, db)
	if err != nil {
		return fmt.Errorf("initialize %s media store: %w", cfg.MediaBackend, err)
	}

	// Firebase is optional; without credentials federated login is disabled.
	var verifier handlers.IdentityVerifier
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return fmt.Errorf("initialize firebase: %w", err)
		}
		verifier = app
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.AuthRateLimitPerMinute > 0 {
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "pixgram:ratelimit", cfg.AuthRateLimitPerMinute, time.Minute)
		if err != nil {
			return fmt.Errorf("initialize rate limiter: %w", err)
		}
		defer limiter.Close()
	}

	svc := services.New(repositories.NewStore(db.Postgres), services.WithLogger(logger))

	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()
	e.Validator = validator.NewValidator()
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, router.Deps{
		Service:     svc,
		Uploader:    media.NewUploader(store, cfg.MediaMaxUploadBytes),
		Verifier:    verifier,
		AuthLimiter: limiter,
		JWTSecret:   cfg.JWTSecret,
		JWTTTL:      cfg.JWTTTL,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", "error", err)
	}
	logger.Info("server shut down")
	return nil
}

func newObjectStore(cfg *config.Config, db *config.DB) (media.ObjectStore, error) {
	switch cfg.MediaBackend {
	case config.MediaMinio:
		return media.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		if db.Mongo == nil {
			return nil, errors.New("gridfs backend needs a MongoDB connection")
		}
		return media.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase), "media"), nil
	}
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}
