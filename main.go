package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/dev-connect/internal/config"
	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/handler"
	"github.com/msomdec/dev-connect/internal/logging"
	"github.com/msomdec/dev-connect/internal/repository/mongo"
	"github.com/msomdec/dev-connect/internal/repository/sqlite"
	"github.com/msomdec/dev-connect/internal/service"
	"github.com/msomdec/dev-connect/internal/storage/minio"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logging.New("info", os.Stdout, os.Stderr)
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.LogLevel, os.Stdout, os.Stderr)

	ctx := context.Background()

	db, files, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.Database.Driver)

	limiter, err := newRateLimiter(ctx, cfg)
	if err != nil {
		slog.Error("failed to create rate limiter", "error", err)
		os.Exit(1)
	}
	defer limiter.Close()

	hasher := service.NewPasswordHasher(cfg.Bcrypt.Cost)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	imageService := service.NewImageService(files)
	github := service.NewGitHubClient(cfg.GitHub.BaseURL, cfg.GitHub.Timeout)

	authService := service.NewAuthService(db.Users(), hasher, tokens, imageService)
	profileService := service.NewProfileService(db.Profiles(), db.Users(), imageService, github)
	postService := service.NewPostService(db.Posts(), db.Users(), imageService)

	metrics := handler.NewMetrics()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, profileService, postService, imageService, limiter, db, metrics)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(metrics, handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStores opens the configured document store and the file store that
// keeps uploaded images.
func openStores(ctx context.Context, cfg *config.Config) (domain.Database, domain.FileStore, error) {
	var (
		db    domain.Database
		files domain.FileStore
	)

	switch cfg.Database.Driver {
	case config.DriverMongo:
		mdb, err := mongo.New(ctx, cfg.Database.URI, cfg.Database.Name)
		if err != nil {
			return nil, nil, err
		}
		db = mdb
	default:
		sdb, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		db = sdb
		files = sdb.FileStore()
	}

	if cfg.Storage.Driver == config.DriverMinio {
		store, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		files = store
	}

	return db, files, nil
}

// newRateLimiter shares limits through Redis when REDIS_ADDR is set and
// keeps them in process memory otherwise.
func newRateLimiter(ctx context.Context, cfg *config.Config) (service.RateLimiter, error) {
	if cfg.Redis.Addr == "" {
		return service.NewWindowTokenBucket(cfg.Limits.Auth, cfg.Limits.Window), nil
	}
	limiter, err := service.NewRedisLimiter(ctx, &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Limits.Auth, cfg.Limits.Window)
	if err != nil {
		return nil, err
	}
	slog.Info("rate limiter uses redis", "addr", cfg.Redis.Addr)
	return limiter, nil
}
