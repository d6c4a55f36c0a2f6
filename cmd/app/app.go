package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"comicshare/internal/cache"
	"comicshare/internal/config"
	"comicshare/internal/database"
	handlers "comicshare/internal/handler"
	"comicshare/internal/middleware"
	"comicshare/internal/repository"
	"comicshare/internal/service"
	"comicshare/internal/storage"
)

// App holds every long-lived dependency of the server process.
type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *database.DB
	Store    *storage.MinIOClient
	Cache    *cache.ComicCache
	Services *service.Service
	Handlers *handlers.Handlers
	Limiter  *middleware.RateLimiter
}

// New connects to Postgres, MinIO and (when configured) Redis, applies
// migrations and wires repositories, services and handlers.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		_ = db.CloseDB()
		return nil, err
	}

	store, err := storage.NewMinIOClient(cfg, log)
	if err != nil {
		_ = db.CloseDB()
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("failed to prepare bucket: %w", err)
	}

	comicCache, err := cache.NewComicCache(ctx, cfg.Redis, log)
	if err != nil {
		// the cache is optional; run without it rather than refuse to start
		log.Warn("comic cache disabled", zap.Error(err))
		comicCache = nil
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, database.NewTxManager(db.DB), store, comicCache, cfg, log)

	return &App{
		Cfg:      cfg,
		Log:      log,
		DB:       db,
		Store:    store,
		Cache:    comicCache,
		Services: services,
		Handlers: handlers.NewHandlers(services, cfg, log),
		Limiter:  middleware.NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Migrate only connects to the database and applies migrations.
func Migrate(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	return db.RunMigrations(ctx)
}

func (a *App) Close() error {
	return errors.Join(a.Cache.Close(), a.DB.CloseDB())
}
