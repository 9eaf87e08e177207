package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/sm8ta/bike_inventory_service/internal/adapter/handler/http"
	"github.com/sm8ta/bike_inventory_service/internal/adapter/logger"
	"github.com/sm8ta/bike_inventory_service/internal/adapter/memory"
	"github.com/sm8ta/bike_inventory_service/internal/adapter/postgres"
	"github.com/sm8ta/bike_inventory_service/internal/adapter/prometheus"
	"github.com/sm8ta/bike_inventory_service/internal/config"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
	"github.com/sm8ta/bike_inventory_service/internal/core/services"
)

type App struct {
	Config     *config.Container
	Logger     ports.LoggerPort
	DB         *sql.DB
	Repository ports.BicycleRepository
	HTTPRouter *http.Router
	server     *nethttp.Server
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env, cfg.App.LogLevel)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":     cfg.App.Name,
		"env":     cfg.App.Env,
		"storage": cfg.DB.Storage,
	})

	// Storage
	db, repo, err := openRepository(ctx, cfg.DB, loggerAdapter)
	if err != nil {
		return nil, err
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Services
	bicycleService := services.NewBicycleService(repo, loggerAdapter, metrics, services.NewValidator())

	// HTTP Handlers
	var tokenService ports.TokenService
	if cfg.Token.Secret != "" {
		tokenService = http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	} else {
		loggerAdapter.Warn("TOKEN_SECRET is empty, write routes are not authenticated", nil)
	}
	bicycleHandler := http.NewBicycleHandler(bicycleService, loggerAdapter, metrics)

	// Init HTTP router
	router, err := http.NewRouter(cfg.HTTP, loggerAdapter, tokenService, bicycleHandler)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:     cfg,
		Logger:     loggerAdapter,
		DB:         db,
		Repository: repo,
		HTTPRouter: router,
		server: &nethttp.Server{
			Addr:              cfg.HTTP.Addr(),
			Handler:           router.Engine(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func openRepository(ctx context.Context, cfg *config.DB, log ports.LoggerPort) (*sql.DB, ports.BicycleRepository, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("Using in-memory storage, data is lost on restart", nil)
		return nil, memory.NewBicycleRepository(), nil
	}

	// Connect DB
	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Migrate DB
	if err := postgres.Migrate(db, cfg.MigrationsDir); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info("Connected to database", map[string]interface{}{
		"max_open_conns": cfg.MaxOpenConns,
		"max_idle_conns": cfg.MaxIdleConns,
	})
	return db, postgres.NewBicycleRepository(db, postgres.WithAcquireTimeout(cfg.AcquireTimeout)), nil
}

// Run serves HTTP until Stop is called.
func (a *App) Run() error {
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": a.server.Addr,
	})

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stop drains in-flight requests, then releases the store.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	var stopErr error
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		stopErr = err
	}

	// Close repository
	if err := a.Repository.Close(); err != nil {
		a.Logger.Error("Repository close error", map[string]interface{}{
			"error": err.Error(),
		})
		stopErr = errors.Join(stopErr, err)
	}

	a.Logger.Info("Application stopped", nil)
	return stopErr
}
