package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	httpadapter "github.com/athebyme/pidash/internal/adapters/primary/http"
	"github.com/athebyme/pidash/internal/adapters/secondary/pihole"
	"github.com/athebyme/pidash/internal/adapters/secondary/repository"
	"github.com/athebyme/pidash/internal/adapters/secondary/session"
	"github.com/athebyme/pidash/internal/config"
	"github.com/athebyme/pidash/internal/core/app"
	"github.com/athebyme/pidash/internal/core/ports"
)

const shutdownTimeout = 10 * time.Second

// Core - собранное ядро без HTTP слоя, его же использует терминальный дашборд
type Core struct {
	Registry   *repository.MemoryRegistry
	Sessions   ports.SessionStore
	Fetcher    *app.Fetcher
	Aggregator *app.Aggregator
	Service    ports.DashboardService

	closeFn func() error
}

// NewCore связывает реестр, хранилище сессий, клиента Pi-hole и сервисы ядра
func NewCore(cfg *config.Config, logger ports.Logger) (*Core, error) {
	registry, err := repository.NewMemoryRegistry(cfg.Piholes, logger)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать реестр бэкендов: %w", err)
	}

	var (
		sessions ports.SessionStore
		closeFn  = func() error { return nil }
	)
	switch cfg.Sessions.Store {
	case config.SessionStoreRedis:
		store, err := session.NewRedisStore(session.RedisOptions{
			Addr:      cfg.Sessions.Redis.Addr,
			Password:  cfg.Sessions.Redis.Password,
			DB:        cfg.Sessions.Redis.DB,
			KeyPrefix: cfg.Sessions.Redis.KeyPrefix,
			TTL:       cfg.Sessions.Redis.TTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		sessions, closeFn = store, store.Close
	default:
		sessions = session.NewMemoryStore(logger)
	}

	client := pihole.NewClient(cfg.HTTP.Timeout, logger)
	fetcher := app.NewFetcher(sessions, client, client, logger)
	aggregator := app.NewAggregator(registry, fetcher, cfg.HTTP.MaxWorkers, logger)
	service := app.NewDashboardService(registry, aggregator, app.DashboardSettings{
		RefreshInterval: cfg.RefreshInterval,
		ShowQueries:     cfg.ShowQueries,
	}, logger)

	return &Core{
		Registry:   registry,
		Sessions:   sessions,
		Fetcher:    fetcher,
		Aggregator: aggregator,
		Service:    service,
		closeFn:    closeFn,
	}, nil
}

func (c *Core) Close() error {
	return c.closeFn()
}

// App - HTTP сервер дашборда вместе с фоновыми компонентами
type App struct {
	core        *Core
	httpAdapter *httpadapter.ServerAdapter
	warmer      *app.SessionWarmer
	logger      ports.Logger
}

func New(cfg *config.Config, logger ports.Logger) (*App, error) {
	core, err := NewCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	router := httpadapter.NewRouter(cfg.BasePath, core.Service, cfg.CORS.AllowedOrigins, logger)
	httpAdapter := httpadapter.NewServerAdapter(cfg.ListenAddress, router, httpadapter.ServerOptions{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, logger)

	var warmer *app.SessionWarmer
	if cfg.Sessions.WarmInterval > 0 {
		warmer = app.NewSessionWarmer(core.Registry, core.Fetcher, logger, cfg.Sessions.WarmInterval)
	}

	return &App{
		core:        core,
		httpAdapter: httpAdapter,
		warmer:      warmer,
		logger:      logger.With("component", "App"),
	}, nil
}

// Run блокирует до отмены ctx (сигнал) или остановки сервера, затем корректно все останавливает
func (a *App) Run(ctx context.Context) {
	if a.warmer != nil {
		a.warmer.Start()
	}
	a.httpAdapter.Run()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown requested")
	case <-a.httpAdapter.Done():
		a.logger.Warn("HTTP server exited, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	if a.warmer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			warmerCtx, warmerCancel := context.WithTimeout(shutdownCtx, 4*time.Second)
			defer warmerCancel()
			a.warmer.Stop(warmerCtx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		serverCtx, serverCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		defer serverCancel()
		a.httpAdapter.Stop(serverCtx)
	}()

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		a.logger.Info("All components shut down gracefully")
	case <-shutdownCtx.Done():
		a.logger.Error("Shutdown timed out", "error", shutdownCtx.Err())
	}

	if err := a.core.Close(); err != nil {
		a.logger.Warn("Failed to close session store", "error", err)
	}
}
