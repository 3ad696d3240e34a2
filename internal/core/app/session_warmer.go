package app

import (
	"context"
	"sync"
	"time"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
)

// SessionWarmer периодически логинится на бэкенды без сессии,
// чтобы первый запрос дашборда не ждал аутентификации
type SessionWarmer struct {
	repo     ports.BackendRepository
	fetcher  *Fetcher
	logger   ports.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSessionWarmer(
	repo ports.BackendRepository,
	fetcher *Fetcher,
	logger ports.Logger,
	interval time.Duration,
) *SessionWarmer {
	return &SessionWarmer{
		repo:     repo,
		fetcher:  fetcher,
		logger:   logger.With("component", "SessionWarmer"),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (sw *SessionWarmer) Start() {
	sw.logger.Info("Starting session warmer", "interval", sw.interval)
	sw.wg.Add(1)

	go func() {
		defer sw.wg.Done()
		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()

		sw.Warm(context.Background())

		for {
			select {
			case <-ticker.C:
				sw.Warm(context.Background())
			case <-sw.stopCh:
				sw.logger.Info("Session warmer stopping")
				return
			}
		}
	}()
}

// Warm логинится на все включенные бэкенды, у которых нет сессии, и ждет завершения
func (sw *SessionWarmer) Warm(ctx context.Context) {
	backends := sw.repo.GetEnabledBackends()
	sw.logger.Debug("Warming sessions", "backend_count", len(backends))

	var wg sync.WaitGroup
	for _, backend := range backends {
		wg.Add(1)
		go func(b *domain.Backend) {
			defer wg.Done()
			if _, err := sw.fetcher.EnsureSession(ctx, b); err != nil {
				sw.logger.Warn("Session warm-up failed", "backend", b.Name, "error", err)
			}
		}(backend)
	}
	wg.Wait()
}

func (sw *SessionWarmer) Stop(ctx context.Context) {
	sw.stopOnce.Do(func() { close(sw.stopCh) })

	waitCh := make(chan struct{})
	go func() {
		sw.wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		sw.logger.Info("Session warmer stopped")
	case <-ctx.Done():
		sw.logger.Warn("Timed out waiting for session warmer to stop", "error", ctx.Err())
	}
}
