package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// maxReadAttempts - чтение с кешированной сессией и не более одного повтора со свежей
const maxReadAttempts = 2

// Fetcher выполняет одно чтение с одного бэкенда
// при 401 делает ровно одну повторную аутентификацию и один повтор чтения
type Fetcher struct {
	sessions ports.SessionStore
	auth     ports.Authenticator
	client   ports.BackendClient
	logger   ports.Logger

	// одновременные логины на один и тот же бэкенд схлопываются в один вызов
	logins singleflight.Group
}

func NewFetcher(
	sessions ports.SessionStore,
	auth ports.Authenticator,
	client ports.BackendClient,
	logger ports.Logger,
) *Fetcher {
	return &Fetcher{
		sessions: sessions,
		auth:     auth,
		client:   client,
		logger:   logger.With("component", "Fetcher"),
	}
}

// Fetch никогда не возвращает ошибку: любой сбой бэкенда становится domain.Failure
func (f *Fetcher) Fetch(ctx context.Context, backend *domain.Backend, op domain.Operation) domain.BackendResult {
	log := f.logger.With("backend", backend.Name, "operation", op.String())

	session, err := f.EnsureSession(ctx, backend)
	if err != nil {
		log.Warn("Authentication failed, skipping read", "error", err)
		return domain.Failure(fmt.Errorf("%w for Pi-hole '%s': %w", domain.ErrAuthFailed, backend.Name, err))
	}

	for attempt := 1; ; attempt++ {
		payload, err := f.client.Read(ctx, backend, op, session)
		if err == nil {
			log.Debug("Read completed", "attempt", attempt)
			return domain.Success(payload)
		}

		expired := errors.Is(err, domain.ErrSessionExpired) && session.RequiresAuth()
		if !expired || attempt >= maxReadAttempts {
			log.Warn("Read failed", "attempt", attempt, "error", err)
			return domain.Failure(err)
		}

		log.Info("Session expired, re-authenticating")
		session, err = f.login(ctx, backend)
		if err != nil {
			log.Warn("Re-authentication failed", "error", err)
			return domain.Failure(fmt.Errorf("re-authentication for Pi-hole '%s': %w: %w", backend.Name, domain.ErrAuthFailed, err))
		}
	}
}

// EnsureSession возвращает сессию из хранилища, а при ее отсутствии логинится и сохраняет новую
func (f *Fetcher) EnsureSession(ctx context.Context, backend *domain.Backend) (domain.Session, error) {
	session, err := f.sessions.Get(ctx, backend.Name)
	if err != nil {
		// хранилище недоступно - считаем сессию отсутствующей
		f.logger.Warn("Session store read failed", "backend", backend.Name, "error", err)
		session = domain.Session{}
	}
	if !session.IsAbsent() {
		return session, nil
	}
	return f.login(ctx, backend)
}

func (f *Fetcher) login(ctx context.Context, backend *domain.Backend) (domain.Session, error) {
	v, err, shared := f.logins.Do(backend.Name, func() (any, error) {
		session, err := f.auth.Authenticate(ctx, backend)
		if err != nil {
			return domain.Session{}, err
		}
		if session.IsAbsent() {
			return domain.Session{}, domain.ErrMalformedAuthResponse
		}
		if err := f.sessions.Set(ctx, backend.Name, session); err != nil {
			f.logger.Warn("Failed to store session", "backend", backend.Name, "error", err)
		}
		f.logger.Info("Authenticated", "backend", backend.Name, "session", session.String())
		return session, nil
	})
	if shared {
		f.logger.Debug("Joined in-flight authentication", "backend", backend.Name)
	}
	if err != nil {
		return domain.Session{}, err
	}
	return v.(domain.Session), nil
}
