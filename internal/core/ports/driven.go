//go:generate mockgen -source=driven.go -destination=../../test/mocks/driven_mock.go -package=mocks
package ports

import (
	"context"
	"encoding/json"

	"github.com/athebyme/pidash/internal/core/domain"
)

// Logger определяет исходящий порт для логирования
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// BackendRepository отдает дескрипторы бэкендов в порядке конфигурации
type BackendRepository interface {
	GetBackends() []*domain.Backend
	GetEnabledBackends() []*domain.Backend
}

// SessionStore - единственный владелец состояния сессий
// отсутствие записи возвращается как domain.SessionAbsent без ошибки
// семантика last-write-wins: любой валидный токен взаимозаменяем
type SessionStore interface {
	Get(ctx context.Context, name string) (domain.Session, error)
	Set(ctx context.Context, name string, session domain.Session) error
}

// Authenticator выполняет логин на одном бэкенде
// в SessionStore ничего не пишет, это делает вызывающий
type Authenticator interface {
	Authenticate(ctx context.Context, backend *domain.Backend) (domain.Session, error)
}

// BackendClient выполняет одно чтение с бэкенда с переданной сессией
// на 401 возвращает ошибку, оборачивающую domain.ErrSessionExpired
type BackendClient interface {
	Read(ctx context.Context, backend *domain.Backend, op domain.Operation, session domain.Session) (json.RawMessage, error)
}
