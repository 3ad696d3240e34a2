//go:generate mockgen -source=driving.go -destination=../../test/mocks/driving_mock.go -package=mocks
package ports

import (
	"context"

	"github.com/athebyme/pidash/internal/core/domain"
)

// DashboardService - основной входящий порт, который ядро предоставляет HTTP слою и TUI
// ошибка возвращается только при сбое вне изоляции отдельного бэкенда
type DashboardService interface {
	Init(ctx context.Context) (*domain.InitResponse, error)
	Stats(ctx context.Context) (map[string]domain.BackendResult, error)
	Queries(ctx context.Context, length int) (map[string][]domain.QueryRecord, error)
	StatsWithQueries(ctx context.Context, length int) (*domain.StatsWithQueries, error)
}
