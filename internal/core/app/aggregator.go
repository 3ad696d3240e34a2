package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers - верхняя граница одновременных запросов к бэкендам
const DefaultMaxWorkers = 10

// Aggregator рассылает чтения по всем включенным бэкендам и собирает результат по имени
// сбой одного бэкенда не влияет на остальные; вызов синхронный и возвращает полный снимок
type Aggregator struct {
	repo       ports.BackendRepository
	fetcher    *Fetcher
	maxWorkers int
	logger     ports.Logger
}

func NewAggregator(repo ports.BackendRepository, fetcher *Fetcher, maxWorkers int, logger ports.Logger) *Aggregator {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Aggregator{
		repo:       repo,
		fetcher:    fetcher,
		maxWorkers: maxWorkers,
		logger:     logger.With("component", "Aggregator"),
	}
}

// AggregateStats возвращает ровно одну запись на каждый включенный бэкенд
func (a *Aggregator) AggregateStats(ctx context.Context) (map[string]domain.BackendResult, error) {
	backends, err := a.enabledBackends()
	if err != nil {
		return nil, err
	}
	log := a.logger.With("aggregation_id", uuid.NewString(), "kind", "stats")
	log.Debug("Aggregating stats", "backend_count", len(backends))

	op := domain.SummaryOperation()
	results := fanOut(ctx, a.workers(len(backends)), backends,
		func(ctx context.Context, b *domain.Backend) domain.BackendResult {
			return a.fetcher.Fetch(ctx, b, op)
		},
		func(b *domain.Backend, r any) domain.BackendResult {
			log.Error("Backend task panicked", "backend", b.Name, "panic", r)
			return domain.Failure(fmt.Errorf("internal error while fetching Pi-hole '%s'", b.Name))
		},
	)

	merged := make(map[string]domain.BackendResult, len(backends))
	failed := 0
	for i, b := range backends {
		merged[b.Name] = results[i]
		if !results[i].OK() {
			failed++
		}
	}
	log.Debug("Stats aggregated", "backend_count", len(backends), "failed", failed)
	return merged, nil
}

// AggregateQueries собирает последние запросы; limit зажимается в [1, 200]
// бэкенд, с которого не удалось прочитать журнал, получает пустой список
func (a *Aggregator) AggregateQueries(ctx context.Context, limit int) (map[string][]domain.QueryRecord, error) {
	backends, err := a.enabledBackends()
	if err != nil {
		return nil, err
	}
	op := domain.QueriesOperation(limit)
	log := a.logger.With("aggregation_id", uuid.NewString(), "kind", "queries", "length", op.Length)
	log.Debug("Aggregating queries", "backend_count", len(backends))

	// фильтрация глобальная: запрос к хосту любого бэкенда отбрасывается у всех
	selfHosts := domain.SelfHostnames(backends)

	results := fanOut(ctx, a.workers(len(backends)), backends,
		func(ctx context.Context, b *domain.Backend) []domain.QueryRecord {
			res := a.fetcher.Fetch(ctx, b, op)
			if !res.OK() {
				log.Warn("Query log unavailable", "backend", b.Name, "error", res.Err)
				return []domain.QueryRecord{}
			}
			var body domain.QueriesResponse
			if err := json.Unmarshal(res.Payload, &body); err != nil {
				log.Warn("Query log payload is not valid", "backend", b.Name, "error", err)
				return []domain.QueryRecord{}
			}
			return NormalizeQueries(body.Queries, op.Length, selfHosts)
		},
		func(b *domain.Backend, r any) []domain.QueryRecord {
			log.Error("Backend task panicked", "backend", b.Name, "panic", r)
			return []domain.QueryRecord{}
		},
	)

	merged := make(map[string][]domain.QueryRecord, len(backends))
	for i, b := range backends {
		merged[b.Name] = results[i]
	}
	return merged, nil
}

func (a *Aggregator) workers(n int) int {
	return min(n, a.maxWorkers)
}

// enabledBackends проверяет дескрипторы; ошибка здесь - сбой всей агрегации, а не одного бэкенда
func (a *Aggregator) enabledBackends() ([]*domain.Backend, error) {
	backends := a.repo.GetEnabledBackends()
	seen := make(map[string]struct{}, len(backends))
	for _, b := range backends {
		if b == nil || b.Name == "" {
			return nil, fmt.Errorf("%w: backend without name", domain.ErrInvalidBackend)
		}
		if b.Address == nil || b.Address.Host == "" {
			return nil, fmt.Errorf("%w: Pi-hole '%s' has no address", domain.ErrInvalidBackend, b.Name)
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate Pi-hole name '%s'", domain.ErrInvalidBackend, b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return backends, nil
}

// fanOut запускает fn для каждого бэкенда не более чем в limit горутинах и ждет все
// результат i-го бэкенда пишется в i-й слот, поэтому общих изменяемых данных нет
// отмена не распространяется: каждый вызов ограничен только своим сетевым таймаутом
func fanOut[T any](
	ctx context.Context,
	limit int,
	backends []*domain.Backend,
	fn func(context.Context, *domain.Backend) T,
	recovered func(*domain.Backend, any) T,
) []T {
	results := make([]T, len(backends))
	if len(backends) == 0 {
		return results
	}
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, b := range backends {
		i, b := i, b
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = recovered(b, r)
				}
			}()
			results[i] = fn(ctx, b)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
