package app

import (
	"context"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const defaultRefreshInterval = 5000

// DashboardSettings - глобальные параметры, которые клиент получает через /init
type DashboardSettings struct {
	RefreshInterval int // миллисекунды
	ShowQueries     bool
}

type dashboardService struct {
	repo       ports.BackendRepository
	aggregator *Aggregator
	settings   DashboardSettings
	logger     ports.Logger
}

func NewDashboardService(
	repo ports.BackendRepository,
	aggregator *Aggregator,
	settings DashboardSettings,
	logger ports.Logger,
) ports.DashboardService {
	if settings.RefreshInterval <= 0 {
		settings.RefreshInterval = defaultRefreshInterval
	}
	return &dashboardService{
		repo:       repo,
		aggregator: aggregator,
		settings:   settings,
		logger:     logger.With("service", "DashboardService"),
	}
}

func (s *dashboardService) Init(ctx context.Context) (*domain.InitResponse, error) {
	data, err := s.aggregator.AggregateStats(ctx)
	if err != nil {
		s.logger.Error("Init aggregation failed", "error", err)
		return nil, err
	}
	return &domain.InitResponse{Config: s.publicConfig(), Data: data}, nil
}

func (s *dashboardService) Stats(ctx context.Context) (map[string]domain.BackendResult, error) {
	data, err := s.aggregator.AggregateStats(ctx)
	if err != nil {
		s.logger.Error("Stats aggregation failed", "error", err)
	}
	return data, err
}

func (s *dashboardService) Queries(ctx context.Context, length int) (map[string][]domain.QueryRecord, error) {
	data, err := s.aggregator.AggregateQueries(ctx, length)
	if err != nil {
		s.logger.Error("Query aggregation failed", "error", err)
	}
	return data, err
}

// StatsWithQueries собирает статистику и журналы параллельно
func (s *dashboardService) StatsWithQueries(ctx context.Context, length int) (*domain.StatsWithQueries, error) {
	var (
		out domain.StatsWithQueries
		g   errgroup.Group
	)
	g.Go(func() error {
		var err error
		out.Stats, err = s.aggregator.AggregateStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Queries, err = s.aggregator.AggregateQueries(ctx, length)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Combined aggregation failed", "error", err)
		return nil, err
	}
	return &out, nil
}

// publicConfig отдает только включенные бэкенды, адрес - только при link
func (s *dashboardService) publicConfig() domain.DashboardConfig {
	enabled := s.repo.GetEnabledBackends()
	piholes := make([]domain.PublicBackend, 0, len(enabled))
	for _, b := range enabled {
		item := domain.PublicBackend{Name: b.Name, Enabled: b.Enabled, Link: b.Link}
		if b.Link && b.Address != nil {
			item.Address = b.Address.String()
		}
		piholes = append(piholes, item)
	}
	return domain.DashboardConfig{
		RefreshInterval: s.settings.RefreshInterval,
		Piholes:         piholes,
		ShowQueries:     s.settings.ShowQueries,
	}
}
