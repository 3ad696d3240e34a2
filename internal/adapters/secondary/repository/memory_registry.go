package repository

import (
	"fmt"

	"github.com/athebyme/pidash/internal/config"
	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
)

// MemoryRegistry реализует ports.BackendRepository
// набор бэкендов фиксируется при создании и не меняется, поэтому блокировки не нужны
type MemoryRegistry struct {
	backends []*domain.Backend
	enabled  []*domain.Backend
	logger   ports.Logger
}

var _ ports.BackendRepository = (*MemoryRegistry)(nil)

// NewMemoryRegistry строит реестр из конфигурации, сохраняя порядок
func NewMemoryRegistry(piholes []config.PiholeConfig, logger ports.Logger) (*MemoryRegistry, error) {
	registryLogger := logger.With("adapter", "MemoryRegistry")

	if len(piholes) == 0 {
		return nil, fmt.Errorf("список бэкендов пуст")
	}

	seen := make(map[string]bool, len(piholes))
	backends := make([]*domain.Backend, 0, len(piholes))
	enabled := make([]*domain.Backend, 0, len(piholes))
	for _, p := range piholes {
		if seen[p.Name] {
			return nil, fmt.Errorf("дублирующееся имя бэкенда: %s", p.Name)
		}
		seen[p.Name] = true

		addr, err := config.ParseAddress(p.Address)
		if err != nil {
			return nil, fmt.Errorf("бэкенд %s: %w", p.Name, err)
		}
		b := &domain.Backend{
			Name:     p.Name,
			Address:  addr,
			Password: p.Password,
			Enabled:  p.IsEnabled(),
			Link:     p.Link,
		}
		backends = append(backends, b)
		if b.Enabled {
			enabled = append(enabled, b)
		}
		registryLogger.Debug("Backend registered", "name", b.Name, "host", b.Hostname(), "enabled", b.Enabled)
	}

	registryLogger.Info("Backend registry initialized", "backend_count", len(backends), "enabled_count", len(enabled))
	return &MemoryRegistry{
		backends: backends,
		enabled:  enabled,
		logger:   registryLogger,
	}, nil
}

// GetBackends возвращает копию списка, чтобы вызывающий не мог его переупорядочить
func (r *MemoryRegistry) GetBackends() []*domain.Backend {
	return append([]*domain.Backend(nil), r.backends...)
}

func (r *MemoryRegistry) GetEnabledBackends() []*domain.Backend {
	return append([]*domain.Backend(nil), r.enabled...)
}
