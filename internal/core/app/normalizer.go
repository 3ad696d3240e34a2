package app

import (
	"strings"

	"github.com/athebyme/pidash/internal/core/domain"
)

// NormalizeQueries приводит записи журнала к единому виду
// берется не больше limit записей, затем отбрасываются запросы к хостам самих бэкендов
// selfHostnames должен содержать имена в нижнем регистре
func NormalizeQueries(raw []domain.RawQuery, limit int, selfHostnames map[string]struct{}) []domain.QueryRecord {
	if limit < 0 {
		limit = 0
	}
	if len(raw) > limit {
		raw = raw[:limit]
	}

	out := make([]domain.QueryRecord, 0, len(raw))
	for _, q := range raw {
		if _, self := selfHostnames[strings.ToLower(strings.TrimSpace(q.Domain))]; self {
			continue
		}
		ts := q.EventTime()
		out = append(out, domain.QueryRecord{
			ID:        q.ID,
			Domain:    q.Domain,
			Blocked:   domain.IsBlockedStatus(q.Status),
			Time:      ts,
			Timestamp: ts,
			Upstream:  q.Upstream,
		})
	}
	return out
}
