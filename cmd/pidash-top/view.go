package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/athebyme/pidash/internal/core/domain"
)

var (
	pink  = lipgloss.Color("#ff5fd2")
	blue  = lipgloss.Color("#5fafff")
	green = lipgloss.Color("#5fd787")
	muted = lipgloss.Color("#8a8a8a")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(blue)
	columnStyle  = lipgloss.NewStyle().Bold(true).Foreground(muted)
	okStyle      = lipgloss.NewStyle().Foreground(green)
	failStyle    = lipgloss.NewStyle().Foreground(pink).Bold(true)
	blockedStyle = lipgloss.NewStyle().Foreground(pink)
	footerStyle  = lipgloss.NewStyle().Foreground(muted)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)

const recentQueryRows = 12

// summary - поля /api/stats/summary, которые показывает терминальный дашборд
type summary struct {
	Queries struct {
		Total          int64   `json:"total"`
		Blocked        int64   `json:"blocked"`
		PercentBlocked float64 `json:"percent_blocked"`
	} `json:"queries"`
	Clients struct {
		Active int64 `json:"active"`
	} `json:"clients"`
	Gravity struct {
		DomainsBeingBlocked int64 `json:"domains_being_blocked"`
	} `json:"gravity"`
}

func summarize(res domain.BackendResult) (summary, error) {
	var s summary
	if !res.OK() {
		return s, res.Err
	}
	if err := json.Unmarshal(res.Payload, &s); err != nil {
		return s, fmt.Errorf("unexpected summary payload: %w", err)
	}
	return s, nil
}

// totals складывает успешные ответы всех бэкендов
func totals(stats map[string]domain.BackendResult) summary {
	var t summary
	for _, res := range stats {
		s, err := summarize(res)
		if err != nil {
			continue
		}
		t.Queries.Total += s.Queries.Total
		t.Queries.Blocked += s.Queries.Blocked
		t.Clients.Active += s.Clients.Active
	}
	if t.Queries.Total > 0 {
		t.Queries.PercentBlocked = float64(t.Queries.Blocked) * 100 / float64(t.Queries.Total)
	}
	return t
}

func renderStats(order []string, stats map[string]domain.BackendResult) string {
	cell := func(s string, w int) string { return lipgloss.NewStyle().Width(w).Render(s) }

	var b strings.Builder
	b.WriteString(columnStyle.Render(
		cell("PI-HOLE", 18) + cell("STATUS", 10) + cell("QUERIES", 14) + cell("BLOCKED", 14) + cell("%", 8) + cell("CLIENTS", 8),
	))
	b.WriteString("\n")

	for _, name := range order {
		res, ok := stats[name]
		if !ok {
			continue
		}
		s, err := summarize(res)
		if err != nil {
			b.WriteString(cell(name, 18) + failStyle.Render(cell("DOWN", 10)) + footerStyle.Render(truncate(err.Error(), 60)))
			b.WriteString("\n")
			continue
		}
		b.WriteString(cell(name, 18) + okStyle.Render(cell("OK", 10)) +
			cell(humanize.Comma(s.Queries.Total), 14) +
			cell(humanize.Comma(s.Queries.Blocked), 14) +
			cell(strconv.FormatFloat(s.Queries.PercentBlocked, 'f', 1, 64), 8) +
			cell(humanize.Comma(s.Clients.Active), 8))
		b.WriteString("\n")
	}

	t := totals(stats)
	b.WriteString(headerStyle.Render(
		cell("TOTAL", 28) + cell(humanize.Comma(t.Queries.Total), 14) + cell(humanize.Comma(t.Queries.Blocked), 14) +
			cell(strconv.FormatFloat(t.Queries.PercentBlocked, 'f', 1, 64), 8) + cell(humanize.Comma(t.Clients.Active), 8),
	))
	return panelStyle.Render(b.String())
}

type taggedQuery struct {
	Backend string
	Record  domain.QueryRecord
	At      time.Time
}

// recentQueries сливает журналы всех бэкендов, самые свежие первыми
func recentQueries(queries map[string][]domain.QueryRecord, limit int) []taggedQuery {
	var all []taggedQuery
	for name, records := range queries {
		for _, q := range records {
			at, _ := queryTime(q.Time)
			all = append(all, taggedQuery{Backend: name, Record: q, At: at})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].At.Equal(all[j].At) {
			return all[i].At.After(all[j].At)
		}
		return all[i].Backend < all[j].Backend
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func renderQueries(queries map[string][]domain.QueryRecord) string {
	recent := recentQueries(queries, recentQueryRows)
	if len(recent) == 0 {
		return panelStyle.Render(footerStyle.Render("no recent queries"))
	}
	var b strings.Builder
	for i, q := range recent {
		stamp := "--:--:--"
		if !q.At.IsZero() {
			stamp = q.At.Local().Format("15:04:05")
		}
		line := fmt.Sprintf("%s  %-14s %s", stamp, truncate(q.Backend, 14), truncate(q.Record.Domain, 48))
		if q.Record.Blocked {
			line = blockedStyle.Render(line + "  blocked")
		}
		b.WriteString(line)
		if i < len(recent)-1 {
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}

// queryTime понимает время Pi-hole в секундах (целое или дробное, числом или строкой)
func queryTime(raw json.RawMessage) (time.Time, bool) {
	v := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if v == "" || v == "null" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*1e9)), true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
