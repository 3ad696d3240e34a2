package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/athebyme/pidash/internal/adapters/secondary/logger"
	"github.com/athebyme/pidash/internal/config"
	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
	"github.com/athebyme/pidash/internal/server"
)

type tickMsg time.Time

type refreshMsg struct {
	stats   map[string]domain.BackendResult
	queries map[string][]domain.QueryRecord
	err     error
	at      time.Time
}

type model struct {
	service     ports.DashboardService
	order       []string
	interval    time.Duration
	showQueries bool
	queryLength int

	spinner    spinner.Model
	loading    bool
	stats      map[string]domain.BackendResult
	queries    map[string][]domain.QueryRecord
	err        error
	lastUpdate time.Time
}

func newModel(service ports.DashboardService, cfg *config.Config) model {
	order := make([]string, 0, len(cfg.Piholes))
	for _, p := range cfg.EnabledPiholes() {
		order = append(order, p.Name)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = headerStyle

	return model{
		service:     service,
		order:       order,
		interval:    time.Duration(cfg.RefreshInterval) * time.Millisecond,
		showQueries: cfg.ShowQueries,
		queryLength: domain.DefaultQueryLength,
		spinner:     sp,
		loading:     true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m model) refreshCmd() tea.Cmd {
	service, showQueries, length := m.service, m.showQueries, m.queryLength
	return func() tea.Msg {
		ctx := context.Background()
		if showQueries {
			res, err := service.StatsWithQueries(ctx, length)
			if err != nil {
				return refreshMsg{err: err, at: time.Now()}
			}
			return refreshMsg{stats: res.Stats, queries: res.Queries, at: time.Now()}
		}
		stats, err := service.Stats(ctx)
		return refreshMsg{stats: stats, err: err, at: time.Now()}
	}
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.refreshCmd()
		}
	case tickMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.refreshCmd()
	case refreshMsg:
		m.loading = false
		m.err = msg.err
		m.lastUpdate = msg.at
		if msg.err == nil {
			m.stats = msg.stats
			if msg.queries != nil {
				m.queries = msg.queries
			}
		}
		return m, m.tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	header := headerStyle.Render("pidash") + footerStyle.Render(fmt.Sprintf("  %d Pi-holes", len(m.order)))
	if m.loading {
		header += "  " + m.spinner.View()
	}

	body := footerStyle.Render("waiting for first refresh...")
	if m.stats != nil {
		body = renderStats(m.order, m.stats)
		if m.showQueries {
			body += "\n" + renderQueries(m.queries)
		}
	}
	if m.err != nil {
		body += "\n" + failStyle.Render("aggregation failed: "+m.err.Error())
	}

	footer := "r refresh • q quit"
	if !m.lastUpdate.IsZero() {
		footer = "updated " + m.lastUpdate.Format("15:04:05") + " • " + footer
	}
	return header + "\n" + body + "\n" + footerStyle.Render(footer) + "\n"
}

func main() {
	configPath := flag.String("config", "./config.yml", "Path to YAML (or JSON) config file")
	logPath := flag.String("log", "", "Write logs to this file (logs are discarded when empty)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pidash-top:", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pidash-top:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.NewSlogAdapterWriter(logOut, cfg.Log.Level, cfg.Log.Format == "json")

	core, err := server.NewCore(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pidash-top:", err)
		os.Exit(1)
	}
	defer core.Close()

	if _, err := tea.NewProgram(newModel(core.Service, cfg), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "pidash-top:", err)
		os.Exit(1)
	}
}
