package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/athebyme/pidash/internal/core/ports"
)

// SlogAdapter реализует порт ports.Logger поверх log/slog
type SlogAdapter struct {
	logger *slog.Logger
}

var _ ports.Logger = (*SlogAdapter)(nil)

// NewSlogAdapter создает логгер, пишущий в stdout
// levelStr - минимальный уровень (debug, info, warn, error), isJSON - формат вывода
func NewSlogAdapter(levelStr string, isJSON bool) *SlogAdapter {
	return NewSlogAdapterWriter(os.Stdout, levelStr, isJSON)
}

// NewSlogAdapterWriter - то же, но с произвольным приемником (файл для TUI, io.Discard в тестах)
func NewSlogAdapterWriter(w io.Writer, levelStr string, isJSON bool) *SlogAdapter {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(levelStr),
		AddSource: true,
	}

	var handler slog.Handler
	if isJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogAdapter{logger: slog.New(handler)}
}

// ParseLevel переводит строку конфига в slog.Level, неизвестное значение - info
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }

func (s *SlogAdapter) Info(msg string, args ...any) { s.logger.Info(msg, args...) }

func (s *SlogAdapter) Warn(msg string, args ...any) { s.logger.Warn(msg, args...) }

func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

func (s *SlogAdapter) With(args ...any) ports.Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}
