package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/athebyme/pidash/internal/core/ports"
)

// ServerOptions - таймауты HTTP сервера
// WriteTimeout должен покрывать худший случай агрегации: логин, чтение, повторный логин и повтор чтения
type ServerOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ServerAdapter управляет жизненным циклом HTTP сервера
type ServerAdapter struct {
	httpServer *http.Server
	logger     ports.Logger
	done       chan struct{}
}

func NewServerAdapter(listenAddr string, handler http.Handler, opts ServerOptions, logger ports.Logger) *ServerAdapter {
	adapterLogger := logger.With("adapter", "HTTPServer")

	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Second
	}
	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
		ErrorLog:     ports.NewStdLogger(adapterLogger.With("source", "http_server_internal")),
	}

	return &ServerAdapter{
		httpServer: srv,
		logger:     adapterLogger,
		done:       make(chan struct{}),
	}
}

// Run запускает прослушивание в отдельной горутине и не блокирует
func (s *ServerAdapter) Run() {
	s.logger.Info("HTTP server starting", "address", s.httpServer.Addr)
	go func() {
		defer close(s.done)

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", "error", err)
		} else {
			s.logger.Info("HTTP server stopped listening")
		}
	}()
}

// Done закрывается, когда сервер перестал слушать (в том числе из-за ошибки запуска)
func (s *ServerAdapter) Done() <-chan struct{} {
	return s.done
}

// Stop корректно останавливает сервер, при неудаче закрывает принудительно
func (s *ServerAdapter) Stop(ctx context.Context) {
	s.logger.Info("HTTP server graceful shutdown started")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server graceful shutdown failed", "error", err)
		if closeErr := s.httpServer.Close(); closeErr != nil {
			s.logger.Error("HTTP server forceful close failed", "error", closeErr)
		}
		return
	}
	s.logger.Info("HTTP server graceful shutdown completed")
}
