package ports

import (
	"bytes"
	"log"
)

// stdLogWriter направляет вывод *log.Logger в ports.Logger
type stdLogWriter struct {
	lg Logger
}

func (s *stdLogWriter) Write(p []byte) (int, error) {
	// http.Server пишет строки вида "http: ...\n"
	msg := bytes.TrimSpace(p)
	msg = bytes.TrimPrefix(msg, []byte("http: "))
	if len(msg) > 0 {
		s.lg.Warn(string(msg))
	}
	return len(p), nil
}

// NewStdLogger создает *log.Logger поверх ports.Logger для http.Server.ErrorLog
func NewStdLogger(logger Logger) *log.Logger {
	return log.New(&stdLogWriter{lg: logger}, "", 0)
}
