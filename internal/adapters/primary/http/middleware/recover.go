package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/athebyme/pidash/internal/core/ports"
)

// Recover превращает панику обработчика в 500 {"error": ...}, как и любой другой сбой агрегации
func Recover(logger ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Handler panicked", "uri", r.RequestURI, "panic", rec)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprint(rec)}); err != nil {
					logger.Error("Failed to encode panic response", "error", err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
