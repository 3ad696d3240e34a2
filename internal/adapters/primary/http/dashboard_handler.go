package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
)

// DashboardHandler обслуживает JSON API дашборда: /init, /data, /queries
type DashboardHandler struct {
	service ports.DashboardService
	logger  ports.Logger
}

func NewDashboardHandler(service ports.DashboardService, logger ports.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With("handler", "DashboardAPI"),
	}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/init", h.handleInit)
	r.Get("/data", h.handleData)
	r.Get("/queries", h.handleQueries)
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *DashboardHandler) handleInit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Init(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

// handleData отдает статистику; с include_queries=true - еще и журналы запросов
func (h *DashboardHandler) handleData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !strings.EqualFold(q.Get("include_queries"), "true") {
		stats, err := h.service.Stats(r.Context())
		if err != nil {
			h.respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.respondWithJSON(w, http.StatusOK, stats)
		return
	}

	length, err := ParseLength(q.Get("length"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.StatsWithQueries(r.Context(), length)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) handleQueries(w http.ResponseWriter, r *http.Request) {
	length, err := ParseLength(r.URL.Query().Get("length"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	queries, err := h.service.Queries(r.Context(), length)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondWithJSON(w, http.StatusOK, queries)
}

// ParseLength разбирает параметр length: пусто - 50, иначе целое, зажатое в [1, 200]
func ParseLength(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultQueryLength, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: must be an integer", raw)
	}
	return domain.ClampQueryLength(n), nil
}

func (h *DashboardHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		code = http.StatusInternalServerError
		response, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		h.logger.Debug("Failed to write response", "error", err)
	}
}

func (h *DashboardHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}
