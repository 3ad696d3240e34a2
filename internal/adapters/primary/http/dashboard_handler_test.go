package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/athebyme/pidash/internal/adapters/primary/http"
	"github.com/athebyme/pidash/internal/adapters/secondary/logger"
	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/test/mocks"
	"github.com/golang/mock/gomock"
)

func newTestRouter(t *testing.T, basePath string, origins []string) (http.Handler, *mocks.MockDashboardService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockDashboardService(ctrl)
	log := logger.NewSlogAdapterWriter(io.Discard, "error", false)
	return httpadapter.NewRouter(basePath, service, origins, log), service
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHandler_Init(t *testing.T) {
	router, service := newTestRouter(t, "/", []string{"*"})
	service.EXPECT().Init(gomock.Any()).Return(&domain.InitResponse{
		Config: domain.DashboardConfig{RefreshInterval: 5000, Piholes: []domain.PublicBackend{{Name: "pi", Enabled: true}}},
		Data: map[string]domain.BackendResult{
			"pi": domain.Success(json.RawMessage(`{"queries":{"total":1}}`)),
		},
	}, nil)

	rec := serve(router, http.MethodGet, "/init", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	want := `{"config":{"refresh_interval":5000,"piholes":[{"name":"pi","enabled":true,"link":false}],"show_queries":false},"data":{"pi":{"queries":{"total":1}}}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("unexpected body:\n got %s\nwant %s", got, want)
	}
}

func TestHandler_Data(t *testing.T) {
	router, service := newTestRouter(t, "/", nil)
	service.EXPECT().Stats(gomock.Any()).Return(map[string]domain.BackendResult{
		"pi":  domain.Success(json.RawMessage(`{}`)),
		"bad": domain.Failure(errors.New("Authentication failed for Pi-hole 'bad'")),
	}, nil)

	rec := serve(router, http.MethodGet, "/data", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if bad, _ := body["bad"].(map[string]any); bad["error"] != "Authentication failed for Pi-hole 'bad'" {
		t.Errorf("expected per-backend error entry, got %v", body["bad"])
	}
}

func TestHandler_DataWithQueries(t *testing.T) {
	router, service := newTestRouter(t, "/", nil)
	service.EXPECT().StatsWithQueries(gomock.Any(), 20).Return(&domain.StatsWithQueries{
		Stats:   map[string]domain.BackendResult{"pi": domain.Success(json.RawMessage(`{}`))},
		Queries: map[string][]domain.QueryRecord{"pi": {}},
	}, nil)

	rec := serve(router, http.MethodGet, "/data?include_queries=true&length=20", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["stats"]; !ok {
		t.Error("expected stats key")
	}
	if _, ok := body["queries"]; !ok {
		t.Error("expected queries key")
	}
}

func TestHandler_QueriesLength(t *testing.T) {
	tests := []struct {
		target string
		length int
	}{
		{target: "/queries", length: 50},
		{target: "/queries?length=10", length: 10},
		{target: "/queries?length=1000", length: 200},
		{target: "/queries?length=0", length: 1},
		{target: "/queries?length=-3", length: 1},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			router, service := newTestRouter(t, "/", nil)
			service.EXPECT().Queries(gomock.Any(), tt.length).Return(map[string][]domain.QueryRecord{"pi": {}}, nil)

			rec := serve(router, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != `{"pi":[]}` {
				t.Errorf("unexpected body %s", got)
			}
		})
	}
}

func TestHandler_BadLength(t *testing.T) {
	for _, target := range []string{"/queries?length=abc", "/data?include_queries=true&length=1.5"} {
		t.Run(target, func(t *testing.T) {
			router, _ := newTestRouter(t, "/", nil)

			rec := serve(router, http.MethodGet, target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] == nil {
				t.Error("expected error message")
			}
		})
	}
}

func TestHandler_ServiceFailure(t *testing.T) {
	router, service := newTestRouter(t, "/", nil)
	service.EXPECT().Stats(gomock.Any()).Return(nil, domain.ErrInvalidBackend)

	rec := serve(router, http.MethodGet, "/data", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != domain.ErrInvalidBackend.Error() {
		t.Errorf("unexpected error body %v", body)
	}
}

func TestHandler_PanicBecomes500(t *testing.T) {
	router, service := newTestRouter(t, "/", nil)
	service.EXPECT().Init(gomock.Any()).DoAndReturn(func(context.Context) (*domain.InitResponse, error) {
		panic("unexpected")
	})

	rec := serve(router, http.MethodGet, "/init", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "unexpected" {
		t.Errorf("unexpected error body %v", body)
	}
}

func TestHandler_Favicon(t *testing.T) {
	router, _ := newTestRouter(t, "/", nil)
	if rec := serve(router, http.MethodGet, "/favicon.ico", nil); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_BasePath(t *testing.T) {
	router, service := newTestRouter(t, "/pihole", nil)
	service.EXPECT().Queries(gomock.Any(), 50).Return(map[string][]domain.QueryRecord{}, nil)

	if rec := serve(router, http.MethodGet, "/pihole/queries", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 under base path, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/queries", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 outside base path, got %d", rec.Code)
	}
}

func TestHandler_CORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		router, service := newTestRouter(t, "/", []string{"*"})
		service.EXPECT().Queries(gomock.Any(), 50).Return(map[string][]domain.QueryRecord{}, nil)

		rec := serve(router, http.MethodGet, "/queries", http.Header{"Origin": {"http://ui.example"}})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
	})

	t.Run("allow list", func(t *testing.T) {
		router, _ := newTestRouter(t, "/", []string{"https://ok.example"})

		rec := serve(router, http.MethodOptions, "/queries", http.Header{
			"Origin":                        {"https://ok.example"},
			"Access-Control-Request-Method": {"GET"},
		})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for preflight, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ok.example" {
			t.Errorf("expected echoed origin, got %q", got)
		}

		rec = serve(router, http.MethodOptions, "/queries", http.Header{
			"Origin":                        {"https://evil.example"},
			"Access-Control-Request-Method": {"GET"},
		})
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("unexpected allow origin %q", got)
		}
	})
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: 50},
		{in: " 7 ", want: 7},
		{in: "201", want: 200},
		{in: "x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := httpadapter.ParseLength(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLength(%q) = %d, %v", tt.in, got, err)
		}
	}
}
