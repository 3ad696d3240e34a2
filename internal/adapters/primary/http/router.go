package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/athebyme/pidash/internal/adapters/primary/http/middleware"
	"github.com/athebyme/pidash/internal/core/ports"
)

// NewRouter собирает обработчик всего процесса; API монтируется под basePath
func NewRouter(basePath string, service ports.DashboardService, allowedOrigins []string, logger ports.Logger) http.Handler {
	routerLogger := logger.With("adapter", "Router")

	root := chi.NewRouter()
	root.Use(chimw.RequestID)
	root.Use(chimw.RealIP)
	root.Use(middleware.RequestLogger(routerLogger))
	root.Use(middleware.Recover(routerLogger))
	root.Use(middleware.CORS(allowedOrigins))

	api := chi.NewRouter()
	NewDashboardHandler(service, logger).RegisterRoutes(api)

	if basePath == "" || basePath == "/" {
		root.Mount("/", api)
	} else {
		root.Mount(basePath, api)
	}
	return root
}
