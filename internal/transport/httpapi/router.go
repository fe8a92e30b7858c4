package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/ports"
)

// NewRouter mounts the issue resource and the health probe. health may be nil.
func NewRouter(svc IssueService, health ports.HealthChecker, logger *slog.Logger) http.Handler {
	h := &issueHandler{svc: svc, health: health}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, messageNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, messageMethodNotAllow)
	})

	r.Get("/healthz", h.healthz)
	r.Route("/api/issues/{project}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/", h.update)
		r.Delete("/", h.remove)
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := r.Context()
			if logger != nil {
				ctx = logging.WithLogger(ctx, logger)
			}
			ctx = logging.WithAttrs(ctx,
				slog.String("component", "httpapi"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logging.Info(ctx, "request completed",
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
