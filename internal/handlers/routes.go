package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
)

// Routes registers every endpoint on a new ServeMux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/plans", http.StatusFound)
	})
	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)

	mux.Handle("GET /api/plans", h.AuthMiddleware(http.HandlerFunc(h.ListPlans)))
	mux.Handle("POST /api/plans", h.AuthMiddleware(http.HandlerFunc(h.CreatePlan)))
	mux.Handle("DELETE /api/plans/{id}", h.AuthMiddleware(http.HandlerFunc(h.DeletePlan)))
	mux.Handle("GET /api/summary", h.AuthMiddleware(http.HandlerFunc(h.Summary)))

	return mux
}

// LogRequests attaches the server logger and a request id to every request
// and logs one access line per request at debug level.
func (h *Handlers) LogRequests(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	withID := hlog.RequestIDHandler("req_id", "X-Request-Id")
	return hlog.NewHandler(h.log)(withID(access(next)))
}
