package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers loss dashboard endpoints onto the router. The
// combined dashboard fans out several queries per request, so it sits
// behind a per-IP rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/loss", h.handleLossSummary)
	r.Get("/variance-series", h.handleVarianceSeries)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/dashboard", h.handleDashboard)
	})
}
