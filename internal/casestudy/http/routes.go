package casestudyhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the case study endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/work", h.handleIndex)
	r.Get("/work/{slug}", h.handleProject)
	r.Get("/work/{slug}/charts/monthly", h.handleMonthlyChart)
	r.Get("/work/{slug}/metrics.json", h.handleMetrics)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/work/{slug}/export.csv", h.handleCSV)
	})
}
