package site

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the site pages onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	contactLimiter := httprate.Limit(h.opts.ContactLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.count("limited")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.showHome)
	r.Get("/resume", h.showResume)
	r.Get("/theme", h.showTheme)
	r.Post("/theme/toggle", h.toggleTheme)
	r.Get("/contact", h.showContact)
	r.With(contactLimiter).Post("/contact", h.handleContact)
	r.NotFound(h.notFound)
}
