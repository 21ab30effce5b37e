package site

import (
	"net/http"

	"github.com/olguin/portfolio/internal/platform/httpx"
	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/theme"
)

type themeResponse struct {
	Theme theme.Theme `json:"theme"`
}

func (h *Handler) showTheme(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, themeResponse{Theme: theme.FromContext(r.Context())})
}

// toggleTheme flips the stored theme, or sets the one named by the "theme"
// form value.
func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.handleServerError(w, "toggle theme", shared.ErrSessionMissing)
		return
	}
	next, ok := theme.Parse(r.PostFormValue("theme"))
	if !ok {
		next = theme.FromContext(r.Context()).Toggle()
	}
	theme.Store(sess, next)

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, safeReturn(r.PostFormValue("return_to")), http.StatusSeeOther)
}
