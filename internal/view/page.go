package view

import (
	"net/http"

	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/theme"
)

// Page fills the request scoped template fields: current path, theme and
// any pending flash.
func Page(r *http.Request, title string, data any) TemplateData {
	td := TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Theme:       theme.FromContext(r.Context()),
		Data:        data,
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		td.Flash = sess.PopFlash()
	}
	return td
}
