package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/theme"
	"github.com/olguin/portfolio/web"
)

const layoutName = "layout"

// Engine renders HTML pages and fragments. Every page is parsed into its own
// template set so pages can redefine the same blocks.
type Engine struct {
	pages    map[string]*template.Template
	partials *template.Template
	siteName string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	Description string
	SiteName    string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Theme       theme.Theme
	Data        any
}

// PageTitle returns "Title | Site", or the site name alone.
func (d TemplateData) PageTitle() string {
	switch {
	case d.Title == "":
		return d.SiteName
	case d.SiteName == "":
		return d.Title
	default:
		return d.Title + " | " + d.SiteName
	}
}

// NewEngine parses the embedded templates.
func NewEngine(siteName string) (*Engine, error) {
	base, err := template.New("root").Funcs(funcMap()).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(web.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	e := &Engine{pages: make(map[string]*template.Template, len(pages)), partials: base, siteName: siteName}
	for _, file := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(web.Templates, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		e.pages["pages/"+path.Base(file)] = clone
	}
	return e, nil
}

// Render executes the layout around the named page, e.g. "pages/home.html".
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit response status.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	if data.SiteName == "" {
		data.SiteName = e.siteName
	}
	return write(w, status, tpl, layoutName, data)
}

// RenderPartial executes a single named fragment, for HTMX swaps.
func (e *Engine) RenderPartial(w http.ResponseWriter, name string, data any) error {
	return e.RenderPartialStatus(w, http.StatusOK, name, data)
}

// RenderPartialStatus is RenderPartial with an explicit response status.
func (e *Engine) RenderPartialStatus(w http.ResponseWriter, status int, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return write(w, status, e.partials, name, data)
}

func write(w http.ResponseWriter, status int, tpl *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"join": strings.Join,
		"pct": func(v float64) string {
			return fmt.Sprintf("%.2f%%", v)
		},
		// paragraphs splits free text on blank lines.
		"paragraphs": func(s string) []string {
			var out []string
			for _, block := range strings.Split(s, "\n\n") {
				if block = strings.TrimSpace(block); block != "" {
					out = append(out, block)
				}
			}
			return out
		},
		// bullets returns the "•" prefixed lines of s, or nil when s is prose.
		"bullets": func(s string) []string {
			var out []string
			for _, line := range strings.Split(s, "\n") {
				line = strings.TrimSpace(line)
				if item, ok := strings.CutPrefix(line, "•"); ok {
					out = append(out, strings.TrimSpace(item))
				}
			}
			return out
		},
		"isBullet": func(s string) bool {
			return strings.HasPrefix(strings.TrimSpace(s), "•")
		},
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
		"active": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return current == prefix || strings.HasPrefix(current, prefix+"/")
		},
	}
}
