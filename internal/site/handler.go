// Package site serves the home, resume, theme and contact endpoints.
package site

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olguin/portfolio/internal/casestudy"
	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/view"
)

const requestTimeout = 2 * time.Second

// Content is the catalog contract used by the site pages.
type Content interface {
	Capabilities() []casestudy.Capability
	Experience() []casestudy.Experience
	Cards(ctx context.Context) ([]casestudy.ProjectCard, error)
}

// ContactCounter counts contact submissions by outcome.
type ContactCounter interface {
	ContactMessage(result string)
}

// Options tunes the handler.
type Options struct {
	// ContactLimit is the number of contact submissions allowed per IP per
	// minute.
	ContactLimit int
}

// Handler wires the site pages.
type Handler struct {
	logger    *slog.Logger
	content   Content
	templates *view.Engine
	csrf      *shared.CSRFManager
	enqueuer  Enqueuer
	counter   ContactCounter
	validator *validator.Validate
	opts      Options
	now       func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, content Content, templates *view.Engine, csrf *shared.CSRFManager, enqueuer Enqueuer, counter ContactCounter, opts Options) *Handler {
	if opts.ContactLimit <= 0 {
		opts.ContactLimit = 5
	}
	return &Handler{
		logger:    logger,
		content:   content,
		templates: templates,
		csrf:      csrf,
		enqueuer:  enqueuer,
		counter:   counter,
		validator: validator.New(),
		opts:      opts,
		now:       time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// HomePage is the landing page view model.
type HomePage struct {
	Capabilities []casestudy.Capability
	Featured     []casestudy.ProjectCard
}

// ResumePage is the résumé view model.
type ResumePage struct {
	Experience   []casestudy.Experience
	Capabilities []casestudy.Capability
}

func (h *Handler) showHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cards, err := h.content.Cards(ctx)
	if err != nil {
		h.handleServerError(w, "render cards", err)
		return
	}
	data := view.Page(r, "", HomePage{Capabilities: h.content.Capabilities(), Featured: cards})
	data.Description = "Performance marketing, measurement and reporting case studies."
	if err := h.templates.Render(w, "pages/home.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) showResume(w http.ResponseWriter, r *http.Request) {
	data := view.Page(r, "Resume", ResumePage{Experience: h.content.Experience(), Capabilities: h.content.Capabilities()})
	if err := h.templates.Render(w, "pages/resume.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	data := view.Page(r, "Not found", nil)
	if err := h.templates.RenderStatus(w, http.StatusNotFound, "pages/not_found.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// safeReturn keeps redirects on this site.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
