package casestudyhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olguin/portfolio/internal/casestudy"
	"github.com/olguin/portfolio/internal/casestudy/export"
	"github.com/olguin/portfolio/internal/platform/httpx"
	"github.com/olguin/portfolio/internal/view"
)

const requestTimeout = 2 * time.Second

// CaseStudyService is the content contract used by the handler.
type CaseStudyService interface {
	Project(slug string) (casestudy.Project, error)
	Cards(ctx context.Context) ([]casestudy.ProjectCard, error)
	Tile(p casestudy.Project) (*casestudy.TileView, error)
	Dashboard(ctx context.Context, slug string, hover int) (casestudy.DashboardView, error)
	MonthlyChart(ctx context.Context, slug string, hover int) (template.HTML, error)
	Metrics(slug string) (casestudy.MetricsReport, error)
}

// WorkPage is the project index view model.
type WorkPage struct {
	Cards []casestudy.ProjectCard
}

// ProjectPage is the case study detail view model. Dashboard is nil for
// projects without campaign figures.
type ProjectPage struct {
	Project   casestudy.Project
	Tile      *casestudy.TileView
	Dashboard *casestudy.DashboardView
}

// Handler serves the case study pages and their fragments.
type Handler struct {
	logger    *slog.Logger
	service   CaseStudyService
	templates *view.Engine
	csvPool   sync.Pool
}

// NewHandler constructs the case study HTTP handler.
func NewHandler(logger *slog.Logger, service CaseStudyService, templates *view.Engine) *Handler {
	h := &Handler{logger: logger, service: service, templates: templates}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cards, err := h.service.Cards(ctx)
	if err != nil {
		h.handleServerError(w, "render cards", err)
		return
	}
	data := view.Page(r, "Work", WorkPage{Cards: cards})
	data.Description = "Case studies in paid social, SEO and measurement."
	if err := h.templates.Render(w, "pages/work.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, err := h.service.Project(slug)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page := ProjectPage{Project: project}
	if page.Tile, err = h.service.Tile(project); err != nil {
		h.handleServerError(w, "render tile", err)
		return
	}
	if project.HasDashboard() {
		dashboard, err := h.service.Dashboard(ctx, slug, parseHover(r))
		if err != nil {
			h.handleServerError(w, "render dashboard", err)
			return
		}
		page.Dashboard = &dashboard
	}

	data := view.Page(r, project.Title, page)
	data.Description = project.Description
	if err := h.templates.Render(w, "pages/project.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

// handleMonthlyChart answers the hover fragment requests of the combo chart.
func (h *Handler) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	fragment, err := h.service.MonthlyChart(ctx, chi.URLParam(r, "slug"), parseHover(r))
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(fragment)); err != nil {
		h.logError("stream chart", err)
	}
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Metrics(chi.URLParam(r, "slug"))
	if err != nil {
		h.respondProblem(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	report, err := h.service.Metrics(slug)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}
	project, err := h.service.Project(slug)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteTotalsCSV(buf, report.Slug, report.Totals); err != nil {
		h.handleServerError(w, "write totals csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteDerivedCSV(buf, report.Derived); err != nil {
		h.handleServerError(w, "write derived csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteMonthlyCSV(buf, report.Monthly); err != nil {
		h.handleServerError(w, "write monthly csv", err)
		return
	}
	if ga4 := project.Dashboard.GA4; ga4 != nil {
		buf.WriteString("\n")
		if err := export.WriteChannelsCSV(buf, ga4.Channels); err != nil {
			h.handleServerError(w, "write channels csv", err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s-metrics.csv\"", report.Slug))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

// parseHover reads the hovered period index. Anything that is not a
// non-negative integer means no hover.
func parseHover(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("hover"))
	if raw == "" {
		return -1
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return -1
	}
	return i
}

func (h *Handler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, casestudy.ErrNotFound) || errors.Is(err, casestudy.ErrNoDashboard) {
		data := view.Page(r, "Not found", "That case study does not exist.")
		if rerr := h.templates.RenderStatus(w, http.StatusNotFound, "pages/not_found.html", data); rerr != nil {
			h.logError("render not found", rerr)
		}
		return
	}
	h.handleServerError(w, "lookup project", err)
}

func (h *Handler) respondProblem(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, casestudy.ErrNotFound), errors.Is(err, casestudy.ErrNoDashboard):
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrNotFound, err))
	default:
		h.logError("load metrics", err)
		httpx.RespondError(w, err)
	}
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
