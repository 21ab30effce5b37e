package casestudy

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/olguin/portfolio/internal/analytics"
	"github.com/olguin/portfolio/internal/charts"
)

// ErrNoDashboard indicates a project without campaign figures.
var ErrNoDashboard = errors.New("casestudy: project has no dashboard")

// ChartRenderer renders chart fragments.
type ChartRenderer interface {
	Sparkline(values []float64, opts charts.SparklineOpts) (template.HTML, error)
	StackedBar(segments []charts.Segment, opts charts.StackedBarOpts) (template.HTML, error)
	Funnel(stages []charts.FunnelStage, opts charts.FunnelOpts) (template.HTML, error)
	Combo(points []charts.MonthlyPoint, hover int, opts charts.ComboOpts) (template.HTML, error)
	Gauge(score float64, opts charts.GaugeOpts) (template.HTML, error)
}

// Service answers content queries and renders the chart widgets.
type Service struct {
	catalog *Catalog
	charts  ChartRenderer
	cache   *Cache
	numbers *analytics.Formatter
}

// NewService wires the catalog with a chart renderer and fragment cache.
func NewService(catalog *Catalog, renderer ChartRenderer, cache *Cache) *Service {
	return &Service{catalog: catalog, charts: renderer, cache: cache, numbers: analytics.NewFormatter()}
}

// Projects lists every project in catalog order.
func (s *Service) Projects() []Project {
	return s.catalog.Projects
}

// Project finds a project by slug.
func (s *Service) Project(slug string) (Project, error) {
	p, ok := s.catalog.Lookup(slug)
	if !ok {
		return Project{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return p, nil
}

// Experience lists the résumé entries.
func (s *Service) Experience() []Experience {
	return s.catalog.Experience
}

// Capabilities lists the home page skill cards.
func (s *Service) Capabilities() []Capability {
	return s.catalog.Capabilities
}

// MetricsReport is the machine readable summary of a campaign.
type MetricsReport struct {
	Slug    string                 `json:"slug"`
	Totals  analytics.MetricTotals `json:"totals"`
	Derived analytics.Derived      `json:"derived"`
	Monthly []MonthlyFigure        `json:"monthly"`
}

// Metrics returns totals and derived ratios of a project dashboard.
func (s *Service) Metrics(slug string) (MetricsReport, error) {
	p, err := s.dashboardProject(slug)
	if err != nil {
		return MetricsReport{}, err
	}
	return MetricsReport{
		Slug:    p.Slug,
		Totals:  p.Dashboard.Totals,
		Derived: analytics.Derive(p.Dashboard.Totals),
		Monthly: p.Dashboard.Monthly,
	}, nil
}

// MonthlyChart renders the monthly combo chart with period hover hovered.
// Out of range hovers render the idle chart and a project without periods
// renders nothing. Fragments are cached per project, hover and content
// version.
func (s *Service) MonthlyChart(ctx context.Context, slug string, hover int) (template.HTML, error) {
	p, err := s.dashboardProject(slug)
	if err != nil {
		return "", err
	}
	if len(p.Dashboard.Monthly) == 0 {
		return "", nil
	}
	if hover < 0 || hover >= len(p.Dashboard.Monthly) {
		hover = -1
	}
	token := "none"
	if hover >= 0 {
		token = strconv.Itoa(hover)
	}

	var fragment string
	err = s.cache.FetchJSON(ctx, s.cache.BuildKey("monthly", slug, token), &fragment, func(context.Context) (interface{}, error) {
		html, err := s.charts.Combo(MonthlyPoints(p.Dashboard.Monthly), hover, charts.ComboOpts{
			Title:       "Monthly performance",
			Description: "Landing page views as bars and spend as a line, each on its own scale",
			HoverURL:    MonthlyChartPath(slug),
		})
		if err != nil {
			return nil, err
		}
		return string(html), nil
	})
	if err != nil {
		return "", fmt.Errorf("render monthly chart: %w", err)
	}
	return template.HTML(fragment), nil
}

// MonthlyChartPath is the fragment endpoint of a project's monthly chart.
func MonthlyChartPath(slug string) string {
	return "/work/" + slug + "/charts/monthly"
}

// MonthlyPoints maps campaign periods onto combo chart points.
func MonthlyPoints(monthly []MonthlyFigure) []charts.MonthlyPoint {
	points := make([]charts.MonthlyPoint, len(monthly))
	for i, m := range monthly {
		points[i] = charts.MonthlyPoint{Label: m.Month, Primary: m.LPV, Secondary: m.Spend}
	}
	return points
}

func (s *Service) dashboardProject(slug string) (Project, error) {
	p, err := s.Project(slug)
	if err != nil {
		return Project{}, err
	}
	if !p.HasDashboard() {
		return Project{}, fmt.Errorf("%w: %s", ErrNoDashboard, slug)
	}
	return p, nil
}
