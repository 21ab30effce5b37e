package casestudy

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/olguin/portfolio/internal/analytics"
	"github.com/olguin/portfolio/internal/charts"
)

// DashboardView is everything the case study dashboard template needs.
type DashboardView struct {
	Slug            string
	Totals          analytics.MetricTotals
	Derived         analytics.Derived
	Tiles           []analytics.Tile
	Chips           []analytics.Chip
	Funnel          template.HTML
	ConversionLabel string
	Monthly         template.HTML
	MonthlyURL      string
	UTM             string
	UTMParams       []UTMParam
	GA4             *GA4View
}

// UTMParam is one decoded tracking parameter.
type UTMParam struct {
	Key   string
	Value string
}

// GA4View is the formatted GA4 snapshot.
type GA4View struct {
	DateRange string
	Totals    []analytics.Tile
	Channels  []GA4Row
	Mix       template.HTML
}

// GA4Row is one formatted channel row.
type GA4Row struct {
	Name              string
	Color             string
	Sessions          string
	SessionShare      string
	EngagedSessions   string
	EngagementRate    string
	AvgEngagementTime string
	EventsPerSession  string
	EventCount        string
}

// TileView is the mini dashboard of a project card. Exactly one of GA4,
// SEO and PaidSocial is set.
type TileView struct {
	Variant    string
	DateLabel  string
	Sparkline  template.HTML
	GA4        *GA4Tile
	SEO        *SEOTile
	PaidSocial *PaidSocialTile
}

// GA4Tile shows a traffic mix.
type GA4Tile struct {
	Mix    template.HTML
	Legend []ChannelShare
	Stats  []analytics.Tile
}

// SEOTile shows search health.
type SEOTile struct {
	Signal PerformanceSignal
	Vitals []VitalTile
	Gauge  template.HTML
	Score  string
}

// PaidSocialTile shows a compact funnel.
type PaidSocialTile struct {
	Steps []FunnelStepView
	Stats []analytics.Tile
}

// FunnelStepView is a funnel step with its width relative to the largest
// step, in percent.
type FunnelStepView struct {
	Label        string
	DisplayValue string
	Width        float64
}

// ProjectCard pairs a project with its rendered tile. Tile is nil for
// projects without media.
type ProjectCard struct {
	Project Project
	Tile    *TileView
}

var channelPalette = []string{
	"rgb(74, 222, 128)",
	"rgb(96, 165, 250)",
	"rgb(251, 191, 36)",
	"rgb(167, 139, 250)",
	"rgb(244, 114, 182)",
	"rgb(148, 163, 184)",
}

// Dashboard renders the case study dashboard of slug. The widgets are
// rendered concurrently.
func (s *Service) Dashboard(ctx context.Context, slug string, hover int) (DashboardView, error) {
	p, err := s.dashboardProject(slug)
	if err != nil {
		return DashboardView{}, err
	}
	d := p.Dashboard
	derived := analytics.Derive(d.Totals)
	view := DashboardView{
		Slug:       p.Slug,
		Totals:     d.Totals,
		Derived:    derived,
		Tiles:      analytics.KPITiles(s.numbers, d.Totals, derived),
		Chips:      analytics.Chips(s.numbers, derived),
		MonthlyURL: MonthlyChartPath(p.Slug),
		UTM:        d.UTM,
		UTMParams:  parseUTM(d.UTM),
	}
	stages := []charts.FunnelStage{
		{Label: "Reach", Value: d.Totals.Reach},
		{Label: "Impressions", Value: d.Totals.Impressions},
		{Label: "LP Views", Value: d.Totals.LPV},
	}
	view.ConversionLabel = charts.FunnelGeometry(stages).ConversionLabel

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		html, err := s.charts.Funnel(stages, charts.FunnelOpts{ID: p.Slug, Title: "Funnel"})
		if err != nil {
			return fmt.Errorf("render funnel: %w", err)
		}
		view.Funnel = html
		return nil
	})
	if len(d.Monthly) > 0 {
		g.Go(func() error {
			html, err := s.MonthlyChart(gctx, p.Slug, hover)
			if err != nil {
				return err
			}
			view.Monthly = html
			return nil
		})
	}
	if d.GA4 != nil {
		g.Go(func() error {
			ga4, err := s.ga4View(*d.GA4)
			if err != nil {
				return err
			}
			view.GA4 = &ga4
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}
	return view, nil
}

func (s *Service) ga4View(report GA4Report) (GA4View, error) {
	f := s.numbers
	t := report.Totals
	view := GA4View{
		DateRange: report.DateRange,
		Totals: []analytics.Tile{
			{Label: "Sessions", Value: f.Int(t.Sessions)},
			{Label: "Engaged Sessions", Value: f.Int(t.EngagedSessions)},
			{Label: "Engagement Rate", Value: f.Rate(t.EngagementRate)},
			{Label: "Avg Engagement Time", Value: t.AvgEngagementTime},
			{Label: "Events / Session", Value: f.Decimal(t.EventsPerSession, 1)},
			{Label: "Event Count", Value: f.Int(t.EventCount)},
			{Label: "Key Events", Value: f.Int(t.KeyEvents)},
		},
	}
	segments := make([]charts.Segment, len(report.Channels))
	for i, ch := range report.Channels {
		color := channelPalette[i%len(channelPalette)]
		segments[i] = charts.Segment{Name: ch.Name, Value: ch.SessionShare, Color: color}
		view.Channels = append(view.Channels, GA4Row{
			Name:              ch.Name,
			Color:             color,
			Sessions:          f.Int(ch.Sessions),
			SessionShare:      f.Rate(ch.SessionShare),
			EngagedSessions:   f.Int(ch.EngagedSessions),
			EngagementRate:    f.Rate(ch.EngagementRate),
			AvgEngagementTime: ch.AvgEngagementTime,
			EventsPerSession:  f.Decimal(ch.EventsPerSession, 1),
			EventCount:        f.Int(ch.EventCount),
		})
	}
	mix, err := s.charts.StackedBar(segments, charts.StackedBarOpts{Title: "Sessions by channel"})
	if err != nil {
		return GA4View{}, fmt.Errorf("render channel mix: %w", err)
	}
	view.Mix = mix
	return view, nil
}

// Tile renders the media tile of a project. It returns nil when the project
// has no media.
func (s *Service) Tile(p Project) (*TileView, error) {
	if p.Media == nil {
		return nil, nil
	}
	f := s.numbers
	tile := &TileView{Variant: p.Media.Variant(), DateLabel: p.Media.Label()}
	color := charts.DefaultAccent

	switch m := p.Media.(type) {
	case GA4Media:
		segments := make([]charts.Segment, len(m.ChannelMix))
		for i, share := range m.ChannelMix {
			segments[i] = charts.Segment{Name: share.Name, Value: share.Value, Color: share.Color}
		}
		mix, err := s.charts.StackedBar(segments, charts.StackedBarOpts{Title: "Channel mix"})
		if err != nil {
			return nil, fmt.Errorf("render channel mix: %w", err)
		}
		tile.GA4 = &GA4Tile{
			Mix:    mix,
			Legend: m.ChannelMix,
			Stats: []analytics.Tile{
				{Label: "Sessions", Value: f.Int(m.Stats.Sessions)},
				{Label: "Paid Social", Value: f.Percent(m.Stats.PaidSocialShare, 1)},
				{Label: "Engagement", Value: f.Percent(m.Stats.EngagementRate, 1)},
				{Label: "Avg Time", Value: m.Stats.AvgEngagedTime},
			},
		}
	case SEOMedia:
		color = charts.DefaultSecond
		seo := &SEOTile{Signal: m.Signal, Vitals: m.Vitals}
		if m.SpeedScore != nil {
			gauge, err := s.charts.Gauge(*m.SpeedScore, charts.GaugeOpts{Title: "Speed score"})
			if err != nil {
				return nil, fmt.Errorf("render speed gauge: %w", err)
			}
			seo.Gauge = gauge
			seo.Score = f.Int(*m.SpeedScore)
		}
		tile.SEO = seo
	case PaidSocialMedia:
		color = "rgb(244, 114, 182)"
		stages := make([]charts.FunnelStage, len(m.Funnel))
		for i, step := range m.Funnel {
			stages[i] = charts.FunnelStage{Label: step.Label, Value: step.Value, DisplayValue: step.DisplayValue}
		}
		widths := charts.FunnelWidths(stages)
		steps := make([]FunnelStepView, len(m.Funnel))
		for i, step := range m.Funnel {
			display := step.DisplayValue
			if display == "" {
				display = f.Int(step.Value)
			}
			steps[i] = FunnelStepView{Label: step.Label, DisplayValue: display, Width: widths[i]}
		}
		stats := []analytics.Tile{{Label: "Spend", Value: m.Stats.Spend}}
		if m.Stats.CTR != "" {
			stats = append(stats, analytics.Tile{Label: "CTR", Value: m.Stats.CTR})
		}
		if m.Stats.CPL != "" {
			stats = append(stats, analytics.Tile{Label: "CPL", Value: m.Stats.CPL})
		}
		tile.PaidSocial = &PaidSocialTile{Steps: steps, Stats: stats}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownVariant, m)
	}

	spark, err := s.charts.Sparkline(p.Media.Trend(), charts.SparklineOpts{ID: p.Slug, Title: p.Media.Label(), Color: color})
	if err != nil {
		return nil, fmt.Errorf("render sparkline: %w", err)
	}
	tile.Sparkline = spark
	return tile, nil
}

// Cards renders the tiles of every project concurrently.
func (s *Service) Cards(ctx context.Context) ([]ProjectCard, error) {
	projects := s.Projects()
	cards := make([]ProjectCard, len(projects))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range projects {
		g.Go(func() error {
			tile, err := s.Tile(p)
			if err != nil {
				return fmt.Errorf("project %s: %w", p.Slug, err)
			}
			cards[i] = ProjectCard{Project: p, Tile: tile}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

func parseUTM(raw string) []UTMParam {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil
	}
	params := make([]UTMParam, 0, len(values))
	for key, vals := range values {
		for _, v := range vals {
			params = append(params, UTMParam{Key: key, Value: v})
		}
	}
	sort.Slice(params, func(i, j int) bool {
		ri, rj := utmRank(params[i].Key), utmRank(params[j].Key)
		if ri != rj {
			return ri < rj
		}
		if params[i].Key != params[j].Key {
			return params[i].Key < params[j].Key
		}
		return params[i].Value < params[j].Value
	})
	return params
}

func utmRank(key string) int {
	switch key {
	case "utm_source":
		return 0
	case "utm_medium":
		return 1
	case "utm_campaign":
		return 2
	case "utm_content":
		return 3
	case "utm_term":
		return 4
	default:
		return 5
	}
}
