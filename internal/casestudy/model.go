package casestudy

import (
	"errors"

	"github.com/olguin/portfolio/internal/analytics"
)

// ErrNotFound indicates an unknown project slug.
var ErrNotFound = errors.New("casestudy: project not found")

// Project is one case study.
type Project struct {
	Slug        string   `yaml:"slug" json:"slug" validate:"required,slug"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Subtitle    string   `yaml:"subtitle" json:"subtitle"`
	MediaType   string   `yaml:"media_type" json:"media_type" validate:"omitempty,oneof=meta seo reporting"`
	Description string   `yaml:"description" json:"description" validate:"required"`
	Tags        []string `yaml:"tags" json:"tags"`
	HeroImage   string   `yaml:"hero_image" json:"hero_image" validate:"omitempty,url"`

	Eyebrow     string `yaml:"eyebrow" json:"eyebrow,omitempty"`
	Timeframe   string `yaml:"timeframe" json:"timeframe,omitempty"`
	Objective   string `yaml:"objective" json:"objective,omitempty"`
	Destination string `yaml:"destination" json:"destination,omitempty"`
	Channels    string `yaml:"channels" json:"channels,omitempty"`
	Tools       string `yaml:"tools" json:"tools,omitempty"`

	Challenge string `yaml:"challenge" json:"challenge"`
	Solution  string `yaml:"solution" json:"solution"`
	Result    string `yaml:"result" json:"result"`

	Problem   string `yaml:"problem" json:"problem,omitempty"`
	Approach  string `yaml:"approach" json:"approach,omitempty"`
	Reporting string `yaml:"reporting" json:"reporting,omitempty"`
	Execution string `yaml:"execution" json:"execution,omitempty"`
	Results   string `yaml:"results" json:"results,omitempty"`
	NextSteps string `yaml:"next_steps" json:"next_steps,omitempty"`

	Metrics   []Metric   `yaml:"metrics" json:"metrics" validate:"dive"`
	Artifacts []Artifact `yaml:"artifacts" json:"artifacts,omitempty" validate:"dive"`
	Dashboard *Dashboard `yaml:"dashboard" json:"dashboard,omitempty"`

	// Media is decoded from the variant tagged "media" block.
	Media Media `yaml:"-" json:"-" validate:"-"`
}

// HasDashboard reports whether the project carries campaign figures.
func (p Project) HasDashboard() bool {
	return p.Dashboard != nil
}

// Metric is a headline figure shown on project cards.
type Metric struct {
	Label       string `yaml:"label" json:"label" validate:"required"`
	Value       string `yaml:"value" json:"value" validate:"required"`
	Placeholder bool   `yaml:"placeholder" json:"placeholder,omitempty"`
}

// Artifact is a supporting screenshot.
type Artifact struct {
	Src     string `yaml:"src" json:"src" validate:"required"`
	Alt     string `yaml:"alt" json:"alt" validate:"required"`
	Caption string `yaml:"caption" json:"caption,omitempty"`
}

// Dashboard holds the raw campaign figures of a paid project.
type Dashboard struct {
	Totals  analytics.MetricTotals `yaml:"totals" json:"totals"`
	Monthly []MonthlyFigure        `yaml:"monthly" json:"monthly" validate:"dive"`
	UTM     string                 `yaml:"utm" json:"utm"`
	GA4     *GA4Report             `yaml:"ga4" json:"ga4,omitempty"`
}

// MonthlyFigure is one reporting period of the campaign.
type MonthlyFigure struct {
	Month string  `yaml:"month" json:"month" validate:"required"`
	LPV   float64 `yaml:"lpv" json:"lpv" validate:"gte=0"`
	Spend float64 `yaml:"spend" json:"spend" validate:"gte=0"`
}

// GA4Report is the property level analytics snapshot for the campaign window.
type GA4Report struct {
	DateRange string       `yaml:"date_range" json:"date_range" validate:"required"`
	Totals    GA4Totals    `yaml:"totals" json:"totals"`
	Channels  []GA4Channel `yaml:"channels" json:"channels" validate:"dive"`
}

// GA4Totals are the property totals of the snapshot.
type GA4Totals struct {
	Sessions          float64 `yaml:"sessions" json:"sessions" validate:"gte=0"`
	EngagedSessions   float64 `yaml:"engaged_sessions" json:"engaged_sessions" validate:"gte=0"`
	EngagementRate    float64 `yaml:"engagement_rate" json:"engagement_rate" validate:"gte=0,lte=100"`
	AvgEngagementTime string  `yaml:"avg_engagement_time" json:"avg_engagement_time"`
	EventsPerSession  float64 `yaml:"events_per_session" json:"events_per_session" validate:"gte=0"`
	EventCount        float64 `yaml:"event_count" json:"event_count" validate:"gte=0"`
	KeyEvents         float64 `yaml:"key_events" json:"key_events" validate:"gte=0"`
}

// GA4Channel is one default channel group row.
type GA4Channel struct {
	Name              string  `yaml:"name" json:"name" validate:"required"`
	Sessions          float64 `yaml:"sessions" json:"sessions" validate:"gte=0"`
	SessionShare      float64 `yaml:"session_share" json:"session_share" validate:"gte=0,lte=100"`
	EngagedSessions   float64 `yaml:"engaged_sessions" json:"engaged_sessions" validate:"gte=0"`
	EngagedShare      float64 `yaml:"engaged_share" json:"engaged_share" validate:"gte=0,lte=100"`
	EngagementRate    float64 `yaml:"engagement_rate" json:"engagement_rate" validate:"gte=0,lte=100"`
	AvgEngagementTime string  `yaml:"avg_engagement_time" json:"avg_engagement_time"`
	EventsPerSession  float64 `yaml:"events_per_session" json:"events_per_session" validate:"gte=0"`
	EventCount        float64 `yaml:"event_count" json:"event_count" validate:"gte=0"`
}

// Experience is one résumé entry.
type Experience struct {
	Role       string   `yaml:"role" json:"role" validate:"required"`
	Company    string   `yaml:"company" json:"company" validate:"required"`
	Period     string   `yaml:"period" json:"period" validate:"required"`
	Highlights []string `yaml:"highlights" json:"highlights" validate:"min=1,dive,required"`
}

// Capability is a skill card on the home page. Span is the number of grid
// columns the card occupies.
type Capability struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description" validate:"required"`
	Icon        string `yaml:"icon" json:"icon"`
	Span        int    `yaml:"span" json:"span" validate:"oneof=1 2"`
}
