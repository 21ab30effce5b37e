package casestudy

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Media variants.
const (
	VariantGA4        = "ga4"
	VariantSEO        = "seo"
	VariantPaidSocial = "paidSocial"
)

// ErrUnknownVariant is returned when a media block names no known variant.
var ErrUnknownVariant = errors.New("casestudy: unknown media variant")

// Media is the mini dashboard shown on a project tile. It is a closed set:
// GA4Media, SEOMedia and PaidSocialMedia are the only implementations.
type Media interface {
	Variant() string
	Label() string
	Trend() []float64
	isMedia()
}

// ChannelShare is one slice of a traffic mix, Value in percent.
type ChannelShare struct {
	Name  string  `yaml:"name" json:"name" validate:"required"`
	Value float64 `yaml:"value" json:"value" validate:"gte=0,lte=100"`
	Color string  `yaml:"color" json:"color"`
}

// GA4Stats are the headline figures of the GA4 tile.
type GA4Stats struct {
	Sessions        float64 `yaml:"sessions" json:"sessions" validate:"gte=0"`
	PaidSocialShare float64 `yaml:"paid_social_share" json:"paid_social_share" validate:"gte=0,lte=100"`
	EngagementRate  float64 `yaml:"engagement_rate" json:"engagement_rate" validate:"gte=0,lte=100"`
	AvgEngagedTime  string  `yaml:"avg_engaged_time" json:"avg_engaged_time"`
}

// GA4Media summarises traffic sources.
type GA4Media struct {
	DateLabel  string         `yaml:"date_label" json:"date_label" validate:"required"`
	ChannelMix []ChannelShare `yaml:"channel_mix" json:"channel_mix" validate:"min=1,dive"`
	Stats      GA4Stats       `yaml:"stats" json:"stats"`
	Sparkline  []float64      `yaml:"sparkline" json:"sparkline"`
}

func (GA4Media) Variant() string    { return VariantGA4 }
func (m GA4Media) Label() string    { return m.DateLabel }
func (m GA4Media) Trend() []float64 { return m.Sparkline }
func (GA4Media) isMedia()           {}

// PerformanceSignal is the headline movement of an SEO tile.
type PerformanceSignal struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Value string `yaml:"value" json:"value" validate:"required"`
	Trend string `yaml:"trend" json:"trend" validate:"oneof=up down flat"`
}

// VitalTile is one Core Web Vitals reading.
type VitalTile struct {
	Metric string `yaml:"metric" json:"metric" validate:"required"`
	Value  string `yaml:"value" json:"value" validate:"required"`
	Status string `yaml:"status" json:"status" validate:"oneof=good needs-improvement poor"`
}

// SEOMedia summarises organic search health.
type SEOMedia struct {
	DateLabel  string            `yaml:"date_label" json:"date_label" validate:"required"`
	Signal     PerformanceSignal `yaml:"performance_signal" json:"performance_signal"`
	Vitals     []VitalTile       `yaml:"cwv_tiles" json:"cwv_tiles" validate:"dive"`
	SpeedScore *float64          `yaml:"speed_score" json:"speed_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sparkline  []float64         `yaml:"sparkline" json:"sparkline"`
}

func (SEOMedia) Variant() string    { return VariantSEO }
func (m SEOMedia) Label() string    { return m.DateLabel }
func (m SEOMedia) Trend() []float64 { return m.Sparkline }
func (SEOMedia) isMedia()           {}

// FunnelStep is one stage of the paid social mini funnel.
type FunnelStep struct {
	Label        string  `yaml:"label" json:"label" validate:"required"`
	Value        float64 `yaml:"value" json:"value" validate:"gte=0"`
	DisplayValue string  `yaml:"display_value" json:"display_value"`
}

// PaidSocialStats are the footer figures of a paid social tile.
type PaidSocialStats struct {
	Spend string `yaml:"spend" json:"spend" validate:"required"`
	CTR   string `yaml:"ctr" json:"ctr,omitempty"`
	CPL   string `yaml:"cpl" json:"cpl,omitempty"`
}

// PaidSocialMedia summarises a paid campaign funnel.
type PaidSocialMedia struct {
	DateLabel string          `yaml:"date_label" json:"date_label" validate:"required"`
	Funnel    []FunnelStep    `yaml:"funnel" json:"funnel" validate:"min=1,dive"`
	Stats     PaidSocialStats `yaml:"stats" json:"stats"`
	Sparkline []float64       `yaml:"sparkline" json:"sparkline"`
}

func (PaidSocialMedia) Variant() string    { return VariantPaidSocial }
func (m PaidSocialMedia) Label() string    { return m.DateLabel }
func (m PaidSocialMedia) Trend() []float64 { return m.Sparkline }
func (PaidSocialMedia) isMedia()           {}

// DecodeMedia decodes a media block, dispatching on its variant key. A
// missing block yields nil.
func DecodeMedia(node *yaml.Node) (Media, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	var head struct {
		Variant string `yaml:"variant"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	switch head.Variant {
	case VariantGA4:
		var m GA4Media
		if err := node.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode ga4 media: %w", err)
		}
		return m, nil
	case VariantSEO:
		var m SEOMedia
		if err := node.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode seo media: %w", err)
		}
		return m, nil
	case VariantPaidSocial:
		var m PaidSocialMedia
		if err := node.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode paid social media: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, head.Variant)
	}
}

// UnmarshalYAML decodes a project and its media block.
func (p *Project) UnmarshalYAML(node *yaml.Node) error {
	type plain Project
	var raw struct {
		plain `yaml:",inline"`
		Media yaml.Node `yaml:"media"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	media, err := DecodeMedia(&raw.Media)
	if err != nil {
		return fmt.Errorf("project %q: %w", raw.Slug, err)
	}
	*p = Project(raw.plain)
	p.Media = media
	return nil
}
