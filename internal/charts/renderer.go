package charts

import "html/template"

// Chart kinds reported to a render observer.
const (
	KindSparkline  = "sparkline"
	KindStackedBar = "stacked_bar"
	KindFunnel     = "funnel"
	KindCombo      = "combo"
	KindGauge      = "gauge"
)

// Renderer exposes the chart functions behind one value so handlers can
// depend on an interface. Observe, when set, is called after every
// successful render.
type Renderer struct {
	Observe func(kind string)
}

// Sparkline renders a sparkline.
func (r Renderer) Sparkline(values []float64, opts SparklineOpts) (template.HTML, error) {
	return r.observe(KindSparkline)(Sparkline(values, opts))
}

// StackedBar renders a composition bar.
func (r Renderer) StackedBar(segments []Segment, opts StackedBarOpts) (template.HTML, error) {
	return r.observe(KindStackedBar)(StackedBar(segments, opts))
}

// Funnel renders a funnel diagram.
func (r Renderer) Funnel(stages []FunnelStage, opts FunnelOpts) (template.HTML, error) {
	return r.observe(KindFunnel)(Funnel(stages, opts))
}

// Combo renders a fresh combo chart over points with period hover hovered;
// a negative hover renders the idle chart.
func (r Renderer) Combo(points []MonthlyPoint, hover int, opts ComboOpts) (template.HTML, error) {
	chart := NewComboChart(points)
	if hover >= 0 {
		chart.Enter(hover)
	}
	return r.observe(KindCombo)(chart.SVG(opts))
}

// Gauge renders a score gauge.
func (r Renderer) Gauge(score float64, opts GaugeOpts) (template.HTML, error) {
	return r.observe(KindGauge)(Gauge(score, opts))
}

func (r Renderer) observe(kind string) func(template.HTML, error) (template.HTML, error) {
	return func(html template.HTML, err error) (template.HTML, error) {
		if err == nil && r.Observe != nil {
			r.Observe(kind)
		}
		return html, err
	}
}
