package charts

// Point is a position in a chart's logical canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SparklineOpts customises the sparkline renderer.
type SparklineOpts struct {
	// ID scopes the gradient and filter definitions so several sparklines can
	// share one page.
	ID    string
	Title string
	Color string
}

// StackedBarOpts customises the composition bar renderer.
type StackedBarOpts struct {
	Title      string
	TrackColor string
}

// FunnelOpts customises the funnel diagram renderer.
type FunnelOpts struct {
	ID          string
	Title       string
	Description string
	Color       string
	TextColor   string
	MutedColor  string
}

// ComboOpts customises the monthly combo chart renderer.
type ComboOpts struct {
	Title       string
	Description string
	BarColor    string
	DotColor    string
	GridColor   string
	TextColor   string
	// HoverURL enables server-driven hover: each period requests
	// HoverURL?hover=i on pointer enter and the chart requests HoverURL on
	// pointer leave.
	HoverURL string
}

// GaugeOpts customises the speed score gauge.
type GaugeOpts struct {
	Title      string
	Color      string
	TrackColor string
}

// Logical canvas sizes.
const (
	SparklineWidth   = 100.0
	SparklineHeight  = 32.0
	SparklinePadding = 2.0

	StackedBarWidth  = 100.0
	StackedBarHeight = 8.0

	FunnelWidth     = 300
	FunnelTrack     = 280
	FunnelLeft      = 10
	FunnelTop       = 10
	FunnelRowHeight = 50
	FunnelBarHeight = 28
	FunnelBadgeRoom = 34

	ComboMinWidth       = 280.0
	ComboPlotHeight     = 120.0
	ComboTooltipSpace   = 55.0
	ComboAxisSpace      = 30.0
	ComboBarWidth       = 50.0
	ComboBarGap         = 30.0
	ComboBarHeadroom    = 10.0
	ComboDotHeadroom    = 20.0
	ComboDotRadius      = 4.0
	ComboDotRadiusHover = 6.0

	GaugeViewBox = 360
	GaugeRadius  = 155
)

// Palette shared by the renderers.
const (
	DefaultAccent = "rgb(74, 222, 128)"
	DefaultSecond = "rgb(96, 165, 250)"
	DefaultMuted  = "#94a3b8"
	DefaultText   = "#e2e8f0"
	DefaultGrid   = "rgba(148, 163, 184, 0.25)"
	DefaultTrack  = "rgba(148, 163, 184, 0.15)"
)
