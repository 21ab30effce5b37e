package charts

import (
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/olguin/portfolio/internal/analytics"
)

// MonthlyPoint is one reporting period of the combo chart. Primary is drawn
// as a bar, Secondary as a dot on a connecting line.
type MonthlyPoint struct {
	Label     string  `json:"label"`
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
}

// ComboBar is the primary series bar of one period.
type ComboBar struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComboDot is the secondary series marker of one period.
type ComboDot struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// ComboPeriod is the positioned geometry for one period.
type ComboPeriod struct {
	Index      int      `json:"index"`
	Label      string   `json:"label"`
	ShortLabel string   `json:"short_label"`
	Bar        ComboBar `json:"bar"`
	Dot        ComboDot `json:"dot"`
	Hovered    bool     `json:"hovered"`
}

// Tooltip is the floating label box of the hovered period.
type Tooltip struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	TextX      float64 `json:"text_x"`
	PrimaryY   float64 `json:"primary_y"`
	SecondaryY float64 `json:"secondary_y"`
	Primary    string  `json:"primary"`
	Secondary  string  `json:"secondary"`
}

// ComboShape is the computed geometry of the combo chart.
type ComboShape struct {
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Periods []ComboPeriod `json:"periods"`
	Line    string        `json:"line"`
	Grid    []float64     `json:"grid"`
	Tooltip *Tooltip      `json:"tooltip,omitempty"`
}

// ComboOption configures a ComboChart.
type ComboOption func(*ComboChart)

// WithUnits sets the words appended to tooltip values.
func WithUnits(primary, secondary string) ComboOption {
	return func(c *ComboChart) {
		c.primaryUnit = primary
		c.secondaryUnit = secondary
	}
}

// ComboChart is one rendered instance of the monthly bar and line chart. It
// owns its hover state and is not safe for concurrent use.
type ComboChart struct {
	points        []MonthlyPoint
	hover         HoverState
	primaryUnit   string
	secondaryUnit string
}

// NewComboChart returns a chart over points with nothing hovered.
func NewComboChart(points []MonthlyPoint, opts ...ComboOption) *ComboChart {
	c := &ComboChart{primaryUnit: "LPVs", secondaryUnit: "spend"}
	for _, opt := range opts {
		opt(c)
	}
	c.SetData(points)
	return c
}

// SetData replaces the dataset and clears any hover.
func (c *ComboChart) SetData(points []MonthlyPoint) {
	c.points = append([]MonthlyPoint(nil), points...)
	c.hover.Reset()
}

// Enter hovers period i. Indexes outside the dataset are ignored.
func (c *ComboChart) Enter(i int) {
	if i < 0 || i >= len(c.points) {
		return
	}
	c.hover.Enter(i)
}

// Leave clears the hover.
func (c *ComboChart) Leave() {
	c.hover.Leave()
}

// Hovered reports the hovered period, if any.
func (c *ComboChart) Hovered() (int, bool) {
	return c.hover.Index()
}

// Len returns the number of periods.
func (c *ComboChart) Len() int {
	return len(c.points)
}

// Geometry lays out bars and dots on independent vertical scales: bar
// height follows Primary/max(Primary) and dot height follows
// Secondary/max(Secondary). A series whose max is 0 collapses to the
// baseline.
func (c *ComboChart) Geometry() ComboShape {
	n := len(c.points)
	primary := make([]float64, n)
	secondary := make([]float64, n)
	for i, p := range c.points {
		primary[i] = math.Max(finite(p.Primary), 0)
		secondary[i] = math.Max(finite(p.Secondary), 0)
	}
	maxPrimary := maxOf(primary)
	maxSecondary := maxOf(secondary)

	baseline := ComboTooltipSpace + ComboPlotHeight
	shape := ComboShape{
		Width:   math.Max(ComboMinWidth, ComboBarGap+float64(n)*(ComboBarWidth+ComboBarGap)),
		Height:  ComboPlotHeight + ComboTooltipSpace + ComboAxisSpace,
		Periods: make([]ComboPeriod, n),
	}
	for _, pct := range []float64{0, 0.25, 0.5, 0.75, 1} {
		shape.Grid = append(shape.Grid, baseline-pct*ComboPlotHeight)
	}

	hovered, isHovered := c.hover.Index()
	dots := make([]Point, n)
	for i, p := range c.points {
		x := float64(i)*(ComboBarWidth+ComboBarGap) + ComboBarGap
		barHeight := analytics.SafeDiv(primary[i], maxPrimary) * (ComboPlotHeight - ComboBarHeadroom)
		dotY := baseline - analytics.SafeDiv(secondary[i], maxSecondary)*(ComboPlotHeight-ComboDotHeadroom)
		active := isHovered && hovered == i

		radius := ComboDotRadius
		if active {
			radius = ComboDotRadiusHover
		}
		period := ComboPeriod{
			Index:      i,
			Label:      p.Label,
			ShortLabel: strings.Replace(p.Label, "Month ", "M", 1),
			Bar:        ComboBar{X: x, Y: baseline - barHeight, Width: ComboBarWidth, Height: barHeight},
			Dot:        ComboDot{CX: x + ComboBarWidth/2, CY: dotY, R: radius},
			Hovered:    active,
		}
		shape.Periods[i] = period
		dots[i] = Point{X: period.Dot.CX, Y: dotY}

		if active {
			shape.Tooltip = &Tooltip{
				X:          x - 10,
				Y:          period.Bar.Y - 48,
				Width:      70,
				Height:     40,
				TextX:      x + ComboBarWidth/2,
				PrimaryY:   period.Bar.Y - 32,
				SecondaryY: period.Bar.Y - 18,
				Primary:    strings.TrimSpace(numbers.Int(primary[i]) + " " + c.primaryUnit),
				Secondary:  strings.TrimSpace(numbers.Currency(secondary[i]) + " " + c.secondaryUnit),
			}
		}
	}
	shape.Line = joinPoints(dots)
	return shape
}

// SVG renders the chart in its current hover state.
func (c *ComboChart) SVG(opts ComboOpts) (template.HTML, error) {
	if len(c.points) == 0 {
		return "", fmt.Errorf("charts: combo chart requires at least one period")
	}
	shape := c.Geometry()
	barColor := template.HTMLEscapeString(fallback(opts.BarColor, DefaultAccent))
	dotColor := template.HTMLEscapeString(fallback(opts.DotColor, DefaultSecond))
	gridColor := template.HTMLEscapeString(fallback(opts.GridColor, DefaultGrid))
	textColor := template.HTMLEscapeString(fallback(opts.TextColor, DefaultMuted))

	titleID := makeID(opts.Title, "combo-title")
	descID := makeID(opts.Title, "combo-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %s %s\" class=\"combo-chart\" role=\"img\" aria-labelledby=\"%s %s\"",
		coord(shape.Width), coord(shape.Height), titleID, descID))
	if opts.HoverURL != "" {
		b.WriteString(fmt.Sprintf(" hx-get=\"%s\" hx-trigger=\"mouseleave\" hx-swap=\"outerHTML\" hx-sync=\"this:replace\"", template.HTMLEscapeString(opts.HoverURL)))
	}
	b.WriteString(">")
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Monthly performance"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Bars and line on independent scales"))))

	for i, y := range shape.Grid {
		dash := "2,2"
		if i == 0 {
			dash = "0"
		}
		b.WriteString(fmt.Sprintf("<line x1=\"0\" y1=\"%s\" x2=\"%s\" y2=\"%s\" stroke=\"%s\" stroke-width=\"1\" stroke-dasharray=\"%s\" aria-hidden=\"true\"></line>",
			coord(y), coord(shape.Width), coord(y), gridColor, dash))
	}

	for _, period := range shape.Periods {
		b.WriteString(fmt.Sprintf("<g class=\"combo-period\" data-index=\"%d\"", period.Index))
		if opts.HoverURL != "" {
			b.WriteString(fmt.Sprintf(" hx-get=\"%s\" hx-trigger=\"mouseenter\" hx-target=\"closest svg\" hx-swap=\"outerHTML\"", template.HTMLEscapeString(hoverLink(opts.HoverURL, period.Index))))
		}
		b.WriteString(">")
		fill := "fill-opacity=\"0.5\""
		if period.Hovered {
			fill = "fill-opacity=\"1\""
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"4\" fill=\"%s\" %s></rect>",
			coord(period.Bar.X), coord(period.Bar.Y), coord(period.Bar.Width), coord(period.Bar.Height), barColor, fill))
		b.WriteString(fmt.Sprintf("<circle cx=\"%s\" cy=\"%s\" r=\"%s\" fill=\"%s\"></circle>",
			coord(period.Dot.CX), coord(period.Dot.CY), coord(period.Dot.R), dotColor))
		b.WriteString(fmt.Sprintf("<text x=\"%s\" y=\"%s\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			coord(period.Dot.CX), coord(ComboTooltipSpace+ComboPlotHeight+16), textColor, template.HTMLEscapeString(period.ShortLabel)))
		b.WriteString("</g>")
	}

	b.WriteString(fmt.Sprintf("<polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linecap=\"round\" stroke-linejoin=\"round\" opacity=\"0.6\" pointer-events=\"none\"></polyline>", shape.Line, dotColor))

	if tip := shape.Tooltip; tip != nil {
		b.WriteString("<g class=\"combo-tooltip\" pointer-events=\"none\">")
		b.WriteString(fmt.Sprintf("<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"6\" fill=\"#0f172a\" stroke=\"%s\" stroke-width=\"1\"></rect>",
			coord(tip.X), coord(tip.Y), coord(tip.Width), coord(tip.Height), gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%s\" y=\"%s\" fill=\"%s\" font-size=\"10\" font-weight=\"600\" text-anchor=\"middle\">%s</text>",
			coord(tip.TextX), coord(tip.PrimaryY), DefaultText, template.HTMLEscapeString(tip.Primary)))
		b.WriteString(fmt.Sprintf("<text x=\"%s\" y=\"%s\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			coord(tip.TextX), coord(tip.SecondaryY), textColor, template.HTMLEscapeString(tip.Secondary)))
		b.WriteString("</g>")
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func hoverLink(base string, index int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("hover", strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u.String()
}
