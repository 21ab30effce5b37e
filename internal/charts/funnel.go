package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	svgo "github.com/ajstarks/svgo"

	"github.com/olguin/portfolio/internal/analytics"
)

// FunnelStage is one step of an acquisition funnel.
type FunnelStage struct {
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	DisplayValue string  `json:"display_value,omitempty"`
}

// FunnelBar is a positioned funnel stage.
type FunnelBar struct {
	FunnelStage
	Ratio  float64 `json:"ratio"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FunnelShape is the computed geometry of a funnel diagram.
type FunnelShape struct {
	Bars            []FunnelBar `json:"bars"`
	Max             float64     `json:"max"`
	Conversion      float64     `json:"conversion"`
	ConversionLabel string      `json:"conversion_label"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
}

// FunnelGeometry sizes each stage relative to the largest stage, so the
// largest is always full width even when it is not the first one. The
// conversion compares the last stage with the largest.
func FunnelGeometry(stages []FunnelStage) FunnelShape {
	values := make([]float64, len(stages))
	for i, s := range stages {
		values[i] = math.Max(finite(s.Value), 0)
	}
	maxVal := maxOf(values)

	shape := FunnelShape{Max: maxVal, Width: FunnelWidth, Height: FunnelTop + FunnelBadgeRoom}
	if len(stages) == 0 {
		shape.ConversionLabel = numbers.Percent(0, 2)
		return shape
	}
	shape.Bars = make([]FunnelBar, len(stages))
	for i, s := range stages {
		ratio := analytics.SafeDiv(values[i], maxVal)
		width := ratio * FunnelTrack
		if s.DisplayValue == "" {
			s.DisplayValue = numbers.Int(values[i])
		}
		shape.Bars[i] = FunnelBar{
			FunnelStage: s,
			Ratio:       ratio,
			X:           FunnelLeft + (FunnelTrack-width)/2,
			Y:           float64(FunnelTop + i*FunnelRowHeight),
			Width:       width,
			Height:      FunnelBarHeight,
		}
	}
	shape.Height = float64(FunnelTop+(len(stages)-1)*FunnelRowHeight+FunnelBarHeight) + FunnelBadgeRoom
	shape.Conversion = analytics.SafeDiv(values[len(values)-1], maxVal) * 100
	shape.ConversionLabel = numbers.Percent(shape.Conversion, 2)
	return shape
}

// FunnelWidths returns each stage width as a percentage of the largest
// stage. It backs the compact funnel of paid social tiles.
func FunnelWidths(stages []FunnelStage) []float64 {
	shape := FunnelGeometry(stages)
	widths := make([]float64, len(shape.Bars))
	for i, bar := range shape.Bars {
		widths[i] = bar.Ratio * 100
	}
	return widths
}

// Funnel renders the stages as centred bars with arrows between them and a
// conversion badge under the last stage.
func Funnel(stages []FunnelStage, opts FunnelOpts) (template.HTML, error) {
	if len(stages) == 0 {
		return "", fmt.Errorf("charts: funnel stages required")
	}
	shape := FunnelGeometry(stages)
	color := fallback(opts.Color, DefaultAccent)
	text := fallback(opts.TextColor, DefaultText)
	muted := fallback(opts.MutedColor, DefaultMuted)
	gradientID := makeID(opts.ID, "funnel-fill")

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" class=\"funnel\" role=\"img\">\n", FunnelWidth, px(shape.Height)))
	canvas := svgo.New(&buf)
	canvas.Title(fallback(opts.Title, "Funnel"))
	canvas.Desc(fallback(opts.Description, "Stage volumes relative to the largest stage"))
	canvas.Def()
	canvas.LinearGradient(gradientID, 0, 0, 100, 0, []svgo.Offcolor{
		{Offset: 0, Color: color, Opacity: 0.3},
		{Offset: 100, Color: color, Opacity: 0.1},
	})
	canvas.DefEnd()

	last := len(shape.Bars) - 1
	for i, bar := range shape.Bars {
		y := px(bar.Y)
		canvas.Roundrect(FunnelLeft, y, FunnelTrack, FunnelBarHeight, 4, 4, attr("fill", DefaultTrack))
		style := []string{attr("fill", "url(#"+gradientID+")"), attr("stroke", color), attr("stroke-opacity", "0.5"), attr("stroke-width", "1")}
		if i == last {
			style = []string{attr("fill", color), attr("fill-opacity", "0.25"), attr("stroke", color), attr("stroke-opacity", "0.7"), attr("stroke-width", "1.5")}
		}
		canvas.Roundrect(px(bar.X), y, px(bar.Width), FunnelBarHeight, 4, 4, style...)
		canvas.Text(FunnelLeft+10, y+18, bar.Label, attr("font-size", "11"), attr("font-weight", "500"), attr("fill", muted))
		canvas.Text(FunnelLeft+FunnelTrack-10, y+18, bar.DisplayValue, attr("font-size", "11"), attr("font-weight", "600"), attr("text-anchor", "end"), attr("fill", text))
		if i < last {
			mid := FunnelLeft + FunnelTrack/2
			canvas.Path(fmt.Sprintf("M%d %d L%d %d L%d %d L%d %d L%d %d L%d %d",
				mid, y+32, mid, y+38, mid-5, y+38, mid, y+46, mid+5, y+38, mid, y+38),
				attr("fill", muted), attr("opacity", "0.5"))
		}
	}

	badgeX := FunnelLeft + FunnelTrack - 60
	badgeY := px(shape.Bars[last].Y) + FunnelBarHeight + 8
	canvas.Roundrect(badgeX, badgeY, 60, 20, 10, 10, attr("fill", "none"), attr("stroke", color), attr("stroke-opacity", "0.5"), attr("stroke-width", "1"))
	canvas.Text(badgeX+30, badgeY+14, shape.ConversionLabel, attr("font-size", "10"), attr("font-weight", "600"), attr("text-anchor", "middle"), attr("fill", color))
	canvas.End()
	return template.HTML(buf.String()), nil
}

// px rounds a logical coordinate for the integer svgo API.
func px(v float64) int {
	return int(math.Round(finite(v)))
}

// attr formats an escaped attribute for svgo's style arguments.
func attr(name, value string) string {
	return fmt.Sprintf("%s=\"%s\"", name, template.HTMLEscapeString(value))
}
