package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	svgo "github.com/ajstarks/svgo"
)

// GaugeShape describes a circular 0-100 score.
type GaugeShape struct {
	Score     float64 `json:"score"`
	DashArray string  `json:"dash_array"`
	Label     string  `json:"label"`
	Status    string  `json:"status"`
}

// GaugeGeometry clamps score into [0, 100] and grades it with the usual
// page speed thresholds.
func GaugeGeometry(score float64) GaugeShape {
	score = math.Min(math.Max(finite(score), 0), 100)
	status := "poor"
	switch {
	case score >= 90:
		status = "good"
	case score >= 50:
		status = "needs-improvement"
	}
	return GaugeShape{
		Score:     score,
		DashArray: coord(score) + " 100",
		Label:     numbers.Int(score),
		Status:    status,
	}
}

// Gauge renders the score as a ring with the value in the middle.
func Gauge(score float64, opts GaugeOpts) (template.HTML, error) {
	shape := GaugeGeometry(score)
	color := fallback(opts.Color, DefaultAccent)
	track := fallback(opts.TrackColor, DefaultTrack)
	center := GaugeViewBox / 2

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" class=\"gauge gauge-%s\" role=\"img\">\n", GaugeViewBox, GaugeViewBox, shape.Status))
	canvas := svgo.New(&buf)
	canvas.Title(fmt.Sprintf("%s: %s", fallback(opts.Title, "Speed score"), shape.Label))
	canvas.Circle(center, center, GaugeRadius, attr("fill", "none"), attr("stroke", track), attr("stroke-width", "30"))
	canvas.Circle(center, center, GaugeRadius,
		attr("fill", "none"),
		attr("stroke", color),
		attr("stroke-width", "30"),
		attr("stroke-linecap", "round"),
		attr("pathLength", "100"),
		attr("stroke-dasharray", shape.DashArray),
		attr("transform", fmt.Sprintf("rotate(-90 %d %d)", center, center)),
	)
	canvas.Text(center, center+35, shape.Label, attr("font-size", "100"), attr("font-weight", "700"), attr("text-anchor", "middle"), attr("fill", DefaultText))
	canvas.End()
	return template.HTML(buf.String()), nil
}
