package charts

import (
	"fmt"
	"html/template"
	"strings"
)

// SparklineShape is the computed geometry of a sparkline.
type SparklineShape struct {
	Points []Point
	// Line holds polyline points; empty when fewer than two points exist.
	Line string
	// Area is a closed path down to the bottom edge; empty when Line is.
	Area   string
	Marker Point
	Empty  bool
}

// SparklineGeometry maps values onto the 100x32 sparkline canvas.
//
// Values are scaled between their min and max. A flat series uses a range
// of 1 and sits at mid-height. A single value is drawn as a marker on the
// right edge.
func SparklineGeometry(values []float64) SparklineShape {
	if len(values) == 0 {
		return SparklineShape{Empty: true}
	}
	series := sanitize(values)
	minVal, maxVal := bounds(series)
	// Halved so the span stays finite across the whole float64 range.
	halfSpan := maxVal/2 - minVal/2
	offset := 0.0
	if almostEqual(halfSpan, 0) {
		halfSpan = 0.5
		offset = 0.5
	}

	drawWidth := SparklineWidth - 2*SparklinePadding
	drawHeight := SparklineHeight - 2*SparklinePadding
	n := len(series)

	points := make([]Point, n)
	for i, v := range series {
		x := SparklineWidth - SparklinePadding
		if n > 1 {
			x = SparklinePadding + float64(i)/float64(n-1)*drawWidth
		}
		ratio := finite((v/2-minVal/2)/halfSpan) + offset
		points[i] = Point{X: x, Y: SparklineHeight - SparklinePadding - ratio*drawHeight}
	}

	shape := SparklineShape{Points: points, Marker: points[n-1]}
	if n < 2 {
		return shape
	}
	shape.Line = joinPoints(points)

	var area strings.Builder
	area.WriteString(fmt.Sprintf("M %s,%s", coord(points[0].X), coord(SparklineHeight)))
	for _, p := range points {
		area.WriteString(fmt.Sprintf(" L %s,%s", coord(p.X), coord(p.Y)))
	}
	area.WriteString(fmt.Sprintf(" L %s,%s Z", coord(points[n-1].X), coord(SparklineHeight)))
	shape.Area = area.String()
	return shape
}

// Sparkline renders an axis-less trend line with a gradient fill and a
// glowing marker on the latest value. Empty input renders nothing.
func Sparkline(values []float64, opts SparklineOpts) (template.HTML, error) {
	shape := SparklineGeometry(values)
	if shape.Empty {
		return "", nil
	}
	color := template.HTMLEscapeString(fallback(opts.Color, DefaultAccent))
	gradientID := makeID(opts.ID, "spark-fill")
	glowID := makeID(opts.ID, "spark-glow")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %s %s\" preserveAspectRatio=\"none\" class=\"sparkline\" role=\"img\" aria-label=\"%s\">",
		coord(SparklineWidth), coord(SparklineHeight), template.HTMLEscapeString(fallback(opts.Title, "Trend"))))
	b.WriteString("<defs>")
	b.WriteString(fmt.Sprintf("<linearGradient id=\"%s\" x1=\"0%%\" y1=\"0%%\" x2=\"0%%\" y2=\"100%%\">", gradientID))
	b.WriteString(fmt.Sprintf("<stop offset=\"0%%\" stop-color=\"%s\" stop-opacity=\"0.3\"></stop>", color))
	b.WriteString(fmt.Sprintf("<stop offset=\"100%%\" stop-color=\"%s\" stop-opacity=\"0\"></stop>", color))
	b.WriteString("</linearGradient>")
	b.WriteString(fmt.Sprintf("<filter id=\"%s\"><feGaussianBlur stdDeviation=\"2\" result=\"coloredBlur\"></feGaussianBlur><feMerge><feMergeNode in=\"coloredBlur\"></feMergeNode><feMergeNode in=\"SourceGraphic\"></feMergeNode></feMerge></filter>", glowID))
	b.WriteString("</defs>")

	if shape.Line != "" {
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"url(#%s)\"></path>", shape.Area, gradientID))
		b.WriteString(fmt.Sprintf("<polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" stroke-linecap=\"round\" stroke-linejoin=\"round\"></polyline>", shape.Line, color))
	}
	b.WriteString(fmt.Sprintf("<circle cx=\"%s\" cy=\"%s\" r=\"3\" fill=\"%s\" filter=\"url(#%s)\" class=\"pulse\"></circle>",
		coord(shape.Marker.X), coord(shape.Marker.Y), color, glowID))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
