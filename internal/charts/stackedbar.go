package charts

import (
	"fmt"
	"html/template"
	"strings"
)

// Segment is one part of a composition.
type Segment struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Band is a positioned segment. Percent and Offset are in the 0-100 range.
type Band struct {
	Segment
	Percent float64 `json:"percent"`
	Offset  float64 `json:"offset"`
}

// StackedBarGeometry normalises segments by their actual sum, keeping input
// order. Negative values count as zero and a zero sum gives zero widths.
func StackedBarGeometry(segments []Segment) []Band {
	values := make([]float64, len(segments))
	total := 0.0
	for i, s := range segments {
		v := finite(s.Value)
		if v < 0 {
			v = 0
		}
		values[i] = v
		total += v
	}

	bands := make([]Band, len(segments))
	offset := 0.0
	for i, s := range segments {
		pct := 0.0
		if total > 0 {
			pct = values[i] / total * 100
		}
		bands[i] = Band{Segment: s, Percent: pct, Offset: offset}
		offset += pct
	}
	return bands
}

// StackedBar renders the composition as horizontal bands in a thin strip.
func StackedBar(segments []Segment, opts StackedBarOpts) (template.HTML, error) {
	bands := StackedBarGeometry(segments)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %s %s\" preserveAspectRatio=\"none\" class=\"stacked-bar\" role=\"img\" aria-label=\"%s\">",
		coord(StackedBarWidth), coord(StackedBarHeight), template.HTMLEscapeString(fallback(opts.Title, "Composition"))))
	b.WriteString(fmt.Sprintf("<rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"%s\"></rect>",
		coord(StackedBarWidth), coord(StackedBarHeight), template.HTMLEscapeString(fallback(opts.TrackColor, DefaultTrack))))
	for _, band := range bands {
		if band.Percent <= 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%s\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"%s\"><title>%s</title></rect>",
			coord(band.Offset), coord(band.Percent), coord(StackedBarHeight),
			template.HTMLEscapeString(fallback(band.Color, DefaultMuted)),
			template.HTMLEscapeString(fmt.Sprintf("%s: %.1f%%", band.Name, band.Percent))))
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
