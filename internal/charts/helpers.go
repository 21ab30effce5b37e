package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olguin/portfolio/internal/analytics"
)

var numbers = analytics.NewFormatter()

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func finite(v float64) float64 {
	return analytics.Finite(v)
}

// sanitize copies values replacing non-finite entries with 0.
func sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = finite(v)
	}
	return out
}

func bounds(series []float64) (float64, float64) {
	minVal := series[0]
	maxVal := series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func maxOf(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	_, maxVal := bounds(series)
	return maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

// coord prints a coordinate with at most two decimals.
func coord(v float64) string {
	rounded := math.Round(analytics.Finite(v)*100) / 100
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func joinPoints(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = coord(p.X) + "," + coord(p.Y)
	}
	return strings.Join(parts, " ")
}
