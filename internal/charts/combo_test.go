package charts

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monthly = []MonthlyPoint{
	{Label: "Month 1", Primary: 700, Secondary: 350},
	{Label: "Month 2", Primary: 1000, Secondary: 500},
	{Label: "Month 3", Primary: 775, Secondary: 445},
}

func TestComboTallestBarIsMaximum(t *testing.T) {
	shape := NewComboChart(monthly).Geometry()
	require.Len(t, shape.Periods, 3)

	tallest := 0
	for i, p := range shape.Periods {
		if p.Bar.Height > shape.Periods[tallest].Bar.Height {
			tallest = i
		}
	}
	assert.Equal(t, 1, tallest)
	assert.Equal(t, ComboPlotHeight-ComboBarHeadroom, shape.Periods[1].Bar.Height)
	assert.InDelta(t, 0.7*(ComboPlotHeight-ComboBarHeadroom), shape.Periods[0].Bar.Height, 1e-9)
	assert.Equal(t, "M2", shape.Periods[1].ShortLabel)
	assert.Nil(t, shape.Tooltip)
}

func TestComboIndependentScales(t *testing.T) {
	shape := NewComboChart([]MonthlyPoint{
		{Label: "a", Primary: 10, Secondary: 90000},
		{Label: "b", Primary: 5, Secondary: 45000},
	}).Geometry()

	baseline := ComboTooltipSpace + ComboPlotHeight
	assert.Equal(t, baseline-(ComboPlotHeight-ComboBarHeadroom), shape.Periods[0].Bar.Y)
	assert.Equal(t, baseline-(ComboPlotHeight-ComboDotHeadroom), shape.Periods[0].Dot.CY)
	assert.InDelta(t, baseline-0.5*(ComboPlotHeight-ComboDotHeadroom), shape.Periods[1].Dot.CY, 1e-9)
}

func TestComboHoverShowsTooltip(t *testing.T) {
	chart := NewComboChart(monthly)
	chart.Enter(1)

	shape := chart.Geometry()
	require.NotNil(t, shape.Tooltip)
	assert.Equal(t, "1,000 LPVs", shape.Tooltip.Primary)
	assert.Equal(t, "$500 spend", shape.Tooltip.Secondary)
	assert.True(t, shape.Periods[1].Hovered)
	assert.Equal(t, ComboDotRadiusHover, shape.Periods[1].Dot.R)
	assert.Equal(t, ComboDotRadius, shape.Periods[0].Dot.R)
	assert.Equal(t, shape.Periods[1].Bar.X-10, shape.Tooltip.X)
	assert.Equal(t, shape.Periods[1].Bar.Y-48, shape.Tooltip.Y)

	html, err := chart.SVG(ComboOpts{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "1,000 LPVs")
	assert.Contains(t, string(html), "$500 spend")
}

func TestComboHoverTransitions(t *testing.T) {
	chart := NewComboChart(monthly)
	_, hovered := chart.Hovered()
	assert.False(t, hovered)

	chart.Enter(0)
	chart.Enter(2)
	idx, hovered := chart.Hovered()
	assert.True(t, hovered)
	assert.Equal(t, 2, idx)

	chart.Enter(7)
	idx, _ = chart.Hovered()
	assert.Equal(t, 2, idx, "out of range enter is ignored")

	chart.Leave()
	_, hovered = chart.Hovered()
	assert.False(t, hovered)

	chart.Enter(1)
	chart.SetData(monthly[:2])
	_, hovered = chart.Hovered()
	assert.False(t, hovered, "new dataset resets hover")
	assert.Equal(t, 2, chart.Len())
}

func TestComboInstancesAreIndependent(t *testing.T) {
	a := NewComboChart(monthly)
	b := NewComboChart(monthly)
	a.Enter(1)

	_, hovered := b.Hovered()
	assert.False(t, hovered)
	assert.Nil(t, b.Geometry().Tooltip)
}

func TestComboZeroSeries(t *testing.T) {
	chart := NewComboChart([]MonthlyPoint{{Label: "a"}, {Label: "b", Secondary: math.NaN()}})
	chart.Enter(0)
	shape := chart.Geometry()
	baseline := ComboTooltipSpace + ComboPlotHeight
	for _, p := range shape.Periods {
		assert.Zero(t, p.Bar.Height)
		assert.Equal(t, baseline, p.Bar.Y)
		assert.Equal(t, baseline, p.Dot.CY)
	}
	assert.Equal(t, "0 LPVs", shape.Tooltip.Primary)
	assert.Equal(t, "$0 spend", shape.Tooltip.Secondary)

	html, err := chart.SVG(ComboOpts{})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "NaN")
}

func TestComboIdempotent(t *testing.T) {
	chart := NewComboChart(monthly)
	first, err := chart.SVG(ComboOpts{HoverURL: "/work/towne-oaks-paid-social/charts/monthly"})
	require.NoError(t, err)
	second, err := chart.SVG(ComboOpts{HoverURL: "/work/towne-oaks-paid-social/charts/monthly"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, chart.Geometry(), chart.Geometry())
}

func TestComboHoverLinks(t *testing.T) {
	html, err := NewComboChart(monthly).SVG(ComboOpts{HoverURL: "/work/towne-oaks-paid-social/charts/monthly"})
	require.NoError(t, err)
	output := string(html)
	assert.Contains(t, output, `hx-get="/work/towne-oaks-paid-social/charts/monthly?hover=2"`)
	assert.Contains(t, output, `hx-trigger="mouseleave"`)
	assert.Equal(t, 3, strings.Count(output, `hx-trigger="mouseenter"`))

	plain, err := NewComboChart(monthly).SVG(ComboOpts{})
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "hx-get")
}

func TestComboCustomUnitsAndWidth(t *testing.T) {
	points := make([]MonthlyPoint, 5)
	for i := range points {
		points[i] = MonthlyPoint{Label: "p", Primary: float64(i + 1), Secondary: 1.5}
	}
	chart := NewComboChart(points, WithUnits("visits", "cost"))
	chart.Enter(4)
	shape := chart.Geometry()
	assert.Equal(t, ComboBarGap+5*(ComboBarWidth+ComboBarGap), shape.Width)
	assert.Equal(t, "5 visits", shape.Tooltip.Primary)
	assert.Equal(t, "$1.50 cost", shape.Tooltip.Secondary)

	_, err := NewComboChart(nil).SVG(ComboOpts{})
	assert.Error(t, err)
}
