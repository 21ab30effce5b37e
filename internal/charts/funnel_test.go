package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var campaignStages = []FunnelStage{
	{Label: "Reach", Value: 67454},
	{Label: "Impressions", Value: 233526},
	{Label: "LP Views", Value: 2475},
}

func TestFunnelLargestStageIsFullWidth(t *testing.T) {
	shape := FunnelGeometry(campaignStages)
	require.Len(t, shape.Bars, 3)

	assert.Equal(t, 233526.0, shape.Max)
	assert.Equal(t, 1.0, shape.Bars[1].Ratio)
	assert.Equal(t, float64(FunnelTrack), shape.Bars[1].Width)
	assert.Equal(t, float64(FunnelLeft), shape.Bars[1].X)
	assert.InDelta(t, 67454.0/233526*FunnelTrack, shape.Bars[0].Width, 1e-9)
	assert.Less(t, shape.Bars[2].Width, shape.Bars[0].Width)

	assert.InDelta(t, 2475.0/233526*100, shape.Conversion, 1e-9)
	assert.Equal(t, "1.06%", shape.ConversionLabel)
	assert.Equal(t, "233,526", shape.Bars[1].DisplayValue)
}

func TestFunnelBarsAreCentred(t *testing.T) {
	shape := FunnelGeometry(campaignStages)
	for _, bar := range shape.Bars {
		assert.InDelta(t, FunnelLeft+FunnelTrack/2.0, bar.X+bar.Width/2, 1e-9)
	}
	assert.Equal(t, 10.0, shape.Bars[0].Y)
	assert.Equal(t, 60.0, shape.Bars[1].Y)
	assert.Equal(t, 110.0, shape.Bars[2].Y)
}

func TestFunnelZeroStages(t *testing.T) {
	shape := FunnelGeometry([]FunnelStage{{Label: "a"}, {Label: "b"}})
	for _, bar := range shape.Bars {
		assert.Zero(t, bar.Width)
		assert.Zero(t, bar.Ratio)
	}
	assert.Equal(t, "0.00%", shape.ConversionLabel)
	assert.Equal(t, []float64{0, 0}, FunnelWidths([]FunnelStage{{Label: "a"}, {Label: "b"}}))
}

func TestFunnelWidths(t *testing.T) {
	widths := FunnelWidths([]FunnelStage{
		{Label: "Impressions", Value: 120000, DisplayValue: "120K"},
		{Label: "Clicks", Value: 3000, DisplayValue: "3K"},
		{Label: "Leads", Value: 150, DisplayValue: "150"},
	})
	require.Len(t, widths, 3)
	assert.Equal(t, 100.0, widths[0])
	assert.InDelta(t, 2.5, widths[1], 1e-9)
	assert.InDelta(t, 0.125, widths[2], 1e-9)
}

func TestFunnelSVG(t *testing.T) {
	html, err := Funnel(campaignStages, FunnelOpts{ID: "towne-oaks", Title: "Funnel"})
	require.NoError(t, err)
	output := string(html)
	assert.True(t, strings.HasPrefix(output, "<svg"))
	assert.NotContains(t, output, "<?xml")
	assert.Contains(t, output, "1.06%")
	assert.Contains(t, output, "Impressions")
	assert.Contains(t, output, `id="towne-oaks-funnel-fill"`)
	assert.Equal(t, 2, strings.Count(output, "<path"), "one arrow between each pair of stages")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(output), "</svg>"))

	_, err = Funnel(nil, FunnelOpts{})
	assert.Error(t, err)
}
