package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/olguin/portfolio/internal/analytics"
	"github.com/olguin/portfolio/internal/casestudy"
)

// WriteTotalsCSV serialises the campaign totals of a project.
func WriteTotalsCSV(w io.Writer, slug string, totals analytics.MetricTotals) error {
	return writeRecords(w, []string{"Metric", "Value"}, [][]string{
		{"Project", slug},
		{"Reach", formatFloat(totals.Reach)},
		{"Impressions", formatFloat(totals.Impressions)},
		{"LP Views", formatFloat(totals.LPV)},
		{"Spend", formatFloat(totals.Spend)},
	})
}

// WriteDerivedCSV emits the derived ratios with four decimals.
func WriteDerivedCSV(w io.Writer, derived analytics.Derived) error {
	return writeRecords(w, []string{"Derived Metric", "Value"}, [][]string{
		{"CPM", formatRatio(derived.CostPerMille)},
		{"Frequency", formatRatio(derived.Frequency)},
		{"LPV Rate %", formatRatio(derived.OutcomeRate)},
		{"LPV per 1k Impressions", formatRatio(derived.OutcomePerMille)},
		{"Cost per LPV", formatRatio(derived.CostPerOutcome)},
	})
}

// WriteMonthlyCSV emits one row per reporting period.
func WriteMonthlyCSV(w io.Writer, monthly []casestudy.MonthlyFigure) error {
	records := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		records = append(records, []string{m.Month, formatFloat(m.LPV), formatFloat(m.Spend)})
	}
	return writeRecords(w, []string{"Period", "LP Views", "Spend"}, records)
}

// WriteChannelsCSV prints the GA4 channel table.
func WriteChannelsCSV(w io.Writer, channels []casestudy.GA4Channel) error {
	records := make([][]string, 0, len(channels))
	for _, ch := range channels {
		records = append(records, []string{
			ch.Name,
			formatFloat(ch.Sessions),
			formatFloat(ch.SessionShare),
			formatFloat(ch.EngagedSessions),
			formatFloat(ch.EngagementRate),
			ch.AvgEngagementTime,
			formatFloat(ch.EventsPerSession),
			formatFloat(ch.EventCount),
		})
	}
	return writeRecords(w, []string{"Channel", "Sessions", "Session Share %", "Engaged Sessions", "Engagement Rate %", "Avg Engagement Time", "Events per Session", "Event Count"}, records)
}

func writeRecords(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(analytics.Finite(v), 'f', -1, 64)
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(analytics.Finite(v), 'f', 4, 64)
}
