package analytics

// Tile is a headline KPI card.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Chip is a compact computed-metric badge with a hover explanation.
type Chip struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Tooltip string `json:"tooltip"`
}

// KPITiles builds the five headline cards shown above a campaign dashboard.
func KPITiles(f *Formatter, t MetricTotals, d Derived) []Tile {
	return []Tile{
		{Label: "Reach", Value: f.Int(t.Reach)},
		{Label: "Impressions", Value: f.Int(t.Impressions)},
		{Label: "LP Views", Value: f.Int(t.LPV)},
		{Label: "Spend", Value: f.Currency(t.Spend)},
		{Label: "Cost/LPV", Value: f.Money(d.CostPerOutcome, 2)},
	}
}

// Chips builds the computed-metric row.
func Chips(f *Formatter, d Derived) []Chip {
	return []Chip{
		{Label: "CPM", Value: f.Money(d.CostPerMille, 2), Tooltip: "Cost per 1,000 impressions"},
		{Label: "Frequency", Value: f.Decimal(d.Frequency, 1), Tooltip: "Avg impressions per user"},
		{Label: "LPV Rate", Value: f.Rate(d.OutcomeRate), Tooltip: "LP views / impressions"},
		{Label: "LPV/1k Imp", Value: f.Decimal(d.OutcomePerMille, 1), Tooltip: "LP views per 1,000 impressions"},
	}
}
