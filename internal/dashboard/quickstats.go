package dashboard

import (
	"fmt"
	"strconv"

	"milpower/internal/charts"
	"milpower/internal/dataset"
)

const (
	// BrowserTitle is the document title on every page.
	BrowserTitle  = "Global Military Power"
	Title         = "Global Military Power Dashboard"
	MapTitle      = "Military Rank by Country"
	InsightsTitle = "INSIGHTS"
	TopTitle      = "Top 5 countries by power index"
	BubbleTitle   = "GDP Vs Military Budget"

	topN = 5
)

// KPI: one tile. Value is the raw number, Display what the tile prints.
type KPI struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Display     string  `json:"display"`
}

// Visitor: the caller's country when geo lookup is enabled.
type Visitor struct {
	ISO         string `json:"iso"`
	Country     string `json:"country"`
	InSelection bool   `json:"in_selection"`
}

// QuickStatsView is everything the Quick Stats page renders for one selection.
type QuickStatsView struct {
	Title     string            `json:"title"`
	Selection dataset.Selection `json:"selection"`
	Options   Options           `json:"options"`
	Empty     bool              `json:"empty"`
	KPIs      []KPI             `json:"kpis"`
	Rows      []dataset.Country `json:"rows"`
	Top5      []dataset.Country `json:"top5"`
	Map       charts.Figure     `json:"map"`
	TopBar    charts.Figure     `json:"top_bar"`
	Bubble    charts.Figure     `json:"bubble"`
	Visitor   *Visitor          `json:"visitor,omitempty"`
}

// QuickStats filters the table by sel and computes the page. KPIs of an empty subset are zero.
// Background: all three dropdowns combine with AND; each must equal an offered value.
// Constraint: the Top 5 list ignores sel and always ranks the whole table.
func QuickStats(t *dataset.Table, sel dataset.Selection) (*QuickStatsView, error) {
	opts, err := OptionsFor(t)
	if err != nil {
		return nil, err
	}
	rows := t.Filter(sel)
	kpis, err := KPIs(rows)
	if err != nil {
		return nil, err
	}
	top, err := t.NSmallest(topN, dataset.FieldPowerIndex)
	if err != nil {
		return nil, err
	}
	return &QuickStatsView{
		Title:     Title,
		Selection: sel,
		Options:   opts,
		Empty:     len(rows) == 0,
		KPIs:      kpis,
		Rows:      rows,
		Top5:      top,
		Map:       charts.ChoroplethFigure(rows),
		TopBar:    charts.TopBarFigure(top),
		Bubble:    charts.BubbleFigure(rows),
	}, nil
}

// WithVisitor attaches the visitor's country; an empty name leaves the view unchanged.
func (v *QuickStatsView) WithVisitor(iso, country string) {
	if country == "" {
		return
	}
	vis := &Visitor{ISO: iso, Country: country}
	for _, r := range v.Rows {
		if r.Name == country {
			vis.InSelection = true
			break
		}
	}
	v.Visitor = vis
}

// KPIs computes the five tiles over rows.
func KPIs(rows []dataset.Country) ([]KPI, error) {
	power, err := dataset.Mean(rows, dataset.FieldPowerIndex)
	if err != nil {
		return nil, err
	}
	budget, err := dataset.Sum(rows, dataset.FieldMilitaryBudget)
	if err != nil {
		return nil, err
	}
	gdp, err := dataset.Mean(rows, dataset.FieldGDP)
	if err != nil {
		return nil, err
	}
	personnel := dataset.SumPersonnel(rows)
	return []KPI{
		{Label: "KPI 1", Description: "Countries", Value: float64(len(rows)), Display: strconv.Itoa(len(rows))},
		{Label: "KPI 2", Description: "Avg Power Index", Value: power, Display: fmt.Sprintf("%.3f", power)},
		{Label: "KPI 3", Description: "Military Budget (USD bn)", Value: budget, Display: strconv.FormatFloat(budget, 'f', -1, 64)},
		{Label: "KPI 4", Description: "Avg GDP (USD tn)", Value: gdp, Display: fmt.Sprintf("%.2f", gdp)},
		{Label: "KPI 5", Description: "Personnel", Value: float64(personnel), Display: strconv.FormatInt(personnel, 10)},
	}, nil
}
