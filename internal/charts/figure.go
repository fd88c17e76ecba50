// Package charts builds the three dashboard visualisations: Plotly figures rendered in the
// browser, and server-side SVG renditions of the bar and bubble charts via go-chart.
package charts

import (
	"milpower/internal/dataset"
)

// Figure is the subset of the Plotly figure schema the dashboard emits.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type         string    `json:"type"`
	Name         string    `json:"name,omitempty"`
	Locations    []string  `json:"locations,omitempty"`
	LocationMode string    `json:"locationmode,omitempty"`
	Z            []float64 `json:"z,omitempty"`
	ColorScale   [][2]any  `json:"colorscale,omitempty"`
	ShowScale    *bool     `json:"showscale,omitempty"`
	X            any       `json:"x,omitempty"`
	Y            any       `json:"y,omitempty"`
	Orientation  string    `json:"orientation,omitempty"`
	Mode         string    `json:"mode,omitempty"`
	Text         []string  `json:"text,omitempty"`
	Marker       *Marker   `json:"marker,omitempty"`
	HoverTmpl    string    `json:"hovertemplate,omitempty"`
}

type Marker struct {
	Color      any       `json:"color,omitempty"`
	ColorScale [][2]any  `json:"colorscale,omitempty"`
	ShowScale  *bool     `json:"showscale,omitempty"`
	Size       []float64 `json:"size,omitempty"`
	SizeMode   string    `json:"sizemode,omitempty"`
	SizeRef    float64   `json:"sizeref,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title     string `json:"title,omitempty"`
	Visible   *bool  `json:"visible,omitempty"`
	AutoRange string `json:"autorange,omitempty"`
}

type Geo struct {
	ShowFrame      bool `json:"showframe"`
	ShowCoastlines bool `json:"showcoastlines"`
}

type Layout struct {
	Height     int    `json:"height"`
	Margin     Margin `json:"margin"`
	ShowLegend *bool  `json:"showlegend,omitempty"`
	XAxis      *Axis  `json:"xaxis,omitempty"`
	YAxis      *Axis  `json:"yaxis,omitempty"`
	Geo        *Geo   `json:"geo,omitempty"`
}

// Figure heights of the original layout, in pixels.
const (
	MapHeight    = 400
	BarHeight    = 260
	BubbleHeight = 200

	maxBubblePx = 40
)

func boolPtr(b bool) *bool { return &b }

// ChoroplethFigure shades each country of rows by PowerIndex on the Reds scale, colour bar hidden.
func ChoroplethFigure(rows []dataset.Country) Figure {
	z, _ := dataset.Numbers(rows, dataset.FieldPowerIndex)
	return Figure{
		Data: []Trace{{
			Type:         "choropleth",
			Locations:    dataset.Names(rows),
			LocationMode: "country names",
			Z:            z,
			ColorScale:   RedsScale(),
			ShowScale:    boolPtr(false),
			HoverTmpl:    "%{location}<br>PowerIndex=%{z}<extra></extra>",
		}},
		Layout: Layout{
			Height: MapHeight,
			Geo:    &Geo{ShowFrame: false, ShowCoastlines: true},
		},
	}
}

// TopBarFigure is a horizontal bar of PowerIndex per country with the first row drawn on top.
func TopBarFigure(rows []dataset.Country) Figure {
	x, _ := dataset.Numbers(rows, dataset.FieldPowerIndex)
	return Figure{
		Data: []Trace{{
			Type:        "bar",
			X:           x,
			Y:           dataset.Names(rows),
			Orientation: "h",
			Marker:      &Marker{Color: BarColor},
		}},
		Layout: Layout{
			Height:     BarHeight,
			ShowLegend: boolPtr(false),
			XAxis:      &Axis{Visible: boolPtr(false)},
			YAxis:      &Axis{AutoRange: "reversed"},
		},
	}
}

// BubbleFigure plots GDP against MilitaryBudget; bubble area follows Personnel and colour
// follows PowerIndex. sizeref follows Plotly Express: 2*max/maxPx².
func BubbleFigure(rows []dataset.Country) Figure {
	x, _ := dataset.Numbers(rows, dataset.FieldGDP)
	y, _ := dataset.Numbers(rows, dataset.FieldMilitaryBudget)
	size, _ := dataset.Numbers(rows, dataset.FieldPersonnel)
	color, _ := dataset.Numbers(rows, dataset.FieldPowerIndex)
	_, maxSize := minMax(size)
	sizeRef := 1.0
	if maxSize > 0 {
		sizeRef = 2 * maxSize / (maxBubblePx * maxBubblePx)
	}
	return Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "markers",
			X:    x,
			Y:    y,
			Text: dataset.Names(rows),
			Marker: &Marker{
				Color:      color,
				ColorScale: RedsScale(),
				ShowScale:  boolPtr(false),
				Size:       size,
				SizeMode:   "area",
				SizeRef:    sizeRef,
			},
			HoverTmpl: "%{text}<br>GDP=%{x}<br>MilitaryBudget=%{y}<br>Personnel=%{marker.size}<extra></extra>",
		}},
		Layout: Layout{
			Height: BubbleHeight,
			XAxis:  &Axis{Title: dataset.FieldGDP},
			YAxis:  &Axis{Title: dataset.FieldMilitaryBudget},
		},
	}
}
