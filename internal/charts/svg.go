package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"milpower/internal/dataset"
)

var ErrNoData = errors.New("no data to chart")

const (
	DefaultWidth = 480

	minBubbleRadius = 4.0
	maxBubbleRadius = 18.0
)

// Top5SVG draws rows as horizontal bars of PowerIndex, first row at the top, no x axis.
// go-chart's BarChart is vertical only, so bars are laid out by hand on its SVG renderer.
func Top5SVG(rows []dataset.Country, width, height int) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	width, height = orDefault(width, DefaultWidth), orDefault(height, BarHeight)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	labelStyle := chart.Style{Font: font, FontSize: 10, FontColor: drawing.ColorFromHex("333333")}
	valueStyle := chart.Style{Font: font, FontSize: 9, FontColor: drawing.ColorFromHex("333333")}
	barStyle := chart.Style{
		FillColor:   drawing.ColorFromHex(BarColor[1:]),
		StrokeColor: drawing.ColorFromHex(BarColor[1:]),
		StrokeWidth: 1,
	}

	chart.Draw.Box(r, chart.NewBox(0, 0, width, height), chart.Style{FillColor: chart.ColorWhite, StrokeColor: chart.ColorWhite, StrokeWidth: 1})

	labelWidth := 0
	for _, c := range rows {
		if w := chart.Draw.MeasureText(r, c.Name, labelStyle).Width(); w > labelWidth {
			labelWidth = w
		}
	}
	const pad, gap, valueRoom = 6, 6, 40
	left := pad + labelWidth + pad
	right := width - pad - valueRoom
	if right <= left {
		return nil, fmt.Errorf("chart too narrow: width %d", width)
	}
	slot := (height - 2*pad) / len(rows)
	barHeight := slot - gap
	if barHeight < 2 {
		return nil, fmt.Errorf("chart too short: height %d for %d bars", height, len(rows))
	}
	_, hi := minMax(mustNumbers(rows, dataset.FieldPowerIndex))
	if hi <= 0 {
		hi = 1
	}

	for i, c := range rows {
		top := pad + i*slot + gap/2
		barLen := int(math.Round(float64(right-left) * c.PowerIndex / hi))
		if barLen < 1 {
			barLen = 1
		}
		chart.Draw.Box(r, chart.NewBox(top, left, left+barLen, top+barHeight), barStyle)

		lb := chart.Draw.MeasureText(r, c.Name, labelStyle)
		baseline := top + barHeight/2 + lb.Height()/2
		chart.Draw.Text(r, html.EscapeString(c.Name), left-pad-lb.Width(), baseline, labelStyle)
		chart.Draw.Text(r, strconv.FormatFloat(c.PowerIndex, 'f', 3, 64), left+barLen+4, baseline, valueStyle)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BubbleSVG draws GDP (x) against MilitaryBudget (y). Dot radius grows with the square root
// of Personnel so area tracks headcount; dot colour follows PowerIndex on the Reds ramp.
// Axis ranges are explicit so a single-country subset still has a non-zero span.
func BubbleSVG(rows []dataset.Country, width, height int) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	width, height = orDefault(width, DefaultWidth), orDefault(height, BubbleHeight)
	xs := mustNumbers(rows, dataset.FieldGDP)
	ys := mustNumbers(rows, dataset.FieldMilitaryBudget)
	people := mustNumbers(rows, dataset.FieldPersonnel)
	power := mustNumbers(rows, dataset.FieldPowerIndex)
	_, maxPeople := minMax(people)
	pMin, pMax := minMax(power)

	xMin, xMax := paddedRange(xs)
	yMin, yMax := paddedRange(ys)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 10, Left: 10, Right: 16, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  dataset.FieldGDP,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  dataset.FieldMilitaryBudget,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "countries",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
						if maxPeople <= 0 || index >= len(people) {
							return minBubbleRadius
						}
						return minBubbleRadius + (maxBubbleRadius-minBubbleRadius)*math.Sqrt(people[index]/maxPeople)
					},
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						if index >= len(power) {
							return Reds(0, 0, 0)
						}
						return Reds(power[index], pMin, pMax)
					},
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render bubble chart: %w", err)
	}
	return buf.Bytes(), nil
}

// NoDataSVG is the placeholder served when a filter leaves nothing to plot.
func NoDataSVG(width, height int) ([]byte, error) {
	width, height = orDefault(width, DefaultWidth), orDefault(height, BubbleHeight)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	chart.Draw.Box(r, chart.NewBox(0, 0, width, height), chart.Style{FillColor: chart.ColorWhite, StrokeColor: chart.ColorWhite, StrokeWidth: 1})
	style := chart.Style{Font: font, FontSize: 12, FontColor: drawing.ColorFromHex("777777")}
	tb := chart.Draw.MeasureText(r, "No data", style)
	chart.Draw.Text(r, "No data", (width-tb.Width())/2, (height+tb.Height())/2, style)
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paddedRange(vs []float64) (float64, float64) {
	lo, hi := minMax(vs)
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	lo, hi = lo-span*0.15, hi+span*0.15
	if lo < 0 && minNonNegative(vs) {
		lo = 0
	}
	return lo, hi
}

func minNonNegative(vs []float64) bool {
	for _, v := range vs {
		if v < 0 {
			return false
		}
	}
	return true
}

func mustNumbers(rows []dataset.Country, field string) []float64 {
	vs, err := dataset.Numbers(rows, field)
	if err != nil {
		panic(err)
	}
	return vs
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
