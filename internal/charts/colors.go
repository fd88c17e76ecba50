package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// BarColor is the single bar colour of the Top 5 chart.
const BarColor = "#4d4d4d"

// reds is the ColorBrewer sequential "Reds" ramp, light to dark.
var reds = []string{
	"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
	"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
}

// RedsScale returns the ramp as Plotly colorscale stops ([position, colour] pairs).
func RedsScale() [][2]any {
	out := make([][2]any, len(reds))
	for i, c := range reds {
		out[i] = [2]any{float64(i) / float64(len(reds)-1), c}
	}
	return out
}

// Reds maps v within [vmin, vmax] onto the ramp with linear interpolation between stops.
// A degenerate range maps to the middle of the ramp.
func Reds(v, vmin, vmax float64) drawing.Color {
	t := 0.5
	if vmax > vmin {
		t = (v - vmin) / (vmax - vmin)
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(reds)-1)
	lo := int(math.Floor(pos))
	if lo >= len(reds)-1 {
		return drawing.ColorFromHex(reds[len(reds)-1])
	}
	a, b := drawing.ColorFromHex(reds[lo]), drawing.ColorFromHex(reds[lo+1])
	f := pos - float64(lo)
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func minMax(vs []float64) (float64, float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
