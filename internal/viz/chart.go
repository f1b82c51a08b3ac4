package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Chart plots values as an ASCII line graph. Fewer than two values give
// an empty string.
func Chart(values []float64, width, height int, caption string) string {
	if len(values) < 2 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Width(width)}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.Plot(values, opts...)
}

// Charts plots several series on shared axes.
func Charts(series [][]float64, width, height int, caption string) string {
	if len(series) == 0 || len(series[0]) < 2 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue, asciigraph.Green),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany(series, opts...)
}
