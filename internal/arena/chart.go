package arena

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page with a stacked bar chart of the results.
func RenderChart(w io.Writer, results []Result) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "AI arena",
			Subtitle: "Outcomes per pairing, X moves first",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "600px",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(results))
	xWins := make([]opts.BarData, 0, len(results))
	oWins := make([]opts.BarData, 0, len(results))
	draws := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		labels = append(labels, r.String())
		xWins = append(xWins, opts.BarData{Value: r.XWins})
		oWins = append(oWins, opts.BarData{Value: r.OWins})
		draws = append(draws, opts.BarData{Value: r.Draws})
	}

	bar.SetXAxis(labels).
		AddSeries("X wins", xWins).
		AddSeries("O wins", oWins).
		AddSeries("Draws", draws).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "games"}))

	page := components.NewPage()
	page.AddCharts(bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render arena chart: %w", err)
	}
	return nil
}
