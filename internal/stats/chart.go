package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML line chart of the streams, one series per
// player, x axis in game order.
func RenderChart(w io.Writer, title string, streams map[string][]float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	longest := 0
	for _, values := range streams {
		if len(values) > longest {
			longest = len(values)
		}
	}
	games := make([]string, longest)
	for i := range games {
		games[i] = fmt.Sprintf("%d", i+1)
	}
	line = line.SetXAxis(games)

	names := make([]string, 0, len(streams))
	for name := range streams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		items := make([]opts.LineData, 0, len(streams[name]))
		for _, v := range streams[name] {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}
