package platform

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	plotTitle    = "Cross-Platform Reuse"
	plotSubtitle = "Statement categorization across component sources"

	// plotFileLimit bounds the per-file bar chart; beyond this the labels
	// become unreadable anyway.
	plotFileLimit = 30

	plotAxisRotate = 45
	plotPieRadius  = "60%"

	colorWeb    = "#5470c6"
	colorNative = "#ee6666"
	colorShared = "#91cc75"
)

// WriteHTML renders the summary as a standalone HTML page with a category
// pie chart and a per-file reusability bar chart. Display only; the JSON
// report is the machine-readable contract.
func WriteHTML(summary *ProjectSummary, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = plotTitle

	page.AddCharts(
		categoryPieChart(summary),
		fileReuseBarChart(summary),
	)

	renderErr := page.Render(w)
	if renderErr != nil {
		return fmt.Errorf("render plot page: %w", renderErr)
	}

	return nil
}

func categoryPieChart(summary *ProjectSummary) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: plotTitle, Subtitle: plotSubtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	pieData := []opts.PieData{
		{Name: "Web", Value: summary.WebCount, ItemStyle: &opts.ItemStyle{Color: colorWeb}},
		{Name: "Native", Value: summary.NativeCount, ItemStyle: &opts.ItemStyle{Color: colorNative}},
		{Name: "Shared", Value: summary.SharedCount, ItemStyle: &opts.ItemStyle{Color: colorShared}},
	}

	pie.AddSeries("Statements", pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: plotPieRadius}),
		)

	return pie
}

func fileReuseBarChart(summary *ProjectSummary) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Reusability by File"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: plotAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reusability %", Max: 100}),
	)

	files := summary.Files
	if len(files) > plotFileLimit {
		files = files[:plotFileLimit]
	}

	labels := make([]string, len(files))
	barData := make([]opts.BarData, len(files))

	for i, tally := range files {
		labels[i] = tally.Path
		barData[i] = opts.BarData{
			Value:     tally.Reusability(),
			ItemStyle: &opts.ItemStyle{Color: reuseColor(tally.Reusability())},
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Reusability", barData)

	return bar
}

func reuseColor(percent float64) string {
	switch {
	case percent >= reuseGoodThreshold:
		return colorShared
	case percent >= reuseFairThreshold:
		return "#fac858"
	default:
		return colorNative
	}
}
