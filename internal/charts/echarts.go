// Package charts renders CoVISI analysis results: an interactive HTML
// comparison chart for pre/post manual-cleaning review and a static PNG plot
// of per-unit values against the filtering threshold.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hdsemg-data/motorunit.report/internal/covisi"
)

// RenderComparisonChart writes an HTML bar chart of per-unit CoVISI before
// and after manual cleaning, with the threshold noted in the subtitle.
// Undefined values render as gaps.
func RenderComparisonChart(cmp *covisi.Comparison, title string, w io.Writer) error {
	if title == "" {
		title = "CoVISI pre/post cleaning"
	}

	labels := make([]string, 0, len(cmp.Details))
	pre := make([]opts.BarData, 0, len(cmp.Details))
	post := make([]opts.BarData, 0, len(cmp.Details))
	for _, d := range cmp.Details {
		labels = append(labels, fmt.Sprintf("MU %d", d.MUIndex))
		pre = append(pre, opts.BarData{Value: barValue(d.CoVISIPre)})
		post = append(post, opts.BarData{Value: barValue(d.CoVISIPost)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Subtitle: fmt.Sprintf("threshold=%g%% pre=%d post=%d removed=%d",
				cmp.ThresholdUsed, cmp.PreMUCount, cmp.PostMUCount, cmp.MUsRemoved),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Motor unit"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "CoVISI (%)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels).
		AddSeries("pre-cleaning", pre).
		AddSeries("post-cleaning", post)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render comparison chart: %w", err)
	}
	return nil
}

// SaveComparisonChart renders the comparison chart to an HTML file.
func SaveComparisonChart(cmp *covisi.Comparison, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", path, err)
	}
	defer f.Close()

	if err := RenderComparisonChart(cmp, title, f); err != nil {
		return err
	}
	return f.Close()
}

// barValue maps an undefined CoVISI to the echarts gap marker.
func barValue(v covisi.Float) interface{} {
	if v.IsNaN() {
		return "-"
	}
	return float64(v)
}
