package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hdsemg-data/motorunit.report/internal/covisi"
)

// SaveCoVISIPlot writes a PNG of per-unit whole-contraction CoVISI with a
// horizontal line at the filtering threshold. Undefined units are skipped.
func SaveCoVISIPlot(t *covisi.Table, threshold float64, title, path string) error {
	if title == "" {
		title = "CoVISI per motor unit"
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Motor unit"
	p.Y.Label.Text = "CoVISI (%)"

	pts := make(plotter.XYs, 0, len(t.Rows))
	for _, row := range t.Rows {
		v := float64(row.All)
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(row.MUIndex), Y: v})
	}

	if len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("covisi points: %w", err)
		}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("covisi_all", scatter)
	}

	// Threshold line across the full unit range.
	maxX := float64(len(t.Rows) - 1)
	if maxX < 1 {
		maxX = 1
	}
	thresholdLine, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: threshold},
		{X: maxX + 0.5, Y: threshold},
	})
	if err != nil {
		return fmt.Errorf("threshold line: %w", err)
	}
	thresholdLine.Color = color.RGBA{R: 200, A: 255}
	thresholdLine.Width = vg.Points(1)
	thresholdLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(thresholdLine)
	p.Legend.Add(fmt.Sprintf("threshold %g%%", threshold), thresholdLine)

	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save covisi plot: %w", err)
	}
	return nil
}
