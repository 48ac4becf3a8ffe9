package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/measure/calib"
)

// ErrNoSeries is returned when a figure would have nothing to draw.
var ErrNoSeries = errors.New("chart: no series to draw")

// Canvas size of the saved figures.
const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

func seriesColor(i int) color.RGBA {
	return palette[i%len(palette)]
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}

	return pts
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true

	return p
}

// addSeries draws one loop as a polyline with scatter markers.
func addSeries(p *plot.Plot, label string, pts plotter.XYs, c color.RGBA) error {
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("chart: series %s: %w", label, err)
	}

	line.Color = c
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(2)
	scatter.Shape = draw.CircleGlyph{}

	p.Add(line, scatter)
	p.Legend.Add(label, line, scatter)

	return nil
}

// hrule draws a dashed horizontal line spanning [xMin, xMax] at level y.
func hrule(p *plot.Plot, y, xMin, xMax float64, c color.RGBA) error {
	line, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}})
	if err != nil {
		return fmt.Errorf("chart: rule: %w", err)
	}

	line.Color = c
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(line)

	return nil
}

func xSpan(loops []store.Experiment) (lo, hi float64) {
	first := true
	for _, exp := range loops {
		for _, v := range exp.X {
			if first || v < lo {
				lo = v
			}

			if first || v > hi {
				hi = v
			}

			first = false
		}
	}

	return lo, hi
}

// Loops renders the given loops overlaid in one figure. Each non-zero
// entry of rules adds a dashed horizontal line, e.g. for tail means; a
// rule at zero marks the normalized baseline.
func Loops(path, title, yLabel string, loops []store.Experiment, rules []float64) error {
	if len(loops) == 0 {
		return ErrNoSeries
	}

	p := newPlot(title, "Field [mT]", yLabel)

	for i, exp := range loops {
		label := fmt.Sprintf("experiment %d", i+1)
		if err := addSeries(p, label, xys(exp.X, exp.Y), seriesColor(i)); err != nil {
			return err
		}
	}

	lo, hi := xSpan(loops)
	grey := color.RGBA{R: 120, G: 120, B: 120, A: 255}

	for _, r := range rules {
		if err := hrule(p, r, lo, hi, grey); err != nil {
			return err
		}
	}

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}

// LoopMirror renders a loop next to its parity transform with the
// symmetry centre marked, the visual check that the centre estimate
// makes the two curves coincide.
func LoopMirror(path string, x, y, xt, yt []float64, xc, yc float64) error {
	p := newPlot("Loop vs parity transform", "Field [mT]", "Signal")

	if err := addSeries(p, "measured", xys(x, y), seriesColor(0)); err != nil {
		return err
	}

	if err := addSeries(p, "transformed", xys(xt, yt), seriesColor(1)); err != nil {
		return err
	}

	centre, err := plotter.NewScatter(plotter.XYs{{X: xc, Y: yc}})
	if err != nil {
		return fmt.Errorf("chart: centre marker: %w", err)
	}

	centre.GlyphStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	centre.GlyphStyle.Radius = vg.Points(4)
	centre.Shape = draw.CrossGlyph{}

	p.Add(centre)
	p.Legend.Add("centre", centre)

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}

// Fitted renders scatter points with their fitted line, annotating the
// title with the fit equation.
func Fitted(path, title, xLabel, yLabel string, x, y []float64, fit calib.Fit) error {
	if len(x) == 0 {
		return ErrNoSeries
	}

	eq := fmt.Sprintf("%s (y = %.4f x %+.4f, R² = %.4f)", title, fit.Slope, fit.Intercept, fit.R2)
	p := newPlot(eq, xLabel, yLabel)

	scatter, err := plotter.NewScatter(xys(x, y))
	if err != nil {
		return fmt.Errorf("chart: scatter: %w", err)
	}

	scatter.GlyphStyle.Color = seriesColor(0)
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}

	lo, hi := x[0], x[0]
	for _, v := range x {
		if v < lo {
			lo = v
		}

		if v > hi {
			hi = v
		}
	}

	line, err := plotter.NewLine(plotter.XYs{
		{X: lo, Y: fit.Predict(lo)},
		{X: hi, Y: fit.Predict(hi)},
	})
	if err != nil {
		return fmt.Errorf("chart: fit line: %w", err)
	}

	line.Color = seriesColor(1)

	p.Add(scatter, line)
	p.Legend.Add("measured", scatter)
	p.Legend.Add("fit", line)

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}

// Scatter renders a plain scatter figure, used for saturation against
// centre values.
func Scatter(path, title, xLabel, yLabel string, x, y []float64) error {
	if len(x) == 0 {
		return ErrNoSeries
	}

	p := newPlot(title, xLabel, yLabel)

	scatter, err := plotter.NewScatter(xys(x, y))
	if err != nil {
		return fmt.Errorf("chart: scatter: %w", err)
	}

	scatter.GlyphStyle.Color = seriesColor(0)
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}

	p.Add(scatter)

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}
