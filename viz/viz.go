// Package viz renders alignment and optimizer diagnostics with gonum/plot.
package viz

import (
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// Default output size.
const (
	Width  = 5 * vg.Inch
	Height = 4 * vg.Inch
)

// overlapGrid exposes a K1×K2 overlap matrix as a heat map grid with states
// of the second labeling on the x axis.
type overlapGrid struct {
	m mat.Matrix
}

func (g overlapGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g overlapGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g overlapGrid) X(c int) float64    { return float64(c) }
func (g overlapGrid) Y(r int) float64    { return float64(r) }

// OverlapHeatMap draws an overlap matrix, rows on the y axis.
func OverlapHeatMap(overlap mat.Matrix, title string) (*plot.Plot, error) {
	r, c := overlap.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "OverlapHeatMap")
	}

	hm := plotter.NewHeatMap(overlapGrid{m: overlap}, palette.Heat(12, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "state (labeling 2)"
	p.Y.Label.Text = "state (labeling 1)"
	p.Add(hm)
	return p, nil
}

// TracePlotOption configures TracePlot.
type TracePlotOption func(*traceConfig)

type traceConfig struct {
	yLabel string
	logY   bool
}

// WithYLabel sets the y axis label.
func WithYLabel(label string) TracePlotOption {
	return func(c *traceConfig) {
		c.yLabel = label
	}
}

// WithLogY puts the y axis on a log scale. All values must be positive.
func WithLogY() TracePlotOption {
	return func(c *traceConfig) {
		c.logY = true
	}
}

// TracePlot draws one value per iteration, such as the loss or mean step
// recorded by an optimizer callback.
func TracePlot(values []float64, title string, opts ...TracePlotOption) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "TracePlot")
	}
	cfg := traceConfig{yLabel: "value"}
	for _, opt := range opts {
		opt(&cfg)
	}

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewNumericalInstabilityError("TracePlot", []float64{v}, i)
		}
		if cfg.logY && v <= 0 {
			return nil, errors.NewValueError("TracePlot", "log scale requires positive values")
		}
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "TracePlot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = cfg.yLabel
	if cfg.logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// Save writes p to path using the default size. The format follows the file
// extension (png, svg, pdf, ...).
func Save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save plot to %s", path)
	}
	return nil
}

// Write encodes p in the given format ("png", "svg", ...) to w.
func Write(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return errors.Wrap(err, "encode plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write plot")
	}
	return nil
}
