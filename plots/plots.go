// Package plots draws the figures of the demos with gonum/plot: sample
// histograms against the target density, chain traces, predictive density
// contours, box plots of repeated estimates and simple line charts.
package plots

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure sizes.
var (
	HistWidth    = 6.4 * vg.Inch
	HistHeight   = 4.8 * vg.Inch
	SquareWidth  = 10 * vg.Inch
	SquareHeight = 10 * vg.Inch
)

// Range bounds an axis.
type Range struct {
	Min, Max float64
}

// Histogram returns a histogram of xs normalized to unit area with the
// density overlaid. x bounds the horizontal axis and ymax the vertical one;
// a zero ymax leaves the vertical axis automatic.
func Histogram(title string, xs []float64, bins int, density func(float64) float64, x Range, ymax float64) (*plot.Plot, error) {
	if len(xs) == 0 {
		return nil, errors.New("histogram of an empty sample")
	}
	p := plot.New()
	p.Title.Text = title

	h, err := plotter.NewHist(plotter.Values(xs), bins)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bin samples")
	}
	h.Normalize(1)
	h.FillColor = plotutil.SoftColors[2]
	h.LineStyle.Width = 0
	p.Add(h)

	if density != nil {
		f := plotter.NewFunction(density)
		f.Samples = 1000
		f.Color = plotutil.Color(1)
		f.Width = vg.Points(1.5)
		p.Add(f)
	}
	p.X.Min, p.X.Max = x.Min, x.Max
	if ymax > 0 {
		p.Y.Min, p.Y.Max = 0, ymax
	}
	return p, nil
}

// Trace plots a chain against its step number.
func Trace(title string, xs []float64, y Range) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "x"

	pts := make(plotter.XYs, len(xs))
	for i, v := range xs {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build trace")
	}
	l.Color = plotutil.Color(0)
	p.Add(l)
	p.Y.Min, p.Y.Max = y.Min, y.Max
	return p, nil
}

// Line plots ys against xs.
func Line(title, xlabel, ylabel string, xs, ys []float64) (*plot.Plot, error) {
	if len(xs) != len(ys) {
		panic("plots: length mismatch")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	if err := plotutil.AddLinePoints(p, ylabel, pts); err != nil {
		return nil, errors.Wrap(err, "failed to add line")
	}
	p.Legend.Top = true
	return p, nil
}

// Grid is a function sampled on a rectangular lattice. Z(c, r) is the value
// at (Xs[c], Ys[r]). It implements plotter.GridXYZ.
type Grid struct {
	Xs, Ys []float64
	Values mat.Matrix // len(Ys)×len(Xs)
}

func (g Grid) Dims() (c, r int)   { return len(g.Xs), len(g.Ys) }
func (g Grid) Z(c, r int) float64 { return g.Values.At(r, c) }
func (g Grid) X(c int) float64    { return g.Xs[c] }
func (g Grid) Y(r int) float64    { return g.Ys[r] }

// EvalGrid samples f on the lattice xs × ys.
func EvalGrid(f func(x []float64) float64, xs, ys []float64) Grid {
	v := mat.NewDense(len(ys), len(xs), nil)
	pt := make([]float64, 2)
	for r, y := range ys {
		row := v.RawRowView(r)
		for c, x := range xs {
			pt[0], pt[1] = x, y
			row[c] = f(pt)
		}
	}
	return Grid{Xs: xs, Ys: ys, Values: v}
}

// Linspace returns n evenly spaced points over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Contour draws level curves of g, optionally over scatter groups of
// points. A grid with no variation draws no curves.
func Contour(title string, g Grid, levels int, groups ...plotter.XYer) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title

	for i, pts := range groups {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build scatter")
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			z := g.Z(i, j)
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}
	if hi > lo && levels > 0 {
		// Interior levels only; the extremes give degenerate curves.
		ls := floats.Span(make([]float64, levels+2), lo, hi)[1 : levels+1]
		p.Add(plotter.NewContour(g, ls, palette.Heat(levels, 1)))
	}
	p.X.Min, p.X.Max = g.Xs[0], g.Xs[len(g.Xs)-1]
	p.Y.Min, p.Y.Max = g.Ys[0], g.Ys[len(g.Ys)-1]
	return p, nil
}

// Points converts the rows of a two-column matrix to plotter points.
func Points(m mat.Matrix) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := range pts {
		pts[i].X, pts[i].Y = m.At(i, 0), m.At(i, 1)
	}
	return pts
}

// BoxPlot draws one box per named column.
func BoxPlot(title string, names []string, columns [][]float64) (*plot.Plot, error) {
	if len(names) != len(columns) {
		panic("plots: length mismatch")
	}
	p := plot.New()
	p.Title.Text = title
	w := vg.Points(20)
	for i, col := range columns {
		b, err := plotter.NewBoxPlot(w, float64(i), plotter.Values(col))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build box for %s", names[i])
		}
		b.FillColor = plotutil.SoftColors[i%len(plotutil.SoftColors)]
		p.Add(b)
	}
	p.NominalX(names...)
	return p, nil
}

type yerrs struct {
	plotter.XYs
	plotter.YErrors
}

// ErrorBars plots means at locations with symmetric error bars, one series
// per name. Each series is drawn as a line with points so that the legend
// identifies it.
func ErrorBars(title, xlabel, ylabel string, locs []float64, names []string, means, errs [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	for i, name := range names {
		bars, err := makeErrorBars(locs, means[i], errs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build error bars for %s", name)
		}
		bars.Color = plotutil.Color(i)
		if err := plotutil.AddLinePoints(p, name, bars.XYs); err != nil {
			return nil, errors.Wrap(err, "failed to add line")
		}
		p.Add(bars)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	return p, nil
}

func makeErrorBars(locs, means, eims []float64) (*plotter.YErrorBars, error) {
	if len(locs) != len(means) || len(means) != len(eims) {
		panic("plots: slice length mismatch")
	}
	xys := make(plotter.XYs, len(locs))
	yErrors := make(plotter.YErrors, len(locs))
	for i, v := range means {
		xys[i].X = locs[i]
		xys[i].Y = v
		yErrors[i].Low = eims[i]
		yErrors[i].High = eims[i]
	}
	return plotter.NewYErrorBars(yerrs{xys, yErrors})
}

// Save writes p to path; the format follows the file extension.
func Save(p *plot.Plot, w, h vg.Length, path string) error {
	return errors.Wrapf(p.Save(w, h, path), "failed to save %s", path)
}

// Render rasterizes p, for assembling animation frames in memory.
func Render(p *plot.Plot, w, h vg.Length) image.Image {
	c := vgimg.New(w, h)
	p.Draw(draw.New(c))
	return c.Image()
}
