package plots

import (
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func TestGridOrientation(t *testing.T) {
	g := EvalGrid(func(x []float64) float64 { return 10*x[0] + x[1] }, []float64{0, 1, 2}, []float64{5, 6})
	c, r := g.Dims()
	if c != 3 || r != 2 {
		t.Fatalf("dims %d×%d", c, r)
	}
	if z := g.Z(2, 1); z != 26 {
		t.Errorf("Z(2,1) = %v, want value at x=2 y=6", z)
	}
	if g.X(1) != 1 || g.Y(0) != 5 {
		t.Errorf("axes wrong")
	}
	var _ plotter.GridXYZ = g
}

func TestFigures(t *testing.T) {
	dir := t.TempDir()
	rnd := rand.New(rand.NewPCG(1, 1))
	gamma := distuv.Gamma{Alpha: 4, Beta: 1, Src: rnd}
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = gamma.Rand()
	}

	hist, err := Histogram("t=1000", xs, 100, gamma.Prob, Range{0, 10}, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	trace, err := Trace("path", xs, Range{-3, 12})
	if err != nil {
		t.Fatal(err)
	}
	line, err := Line("t=1000", "sigma", "accept_rate", []float64{1, 2, 3}, []float64{0.9, 0.5, 0.3})
	if err != nil {
		t.Fatal(err)
	}
	lin := Linspace(-5, 5, 30)
	g := EvalGrid(func(x []float64) float64 { return math.Exp(-(x[0]*x[0] + x[1]*x[1]) / 2) }, lin, lin)
	contour, err := Contour("N=3", g, 8, plotter.XYs{{X: 0, Y: 1}, {X: 1, Y: 0}}, plotter.XYs{{X: -1, Y: -1}})
	if err != nil {
		t.Fatal(err)
	}
	box, err := BoxPlot("N(0, 1)", []string{"G", "AIC"}, [][]float64{xs[:50], xs[50:100]})
	if err != nil {
		t.Fatal(err)
	}
	bars, err := ErrorBars("deviation", "scenario", "|est - G|", []float64{0, 1}, []string{"AIC", "WAIC"},
		[][]float64{{0.1, 0.2}, {0.05, 0.1}}, [][]float64{{0.01, 0.02}, {0.01, 0.01}})
	if err != nil {
		t.Fatal(err)
	}

	for name, p := range map[string]*plot.Plot{
		"hist.png":    hist,
		"trace.png":   trace,
		"line.png":    line,
		"contour.png": contour,
		"box.png":     box,
		"bars.png":    bars,
	} {
		path := filepath.Join(dir, name)
		if err := Save(p, 4*vg.Inch, 3*vg.Inch, path); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestContourFlat(t *testing.T) {
	lin := Linspace(0, 1, 5)
	g := EvalGrid(func([]float64) float64 { return 1 }, lin, lin)
	p, err := Contour("flat", g, 5)
	if err != nil {
		t.Fatal(err)
	}
	img := Render(p, 2*vg.Inch, 2*vg.Inch)
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty image %v", b)
	}
}

func TestHistogramEmpty(t *testing.T) {
	if _, err := Histogram("empty", nil, 10, nil, Range{0, 1}, 0); err == nil {
		t.Errorf("no error for an empty sample")
	}
}
