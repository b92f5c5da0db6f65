package mixture

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var testClusters = []Cluster{
	{Mean: []float64{0, 3}, N: 30},
	{Mean: []float64{1, -1}, N: 40},
	{Mean: []float64{-3, -3}, N: 50},
}

func TestGenerate(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 1))
	x, labels := Generate(rnd, testClusters)
	r, c := x.Dims()
	if r != 120 || c != 2 || len(labels) != 120 {
		t.Fatalf("got %d×%d with %d labels", r, c, len(labels))
	}
	if labels[0] != 0 || labels[30] != 1 || labels[119] != 2 {
		t.Errorf("labels not laid out by cluster")
	}
}

func TestDirichletWeights(t *testing.T) {
	rnd := rand.New(rand.NewPCG(2, 3))
	x, _ := Generate(rnd, testClusters)
	g := Gibbs{K: 3, Prior: DefaultPrior}
	hist := g.Run(rnd, x, 50)
	if len(hist) != 51 {
		t.Fatalf("history length %d, want 51", len(hist))
	}
	for i, s := range hist {
		for _, w := range s.Weights {
			if w < 0 {
				t.Errorf("iteration %d: negative weight %v", i, w)
			}
		}
		if sum := floats.Sum(s.Weights); math.Abs(sum-1) > 1e-12 {
			t.Errorf("iteration %d: weights sum to %v", i, sum)
		}
	}
}

func TestPosteriorNoPrior(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{
		1, 2,
		3, 4,
		-1, 0,
		5, 6,
		2, 2,
	})
	assign := []int{0, 0, 1, 0, 1}
	c := Posterior(x, assign, 2, Prior{})
	want := mat.NewDense(2, 2, []float64{
		3, 4,
		0.5, 1,
	})
	if !mat.EqualApprox(c.Beta, want, 1e-14) {
		t.Errorf("beta = %v, want sample means %v", mat.Formatted(c.Beta), mat.Formatted(want))
	}
	if c.Count[0] != 3 || c.Count[1] != 2 {
		t.Errorf("counts %v", c.Count)
	}
}

func TestPosteriorEmptyComponent(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 1, 2, 2})
	c := Posterior(x, []int{0, 0}, 3, DefaultPrior)
	for _, k := range []int{1, 2} {
		if c.Alpha[k] != 1 || c.Gamma[k] != 2 {
			t.Errorf("component %d: alpha %v gamma %v, want prior", k, c.Alpha[k], c.Gamma[k])
		}
		if floats.Norm(c.Beta.RawRowView(k), 2) != 0 {
			t.Errorf("component %d: beta %v, want origin", k, c.Beta.RawRowView(k))
		}
	}
	// Drawing from an empty component must not produce NaN.
	s := c.Draw(rand.New(rand.NewPCG(1, 1)))
	if floats.HasNaN(s.Means.RawMatrix().Data) || floats.HasNaN(s.Weights) {
		t.Errorf("NaN in draw %v", s)
	}
}

func TestInverseCDF(t *testing.T) {
	cum := []float64{0.2, 0.5, 1 - 1e-16}
	for _, test := range []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.19, 0},
		{0.2, 1},
		{0.7, 2},
		{0.9999999999999999, 2},
	} {
		if got := inverseCDF(cum, test.u); got != test.want {
			t.Errorf("u = %v: got %d, want %d", test.u, got, test.want)
		}
	}
}

func TestGibbsImprovesFit(t *testing.T) {
	rnd := rand.New(rand.NewPCG(4, 4))
	x, _ := Generate(rnd, testClusters)
	hist := Gibbs{K: 3, Prior: DefaultPrior}.Run(rnd, x, 50)
	before := MeanLogDensity(hist[0].Density, x)
	after := MeanLogDensity(BayesPredictive(hist[len(hist)-10:]), x)
	if after <= before {
		t.Errorf("mean log predictive %v did not improve on initial %v", after, before)
	}
}

func TestGibbsDeterministic(t *testing.T) {
	x, _ := Generate(rand.New(rand.NewPCG(5, 5)), testClusters)
	g := Gibbs{K: 3, Prior: DefaultPrior}
	a := g.Run(rand.New(rand.NewPCG(6, 6)), x, 10)
	b := g.Run(rand.New(rand.NewPCG(6, 6)), x, 10)
	last := len(a) - 1
	if !mat.Equal(a[last].Means, b[last].Means) || !floats.Equal(a[last].Weights, b[last].Weights) {
		t.Errorf("equally seeded runs differ")
	}
}

func TestMeanFieldInvariants(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 7))
	x, _ := Generate(rnd, []Cluster{
		{Mean: []float64{0, 3}, N: 30},
		{Mean: []float64{2, -2}, N: 45},
		{Mean: []float64{-3, -3}, N: 25},
	})
	n, _ := x.Dims()
	mf := MeanField{K: 3}
	hist := mf.Run(rnd, x, 30)
	if len(hist) != 31 {
		t.Fatalf("history length %d, want 31", len(hist))
	}
	for i, v := range hist {
		// Phi and Tau start equal and receive the same increments.
		if !floats.EqualApprox(v.Phi, v.Tau, 1e-9) {
			t.Errorf("iteration %d: phi %v tau %v", i, v.Phi, v.Tau)
		}
		want := float64(mf.K + i*n)
		if got := floats.Sum(v.Phi); math.Abs(got-want) > 1e-8 {
			t.Errorf("iteration %d: sum phi %v, want %v", i, got, want)
		}
	}
	if hist[0].Change != 0 || hist[1].Change == 0 {
		t.Errorf("change diagnostic %v, %v", hist[0].Change, hist[1].Change)
	}

	y := Responsibilities(x, hist[len(hist)-1])
	for i := 0; i < n; i++ {
		if s := floats.Sum(y.RawRowView(i)); math.Abs(s-1) > 1e-12 {
			t.Errorf("row %d responsibilities sum to %v", i, s)
		}
	}
}

func TestMeanFieldStepPure(t *testing.T) {
	rnd := rand.New(rand.NewPCG(8, 8))
	x, _ := Generate(rnd, testClusters)
	mf := MeanField{K: 3}
	v := mf.Init(rnd, 2)
	mu := mat.DenseCopyOf(v.Mu)
	phi := append([]float64(nil), v.Phi...)
	mf.Step(x, v)
	if !mat.Equal(mu, v.Mu) || !floats.Equal(phi, v.Phi) {
		t.Errorf("Step modified its input")
	}
}

func TestPredictiveNormalized(t *testing.T) {
	rnd := rand.New(rand.NewPCG(9, 9))
	x, _ := Generate(rnd, testClusters)
	gibbs := BayesPredictive(Gibbs{K: 3, Prior: DefaultPrior}.Run(rnd, x, 5))
	mf := MeanField{K: 3}.Run(rnd, x, 5)
	for _, test := range []struct {
		name string
		p    Density
	}{
		{"gibbs", gibbs},
		{"meanfield-initial", mf[0].Predictive},
		{"meanfield", mf[len(mf)-1].Predictive},
	} {
		// Riemann sum over a box wide enough to hold all the mass.
		const (
			lo, hi = -15.0, 15.0
			n      = 300
		)
		h := (hi - lo) / n
		var sum float64
		pt := make([]float64, 2)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				pt[0] = lo + (float64(i)+0.5)*h
				pt[1] = lo + (float64(j)+0.5)*h
				sum += test.p(pt)
			}
		}
		sum *= h * h
		if math.Abs(sum-1) > 1e-3 {
			t.Errorf("%s: density integrates to %v", test.name, sum)
		}
	}
}
