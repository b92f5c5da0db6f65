package mixture

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Prior is the conjugate prior of the Gibbs sampler: a symmetric
// Dirichlet(Alpha0) on the mixing weights and Normal(0, I/Tau0) on each
// component mean.
type Prior struct {
	Alpha0 float64
	Tau0   float64
}

// DefaultPrior is Dirichlet(1, ..., 1) and Normal(0, I).
var DefaultPrior = Prior{Alpha0: 1, Tau0: 1}

// Sample is one draw of the mixture parameters.
type Sample struct {
	Weights []float64
	Means   *mat.Dense // K×dim, row k is the mean of component k.
}

// Density returns the mixture density sum_k w_k N(x | m_k, I).
func (s Sample) Density(x []float64) float64 {
	var p float64
	for k, w := range s.Weights {
		p += w * unitNormal(x, s.Means.RawRowView(k), 1)
	}
	return p
}

// Conditional holds the parameters of the full conditional of the weights
// and means given an assignment.
//
//	weights ~ Dirichlet(Alpha)
//	mean_k  ~ Normal(Beta_k, I/Gamma_k)
type Conditional struct {
	Alpha []float64
	Gamma []float64
	Beta  *mat.Dense
	Count []int
}

// Gibbs is the blocked Gibbs sampler for the mixture. Each sweep draws every
// assignment given the parameters and then the parameters given the
// assignments.
type Gibbs struct {
	K     int
	Prior Prior
}

// Init returns the starting state: equal weights and every mean at the
// origin.
func (g Gibbs) Init(dim int) Sample {
	if g.K <= 0 {
		panic("mixture: non-positive number of components")
	}
	w := make([]float64, g.K)
	for k := range w {
		w[k] = 1 / float64(g.K)
	}
	return Sample{Weights: w, Means: mat.NewDense(g.K, dim, nil)}
}

// Assign draws a component for every row of x. The responsibilities are
// normalized in the log domain and a single uniform draw per row selects the
// component by inverse CDF.
func (g Gibbs) Assign(rnd *rand.Rand, x mat.Matrix, s Sample) []int {
	n, _ := x.Dims()
	k := len(s.Weights)
	logw := make([]float64, k)
	cum := make([]float64, k)
	assign := make([]int, n)
	var row []float64
	for i := range assign {
		row = mat.Row(row, i, x)
		for j, w := range s.Weights {
			d := floats.Distance(row, s.Means.RawRowView(j), 2)
			logw[j] = math.Log(w) - d*d/2
		}
		lse := floats.LogSumExp(logw)
		for j := range logw {
			cum[j] = math.Exp(logw[j] - lse)
		}
		floats.CumSum(cum, cum)
		assign[i] = inverseCDF(cum, rnd.Float64())
	}
	return assign
}

func inverseCDF(cum []float64, u float64) int {
	for k, c := range cum {
		if u < c {
			return k
		}
	}
	// Rounding can leave the last cumulative weight just below u.
	return len(cum) - 1
}

// Posterior returns the full conditional of the parameters given the
// assignment of each row of x to one of k components.
//
//	Alpha_k = Alpha0 + n_k
//	Gamma_k = Tau0 + Alpha_k
//	Beta_k  = sum_{i in k} x_i / Gamma_k
//
// With the default prior an empty component has Alpha_k = 1 and Beta_k = 0,
// the prior itself. With Alpha0 = Tau0 = 0 Beta_k is the sample mean of the
// rows assigned to k.
func Posterior(x mat.Matrix, assign []int, k int, prior Prior) Conditional {
	n, dim := x.Dims()
	if len(assign) != n {
		panic("mixture: length mismatch")
	}
	c := Conditional{
		Alpha: make([]float64, k),
		Gamma: make([]float64, k),
		Beta:  mat.NewDense(k, dim, nil),
		Count: make([]int, k),
	}
	for i, a := range assign {
		c.Count[a]++
		beta := c.Beta.RawRowView(a)
		for j := range beta {
			beta[j] += x.At(i, j)
		}
	}
	for j := 0; j < k; j++ {
		c.Alpha[j] = prior.Alpha0 + float64(c.Count[j])
		c.Gamma[j] = prior.Tau0 + c.Alpha[j]
		floats.Scale(1/c.Gamma[j], c.Beta.RawRowView(j))
	}
	return c
}

// Draw samples the weights and means from the conditional.
func (c Conditional) Draw(rnd *rand.Rand) Sample {
	k, dim := c.Beta.Dims()
	w := distmv.NewDirichlet(c.Alpha, rnd).Rand(nil)
	means := mat.NewDense(k, dim, nil)
	for j := 0; j < k; j++ {
		sd := 1 / math.Sqrt(c.Gamma[j])
		m := means.RawRowView(j)
		for d, b := range c.Beta.RawRowView(j) {
			m[d] = b + sd*rnd.NormFloat64()
		}
	}
	return Sample{Weights: w, Means: means}
}

// Step performs one sweep and returns the new parameters together with the
// assignment drawn on the way.
func (g Gibbs) Step(rnd *rand.Rand, x mat.Matrix, s Sample) (Sample, []int) {
	assign := g.Assign(rnd, x, s)
	return Posterior(x, assign, g.K, g.Prior).Draw(rnd), assign
}

// Run performs iters sweeps from Init. The returned history has iters+1
// entries; entry 0 is the initial state.
func (g Gibbs) Run(rnd *rand.Rand, x mat.Matrix, iters int) []Sample {
	_, dim := x.Dims()
	hist := make([]Sample, 0, iters+1)
	s := g.Init(dim)
	hist = append(hist, s)
	for t := 0; t < iters; t++ {
		s, _ = g.Step(rnd, x, s)
		hist = append(hist, s)
	}
	return hist
}

// BayesPredictive returns the posterior predictive density estimated from
// the draws in hist: the average of their mixture densities.
func BayesPredictive(hist []Sample) Density {
	if len(hist) == 0 {
		panic("mixture: empty history")
	}
	return func(x []float64) float64 {
		var p float64
		for _, s := range hist {
			p += s.Density(x)
		}
		return p / float64(len(hist))
	}
}

// unitNormal is the density of Normal(mu, I*v) at x.
func unitNormal(x, mu []float64, v float64) float64 {
	d := floats.Distance(x, mu, 2)
	return math.Exp(-d*d/(2*v)) / math.Pow(2*math.Pi*v, float64(len(x))/2)
}
