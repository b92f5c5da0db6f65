package distribution

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// IndependentGaussian is a Gaussian distribution where the
// dimensions are independent from one another.
type IndependentGaussian struct {
	Norms []distuv.Normal
}

// NewIndependentGaussian returns a Gaussian with the given per-dimension means
// and standard deviations. Draws use src.
func NewIndependentGaussian(mu, sigma []float64, src rand.Source) IndependentGaussian {
	if len(mu) != len(sigma) {
		panic("distribution: length mismatch")
	}
	norms := make([]distuv.Normal, len(mu))
	for i := range norms {
		norms[i] = distuv.Normal{Mu: mu[i], Sigma: sigma[i], Src: src}
	}
	return IndependentGaussian{Norms: norms}
}

func (ind IndependentGaussian) Rand(x []float64) []float64 {
	if x == nil {
		x = make([]float64, len(ind.Norms))
	}
	if len(x) != len(ind.Norms) {
		panic("distribution: length mismatch")
	}
	for i := range x {
		x[i] = ind.Norms[i].Rand()
	}
	return x
}

func (ind IndependentGaussian) Dim() int {
	return len(ind.Norms)
}

func (ind IndependentGaussian) LogProb(x []float64) float64 {
	if len(x) != len(ind.Norms) {
		panic("distribution: length mismatch")
	}
	var logprob float64
	for i, v := range x {
		logprob += ind.Norms[i].LogProb(v)
	}
	return logprob
}

func (ind IndependentGaussian) Prob(x []float64) float64 {
	return math.Exp(ind.LogProb(x))
}

// WithSource returns a copy of ind whose draws use src.
func (ind IndependentGaussian) WithSource(src rand.Source) IndependentGaussian {
	norms := make([]distuv.Normal, len(ind.Norms))
	for i, n := range ind.Norms {
		n.Src = src
		norms[i] = n
	}
	return IndependentGaussian{Norms: norms}
}

func (ind IndependentGaussian) ScoreInput(deriv, x []float64) []float64 {
	if deriv == nil {
		deriv = make([]float64, ind.Dim())
	}
	if len(deriv) != ind.Dim() {
		panic("distribution: length mismatch")
	}
	if len(x) != ind.Dim() {
		panic("distribution: length mismatch")
	}
	for i, xi := range x {
		deriv[i] = ind.Norms[i].ScoreInput(xi)
	}
	return deriv
}
