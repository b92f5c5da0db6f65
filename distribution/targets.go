package distribution

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// GammaKernel is the unnormalized density
//
//	p(x) ∝ x^(Shape-1) exp(-x)
//
// on x > 0, one-dimensional. With Shape = 4 it is the x^3 e^-x target of the
// Metropolis demonstrations, whose normalized form is Gamma(4, 1).
type GammaKernel struct {
	Shape float64
}

func (g GammaKernel) LogProb(x []float64) float64 {
	if len(x) != 1 {
		panic("distribution: GammaKernel is one-dimensional")
	}
	v := x[0]
	if v <= 0 {
		return math.Inf(-1)
	}
	return (g.Shape-1)*math.Log(v) - v
}

func (g GammaKernel) ScoreInput(deriv, x []float64) []float64 {
	if deriv == nil {
		deriv = make([]float64, 1)
	}
	if len(x) != 1 || len(deriv) != 1 {
		panic("distribution: GammaKernel is one-dimensional")
	}
	deriv[0] = (g.Shape-1)/x[0] - 1
	return deriv
}

// Prob returns the normalized Gamma(Shape, 1) density.
func (g GammaKernel) Prob(x []float64) float64 {
	if len(x) != 1 {
		panic("distribution: GammaKernel is one-dimensional")
	}
	return distuv.Gamma{Alpha: g.Shape, Beta: 1}.Prob(x[0])
}

// Quartic is the density
//
//	p(x) = exp(-H(x)) / Z,  H(x) = sum_i x_i^4
//
// used by the Langevin and Hamiltonian demonstrations. Its force
// -dH/dx = -4x^3 is the score.
type Quartic struct{}

// quarticNorm is ∫ exp(-x^4) dx over the real line, 2Γ(5/4).
var quarticNorm = 2 * math.Gamma(1.25)

// Potential returns H(x).
func (Quartic) Potential(x []float64) float64 {
	var h float64
	for _, v := range x {
		v2 := v * v
		h += v2 * v2
	}
	return h
}

func (q Quartic) LogProb(x []float64) float64 {
	return -q.Potential(x)
}

func (Quartic) ScoreInput(deriv, x []float64) []float64 {
	if deriv == nil {
		deriv = make([]float64, len(x))
	}
	if len(deriv) != len(x) {
		panic("distribution: length mismatch")
	}
	for i, v := range x {
		deriv[i] = -4 * v * v * v
	}
	return deriv
}

func (q Quartic) Prob(x []float64) float64 {
	return math.Exp(q.LogProb(x)) / math.Pow(quarticNorm, float64(len(x)))
}

// Func1D adapts a Prober to a function of a scalar, for plotting one-dimensional
// densities.
func Func1D(p Prober) func(float64) float64 {
	x := make([]float64, 1)
	return func(v float64) float64 {
		x[0] = v
		return p.Prob(x)
	}
}
