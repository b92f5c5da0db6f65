// Package criteria estimates generalization loss and free energy of a
// two-component Gaussian mixture from posterior draws. It provides the
// training and generalization losses, AIC, WAIC, importance-sampling cross
// validation, the free energy by thermodynamic integration, BIC and WBIC.
//
// The learning machine is
//
//	p(x | a, b) = (1-a) N(x | 0, 1) + a N(x | b, 1)
//
// with prior a ~ Beta(1, 1), b ~ N(0, 1). The model has d = 2 parameters and
// is singular where a = 0 or b = 0.
package criteria

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NumParams is the dimension d of the parameter space.
const NumParams = 2

// Draw is one parameter value (a, b).
type Draw struct {
	A, B float64
}

// LogDensity returns log p(x | a, b), computed without leaving the log
// domain so that a = 0 or a = 1 are handled exactly.
func LogDensity(x float64, d Draw) float64 {
	l0 := math.Log1p(-d.A) + distuv.UnitNormal.LogProb(x)
	l1 := math.Log(d.A) + distuv.UnitNormal.LogProb(x-d.B)
	return logAddExp(l0, l1)
}

// LogLikelihood returns sum_i log p(x_i | a, b).
func LogLikelihood(x []float64, d Draw) float64 {
	var l float64
	for _, v := range x {
		l += LogDensity(v, d)
	}
	return l
}

// LogPrior returns the log density of the Beta(1,1) × N(0,1) prior.
func LogPrior(d Draw) float64 {
	if d.A < 0 || d.A > 1 {
		return math.Inf(-1)
	}
	return distuv.UnitNormal.LogProb(d.B)
}

func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// Truth is the distribution that generates the data,
//
//	(1-A) N(0, S^2) + A N(B, S^2)
//
// The model is realizable when S = 1.
type Truth struct {
	A, B, S float64
}

// Generate draws n points from the true distribution.
func (t Truth) Generate(rnd *rand.Rand, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		mu := 0.0
		if rnd.Float64() >= 1-t.A {
			mu = t.B
		}
		x[i] = mu + t.S*rnd.NormFloat64()
	}
	return x
}

// Realizable reports whether the truth lies in the model.
func (t Truth) Realizable() bool {
	return t.S == 1
}

// Regular reports whether the true parameter is a regular point of the
// model, so that the Fisher information is positive definite there.
func (t Truth) Regular() bool {
	return t.A > 0 && t.A < 1 && t.B != 0
}
