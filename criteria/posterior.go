package criteria

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fujihiraryo/watanabe-bayes/mcmc"
)

// Sampler draws from the posterior of the mixture given data x. It returns
// k draws after discarding the first burn.
type Sampler interface {
	Sample(rnd *rand.Rand, x []float64, k, burn int) []Draw
}

// Gibbs samples the posterior at inverse temperature one by data
// augmentation. Each sweep labels every point with the component that
// produced it and then draws (a, b) from the conjugate full conditional
//
//	a | y ~ Beta(1 + n1, 1 + n0)
//	b | y ~ N(sum_{y_i=1} x_i / (1 + n1), 1/(1 + n1))
//
// where n1 is the number of points labeled with the second component. The
// conditional is always formed from the prior, never from the previous
// sweep's hyperparameters.
type Gibbs struct{}

func (Gibbs) Sample(rnd *rand.Rand, x []float64, k, burn int) []Draw {
	checkCounts(k, burn)
	d := Draw{
		A: distuv.Beta{Alpha: 1, Beta: 1, Src: rnd}.Rand(),
		B: rnd.NormFloat64(),
	}
	draws := make([]Draw, 0, k-burn)
	for s := 0; s < k; s++ {
		var n1, sum float64
		for _, v := range x {
			l0 := math.Log1p(-d.A) + distuv.UnitNormal.LogProb(v)
			l1 := math.Log(d.A) + distuv.UnitNormal.LogProb(v-d.B)
			if rnd.Float64() >= math.Exp(l0-logAddExp(l0, l1)) {
				n1++
				sum += v
			}
		}
		n0 := float64(len(x)) - n1
		d.A = distuv.Beta{Alpha: 1 + n1, Beta: 1 + n0, Src: rnd}.Rand()
		d.B = distuv.Normal{Mu: sum / (1 + n1), Sigma: 1 / math.Sqrt(1+n1), Src: rnd}.Rand()
		if s >= burn {
			draws = append(draws, d)
		}
	}
	return draws
}

// Tempered samples the power posterior
//
//	prior(a, b) × prod_i p(x_i | a, b)^Beta
//
// with a random-walk Metropolis chain on (a, b) started at (1/2, 0). The
// proposal width is Step/sqrt(1 + Beta*n), shrinking with the concentration
// of the posterior.
type Tempered struct {
	Beta float64
	Step float64
}

type powerPosterior struct {
	x    []float64
	beta float64
}

func (p powerPosterior) LogProb(theta []float64) float64 {
	d := Draw{A: theta[0], B: theta[1]}
	lp := LogPrior(d)
	if math.IsInf(lp, -1) {
		return lp
	}
	if p.beta == 0 {
		return lp
	}
	return lp + p.beta*LogLikelihood(p.x, d)
}

func (t Tempered) Sample(rnd *rand.Rand, x []float64, k, burn int) []Draw {
	checkCounts(k, burn)
	chain := t.Chain(rnd, x, k)
	if chain.Reason != mcmc.Completed {
		panic("criteria: posterior chain stopped: " + chain.Reason.String())
	}
	draws := make([]Draw, 0, k-burn)
	for s := burn; s < k; s++ {
		draws = append(draws, Draw{A: chain.Samples.At(s, 0), B: chain.Samples.At(s, 1)})
	}
	return draws
}

// Chain runs the Metropolis chain for k steps and returns it whole, for
// inspecting its trajectory and acceptance rate.
func (t Tempered) Chain(rnd *rand.Rand, x []float64, k int) *mcmc.Chain {
	if t.Beta < 0 {
		panic("criteria: negative inverse temperature")
	}
	if t.Step <= 0 {
		panic("criteria: non-positive step")
	}
	kernel := mcmc.RandomWalk{
		Target: powerPosterior{x: x, beta: t.Beta},
		Sigma:  t.Step / math.Sqrt(1+t.Beta*float64(len(x))),
	}
	return mcmc.Run(rnd, kernel, []float64{0.5, 0}, k)
}

func checkCounts(k, burn int) {
	if burn < 0 || k <= burn {
		panic("criteria: need more draws than burn-in")
	}
}
