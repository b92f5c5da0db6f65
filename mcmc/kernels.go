package mcmc

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/fujihiraryo/watanabe-bayes/distribution"
)

// RandomWalk is the Metropolis kernel with a symmetric Gaussian proposal of
// standard deviation Sigma centered on the current state.
type RandomWalk struct {
	Target distribution.LogProber
	Sigma  float64
}

func (r RandomWalk) Propose(rnd *rand.Rand, current, candidate []float64) float64 {
	if r.Sigma <= 0 {
		panic("mcmc: non-positive proposal width")
	}
	for i, v := range current {
		candidate[i] = v + r.Sigma*rnd.NormFloat64()
	}
	return r.Target.LogProb(candidate) - r.Target.LogProb(current)
}

// Independence is the Metropolis-Hastings kernel whose proposal ignores the
// current state and draws from Proposal. The ratio carries the Hastings
// correction for the asymmetric proposal.
type Independence struct {
	Target   distribution.LogProber
	Proposal distribution.IndependentGaussian
}

func (ind Independence) Propose(rnd *rand.Rand, current, candidate []float64) float64 {
	if ind.Proposal.Dim() != len(current) {
		panic("mcmc: length mismatch")
	}
	q := ind.Proposal.WithSource(rnd)
	q.Rand(candidate)
	return ind.Target.LogProb(candidate) + q.LogProb(current) - ind.Target.LogProb(current) - q.LogProb(candidate)
}

// Langevin proposes by a discretized Langevin diffusion
//
//	y = x + Eps*f(x) + sqrt(2*Eps)*g,  g ~ N(0, I)
//
// where f is the score of the target. With Adjusted set the move is accepted
// according to Threshold (MALA); otherwise every move is taken and the chain
// samples a biased approximation of the target.
type Langevin struct {
	Target   distribution.Target
	Eps      float64
	Adjusted bool
}

func (l Langevin) Propose(rnd *rand.Rand, current, candidate []float64) float64 {
	if l.Eps <= 0 {
		panic("mcmc: non-positive step size")
	}
	f := l.Target.ScoreInput(nil, current)
	scale := math.Sqrt(2 * l.Eps)
	for i, v := range current {
		candidate[i] = v + l.Eps*f[i] + scale*rnd.NormFloat64()
	}
	if !l.Adjusted {
		return math.Inf(1)
	}
	return langevinLogRatio(l.Target, l.Eps, current, candidate)
}

// LangevinTransition returns log q(y|x) for the Langevin proposal, the
// density of Normal(x + eps*f(x), 2*eps*I) at y.
func LangevinTransition(target distribution.ScoreInputer, eps float64, y, x []float64) float64 {
	f := target.ScoreInput(nil, x)
	var ss float64
	for i := range y {
		d := y[i] - x[i] - eps*f[i]
		ss += d * d
	}
	dim := float64(len(x))
	return -ss/(4*eps) - 0.5*dim*math.Log(4*math.Pi*eps)
}

func langevinLogRatio(target distribution.Target, eps float64, x, y []float64) float64 {
	return target.LogProb(y) + LangevinTransition(target, eps, x, y) -
		target.LogProb(x) - LangevinTransition(target, eps, y, x)
}

// Threshold returns the MALA probability of accepting a move from x to y,
//
//	min(1, p(y) q(x|y) / (p(x) q(y|x)))
//
// which makes the chain satisfy detailed balance with respect to p.
func Threshold(target distribution.Target, eps float64, x, y []float64) float64 {
	if len(x) != len(y) {
		panic("mcmc: length mismatch")
	}
	return AcceptProb(langevinLogRatio(target, eps, x, y))
}

// Hamiltonian is the hybrid Monte Carlo kernel. Each step draws a fresh
// momentum from N(0, I), integrates Leapfrog steps of size Eps and accepts on
// the change of total energy U(x) + |p|^2/2 with U = -log p.
type Hamiltonian struct {
	Target   distribution.Target
	Eps      float64
	Leapfrog int
}

func (h Hamiltonian) Propose(rnd *rand.Rand, current, candidate []float64) float64 {
	if h.Eps <= 0 {
		panic("mcmc: non-positive step size")
	}
	if h.Leapfrog <= 0 {
		panic("mcmc: non-positive leapfrog count")
	}
	p := make([]float64, len(current))
	for i := range p {
		p[i] = rnd.NormFloat64()
	}
	kinetic0 := 0.5 * floats.Dot(p, p)
	copy(candidate, current)
	Leapfrog(h.Target, h.Eps, h.Leapfrog, candidate, p)
	kinetic := 0.5 * floats.Dot(p, p)
	return kinetic0 - kinetic + h.Target.LogProb(candidate) - h.Target.LogProb(current)
}

// Leapfrog integrates Hamiltonian dynamics with potential -log p for n steps
// of size eps, updating position x and momentum p in place.
func Leapfrog(target distribution.ScoreInputer, eps float64, n int, x, p []float64) {
	if len(x) != len(p) {
		panic("mcmc: length mismatch")
	}
	f := make([]float64, len(x))
	for s := 0; s < n; s++ {
		target.ScoreInput(f, x)
		floats.AddScaled(p, eps/2, f)
		floats.AddScaled(x, eps, p)
		target.ScoreInput(f, x)
		floats.AddScaled(p, eps/2, f)
	}
}
