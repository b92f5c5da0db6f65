// Package mcmc implements Markov chain Monte Carlo sampling. A single runner,
// Run, drives every Metropolis-family chain; the Kernel decides how a
// candidate is proposed and how it is weighed against the current state.
package mcmc

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Kernel proposes a move of a Markov chain. Propose writes the candidate
// into candidate and returns the log of the Metropolis-Hastings ratio
//
//	log p(candidate) q(current|candidate) - log p(current) q(candidate|current)
//
// The candidate is accepted with probability min(1, exp(logRatio)). Kernels
// that always move return +Inf.
type Kernel interface {
	Propose(rnd *rand.Rand, current, candidate []float64) (logRatio float64)
}

// Termination records why a chain stopped.
type Termination int

const (
	// Completed means every requested step was taken.
	Completed Termination = iota
	// NonFinite means the chain would have moved to a state with an Inf or
	// NaN coordinate. That state is not recorded.
	NonFinite
)

func (t Termination) String() string {
	switch t {
	case Completed:
		return "completed"
	case NonFinite:
		return "non-finite state"
	}
	return "unknown"
}

// Chain is the trajectory of a run. Row i of Samples is the state after
// step i+1; the initial state is not included. If the chain stopped early
// Samples holds the steps taken before the stop, and is nil when no step
// completed.
type Chain struct {
	Samples  *mat.Dense
	Dim      int
	Steps    int // Number of recorded steps.
	Accepted int
	Reason   Termination
}

// AcceptRate returns the fraction of recorded steps whose proposal was
// accepted.
func (c *Chain) AcceptRate() float64 {
	if c.Steps == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Steps)
}

// Column returns a copy of coordinate j of every recorded state.
func (c *Chain) Column(j int) []float64 {
	if c.Samples == nil {
		return nil
	}
	return mat.Col(nil, j, c.Samples)
}

// Last returns a copy of the final recorded state, or nil for an empty chain.
func (c *Chain) Last() []float64 {
	if c.Samples == nil {
		return nil
	}
	return mat.Row(nil, c.Steps-1, c.Samples)
}

// AcceptProb converts a log Metropolis-Hastings ratio into an acceptance
// probability in [0, 1]. A NaN ratio is never accepted.
func AcceptProb(logRatio float64) float64 {
	if math.IsNaN(logRatio) {
		return 0
	}
	if logRatio >= 0 {
		return 1
	}
	return math.Exp(logRatio)
}

// Run takes steps transitions of the kernel starting from x0 and records each
// state. Randomness comes only from rnd, so runs with equally seeded
// generators are identical.
//
// A proposal is accepted when log(u) < logRatio for u ~ U(0,1). If an
// accepted candidate has a non-finite coordinate the chain stops with reason
// NonFinite and the partial trajectory is returned.
func Run(rnd *rand.Rand, k Kernel, x0 []float64, steps int) *Chain {
	if steps < 0 {
		panic("mcmc: negative number of steps")
	}
	dim := len(x0)
	if dim == 0 {
		panic("mcmc: zero dimensional state")
	}
	chain := &Chain{Dim: dim}
	if !finite(x0) {
		chain.Reason = NonFinite
		return chain
	}

	current := make([]float64, dim)
	copy(current, x0)
	candidate := make([]float64, dim)
	data := make([]float64, steps*dim)

	var accepted, t int
	for t = 0; t < steps; t++ {
		logRatio := k.Propose(rnd, current, candidate)
		if math.Log(rnd.Float64()) < logRatio {
			if !finite(candidate) {
				chain.Reason = NonFinite
				break
			}
			accepted++
			current, candidate = candidate, current
		}
		copy(data[t*dim:(t+1)*dim], current)
	}
	chain.Steps = t
	chain.Accepted = accepted
	if t > 0 {
		chain.Samples = mat.NewDense(t, dim, data[:t*dim])
	}
	return chain
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
