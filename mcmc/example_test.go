package mcmc_test

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/fujihiraryo/watanabe-bayes/distribution"
	"github.com/fujihiraryo/watanabe-bayes/mcmc"
)

func ExampleRun() {
	// This example samples the density proportional to x^3 e^-x with a
	// random-walk Metropolis chain, the classic textbook demonstration.
	// The normalized target is Gamma(4, 1), whose mean is 4.
	rnd := rand.New(rand.NewPCG(1, 2))
	target := distribution.GammaKernel{Shape: 4}
	kernel := mcmc.RandomWalk{Target: target, Sigma: 30}

	chain := mcmc.Run(rnd, kernel, []float64{4}, 10000)
	mean := stat.Mean(chain.Column(0), nil)

	fmt.Printf("reason = %v\n", chain.Reason)
	fmt.Printf("accept rate = %0.2f\n", chain.AcceptRate())
	fmt.Printf("mean = %0.2f\n", mean)
}

func ExampleHamiltonian() {
	// Hybrid Monte Carlo on exp(-x^4) with ten leapfrog steps per move.
	rnd := rand.New(rand.NewPCG(1, 2))
	kernel := mcmc.Hamiltonian{Target: distribution.Quartic{}, Eps: 0.3, Leapfrog: 10}
	chain := mcmc.Run(rnd, kernel, []float64{1}, 10000)
	fmt.Printf("accept rate = %0.3f\n", chain.AcceptRate())
}
