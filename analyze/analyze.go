// Package analyze runs repeated experiments and summarizes their outcomes.
package analyze

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/fujihiraryo/watanabe-bayes/criteria"
	"github.com/fujihiraryo/watanabe-bayes/distribution"
	"github.com/fujihiraryo/watanabe-bayes/mcmc"
)

// Repeat evaluates f nRuns times on a pool of GOMAXPROCS workers. Run i is
// handed its own generator seeded from (seed, i), so the results do not
// depend on the number of workers or on scheduling.
func Repeat[T any](seed uint64, nRuns int, f func(rnd *rand.Rand) T) []T {
	results := make([]T, nRuns)

	nWorkers := runtime.GOMAXPROCS(0)
	id := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range id {
				results[k] = f(RunRand(seed, k))
			}
		}()
	}
	for i := 0; i < nRuns; i++ {
		id <- i
	}
	close(id)
	wg.Wait()
	return results
}

// RunRand returns the generator for run i of an experiment seeded with seed.
func RunRand(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

// Column is one estimated quantity across the runs of an experiment.
type Column struct {
	Name   string
	Values []float64
}

// Result collects the columns of an experiment on one scenario.
type Result struct {
	Scenario string
	Runs     int
	Columns  []Column
}

// Column returns the values of the named column.
func (r Result) Column(name string) ([]float64, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// LossExperiment repeats criteria.RunLoss and returns the columns G, AIC,
// WAIC and ISCV.
func LossExperiment(seed uint64, nRuns int, sc criteria.Scenario, s criteria.Settings) Result {
	losses := Repeat(seed, nRuns, func(rnd *rand.Rand) criteria.Loss {
		return criteria.RunLoss(rnd, sc.Truth, s)
	})
	cols := []Column{
		{Name: "G", Values: make([]float64, nRuns)},
		{Name: "AIC", Values: make([]float64, nRuns)},
		{Name: "WAIC", Values: make([]float64, nRuns)},
		{Name: "ISCV", Values: make([]float64, nRuns)},
	}
	for i, l := range losses {
		cols[0].Values[i] = l.Gen
		cols[1].Values[i] = l.AIC
		cols[2].Values[i] = l.WAIC
		cols[3].Values[i] = l.ISCV
	}
	return Result{Scenario: sc.Name, Runs: nRuns, Columns: cols}
}

// InformationExperiment repeats criteria.RunInformation and returns the
// columns F, BIC and WBIC.
func InformationExperiment(seed uint64, nRuns int, sc criteria.Scenario, s criteria.Settings) Result {
	infos := Repeat(seed, nRuns, func(rnd *rand.Rand) criteria.Information {
		return criteria.RunInformation(rnd, sc.Truth, s)
	})
	cols := []Column{
		{Name: "F", Values: make([]float64, nRuns)},
		{Name: "BIC", Values: make([]float64, nRuns)},
		{Name: "WBIC", Values: make([]float64, nRuns)},
	}
	for i, info := range infos {
		cols[0].Values[i] = info.F
		cols[1].Values[i] = info.BIC
		cols[2].Values[i] = info.WBIC
	}
	return Result{Scenario: sc.Name, Runs: nRuns, Columns: cols}
}

// Sweep runs an experiment on every scenario concurrently. Scenario j uses
// seed+j so that the scenarios draw independent data.
func Sweep(seed uint64, nRuns int, scenarios []criteria.Scenario, s criteria.Settings,
	experiment func(uint64, int, criteria.Scenario, criteria.Settings) Result) []Result {
	results := make([]Result, len(scenarios))
	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc criteria.Scenario) {
			defer wg.Done()
			results[i] = experiment(seed+uint64(i), nRuns, sc, s)
		}(i, sc)
	}
	wg.Wait()
	return results
}

// Summary describes the distribution of one column.
type Summary struct {
	Name   string
	Mean   float64
	Std    float64
	Eim    float64 // Error in the mean
	Median float64
	Q1, Q3 float64
}

// Summarize returns the summary statistics of values.
func Summarize(name string, values []float64) Summary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	return Summary{
		Name:   name,
		Mean:   mean,
		Std:    std,
		Eim:    stat.StdErr(std, float64(len(sorted))),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}

// Summaries summarizes every column of r.
func (r Result) Summaries() []Summary {
	s := make([]Summary, len(r.Columns))
	for i, c := range r.Columns {
		s[i] = Summarize(c.Name, c.Values)
	}
	return s
}

// Deviation is the expected absolute difference between an estimator and a
// reference quantity measured on the same runs.
type Deviation struct {
	Name   string
	ExpErr float64
	Eim    float64
}

// Deviations compares every column other than ref against ref run by run.
// The loss experiment uses G as the reference, the quantity AIC, WAIC and
// ISCV estimate.
func (r Result) Deviations(ref string) []Deviation {
	truth, ok := r.Column(ref)
	if !ok {
		return nil
	}
	var devs []Deviation
	for _, c := range r.Columns {
		if c.Name == ref {
			continue
		}
		expErr, eim := expErrEim(c.Values, truth)
		devs = append(devs, Deviation{Name: c.Name, ExpErr: expErr, Eim: eim})
	}
	return devs
}

// expErrEim computes the expected absolute error and error in the mean from
// a set of results and the true values.
func expErrEim(a, truth []float64) (expErr, eim float64) {
	e := make([]float64, len(a))
	for i, v := range a {
		e[i] = math.Abs(v - truth[i])
	}
	mean, std := stat.MeanStdDev(e, nil)
	return mean, stat.StdErr(std, float64(len(e)))
}

// AcceptRateSweep runs a random-walk Metropolis chain of the given length for
// each proposal width in sigmas and returns the acceptance rates. The chain
// state is carried from one width to the next.
func AcceptRateSweep(rnd *rand.Rand, target distribution.LogProber, x0 []float64, sigmas []float64, steps int) []float64 {
	rates := make([]float64, len(sigmas))
	x := x0
	for i, sigma := range sigmas {
		chain := mcmc.Run(rnd, mcmc.RandomWalk{Target: target, Sigma: sigma}, x, steps)
		rates[i] = chain.AcceptRate()
		if last := chain.Last(); last != nil {
			x = last
		}
	}
	return rates
}
