package demo

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/fujihiraryo/watanabe-bayes/analyze"
	"github.com/fujihiraryo/watanabe-bayes/anim"
	"github.com/fujihiraryo/watanabe-bayes/distribution"
	"github.com/fujihiraryo/watanabe-bayes/mcmc"
	"github.com/fujihiraryo/watanabe-bayes/plots"
)

// MetropolisCommand samples x^3 e^-x with a random-walk Metropolis chain.
var MetropolisCommand = cli.Command{
	Action: metropolisAction,
	Name:   "metropolis",
	Usage:  "random-walk Metropolis sampling of a Gamma kernel",
}

// MetropolisGIFCommand animates an independence sampler step by step.
var MetropolisGIFCommand = cli.Command{
	Action: metropolisGIFAction,
	Name:   "metropolis-gif",
	Usage:  "animate the histogram of an independence Metropolis-Hastings chain",
}

// AcceptRateCommand sweeps the proposal width of the random-walk chain.
var AcceptRateCommand = cli.Command{
	Action: acceptRateAction,
	Name:   "accept-rate",
	Usage:  "acceptance rate of random-walk Metropolis against the proposal width",
}

// LangevinCommand runs the unadjusted Langevin chain on exp(-x^4).
var LangevinCommand = cli.Command{
	Action: langevinAction,
	Name:   "langevin",
	Usage:  "unadjusted Langevin Monte Carlo on exp(-x^4)",
}

// MALACommand runs the Metropolis-adjusted Langevin chain on exp(-x^4).
var MALACommand = cli.Command{
	Action: malaAction,
	Name:   "mala",
	Usage:  "Metropolis-adjusted Langevin Monte Carlo on exp(-x^4)",
}

// HMCCommand runs hybrid Monte Carlo on exp(-x^4).
var HMCCommand = cli.Command{
	Action: hmcAction,
	Name:   "hmc",
	Usage:  "hybrid Monte Carlo on exp(-x^4)",
}

var (
	gammaRange   = plots.Range{Min: 0, Max: 10}
	quarticRange = plots.Range{Min: -3, Max: 3}
)

func metropolisAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "metropolis")
	if err != nil {
		return err
	}
	c := e.cfg.Metropolis
	target := distribution.GammaKernel{Shape: c.Shape}
	chain := mcmc.Run(e.rnd, mcmc.RandomWalk{Target: target, Sigma: c.Sigma}, []float64{c.X0}, c.Steps)
	e.checkChain(chain, c.Steps)

	err = e.chainFigures(chain, chainOutput{
		prefix:  "metropolis",
		title:   fmt.Sprintf("t=%d, sigma=%v, accept_rate=%.2f", chain.Steps, c.Sigma, chain.AcceptRate()),
		bins:    c.Bins,
		density: distribution.Func1D(target),
		x:       gammaRange,
		ymax:    0.3,
		trace:   plots.Range{Min: 0, Max: 20},
	})
	if err != nil {
		return err
	}
	return e.finish()
}

// metropolisGIFAction advances the chain one step per frame and draws the
// histogram of the chain so far.
func metropolisGIFAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "metropolis-gif")
	if err != nil {
		return err
	}
	c := e.cfg.MetropolisGIF
	target := distribution.GammaKernel{Shape: e.cfg.Metropolis.Shape}
	kernel := mcmc.Independence{
		Target:   target,
		Proposal: distribution.NewIndependentGaussian([]float64{c.Mu}, []float64{c.Sigma}, nil),
	}

	a := anim.New(e.cfg.Animation.Delay)
	x := []float64{c.X0}
	xs := make([]float64, 0, c.Steps)
	var accepted int
	for t := 0; t < c.Steps; t++ {
		step := mcmc.Run(e.rnd, kernel, x, 1)
		if step.Reason != mcmc.Completed {
			e.checkChain(&mcmc.Chain{Dim: 1, Steps: t, Accepted: accepted, Reason: step.Reason}, c.Steps)
			break
		}
		accepted += step.Accepted
		x = step.Last()
		xs = append(xs, x[0])

		title := fmt.Sprintf("t=%d, sigma=%v, accept_rate=%.2f", t+1, c.Sigma, float64(accepted)/float64(t+1))
		p, err := plots.Histogram(title, xs, c.Bins, distribution.Func1D(target), gammaRange, 0.3)
		if err != nil {
			return err
		}
		a.Add(plots.Render(p, plots.HistWidth, plots.HistHeight))
		e.log.Debugf("frame %d: x=%.4f", t+1, x[0])
	}
	if a.Len() == 0 {
		e.log.Warningf("no frames to write")
		return e.finish()
	}
	if err := e.saveGIF(a, e.path("metropolis", ".gif")); err != nil {
		return err
	}
	return e.finish()
}

func acceptRateAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "accept-rate")
	if err != nil {
		return err
	}
	c := e.cfg.AcceptRate
	target := distribution.GammaKernel{Shape: e.cfg.Metropolis.Shape}
	sigmas := plots.Linspace(c.SigmaMin, c.SigmaMax, c.Count)
	rates := analyze.AcceptRateSweep(e.rnd, target, []float64{c.X0}, sigmas, c.Steps)
	for i, s := range sigmas {
		e.log.Debugf("sigma=%.3f accept_rate=%.3f", s, rates[i])
	}

	p, err := plots.Line(fmt.Sprintf("t=%d", c.Steps), "sigma", "accept_rate", sigmas, rates)
	if err != nil {
		return err
	}
	if err := e.savePlot(p, plots.HistWidth, plots.HistHeight, e.path("metropolis_accept_rate", ".png")); err != nil {
		return err
	}
	return e.finish()
}

func langevinAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "langevin")
	if err != nil {
		return err
	}
	return quarticChain(e, "langevin_monte_carlo", e.cfg.Langevin.Steps, e.cfg.Langevin.Bins, e.cfg.Langevin.X0,
		mcmc.Langevin{Target: distribution.Quartic{}, Eps: e.cfg.Langevin.Eps})
}

func malaAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "mala")
	if err != nil {
		return err
	}
	return quarticChain(e, "metropolis_adjusted_langevin_monte_carlo", e.cfg.MALA.Steps, e.cfg.MALA.Bins, e.cfg.MALA.X0,
		mcmc.Langevin{Target: distribution.Quartic{}, Eps: e.cfg.MALA.Eps, Adjusted: true})
}

func hmcAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "hmc")
	if err != nil {
		return err
	}
	c := e.cfg.HMC
	return quarticChain(e, "hybrid_monte_carlo", c.Steps, c.Bins, c.X0,
		mcmc.Hamiltonian{Target: distribution.Quartic{}, Eps: c.Eps, Leapfrog: c.Leapfrog})
}

// quarticChain runs a kernel targeting exp(-x^4) and writes its figures.
func quarticChain(e *env, prefix string, steps, bins int, x0 float64, k mcmc.Kernel) error {
	chain := mcmc.Run(e.rnd, k, []float64{x0}, steps)
	e.checkChain(chain, steps)
	err := e.chainFigures(chain, chainOutput{
		prefix:  prefix,
		title:   fmt.Sprintf("t=%d, accept_rate=%.2f", chain.Steps, chain.AcceptRate()),
		bins:    bins,
		density: distribution.Func1D(distribution.Quartic{}),
		x:       quarticRange,
		ymax:    0.7,
		trace:   quarticRange,
	})
	if err != nil {
		return err
	}
	return e.finish()
}
