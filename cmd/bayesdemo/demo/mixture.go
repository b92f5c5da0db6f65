package demo

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"

	"github.com/fujihiraryo/watanabe-bayes/anim"
	"github.com/fujihiraryo/watanabe-bayes/config"
	"github.com/fujihiraryo/watanabe-bayes/criteria"
	"github.com/fujihiraryo/watanabe-bayes/mixture"
	"github.com/fujihiraryo/watanabe-bayes/plots"
)

// GibbsCommand animates the Bayes predictive density of a Gibbs-sampled
// Gaussian mixture.
var GibbsCommand = cli.Command{
	Action: gibbsAction,
	Name:   "gibbs",
	Usage:  "Gibbs sampling of a Gaussian mixture in the plane",
}

// MeanFieldCommand animates the predictive density of the mean-field
// approximation.
var MeanFieldCommand = cli.Command{
	Action: meanFieldAction,
	Name:   "meanfield",
	Usage:  "mean-field variational Bayes for a Gaussian mixture in the plane",
}

// LikelihoodCommand animates the likelihood surface of the two-component
// model as observations accumulate.
var LikelihoodCommand = cli.Command{
	Action: likelihoodAction,
	Name:   "likelihood",
	Usage:  "likelihood of (1-a)N(0,1)+aN(b,1) over (a, b) for growing samples",
}

const contourLevels = 8

// clusterGroups returns the observations of each cluster as a scatter
// group. Generate lays clusters out consecutively.
func clusterGroups(x *mat.Dense, clusters []mixture.Cluster) []plotter.XYer {
	_, dim := x.Dims()
	groups := make([]plotter.XYer, 0, len(clusters))
	var lo int
	for _, c := range clusters {
		groups = append(groups, plots.Points(x.Slice(lo, lo+c.N, 0, dim)))
		lo += c.N
	}
	return groups
}

// mixtureFrames renders one contour frame per iteration over the
// observations.
func mixtureFrames(e *env, c config.MixtureConfig, title func(t int) string, density func(t int) mixture.Density,
	groups []plotter.XYer) (*anim.Animation, error) {
	lin := plots.Linspace(-c.Extent, c.Extent, c.Grid)
	a := anim.New(e.cfg.Animation.Delay)
	for t := 0; t < c.Iters; t++ {
		g := plots.EvalGrid(density(t), lin, lin)
		p, err := plots.Contour(title(t), g, contourLevels, groups...)
		if err != nil {
			return nil, err
		}
		a.Add(plots.Render(p, plots.SquareWidth, plots.SquareHeight))
		if (t+1)%10 == 0 {
			e.log.Infof("rendered %d of %d frames", t+1, c.Iters)
		}
	}
	return a, nil
}

func gibbsAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "gibbs")
	if err != nil {
		return err
	}
	c := e.cfg.Gibbs
	clusters := c.MixtureClusters()
	x, _ := mixture.Generate(e.rnd, clusters)
	n, _ := x.Dims()

	hist := mixture.Gibbs{K: c.K, Prior: mixture.DefaultPrior}.Run(e.rnd, x, c.Iters)
	for t, s := range hist {
		e.log.Debugf("iter %d: weights %.3v mean log density %.4f", t, s.Weights, mixture.MeanLogDensity(s.Density, x))
	}

	// Frame t averages the draws up to and including iteration t.
	a, err := mixtureFrames(e, c,
		func(t int) string { return fmt.Sprintf("N=%d, iter=%d", n, t) },
		func(t int) mixture.Density { return mixture.BayesPredictive(hist[:t+1]) },
		clusterGroups(x, clusters))
	if err != nil {
		return err
	}
	last := mixture.BayesPredictive(hist)
	e.log.Infof("mean log predictive density %.4f", mixture.MeanLogDensity(last, x))
	if err := e.saveGIF(a, e.path("gibbs", ".gif")); err != nil {
		return err
	}
	return e.finish()
}

func meanFieldAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "meanfield")
	if err != nil {
		return err
	}
	c := e.cfg.MeanField
	clusters := c.MixtureClusters()
	x, _ := mixture.Generate(e.rnd, clusters)
	n, _ := x.Dims()

	hist := mixture.MeanField{K: c.K}.Run(e.rnd, x, c.Iters)
	for t, v := range hist {
		e.log.Debugf("iter %d: phi %.3v change %.4g", t, v.Phi, v.Change)
	}

	// Frame t shows the state after t updates.
	a, err := mixtureFrames(e, c,
		func(t int) string { return fmt.Sprintf("N=%d, iter=%d", n, t) },
		func(t int) mixture.Density { return hist[t].Predictive },
		clusterGroups(x, clusters))
	if err != nil {
		return err
	}
	final := hist[len(hist)-1]
	e.log.Infof("final change %.4g, mean log predictive density %.4f",
		final.Change, mixture.MeanLogDensity(final.Predictive, x))
	if err := e.saveGIF(a, e.path("mean_field", ".gif")); err != nil {
		return err
	}
	return e.finish()
}

func likelihoodAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "likelihood")
	if err != nil {
		return err
	}
	c := e.cfg.Likelihood
	truth := criteria.Truth{A: c.A0, B: c.B0, S: 1}
	x := truth.Generate(e.rnd, c.N)

	as := plots.Linspace(0, 1, c.Grid)
	bs := plots.Linspace(-5, 5, c.Grid)
	a := anim.New(e.cfg.Animation.Delay)
	for _, s := range criteria.LikelihoodSurfaces(x, as, bs) {
		// Surface values are indexed (a, b); grid rows run along b.
		g := plots.Grid{Xs: s.A, Ys: s.B, Values: s.Value.T()}
		title := fmt.Sprintf("(a0,b0)=(%v,%v), n=%d", c.A0, c.B0, s.N)
		p, err := plots.Contour(title, g, contourLevels)
		if err != nil {
			return err
		}
		p.X.Label.Text = "a"
		p.Y.Label.Text = "b"
		a.Add(plots.Render(p, plots.HistWidth, plots.HistHeight))
	}
	if err := e.saveGIF(a, e.path("likelihood", ".gif")); err != nil {
		return err
	}
	return e.finish()
}
