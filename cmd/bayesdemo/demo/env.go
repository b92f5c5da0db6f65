// Package demo implements the sub-commands of bayesdemo. Every command loads
// the configuration, runs one experiment with an explicitly seeded generator
// and writes its figures, together with a manifest, to the output directory.
package demo

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/fujihiraryo/watanabe-bayes/anim"
	"github.com/fujihiraryo/watanabe-bayes/charts"
	"github.com/fujihiraryo/watanabe-bayes/config"
	"github.com/fujihiraryo/watanabe-bayes/logger"
	"github.com/fujihiraryo/watanabe-bayes/mcmc"
	"github.com/fujihiraryo/watanabe-bayes/plots"
	"github.com/fujihiraryo/watanabe-bayes/report"
)

// Global flags.
var (
	SeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "random seed; 0 picks one from the clock",
	}
	OutFlag = cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output directory, overrides output.dir of the config",
	}
	ConfigFlag = cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML file overriding the default parameters",
	}
	HTMLFlag = cli.BoolFlag{
		Name:  "html",
		Usage: "also write interactive pages of the chains",
	}
	CPUProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "write a CPU profile into the given directory",
	}
)

// NewApp returns the bayesdemo application.
func NewApp() *cli.App {
	var prof interface{ Stop() }
	return &cli.App{
		Name:     "Bayesian inference demonstrations",
		HelpName: "bayesdemo",
		Usage:    "sample posteriors and compare information criteria",
		Flags: []cli.Flag{
			&logger.LevelFlag,
			&SeedFlag,
			&OutFlag,
			&ConfigFlag,
			&HTMLFlag,
			&CPUProfileFlag,
		},
		Commands: []*cli.Command{
			&GibbsCommand,
			&MeanFieldCommand,
			&LikelihoodCommand,
			&MetropolisCommand,
			&MetropolisGIFCommand,
			&AcceptRateCommand,
			&LangevinCommand,
			&MALACommand,
			&HMCCommand,
			&WAICCommand,
			&WBICCommand,
		},
		Before: func(ctx *cli.Context) error {
			if dir := ctx.String(CPUProfileFlag.Name); dir != "" {
				prof = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet)
			}
			return nil
		},
		After: func(*cli.Context) error {
			if prof != nil {
				prof.Stop()
			}
			return nil
		},
	}
}

// env is the state shared by the steps of one command.
type env struct {
	name     string
	cfg      *config.Config
	log      logger.Logger
	seed     uint64
	rnd      *rand.Rand
	stamp    string
	ctx      *cli.Context
	manifest *config.Manifest
}

func newEnv(ctx *cli.Context, name string) (*env, error) {
	log := logger.New(ctx.String(logger.LevelFlag.Name), name)
	cfg, err := config.LoadOrDefault(ctx.String(ConfigFlag.Name))
	if err != nil {
		return nil, err
	}
	if dir := ctx.String(OutFlag.Name); dir != "" {
		cfg.Output.Dir = dir
	}
	if ctx.Bool(HTMLFlag.Name) {
		cfg.Output.HTML = true
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	seed := ctx.Uint64(SeedFlag.Name)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Infof("seed %d", seed)

	m := config.NewManifest(name, seed, cfg)
	return &env{
		name:     name,
		cfg:      cfg,
		log:      log,
		seed:     seed,
		rnd:      rand.New(rand.NewPCG(seed, 0)),
		stamp:    m.Start.Format("20060102150405"),
		ctx:      ctx,
		manifest: m,
	}, nil
}

// path returns the output file for prefix, stamped with the start time.
func (e *env) path(prefix, ext string) string {
	return filepath.Join(e.cfg.Output.Dir, prefix+e.stamp+ext)
}

func (e *env) wrote(path string) {
	e.manifest.AddOutput(path)
	e.log.Noticef("wrote %s", path)
}

func (e *env) savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	if err := plots.Save(p, w, h, path); err != nil {
		return err
	}
	e.wrote(path)
	return nil
}

func (e *env) saveGIF(a *anim.Animation, path string) error {
	if err := a.Save(path); err != nil {
		return err
	}
	e.wrote(path)
	return nil
}

// checkChain warns when a chain stopped before taking every step.
func (e *env) checkChain(c *mcmc.Chain, steps int) {
	if c.Reason == mcmc.Completed {
		return
	}
	msg := fmt.Sprintf("chain stopped after %d of %d steps: %s", c.Steps, steps, c.Reason)
	e.log.Warningf("%s", msg)
	e.manifest.Note(msg)
}

// chainOutput describes the figures of a one-dimensional chain.
type chainOutput struct {
	prefix  string
	title   string
	bins    int
	density func(float64) float64
	x       plots.Range // Histogram support.
	ymax    float64
	trace   plots.Range
}

// chainFigures writes the histogram and trace of a one-dimensional chain,
// an interactive page when enabled, and prints its statistics.
func (e *env) chainFigures(c *mcmc.Chain, o chainOutput) error {
	report.Chain(e.ctx.App.Writer, e.name, c)
	xs := c.Column(0)
	if len(xs) == 0 {
		e.log.Warningf("no samples to plot")
		return nil
	}

	hist, err := plots.Histogram(o.title, xs, o.bins, o.density, o.x, o.ymax)
	if err != nil {
		return err
	}
	if err := e.savePlot(hist, plots.HistWidth, plots.HistHeight, e.path(o.prefix, ".png")); err != nil {
		return err
	}
	trace, err := plots.Trace(o.title, xs, o.trace)
	if err != nil {
		return err
	}
	if err := e.savePlot(trace, plots.HistWidth, plots.HistHeight, e.path(o.prefix+"_path", ".png")); err != nil {
		return err
	}

	if e.cfg.Output.HTML {
		page := charts.NewPage(o.title)
		page.Add(charts.Trace("path", xs), charts.Histogram(o.title, xs, o.bins, o.x.Min, o.x.Max, o.density))
		path := e.path(o.prefix, ".html")
		if err := page.Save(path); err != nil {
			return err
		}
		e.wrote(path)
	}
	return nil
}

// finish writes the effective configuration and the manifest, and logs the
// elapsed time. The configuration file can be passed back with --config.
func (e *env) finish() error {
	cfgPath := filepath.Join(e.cfg.Output.Dir, "config_"+e.name+e.stamp+".yaml")
	if err := e.cfg.Save(cfgPath); err != nil {
		return err
	}
	e.manifest.ConfigFile = cfgPath

	path := filepath.Join(e.cfg.Output.Dir, e.name+e.stamp+".yaml")
	if err := e.manifest.Save(path); err != nil {
		return err
	}
	e.log.Noticef("%s finished in %s, manifest %s", e.name, logger.Elapsed(e.manifest.End.Sub(e.manifest.Start)), path)
	return nil
}
