package demo

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/fujihiraryo/watanabe-bayes/analyze"
	"github.com/fujihiraryo/watanabe-bayes/config"
	"github.com/fujihiraryo/watanabe-bayes/criteria"
	"github.com/fujihiraryo/watanabe-bayes/plots"
	"github.com/fujihiraryo/watanabe-bayes/report"
)

// WAICCommand compares AIC, WAIC and ISCV with the generalization loss.
var WAICCommand = cli.Command{
	Action: waicAction,
	Name:   "waic",
	Usage:  "repeat the loss experiment on each scenario: G, AIC, WAIC and ISCV",
}

// WBICCommand compares BIC and WBIC with the free energy.
var WBICCommand = cli.Command{
	Action: wbicAction,
	Name:   "wbic",
	Usage:  "repeat the free energy experiment on each scenario: F, BIC and WBIC",
}

func waicAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "waic")
	if err != nil {
		return err
	}
	return experiment(e, "WAIC", "G", e.cfg.WAIC, analyze.LossExperiment)
}

func wbicAction(ctx *cli.Context) error {
	e, err := newEnv(ctx, "wbic")
	if err != nil {
		return err
	}
	return experiment(e, "WBIC", "F", e.cfg.WBIC, analyze.InformationExperiment)
}

// scenarioTitle describes the true distribution of a scenario and how it
// relates to the model.
func scenarioTitle(t criteria.Truth) string {
	var dist string
	if t.A == 0 {
		dist = fmt.Sprintf("N(0, %v)", t.S)
	} else {
		dist = fmt.Sprintf("%vN(0, %v) + %vN(%v, %v)", 1-t.A, t.S, t.A, t.B, t.S)
	}
	regular, realizable := "nonregular", "unrealizable"
	if t.Regular() {
		regular = "regular"
	}
	if t.Realizable() {
		realizable = "realizable"
	}
	return fmt.Sprintf("%s (%s, %s)", dist, regular, realizable)
}

// experiment runs every selected scenario, writes one box plot per scenario
// under dir/<dir>/ and a plot of the deviations from the reference column.
func experiment(e *env, dir, ref string, c config.ExperimentConfig,
	run func(uint64, int, criteria.Scenario, criteria.Settings) analyze.Result) error {
	scenarios, err := c.SelectedScenarios()
	if err != nil {
		return err
	}
	s := c.Settings()
	w := e.ctx.App.Writer
	report.Settings(w, dir, [][2]string{
		{"runs", strconv.Itoa(c.Runs)},
		{"n", strconv.Itoa(s.N)},
		{"k", strconv.Itoa(s.K)},
		{"burn", strconv.Itoa(s.Burn)},
		{"j", strconv.Itoa(s.J)},
		{"step", strconv.FormatFloat(s.Step, 'g', -1, 64)},
		{"scenarios", strconv.Itoa(len(scenarios))},
	})
	e.log.Infof("running %d scenarios of %d runs", len(scenarios), c.Runs)

	results := analyze.Sweep(e.seed, c.Runs, scenarios, s, run)
	for i, r := range results {
		names := make([]string, len(r.Columns))
		cols := make([][]float64, len(r.Columns))
		for j, col := range r.Columns {
			names[j], cols[j] = col.Name, col.Values
		}
		p, err := plots.BoxPlot(scenarioTitle(scenarios[i].Truth), names, cols)
		if err != nil {
			return err
		}
		path := filepath.Join(e.cfg.Output.Dir, dir, fmt.Sprintf("%s_%s.png", r.Scenario, e.stamp))
		if err := e.savePlot(p, plots.HistWidth, plots.HistHeight, path); err != nil {
			return err
		}
	}
	report.Summaries(w, results)
	report.Deviations(w, ref, results)

	if err := e.deviationPlot(dir, ref, results); err != nil {
		return err
	}
	return e.finish()
}

// deviationPlot draws, per estimator, the mean absolute deviation from ref
// with its error in the mean across scenarios.
func (e *env) deviationPlot(dir, ref string, results []analyze.Result) error {
	if len(results) == 0 {
		return nil
	}
	var names []string
	for _, d := range results[0].Deviations(ref) {
		names = append(names, d.Name)
	}
	locs := make([]float64, len(results))
	means := make([][]float64, len(names))
	errs := make([][]float64, len(names))
	for i := range names {
		means[i] = make([]float64, len(results))
		errs[i] = make([]float64, len(results))
	}
	for j, r := range results {
		locs[j] = float64(j)
		for i, d := range r.Deviations(ref) {
			means[i][j], errs[i][j] = d.ExpErr, d.Eim
		}
	}
	p, err := plots.ErrorBars("deviation from "+ref, "scenario", "|estimate - "+ref+"|", locs, names, means, errs)
	if err != nil {
		return err
	}
	return e.savePlot(p, plots.HistWidth, plots.HistHeight, filepath.Join(e.cfg.Output.Dir, dir, "deviation_"+e.stamp+".png"))
}
