// Package report prints run summaries to a terminal.
package report

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"

	"github.com/fujihiraryo/watanabe-bayes/analyze"
	"github.com/fujihiraryo/watanabe-bayes/mcmc"
)

// Chain writes the acceptance statistics of a chain and the sample moments
// of each coordinate.
func Chain(w io.Writer, name string, c *mcmc.Chain) {
	bold := color.New(color.Bold).SprintfFunc()

	output(w, "Chain:\t\t%s\n", bold(name))
	output(w, "Steps:\t\t%s\n", bold("%d", c.Steps))
	output(w, "Accepted:\t%s\n", bold("%d (%.3f)", c.Accepted, c.AcceptRate()))
	output(w, "Termination:\t%s\n", bold(c.Reason.String()))
	if c.Samples == nil {
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Coordinate", "Mean", "Std", "Last"})
	tbl.SetBorder(true)
	last := c.Last()
	for j := 0; j < c.Dim; j++ {
		mean, std := stat.MeanStdDev(c.Column(j), nil)
		tbl.Append([]string{fmt.Sprintf("x[%d]", j), ff(mean), ff(std), ff(last[j])})
	}
	tbl.Render()
}

// Summaries writes one table per result with the distribution of every
// column over the runs.
func Summaries(w io.Writer, results []analyze.Result) {
	bold := color.New(color.Bold).SprintfFunc()
	for _, r := range results {
		output(w, "\nScenario:\t%s (%s runs)\n", bold(r.Scenario), bold("%d", r.Runs))
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"Estimate", "Mean", "Std", "Eim", "Q1", "Median", "Q3"})
		tbl.SetBorder(true)
		for _, s := range r.Summaries() {
			tbl.Append([]string{s.Name, ff(s.Mean), ff(s.Std), ff(s.Eim), ff(s.Q1), ff(s.Median), ff(s.Q3)})
		}
		tbl.Render()
	}
}

// Deviations writes, across scenarios, the mean absolute deviation of every
// estimator from the reference column together with its error in the mean.
func Deviations(w io.Writer, ref string, results []analyze.Result) {
	if len(results) == 0 {
		return
	}
	bold := color.New(color.Bold).SprintfFunc()
	output(w, "\nDeviation from %s\n", bold(ref))

	var names []string
	for _, d := range results[0].Deviations(ref) {
		names = append(names, d.Name)
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(append([]string{"Scenario"}, names...))
	tbl.SetBorder(true)
	for _, r := range results {
		row := []string{r.Scenario}
		for _, d := range r.Deviations(ref) {
			row = append(row, fmt.Sprintf("%s ± %s", ff(d.ExpErr), ff(d.Eim)))
		}
		tbl.Append(row)
	}
	tbl.Render()
}

// Settings writes key/value pairs as a two-column table.
func Settings(w io.Writer, title string, kv [][2]string) {
	bold := color.New(color.Bold).SprintfFunc()
	output(w, "%s\n", bold(strings.ToUpper(title)))
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Setting", "Value"})
	tbl.SetBorder(true)
	for _, p := range kv {
		tbl.Append([]string{p[0], p[1]})
	}
	tbl.Render()
}

func ff(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// output the given message with formatting.
func output(w io.Writer, format string, a ...any) {
	_, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		log.Println("output error", err.Error())
	}
}
