package analyze

import (
	"math"
	"math/rand/v2"
	"runtime"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/fujihiraryo/watanabe-bayes/criteria"
	"github.com/fujihiraryo/watanabe-bayes/distribution"
)

func TestRepeatIndependentOfWorkers(t *testing.T) {
	f := func(rnd *rand.Rand) float64 {
		var s float64
		for i := 0; i < 100; i++ {
			s += rnd.NormFloat64()
		}
		return s
	}
	old := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(old)
	serial := Repeat(11, 50, f)
	runtime.GOMAXPROCS(4)
	parallel := Repeat(11, 50, f)
	if !floats.Equal(serial, parallel) {
		t.Errorf("results depend on the number of workers")
	}
	for i := 1; i < len(serial); i++ {
		if serial[i] == serial[0] {
			t.Errorf("runs %d and 0 produced the same value", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("x", []float64{5, 1, 4, 2, 3})
	if s.Mean != 3 || s.Median != 3 {
		t.Errorf("mean %v median %v, want 3", s.Mean, s.Median)
	}
	if s.Q1 != 2 || s.Q3 != 4 {
		t.Errorf("quartiles %v %v, want 2 and 4", s.Q1, s.Q3)
	}
	wantStd := math.Sqrt(2.5)
	if math.Abs(s.Std-wantStd) > 1e-14 || math.Abs(s.Eim-wantStd/math.Sqrt(5)) > 1e-14 {
		t.Errorf("std %v eim %v", s.Std, s.Eim)
	}
}

func TestDeviations(t *testing.T) {
	r := Result{
		Runs: 3,
		Columns: []Column{
			{Name: "G", Values: []float64{1, 2, 3}},
			{Name: "AIC", Values: []float64{2, 2, 2}},
		},
	}
	devs := r.Deviations("G")
	if len(devs) != 1 || devs[0].Name != "AIC" {
		t.Fatalf("got %+v", devs)
	}
	if math.Abs(devs[0].ExpErr-2.0/3) > 1e-14 {
		t.Errorf("expected error %v, want 2/3", devs[0].ExpErr)
	}
	if r.Deviations("missing") != nil {
		t.Errorf("deviations from a missing column")
	}
}

func TestLossExperiment(t *testing.T) {
	s := criteria.Settings{N: 30, K: 60, Burn: 10, J: 2, Step: 1}
	sc, _ := criteria.ScenarioByName("regular&realizable")
	r := LossExperiment(1, 4, sc, s)
	if r.Runs != 4 || len(r.Columns) != 4 {
		t.Fatalf("got %d runs and %d columns", r.Runs, len(r.Columns))
	}
	for _, c := range r.Columns {
		if len(c.Values) != 4 {
			t.Errorf("%s has %d values", c.Name, len(c.Values))
		}
		for _, v := range c.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: non-finite value %v", c.Name, v)
			}
		}
	}
	again := LossExperiment(1, 4, sc, s)
	for i := range r.Columns {
		if !floats.Equal(r.Columns[i].Values, again.Columns[i].Values) {
			t.Errorf("%s differs between equally seeded experiments", r.Columns[i].Name)
		}
	}
}

func TestSweepInformation(t *testing.T) {
	s := criteria.Settings{N: 30, K: 60, Burn: 10, J: 2, Step: 1}
	results := Sweep(3, 2, criteria.Scenarios[:2], s, InformationExperiment)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Scenario != criteria.Scenarios[i].Name {
			t.Errorf("result %d is for %q", i, r.Scenario)
		}
		if _, ok := r.Column("WBIC"); !ok {
			t.Errorf("%s: no WBIC column", r.Scenario)
		}
	}
}

func TestAcceptRateSweep(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	sigmas := floats.Span(make([]float64, 5), 1, 20)
	rates := AcceptRateSweep(rnd, distribution.GammaKernel{Shape: 4}, []float64{4}, sigmas, 5000)
	for i, r := range rates {
		if r <= 0 || r > 1 {
			t.Errorf("sigma %v: rate %v", sigmas[i], r)
		}
	}
	if rates[0] <= rates[len(rates)-1] {
		t.Errorf("rate at sigma 1 (%v) not above rate at sigma 20 (%v)", rates[0], rates[len(rates)-1])
	}
}
