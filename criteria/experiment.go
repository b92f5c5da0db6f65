package criteria

import (
	"math/rand/v2"
)

// Scenario is a named true distribution.
type Scenario struct {
	Name  string
	Truth Truth
}

// Scenarios covers regular and singular truths, realizable and not, plus a
// delicate and an unbalanced case.
var Scenarios = []Scenario{
	{"regular&realizable", Truth{A: 0.5, B: 2, S: 1}},
	{"regular&unrealizable", Truth{A: 0.5, B: 2, S: 0.8}},
	{"nonregular&realizable", Truth{A: 0, B: 0, S: 1}},
	{"nonregular&unrealizable", Truth{A: 0, B: 0, S: 0.8}},
	{"delicate", Truth{A: 0.5, B: 0.5, S: 0.95}},
	{"unbalanced", Truth{A: 0.01, B: 2, S: 1}},
}

// ScenarioByName returns the scenario with the given name.
func ScenarioByName(name string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Settings controls one experiment.
type Settings struct {
	N    int // Training points; as many again are held out.
	K    int // Posterior draws including burn-in.
	Burn int
	J    int     // Rungs of the thermodynamic integration ladder.
	Step float64 // Proposal scale of the tempered Metropolis chains.

	// Sampler draws from the posterior at inverse temperature one. Nil
	// means Gibbs.
	Sampler Sampler
}

func (s Settings) posterior() Sampler {
	if s.Sampler == nil {
		return Gibbs{}
	}
	return s.Sampler
}

// WAICSettings are the defaults of the loss experiments.
var WAICSettings = Settings{N: 100, K: 100, Burn: 20, J: 10, Step: 1}

// WBICSettings are the defaults of the free-energy experiments.
var WBICSettings = Settings{N: 100, K: 1000, Burn: 200, J: 10, Step: 1}

// Data draws 2N points from the truth and splits them into a training half
// and a held-out half.
func (s Settings) Data(rnd *rand.Rand, truth Truth) (train, test []float64) {
	x := truth.Generate(rnd, 2*s.N)
	return x[:s.N], x[s.N:]
}

// RunLoss generates data, samples the posterior with s.Sampler and returns
// the loss estimates.
func RunLoss(rnd *rand.Rand, truth Truth, s Settings) Loss {
	train, test := s.Data(rnd, truth)
	draws := s.posterior().Sample(rnd, train, s.K, s.Burn)
	return Estimate(train, test, draws)
}

// FreeEnergy estimates the normalized free energy -1/n log Z by
// thermodynamic integration over the ladder beta_j = j/J, j = 0..J-1:
//
//	F = sum_j -1/n log E_{beta_j}[exp(L(w)/J)]
func FreeEnergy(rnd *rand.Rand, x []float64, s Settings) float64 {
	if s.J <= 0 {
		panic("criteria: non-positive ladder length")
	}
	delta := 1 / float64(s.J)
	var f float64
	for j := 0; j < s.J; j++ {
		t := Tempered{Beta: float64(j) * delta, Step: s.Step}
		f += FreeEnergyStep(x, t.Sample(rnd, x, s.K, s.Burn), delta)
	}
	return f
}

// RunInformation generates data and returns F, BIC and WBIC. BIC uses
// s.Sampler draws from the posterior; WBIC uses a chain at inverse
// temperature 1/log(n).
func RunInformation(rnd *rand.Rand, truth Truth, s Settings) Information {
	train, _ := s.Data(rnd, truth)
	var info Information
	info.F = FreeEnergy(rnd, train, s)
	info.BIC = BIC(train, s.posterior().Sample(rnd, train, s.K, s.Burn))
	wbic := Tempered{Beta: WBICBeta(len(train)), Step: s.Step}
	info.WBIC = WBIC(train, wbic.Sample(rnd, train, s.K, s.Burn))
	return info
}
