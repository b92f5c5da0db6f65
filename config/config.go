// Package config holds the parameters of every demo. Default returns the
// classic textbook settings; a YAML file may override any subset of them.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fujihiraryo/watanabe-bayes/criteria"
	"github.com/fujihiraryo/watanabe-bayes/mixture"
)

// Config is the root configuration structure.
type Config struct {
	Output        OutputConfig       `yaml:"output"`
	Gibbs         MixtureConfig      `yaml:"gibbs"`
	MeanField     MixtureConfig      `yaml:"meanfield"`
	Likelihood    LikelihoodConfig   `yaml:"likelihood"`
	Metropolis    MetropolisConfig   `yaml:"metropolis"`
	MetropolisGIF IndependenceConfig `yaml:"metropolis_gif"`
	AcceptRate    AcceptRateConfig   `yaml:"accept_rate"`
	Langevin      LangevinConfig     `yaml:"langevin"`
	MALA          LangevinConfig     `yaml:"mala"`
	HMC           HamiltonianConfig  `yaml:"hmc"`
	WAIC          ExperimentConfig   `yaml:"waic"`
	WBIC          ExperimentConfig   `yaml:"wbic"`
	Animation     AnimationConfig    `yaml:"animation"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	HTML bool   `yaml:"html"` // Also write interactive chart pages.
}

// ClusterConfig is one cluster of synthetic observations.
type ClusterConfig struct {
	Mean []float64 `yaml:"mean"`
	N    int       `yaml:"n"`
}

// MixtureConfig configures the Gaussian mixture demos.
type MixtureConfig struct {
	K        int             `yaml:"k"`
	Iters    int             `yaml:"iters"`
	Clusters []ClusterConfig `yaml:"clusters"`
	Grid     int             `yaml:"grid"` // Contour grid points per axis.
	Extent   float64         `yaml:"extent"`
}

// MixtureClusters converts the configured clusters.
func (m MixtureConfig) MixtureClusters() []mixture.Cluster {
	cs := make([]mixture.Cluster, len(m.Clusters))
	for i, c := range m.Clusters {
		cs[i] = mixture.Cluster{Mean: c.Mean, N: c.N}
	}
	return cs
}

// LikelihoodConfig configures the likelihood surface animation.
type LikelihoodConfig struct {
	A0   float64 `yaml:"a0"`
	B0   float64 `yaml:"b0"`
	N    int     `yaml:"n"`
	Grid int     `yaml:"grid"`
}

// MetropolisConfig configures the random-walk Metropolis demo.
type MetropolisConfig struct {
	Steps int     `yaml:"steps"`
	Sigma float64 `yaml:"sigma"`
	X0    float64 `yaml:"x0"`
	Shape float64 `yaml:"shape"` // Target x^(shape-1) e^-x.
	Bins  int     `yaml:"bins"`
}

// IndependenceConfig configures the animated independence sampler.
type IndependenceConfig struct {
	Steps int     `yaml:"steps"`
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
	X0    float64 `yaml:"x0"`
	Bins  int     `yaml:"bins"`
}

// AcceptRateConfig configures the proposal width sweep.
type AcceptRateConfig struct {
	Steps    int     `yaml:"steps"`
	SigmaMin float64 `yaml:"sigma_min"`
	SigmaMax float64 `yaml:"sigma_max"`
	Count    int     `yaml:"count"`
	X0       float64 `yaml:"x0"`
}

// LangevinConfig configures the Langevin demos.
type LangevinConfig struct {
	Steps int     `yaml:"steps"`
	Eps   float64 `yaml:"eps"`
	X0    float64 `yaml:"x0"`
	Bins  int     `yaml:"bins"`
}

// HamiltonianConfig configures the hybrid Monte Carlo demo.
type HamiltonianConfig struct {
	Steps    int     `yaml:"steps"`
	Eps      float64 `yaml:"eps"`
	Leapfrog int     `yaml:"leapfrog"`
	X0       float64 `yaml:"x0"`
	Bins     int     `yaml:"bins"`
}

// ExperimentConfig configures a repeated information-criteria experiment.
type ExperimentConfig struct {
	Runs      int      `yaml:"runs"`
	N         int      `yaml:"n"`
	K         int      `yaml:"k"`
	Burn      int      `yaml:"burn"`
	J         int      `yaml:"j"`
	Step      float64  `yaml:"step"`
	Scenarios []string `yaml:"scenarios"` // Empty means all.

	// Sampler of the posterior: gibbs (the default) or metropolis, a
	// random-walk chain at inverse temperature one with scale Step.
	Sampler string `yaml:"sampler,omitempty"`
}

// Settings converts the experiment parameters. Validate must have accepted
// the sampler name.
func (e ExperimentConfig) Settings() criteria.Settings {
	s, err := e.sampler()
	if err != nil {
		panic("config: " + err.Error())
	}
	return criteria.Settings{N: e.N, K: e.K, Burn: e.Burn, J: e.J, Step: e.Step, Sampler: s}
}

func (e ExperimentConfig) sampler() (criteria.Sampler, error) {
	switch e.Sampler {
	case "", "gibbs":
		return criteria.Gibbs{}, nil
	case "metropolis":
		return criteria.Tempered{Beta: 1, Step: e.Step}, nil
	}
	return nil, errors.Errorf("unknown sampler %q", e.Sampler)
}

// SelectedScenarios resolves the configured scenario names.
func (e ExperimentConfig) SelectedScenarios() ([]criteria.Scenario, error) {
	if len(e.Scenarios) == 0 {
		return criteria.Scenarios, nil
	}
	out := make([]criteria.Scenario, 0, len(e.Scenarios))
	for _, name := range e.Scenarios {
		sc, ok := criteria.ScenarioByName(name)
		if !ok {
			return nil, errors.Errorf("unknown scenario %q", name)
		}
		out = append(out, sc)
	}
	return out, nil
}

// AnimationConfig controls GIF output.
type AnimationConfig struct {
	Delay int `yaml:"delay"` // Per-frame delay in hundredths of a second.
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Dir: "image"},
		Gibbs: MixtureConfig{
			K:     3,
			Iters: 50,
			Clusters: []ClusterConfig{
				{Mean: []float64{0, 3}, N: 30},
				{Mean: []float64{1, -1}, N: 40},
				{Mean: []float64{-3, -3}, N: 50},
			},
			Grid:   100,
			Extent: 5,
		},
		MeanField: MixtureConfig{
			K:     3,
			Iters: 30,
			Clusters: []ClusterConfig{
				{Mean: []float64{0, 3}, N: 30},
				{Mean: []float64{2, -2}, N: 45},
				{Mean: []float64{-3, -3}, N: 25},
			},
			Grid:   100,
			Extent: 5,
		},
		Likelihood:    LikelihoodConfig{A0: 0.5, B0: 0, N: 100, Grid: 100},
		Metropolis:    MetropolisConfig{Steps: 10000, Sigma: 30, X0: 4, Shape: 4, Bins: 100},
		MetropolisGIF: IndependenceConfig{Steps: 50, Mu: 4, Sigma: 4, X0: 4, Bins: 100},
		AcceptRate:    AcceptRateConfig{Steps: 10000, SigmaMin: 1, SigmaMax: 20, Count: 100, X0: 4},
		Langevin:      LangevinConfig{Steps: 10000, Eps: 0.1, X0: 1, Bins: 100},
		MALA:          LangevinConfig{Steps: 10000, Eps: 0.1, X0: 0, Bins: 100},
		HMC:           HamiltonianConfig{Steps: 10000, Eps: 0.3, Leapfrog: 10, X0: 1, Bins: 100},
		WAIC:          ExperimentConfig{Runs: 100, N: 100, K: 100, Burn: 20, J: 10, Step: 1},
		WBIC:          ExperimentConfig{Runs: 100, N: 100, K: 1000, Burn: 200, J: 10, Step: 1},
		Animation:     AnimationConfig{Delay: 1},
	}
}

// Load reads a YAML file and overlays it onto the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, or returns the defaults if path is
// empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write config")
}

// Validate rejects counts and scales that no demo can run with.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"gibbs.k", float64(c.Gibbs.K)},
		{"gibbs.iters", float64(c.Gibbs.Iters)},
		{"gibbs.grid", float64(c.Gibbs.Grid)},
		{"meanfield.k", float64(c.MeanField.K)},
		{"meanfield.iters", float64(c.MeanField.Iters)},
		{"meanfield.grid", float64(c.MeanField.Grid)},
		{"likelihood.n", float64(c.Likelihood.N)},
		{"likelihood.grid", float64(c.Likelihood.Grid)},
		{"metropolis.steps", float64(c.Metropolis.Steps)},
		{"metropolis.shape", c.Metropolis.Shape},
		{"metropolis.sigma", c.Metropolis.Sigma},
		{"metropolis.bins", float64(c.Metropolis.Bins)},
		{"metropolis_gif.steps", float64(c.MetropolisGIF.Steps)},
		{"metropolis_gif.sigma", c.MetropolisGIF.Sigma},
		{"metropolis_gif.bins", float64(c.MetropolisGIF.Bins)},
		{"accept_rate.steps", float64(c.AcceptRate.Steps)},
		{"accept_rate.sigma_min", c.AcceptRate.SigmaMin},
		{"accept_rate.count", float64(c.AcceptRate.Count)},
		{"langevin.steps", float64(c.Langevin.Steps)},
		{"langevin.eps", c.Langevin.Eps},
		{"langevin.bins", float64(c.Langevin.Bins)},
		{"mala.steps", float64(c.MALA.Steps)},
		{"mala.eps", c.MALA.Eps},
		{"mala.bins", float64(c.MALA.Bins)},
		{"hmc.steps", float64(c.HMC.Steps)},
		{"hmc.eps", c.HMC.Eps},
		{"hmc.leapfrog", float64(c.HMC.Leapfrog)},
		{"hmc.bins", float64(c.HMC.Bins)},
		{"waic.runs", float64(c.WAIC.Runs)},
		{"waic.n", float64(c.WAIC.N)},
		{"waic.step", c.WAIC.Step},
		{"wbic.runs", float64(c.WBIC.Runs)},
		{"wbic.n", float64(c.WBIC.N)},
		{"wbic.j", float64(c.WBIC.J)},
		{"wbic.step", c.WBIC.Step},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return errors.Errorf("%s must be positive, got %v", p.name, p.v)
		}
	}
	for _, e := range []struct {
		name string
		cfg  ExperimentConfig
	}{{"waic", c.WAIC}, {"wbic", c.WBIC}} {
		if e.cfg.Burn < 0 || e.cfg.K <= e.cfg.Burn {
			return errors.Errorf("%s.k (%d) must exceed %s.burn (%d)", e.name, e.cfg.K, e.name, e.cfg.Burn)
		}
		if _, err := e.cfg.SelectedScenarios(); err != nil {
			return errors.Wrap(err, e.name)
		}
		if _, err := e.cfg.sampler(); err != nil {
			return errors.Wrap(err, e.name)
		}
	}
	if c.AcceptRate.SigmaMax < c.AcceptRate.SigmaMin {
		return errors.New("accept_rate.sigma_max is below sigma_min")
	}
	for _, m := range []struct {
		name string
		cfg  MixtureConfig
	}{{"gibbs", c.Gibbs}, {"meanfield", c.MeanField}} {
		if len(m.cfg.Clusters) == 0 {
			return errors.Errorf("%s needs at least one cluster", m.name)
		}
		for i, cl := range m.cfg.Clusters {
			if len(cl.Mean) != 2 || cl.N < 0 {
				return errors.Errorf("%s.clusters[%d] must have a 2-d mean and a non-negative size", m.name, i)
			}
		}
	}
	if c.Animation.Delay < 0 {
		return errors.New("animation.delay must not be negative")
	}
	return nil
}
