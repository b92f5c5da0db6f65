package demo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fujihiraryo/watanabe-bayes/config"
	"github.com/fujihiraryo/watanabe-bayes/criteria"
)

const smallConfig = `
gibbs:
  iters: 2
  grid: 10
meanfield:
  iters: 2
  grid: 10
likelihood:
  n: 3
  grid: 10
metropolis:
  steps: 300
metropolis_gif:
  steps: 3
  bins: 10
accept_rate:
  steps: 50
  count: 3
langevin:
  steps: 200
mala:
  steps: 200
hmc:
  steps: 200
waic:
  runs: 2
  n: 20
  k: 30
  burn: 10
  scenarios: [delicate]
wbic:
  runs: 2
  n: 20
  k: 30
  burn: 10
  j: 2
  scenarios: [regular&realizable, unbalanced]
`

func run(t *testing.T, command string, extra ...string) (dir string, out string) {
	t.Helper()
	dir = t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte(smallConfig), 0644); err != nil {
		t.Fatal(err)
	}
	out = filepath.Join(dir, "out")
	args := append([]string{"bayesdemo", "--log", "critical", "--seed", "7", "--config", cfg, "--out", out}, extra...)
	args = append(args, command)

	var buf bytes.Buffer
	app := NewApp()
	app.Writer = &buf
	if err := app.Run(args); err != nil {
		t.Fatalf("%s: %v", command, err)
	}
	return out, buf.String()
}

func glob(t *testing.T, pattern string) []string {
	t.Helper()
	m, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func manifest(t *testing.T, dir, name string) *config.Manifest {
	t.Helper()
	paths := glob(t, filepath.Join(dir, name+"2*.yaml"))
	if len(paths) != 1 {
		t.Fatalf("found manifests %v", paths)
	}
	m, err := config.LoadManifest(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestChainCommands(t *testing.T) {
	for _, test := range []struct {
		command string
		prefix  string
	}{
		{"metropolis", "metropolis"},
		{"langevin", "langevin_monte_carlo"},
		{"mala", "metropolis_adjusted_langevin_monte_carlo"},
		{"hmc", "hybrid_monte_carlo"},
	} {
		dir, out := run(t, test.command)
		if n := len(glob(t, filepath.Join(dir, test.prefix+"2*.png"))); n != 1 {
			t.Errorf("%s: %d histograms", test.command, n)
		}
		if n := len(glob(t, filepath.Join(dir, test.prefix+"_path2*.png"))); n != 1 {
			t.Errorf("%s: %d traces", test.command, n)
		}
		m := manifest(t, dir, test.command)
		if m.Seed != 7 || m.Command != test.command || len(m.Outputs) != 2 {
			t.Errorf("%s: manifest %+v", test.command, m)
		}
		if !strings.Contains(out, test.command) {
			t.Errorf("%s: no chain report in output:\n%s", test.command, out)
		}
	}
}

func TestConfigSaved(t *testing.T) {
	dir, _ := run(t, "metropolis")
	m := manifest(t, dir, "metropolis")
	if m.ConfigFile == "" {
		t.Fatalf("manifest %+v names no config file", m)
	}
	cfg, err := config.Load(m.ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metropolis.Steps != 300 || cfg.WBIC.J != 2 || cfg.Output.Dir != dir {
		t.Errorf("saved config %+v", cfg)
	}
}

func TestHTML(t *testing.T) {
	dir, _ := run(t, "metropolis", "--html")
	if n := len(glob(t, filepath.Join(dir, "metropolis2*.html"))); n != 1 {
		t.Errorf("%d pages", n)
	}
}

func TestAnimations(t *testing.T) {
	for _, test := range []struct {
		command string
		prefix  string
	}{
		{"gibbs", "gibbs"},
		{"meanfield", "mean_field"},
		{"likelihood", "likelihood"},
		{"metropolis-gif", "metropolis"},
	} {
		dir, _ := run(t, test.command)
		if n := len(glob(t, filepath.Join(dir, test.prefix+"2*.gif"))); n != 1 {
			t.Errorf("%s: %d animations", test.command, n)
		}
	}
}

func TestAcceptRate(t *testing.T) {
	dir, _ := run(t, "accept-rate")
	if n := len(glob(t, filepath.Join(dir, "metropolis_accept_rate2*.png"))); n != 1 {
		t.Errorf("%d plots", n)
	}
}

func TestExperiments(t *testing.T) {
	dir, out := run(t, "waic")
	if n := len(glob(t, filepath.Join(dir, "WAIC", "delicate_*.png"))); n != 1 {
		t.Errorf("%d waic box plots", n)
	}
	if n := len(glob(t, filepath.Join(dir, "WAIC", "deviation_*.png"))); n != 1 {
		t.Errorf("%d waic deviation plots", n)
	}
	if !strings.Contains(out, "ISCV") {
		t.Errorf("no summary table:\n%s", out)
	}

	dir, out = run(t, "wbic")
	if n := len(glob(t, filepath.Join(dir, "WBIC", "*.png"))); n != 3 {
		t.Errorf("%d wbic plots", n)
	}
	if !strings.Contains(out, "unbalanced") {
		t.Errorf("no summary table:\n%s", out)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	app := NewApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"bayesdemo", "--config", filepath.Join(dir, "missing.yaml"), "metropolis"})
	if err == nil {
		t.Errorf("no error for a missing config")
	}
}

func TestScenarioTitle(t *testing.T) {
	for _, test := range []struct {
		truth criteria.Truth
		want  string
	}{
		{criteria.Truth{A: 0, B: 0, S: 0.8}, "N(0, 0.8) (nonregular, unrealizable)"},
		{criteria.Truth{A: 0, B: 0, S: 1}, "N(0, 1) (nonregular, realizable)"},
		{criteria.Truth{A: 0.5, B: 2, S: 1}, "0.5N(0, 1) + 0.5N(2, 1) (regular, realizable)"},
		{criteria.Truth{A: 0.5, B: 2, S: 0.8}, "0.5N(0, 0.8) + 0.5N(2, 0.8) (regular, unrealizable)"},
	} {
		if got := scenarioTitle(test.truth); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}
