package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest records how a set of outputs was produced, so that a run can be
// repeated with the same seed and settings.
type Manifest struct {
	RunID   string    `yaml:"run_id"`
	Command string    `yaml:"command"`
	Seed    uint64    `yaml:"seed"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
	Outputs []string  `yaml:"outputs"`
	Notes   []string  `yaml:"notes,omitempty"`
	Config  *Config   `yaml:"config"`

	// ConfigFile holds Config alone, loadable by Load.
	ConfigFile string `yaml:"config_file,omitempty"`
}

// NewManifest starts a manifest for command.
func NewManifest(command string, seed uint64, cfg *Config) *Manifest {
	return &Manifest{
		RunID:   uuid.New().String(),
		Command: command,
		Seed:    seed,
		Start:   time.Now(),
		Config:  cfg,
	}
}

// AddOutput records a written file.
func (m *Manifest) AddOutput(path string) {
	m.Outputs = append(m.Outputs, path)
}

// Note records a remark about the run, such as a chain stopping early.
func (m *Manifest) Note(s string) {
	m.Notes = append(m.Notes, s)
}

// Save stamps the end time and writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	m.End = time.Now()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create manifest directory")
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write manifest")
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}
	return &m, nil
}
