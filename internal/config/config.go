// Package config holds the settings of the proof batch driver. Values come
// from defaults, then an optional YAML file, then command line flags.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/internal/params"
)

type Config struct {
	// Constants is the reference Poseidon constants file.
	Constants string `yaml:"constants"`
	// Input is the proof input records file.
	Input string `yaml:"input"`
	// Output is the directory receiving one <key>.json per proved record.
	Output string `yaml:"output"`
	// Keys is the directory holding <type>.pk / <type>.vk. Empty disables key persistence.
	Keys     string `yaml:"keys"`
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
	// RowWidth narrows round constant rows; zero keeps full rows.
	RowWidth int `yaml:"row_width"`
}

func Default() Config {
	return Config{
		Constants: os.Getenv(poseidon254.ConstantsEnv),
		Input:     "inputs/proofInputs.json",
		Output:    "outputs",
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults; a
// named file that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Constants == "" {
		return fmt.Errorf("config: no constants file (set constants or %s)", poseidon254.ConstantsEnv)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.RowWidth < 0 || c.RowWidth > params.MaxWidth {
		return fmt.Errorf("config: row_width must be in 0..%d, got %d", params.MaxWidth, c.RowWidth)
	}
	return nil
}

// HasherOptions translates the config into poseidon254 options.
func (c Config) HasherOptions() []poseidon254.Option {
	var opts []poseidon254.Option
	if c.RowWidth > 0 {
		opts = append(opts, poseidon254.WithRowWidth(c.RowWidth))
	}
	return opts
}
