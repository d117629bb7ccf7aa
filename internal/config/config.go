// Package config loads and saves integrator run configuration: tolerances,
// method, Jacobian method, step and attempt limits, nonlinear options, and
// print options.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRelTol      = 1e-6
	DefaultAbsTol      = 1e-10
	DefaultMaxAttempts = 100000
	DefaultInitialStep = 1e-6
)

// Config is the on-disk shape of a beuler run.
type Config struct {
	Problem   string  `yaml:"problem"`
	TargetT   float64 `yaml:"target_t"`
	RelTol    float64 `yaml:"reltol"`
	AbsTol    float64 `yaml:"abstol"`

	Method         string `yaml:"method"`          // "variable" | "fixed"
	JacobianMethod string `yaml:"jacobian_method"` // "numerical" | "analytical"

	MaxStep              float64 `yaml:"max_step"`
	MaxAttempts          int     `yaml:"max_attempts"`
	InitialStep          float64 `yaml:"initial_step"`
	InitialConstantSteps int     `yaml:"initial_constant_steps"`

	MinNewtIts int  `yaml:"min_newt_its"`
	ColScaling bool `yaml:"col_scaling"`
	RowScaling bool `yaml:"row_scaling"`

	PrintLevel    int  `yaml:"print_level"`
	DumpJacobians bool `yaml:"dump_jacobians"`

	Params map[string]float64 `yaml:"params"`
}

// Default returns a config with the integrator's baseline tolerance and
// step-budget settings.
func Default() *Config {
	return &Config{
		Problem:     "vanderpol",
		TargetT:     10.0,
		RelTol:      DefaultRelTol,
		AbsTol:      DefaultAbsTol,
		Method:      "variable",
		MaxAttempts: DefaultMaxAttempts,
		InitialStep: DefaultInitialStep,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
