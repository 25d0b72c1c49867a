package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ssmkit/optim"
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// cliConfig is the --config file layout:
//
//	adam:
//	  step_size: 0.05
//	  tolerance: 1.0e-5
//	  num_iters: 20000
//	align:
//	  parallel_threshold: 65536
type cliConfig struct {
	Adam  optim.Config `yaml:"adam"`
	Align alignConfig  `yaml:"align"`
}

type alignConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"`
}

func defaultCLIConfig() cliConfig {
	adam := optim.DefaultConfig()
	adam.StepSize = 0.05
	adam.Tolerance = 1e-5
	adam.NumIters = 20000
	return cliConfig{
		Adam:  adam,
		Align: alignConfig{ParallelThreshold: 1 << 16},
	}
}

func loadCLIConfig(r io.Reader) (cliConfig, error) {
	cfg := defaultCLIConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cliConfig{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Adam.Validate(); err != nil {
		return cliConfig{}, err
	}
	if cfg.Align.ParallelThreshold <= 0 {
		return cliConfig{}, errors.NewValidationError("align.parallel_threshold", "must be positive", cfg.Align.ParallelThreshold)
	}
	return cfg, nil
}
