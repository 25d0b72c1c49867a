package optim

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// Config is the file form of the Adam hyperparameters.
//
//	step_size: 0.01
//	beta1: 0.9
//	beta2: 0.999
//	epsilon: 1.0e-8
//	tolerance: 1.0e-4
//	num_iters: 5000
type Config struct {
	StepSize  float64 `yaml:"step_size"`
	Beta1     float64 `yaml:"beta1"`
	Beta2     float64 `yaml:"beta2"`
	Epsilon   float64 `yaml:"epsilon"`
	Tolerance float64 `yaml:"tolerance"`
	NumIters  int     `yaml:"num_iters"`
}

// DefaultNumIters is the iteration budget used when a Config leaves it unset.
const DefaultNumIters = 1000

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		StepSize:  DefaultStepSize,
		Beta1:     DefaultBeta1,
		Beta2:     DefaultBeta2,
		Epsilon:   DefaultEpsilon,
		Tolerance: DefaultTolerance,
		NumIters:  DefaultNumIters,
	}
}

// LoadConfig decodes YAML from r on top of DefaultConfig, so omitted keys
// keep their defaults. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode adam config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the hyperparameters with the same rules Adam applies.
func (c Config) Validate() error {
	if c.NumIters <= 0 {
		return errors.NewValidationError("num_iters", "must be positive", c.NumIters)
	}
	ac := defaultAdamConfig()
	for _, opt := range c.Options() {
		opt(&ac)
	}
	return ac.validate()
}

// Options converts the configuration into Adam options.
func (c Config) Options() []AdamOption {
	return []AdamOption{
		WithStepSize(c.StepSize),
		WithBeta1(c.Beta1),
		WithBeta2(c.Beta2),
		WithEpsilon(c.Epsilon),
		WithTolerance(c.Tolerance),
	}
}
