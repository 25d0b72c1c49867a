package optim

import (
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// Default Adam hyperparameters.
const (
	DefaultStepSize  = 0.001
	DefaultBeta1     = 0.9
	DefaultBeta2     = 0.999
	DefaultEpsilon   = 1e-8
	DefaultTolerance = 1e-2
)

// AdamOption configures Adam.
type AdamOption func(*adamConfig)

type adamConfig struct {
	stepSize  float64
	beta1     float64
	beta2     float64
	epsilon   float64
	tolerance float64
	callback  Callback
	logger    log.Logger
}

func defaultAdamConfig() adamConfig {
	return adamConfig{
		stepSize:  DefaultStepSize,
		beta1:     DefaultBeta1,
		beta2:     DefaultBeta2,
		epsilon:   DefaultEpsilon,
		tolerance: DefaultTolerance,
	}
}

func (c *adamConfig) validate() error {
	if !(c.stepSize > 0) {
		return errors.NewValidationError("step_size", "must be positive", c.stepSize)
	}
	if !(c.beta1 >= 0 && c.beta1 < 1) {
		return errors.NewValidationError("beta1", "must lie in [0, 1)", c.beta1)
	}
	if !(c.beta2 >= 0 && c.beta2 < 1) {
		return errors.NewValidationError("beta2", "must lie in [0, 1)", c.beta2)
	}
	if !(c.epsilon > 0) {
		return errors.NewValidationError("epsilon", "must be positive", c.epsilon)
	}
	if c.tolerance < 0 {
		return errors.NewValidationError("tolerance", "must be non-negative", c.tolerance)
	}
	return nil
}

// WithStepSize sets the step size (learning rate).
func WithStepSize(s float64) AdamOption {
	return func(c *adamConfig) {
		c.stepSize = s
	}
}

// WithBeta1 sets the decay rate of the first moment estimate.
func WithBeta1(b float64) AdamOption {
	return func(c *adamConfig) {
		c.beta1 = b
	}
}

// WithBeta2 sets the decay rate of the second moment estimate.
func WithBeta2(b float64) AdamOption {
	return func(c *adamConfig) {
		c.beta2 = b
	}
}

// WithEpsilon sets the constant added to sqrt(vhat) in the denominator.
func WithEpsilon(eps float64) AdamOption {
	return func(c *adamConfig) {
		c.epsilon = eps
	}
}

// WithTolerance sets the mean |dx| below which the run stops early.
// Zero disables early stopping.
func WithTolerance(tol float64) AdamOption {
	return func(c *adamConfig) {
		c.tolerance = tol
	}
}

// WithCallback registers an observer called once per iteration.
func WithCallback(cb Callback) AdamOption {
	return func(c *adamConfig) {
		c.callback = cb
	}
}

// WithLogger sets the logger used for progress records.
func WithLogger(l log.Logger) AdamOption {
	return func(c *adamConfig) {
		c.logger = l
	}
}
