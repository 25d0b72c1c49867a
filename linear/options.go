package linear

import (
	"github.com/YuminosukeSato/ssmkit/optim"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// Option is a function that configures Regression
type Option func(*Regression)

// WithFitIntercept sets whether to fit an intercept
func WithFitIntercept(fit bool) Option {
	return func(r *Regression) {
		r.fitIntercept = fit
	}
}

// WithNumIters sets the Adam iteration budget
func WithNumIters(n int) Option {
	return func(r *Regression) {
		r.numIters = n
	}
}

// WithAdam passes options through to the optimizer
func WithAdam(opts ...optim.AdamOption) Option {
	return func(r *Regression) {
		r.adamOpts = append(r.adamOpts, opts...)
	}
}

// WithConfig applies a file configuration: hyperparameters and iteration budget
func WithConfig(cfg optim.Config) Option {
	return func(r *Regression) {
		r.adamOpts = append(r.adamOpts, cfg.Options()...)
		r.numIters = cfg.NumIters
	}
}

// WithLossTrace records the training loss at every iteration in LossTrace
func WithLossTrace(record bool) Option {
	return func(r *Regression) {
		r.recordLoss = record
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(r *Regression) {
		r.logger = l
	}
}
