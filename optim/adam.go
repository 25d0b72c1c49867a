// Package optim implements Adam with an early-stopping check on the size of
// each update.
//
// The optimizer never computes gradients itself: callers pass a GradientFunc
// that returns the gradient of their objective at x.
package optim

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// GradientFunc returns the gradient of the objective at x for iteration iter.
// The returned slice must have len(x) elements. x must not be retained or
// modified.
type GradientFunc func(x []float64, iter int) []float64

// Callback observes each iteration before the update is applied. It receives
// copies of the current parameters and gradient.
type Callback func(x []float64, iter int, g []float64)

// Result is the outcome of an optimization run.
type Result struct {
	// X is the final parameter vector.
	X []float64
	// Iterations is the number of completed iterations.
	Iterations int
	// Converged reports whether the run stopped because mean(|dx|) fell
	// below the tolerance rather than by exhausting the iteration budget.
	Converged bool
	// MeanStep is mean(|dx|) of the last update.
	MeanStep float64
}

// Adam minimizes an objective given its gradient, starting at x0, for at most
// numIters iterations. It stops early once the mean absolute update falls
// below the tolerance. x0 is not modified.
//
// The moment estimates start at zero on every call. Non-finite values are not
// trapped; they are reported through errors.Warn and propagate into the result.
func Adam(grad GradientFunc, x0 []float64, numIters int, opts ...AdamOption) (*Result, error) {
	const op = "Adam"

	cfg := defaultAdamConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if grad == nil {
		return nil, errors.NewValidationError("grad", "gradient function is required", nil)
	}
	if numIters <= 0 {
		return nil, errors.NewValidationError("num_iters", "must be positive", numIters)
	}
	if len(x0) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("optim")
	}

	n := len(x0)
	x := append([]float64(nil), x0...)
	m := make([]float64, n)
	v := make([]float64, n)
	dx := make([]float64, n)

	res := &Result{}
	for i := 0; i < numIters; i++ {
		g := grad(x, i)
		if len(g) != n {
			return nil, errors.NewDimensionError(op, n, len(g), 0)
		}
		if cfg.callback != nil {
			cfg.callback(append([]float64(nil), x...), i, append([]float64(nil), g...))
		}

		// Bias corrections for step t = i+1.
		bc1 := 1 - math.Pow(cfg.beta1, float64(i+1))
		bc2 := 1 - math.Pow(cfg.beta2, float64(i+1))

		for k, gk := range g {
			m[k] = (1-cfg.beta1)*gk + cfg.beta1*m[k]
			v[k] = (1-cfg.beta2)*(gk*gk) + cfg.beta2*v[k]
			mhat := m[k] / bc1
			vhat := v[k] / bc2
			dx[k] = -cfg.stepSize * mhat / (math.Sqrt(vhat) + cfg.epsilon)
		}
		floats.Add(x, dx)

		res.Iterations = i + 1
		res.MeanStep = meanAbs(dx)

		if logger.Enabled(context.Background(), log.LevelDebug) {
			logger.Debug("adam step",
				log.IterationKey, i,
				log.MeanStepKey, res.MeanStep,
			)
		}

		if res.MeanStep < cfg.tolerance {
			res.Converged = true
			break
		}
	}
	res.X = x

	if err := errors.CheckNumericalStability("adam_update", x, res.Iterations-1); err != nil {
		errors.Warn(err)
	}
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning(op, res.Iterations, ""))
	}

	logger.Info("adam finished",
		log.OperationKey, log.OperationAdam,
		log.DimensionKey, n,
		log.IterationsKey, res.Iterations,
		log.ConvergedKey, res.Converged,
		log.MeanStepKey, res.MeanStep,
	)
	return res, nil
}

func meanAbs(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += math.Abs(x)
	}
	return sum / float64(len(xs))
}
