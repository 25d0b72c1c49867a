package optim

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// quadratic returns the gradient of sum_k (x_k - target_k)^2.
func quadratic(target []float64) GradientFunc {
	return func(x []float64, _ int) []float64 {
		g := make([]float64, len(x))
		for k := range x {
			g[k] = 2 * (x[k] - target[k])
		}
		return g
	}
}

// captureWarnings collects everything passed to errors.Warn for the rest of
// the test.
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var (
		mu  sync.Mutex
		got []error
	)
	prev := errors.WarningHandler()
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(prev) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

func TestAdam_ConvergesOnQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		opts    []AdamOption
		maxIter int
	}{
		{
			name:    "no momentum",
			opts:    []AdamOption{WithStepSize(0.1), WithBeta1(0), WithTolerance(1e-3)},
			maxIter: 1000,
		},
		{
			name:    "default betas",
			opts:    []AdamOption{WithStepSize(0.05), WithTolerance(1e-4)},
			maxIter: 1000,
		},
		{
			name:    "small step",
			opts:    []AdamOption{WithStepSize(0.01), WithTolerance(1e-4)},
			maxIter: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := captureWarnings(t)

			res, err := Adam(quadratic([]float64{5}), []float64{0}, 100000, tt.opts...)
			require.NoError(t, err)

			assert.True(t, res.Converged)
			assert.Less(t, res.Iterations, tt.maxIter)
			assert.InDelta(t, 5.0, res.X[0], 0.05)
			assert.Empty(t, warnings())
		})
	}
}

func TestAdam_DefaultToleranceStopsAfterFirstStep(t *testing.T) {
	res, err := Adam(quadratic([]float64{5}), []float64{0}, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Iterations)
	assert.True(t, res.Converged)
	// the first update moves each coordinate by almost exactly the step size
	assert.InDelta(t, DefaultStepSize, res.X[0], 1e-9)
}

func TestAdam_FirstStepIsBiasCorrected(t *testing.T) {
	g0 := []float64{3, -0.5, 0}
	grad := func(x []float64, _ int) []float64 { return append([]float64(nil), g0...) }

	const lr = 0.2
	res, err := Adam(grad, []float64{1, 1, 1}, 1, WithStepSize(lr), WithTolerance(0))
	require.NoError(t, err)

	// mhat = g and vhat = g^2 on the first iteration, whatever the betas.
	for k, gk := range g0 {
		want := 1 - lr*gk/(math.Abs(gk)+DefaultEpsilon)
		assert.InDelta(t, want, res.X[k], 1e-12, "coordinate %d", k)
	}
}

func TestAdam_MatchesReferenceRecurrence(t *testing.T) {
	target := []float64{1, -2, 3}
	const (
		lr    = 0.05
		b1    = 0.8
		b2    = 0.99
		eps   = 1e-6
		iters = 25
	)

	x := []float64{0, 0, 0}
	m := make([]float64, 3)
	v := make([]float64, 3)
	grad := quadratic(target)
	for i := 0; i < iters; i++ {
		g := grad(x, i)
		for k := range x {
			m[k] = (1-b1)*g[k] + b1*m[k]
			v[k] = (1-b2)*g[k]*g[k] + b2*v[k]
			mhat := m[k] / (1 - math.Pow(b1, float64(i+1)))
			vhat := v[k] / (1 - math.Pow(b2, float64(i+1)))
			x[k] -= lr * mhat / (math.Sqrt(vhat) + eps)
		}
	}

	res, err := Adam(grad, []float64{0, 0, 0}, iters,
		WithStepSize(lr), WithBeta1(b1), WithBeta2(b2), WithEpsilon(eps), WithTolerance(0))
	require.NoError(t, err)
	assert.Equal(t, iters, res.Iterations)
	assert.False(t, res.Converged)
	assert.InDeltaSlice(t, x, res.X, 1e-12)
}

func TestAdam_Callback(t *testing.T) {
	t.Run("once per iteration", func(t *testing.T) {
		captureWarnings(t)

		var iters []int
		cb := func(x []float64, iter int, g []float64) {
			assert.Len(t, x, 2)
			assert.Len(t, g, 2)
			iters = append(iters, iter)
		}
		res, err := Adam(quadratic([]float64{1, 1}), []float64{0, 0}, 10,
			WithTolerance(0), WithCallback(cb))
		require.NoError(t, err)

		assert.Equal(t, 10, res.Iterations)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, iters)
	})

	t.Run("early stop", func(t *testing.T) {
		calls := 0
		res, err := Adam(quadratic([]float64{5}), []float64{0}, 100000,
			WithStepSize(0.1), WithBeta1(0), WithTolerance(1e-3),
			WithCallback(func([]float64, int, []float64) { calls++ }))
		require.NoError(t, err)

		assert.True(t, res.Converged)
		assert.Equal(t, res.Iterations, calls)
	})

	t.Run("mutating the arguments has no effect", func(t *testing.T) {
		captureWarnings(t)

		plain, err := Adam(quadratic([]float64{2}), []float64{0}, 20, WithTolerance(0))
		require.NoError(t, err)

		scribble := func(x []float64, _ int, g []float64) {
			x[0] = 1000
			g[0] = -1000
		}
		observed, err := Adam(quadratic([]float64{2}), []float64{0}, 20,
			WithTolerance(0), WithCallback(scribble))
		require.NoError(t, err)

		assert.Equal(t, plain.X, observed.X)
	})
}

func TestAdam_DoesNotModifyInitialPoint(t *testing.T) {
	x0 := []float64{0.5, -0.5}
	res, err := Adam(quadratic([]float64{3, 3}), x0, 50, WithStepSize(0.1), WithTolerance(0))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, -0.5}, x0)
	assert.NotEqual(t, x0, res.X)
}

func TestAdam_GradientReceivesIterationIndex(t *testing.T) {
	var seen []int
	grad := func(x []float64, iter int) []float64 {
		seen = append(seen, iter)
		return []float64{1}
	}
	_, err := Adam(grad, []float64{0}, 4, WithTolerance(0))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestAdam_InvalidArguments(t *testing.T) {
	grad := quadratic([]float64{0})

	tests := []struct {
		name  string
		grad  GradientFunc
		x0    []float64
		iters int
		opts  []AdamOption
		param string
	}{
		{name: "zero step size", grad: grad, x0: []float64{0}, iters: 1, opts: []AdamOption{WithStepSize(0)}, param: "step_size"},
		{name: "beta1 of one", grad: grad, x0: []float64{0}, iters: 1, opts: []AdamOption{WithBeta1(1)}, param: "beta1"},
		{name: "negative beta2", grad: grad, x0: []float64{0}, iters: 1, opts: []AdamOption{WithBeta2(-0.1)}, param: "beta2"},
		{name: "zero epsilon", grad: grad, x0: []float64{0}, iters: 1, opts: []AdamOption{WithEpsilon(0)}, param: "epsilon"},
		{name: "negative tolerance", grad: grad, x0: []float64{0}, iters: 1, opts: []AdamOption{WithTolerance(-1)}, param: "tolerance"},
		{name: "nil gradient", grad: nil, x0: []float64{0}, iters: 1, param: "grad"},
		{name: "no iterations", grad: grad, x0: []float64{0}, iters: 0, param: "num_iters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Adam(tt.grad, tt.x0, tt.iters, tt.opts...)
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}

	t.Run("empty x0", func(t *testing.T) {
		_, err := Adam(grad, nil, 1)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("gradient length mismatch", func(t *testing.T) {
		short := func(x []float64, _ int) []float64 { return []float64{1} }
		_, err := Adam(short, []float64{0, 0}, 3)

		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 2, dimErr.Expected)
		assert.Equal(t, 1, dimErr.Got)
	})
}

func TestAdam_Warnings(t *testing.T) {
	t.Run("iteration budget exhausted", func(t *testing.T) {
		warnings := captureWarnings(t)

		res, err := Adam(quadratic([]float64{5}), []float64{0}, 3, WithTolerance(1e-6))
		require.NoError(t, err)
		assert.False(t, res.Converged)

		got := warnings()
		require.Len(t, got, 1)
		var cw *errors.ConvergenceWarning
		require.True(t, errors.As(got[0], &cw))
		assert.Equal(t, 3, cw.Iterations)
	})

	t.Run("non-finite gradient", func(t *testing.T) {
		warnings := captureWarnings(t)

		grad := func(x []float64, _ int) []float64 { return []float64{math.NaN()} }
		res, err := Adam(grad, []float64{0}, 2, WithTolerance(0))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(res.X[0]))

		var numErr *errors.NumericalInstabilityError
		found := false
		for _, w := range warnings() {
			if errors.As(w, &numErr) {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestAdam_Logging(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)

	_, err := Adam(quadratic([]float64{1}), []float64{0}, 5, WithLogger(testLogger))
	require.NoError(t, err)

	assert.True(t, testLogger.ContainsMessage("adam step"))
	assert.True(t, testLogger.ContainsMessage("adam finished"))
	assert.True(t, testLogger.ContainsField(log.OperationKey, log.OperationAdam))
	assert.True(t, testLogger.ContainsField(log.ConvergedKey, true))
}

func TestAdamDense(t *testing.T) {
	targets := []*mat.Dense{
		mat.NewDense(2, 2, []float64{1, -2, 3, 0.5}),
		mat.NewDense(1, 3, []float64{4, -1, 2}),
	}
	grad := func(params []*mat.Dense, _ int) []*mat.Dense {
		out := make([]*mat.Dense, len(params))
		for i, p := range params {
			var g mat.Dense
			g.Sub(p, targets[i])
			g.Scale(2, &g)
			out[i] = &g
		}
		return out
	}
	x0 := []*mat.Dense{mat.NewDense(2, 2, nil), mat.NewDense(1, 3, nil)}

	params, res, err := AdamDense(grad, x0, 20000, WithStepSize(0.01), WithTolerance(1e-4))
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Len(t, params, 2)

	for i, p := range params {
		r, c := p.Dims()
		tr, tc := targets[i].Dims()
		assert.Equal(t, []int{tr, tc}, []int{r, c})
		assert.True(t, mat.EqualApprox(targets[i], p, 0.15), "param %d\n%v", i, mat.Formatted(p))
	}
	// inputs untouched
	assert.Equal(t, 0.0, mat.Sum(x0[0]))
}

func TestAdamDense_ShapeMismatch(t *testing.T) {
	grad := func(params []*mat.Dense, _ int) []*mat.Dense {
		return []*mat.Dense{mat.NewDense(3, 2, nil)}
	}
	_, _, err := AdamDense(grad, []*mat.Dense{mat.NewDense(2, 2, nil)}, 5)
	require.Error(t, err)

	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestFlatten(t *testing.T) {
	ms := []*mat.Dense{
		mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		mat.NewDense(1, 2, []float64{5, 6}),
	}
	flat := Flatten(ms)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, flat)

	back := unflatten(flat, []shape{{2, 2}, {1, 2}})
	for i := range ms {
		assert.True(t, mat.Equal(ms[i], back[i]))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("partial document keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("step_size: 0.05\nnum_iters: 200\n"))
		require.NoError(t, err)

		want := DefaultConfig()
		want.StepSize = 0.05
		want.NumIters = 200
		assert.Equal(t, want, cfg)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("learning_rate: 0.1\n"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("beta2: 1.5\n"))
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "beta2", valErr.ParamName)
	})

	t.Run("options drive the optimizer", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("step_size: 0.05\ntolerance: 1.0e-4\nnum_iters: 100000\n"))
		require.NoError(t, err)

		res, err := Adam(quadratic([]float64{5}), []float64{0}, cfg.NumIters, cfg.Options()...)
		require.NoError(t, err)
		assert.True(t, res.Converged)
		assert.InDelta(t, 5.0, res.X[0], 0.05)
	})
}
