// Package rotation generates random rotation matrices for initializing linear
// dynamics.
package rotation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// MaxTheta is the upper bound of the sampled rotation angle.
const MaxTheta = math.Pi / 2

// Option configures Random.
type Option func(*config)

type config struct {
	theta      float64
	hasTheta   bool
	src        rand.Source
	planarOnly bool
	logger     log.Logger
}

// WithTheta fixes the rotation angle instead of sampling it from U(0, π/2).
func WithTheta(theta float64) Option {
	return func(c *config) {
		c.theta = theta
		c.hasTheta = true
	}
}

// WithSource sets the random source. Without it the global source is used.
func WithSource(src rand.Source) Option {
	return func(c *config) {
		c.src = src
	}
}

// WithPlanarOnly zeroes the complement of the rotated plane instead of
// leaving it fixed, so the result rotates one plane and annihilates the rest.
// The matrix is then no longer orthogonal for n > 2.
func WithPlanarOnly() Option {
	return func(c *config) {
		c.planarOnly = true
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Random returns an n×n matrix Q·R(θ)·Qᵀ, where R(θ) rotates the first two
// coordinates by θ and Q is the orthogonal factor of the QR decomposition of a
// standard normal matrix. The result is orthogonal with determinant 1.
//
// For n == 1 it returns [[u]] with u ~ U(0, 1).
func Random(n int, opts ...Option) (*mat.Dense, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "must be at least 1", n)
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("rotation")
	}

	if n == 1 {
		u := distuv.Uniform{Min: 0, Max: 1, Src: cfg.src}
		return mat.NewDense(1, 1, []float64{u.Rand()}), nil
	}

	theta := cfg.theta
	if !cfg.hasTheta {
		theta = distuv.Uniform{Min: 0, Max: MaxTheta, Src: cfg.src}.Rand()
	}

	r := mat.NewDense(n, n, nil)
	if !cfg.planarOnly {
		for i := 2; i < n; i++ {
			r.Set(i, i, 1)
		}
	}
	sin, cos := math.Sincos(theta)
	r.Set(0, 0, cos)
	r.Set(0, 1, -sin)
	r.Set(1, 0, sin)
	r.Set(1, 1, cos)

	q := randomOrthogonal(n, cfg.src)

	var tmp, out mat.Dense
	tmp.Mul(q, r)
	out.Mul(&tmp, q.T())

	if err := errors.CheckMatrix("random_rotation", &out, 0); err != nil {
		return nil, err
	}

	logger.Debug("random rotation",
		log.OperationKey, log.OperationRandomRotation,
		log.DimensionKey, n,
		log.ThetaKey, theta,
	)
	return &out, nil
}

func randomOrthogonal(n int, src rand.Source) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, norm.Rand())
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)
	return &q
}
