// Package transform provides the scalar links used to map constrained model
// parameters to an unconstrained space and back.
//
// Logistic and Logit map between (0, 1) and the real line; Softplus and
// InvSoftplus map between (0, ∞) and the real line. Each has a Dense form that
// applies it elementwise to a gonum matrix.
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// Logistic returns 1 / (1 + e^-x).
func Logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	// e^x / (1 + e^x) keeps precision for large negative x
	ex := math.Exp(x)
	return ex / (1 + ex)
}

// Logit is the inverse of Logistic. p must lie in the open interval (0, 1).
func Logit(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return math.NaN(), errors.NewValueError("Logit", "argument must lie in (0, 1)")
	}
	return math.Log(p) - math.Log1p(-p), nil
}

// Softplus returns log(1 + e^x) without overflowing for large x.
func Softplus(x float64) float64 {
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

// InvSoftplus is the inverse of Softplus. y must be positive.
func InvSoftplus(y float64) (float64, error) {
	if !(y > 0) {
		return math.NaN(), errors.NewValueError("InvSoftplus", "argument must be positive")
	}
	// log(e^y - 1) = y + log(1 - e^-y)
	return y + math.Log(-math.Expm1(-y)), nil
}

// LogisticDense applies Logistic elementwise.
func LogisticDense(a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return Logistic(v) }, a)
	return &out
}

// SoftplusDense applies Softplus elementwise.
func SoftplusDense(a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return Softplus(v) }, a)
	return &out
}

// LogitDense applies Logit elementwise. The error names the first offending
// entry in row-major order.
func LogitDense(a mat.Matrix) (*mat.Dense, error) {
	return applyChecked("LogitDense", a, Logit)
}

// InvSoftplusDense applies InvSoftplus elementwise. The error names the first
// offending entry in row-major order.
func InvSoftplusDense(a mat.Matrix) (*mat.Dense, error) {
	return applyChecked("InvSoftplusDense", a, InvSoftplus)
}

func applyChecked(op string, a mat.Matrix, fn func(float64) (float64, error)) (*mat.Dense, error) {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := fn(a.At(i, j))
			if err != nil {
				return nil, errors.Wrapf(err, "%s: entry (%d, %d) = %g", op, i, j, a.At(i, j))
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
