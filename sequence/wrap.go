package sequence

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// ListsFunc adapts a function over a normalized Batch into one that accepts
// raw data sequences and optional arguments.
//
//	logLikelihood := sequence.ListsFunc(model.M, model.logLikelihood)
//	ll, err := logLikelihood(datas, sequence.WithMasks(masks...))
func ListsFunc[R any](m int, f func(*Batch) (R, error)) func(datas []*mat.Dense, opts ...ArgOption) (R, error) {
	return func(datas []*mat.Dense, opts ...ArgOption) (R, error) {
		b, err := EnsureLists(m, datas, opts...)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(b)
	}
}

// ELBOListsFunc is ListsFunc for functions that also take variational
// parameters ahead of the data.
func ELBOListsFunc[V, R any](m int, f func(V, *Batch) (R, error)) func(params V, datas []*mat.Dense, opts ...ArgOption) (R, error) {
	return func(params V, datas []*mat.Dense, opts ...ArgOption) (R, error) {
		b, err := EnsureLists(m, datas, opts...)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(params, b)
	}
}

// SingleFunc adapts a function over one normalized Sequence.
func SingleFunc[R any](m int, f func(*Sequence) (R, error)) func(data *mat.Dense, opts ...ArgOption) (R, error) {
	return func(data *mat.Dense, opts ...ArgOption) (R, error) {
		s, err := EnsureSingle(m, data, opts...)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(s)
	}
}

// SLDSSingleFunc is SingleFunc for functions that also take a variational
// posterior mean of the continuous latent states. The mean must not be nil.
func SLDSSingleFunc[R any](m int, f func(mean *mat.Dense, s *Sequence) (R, error)) func(mean, data *mat.Dense, opts ...ArgOption) (R, error) {
	return func(mean, data *mat.Dense, opts ...ArgOption) (R, error) {
		var zero R
		if mean == nil {
			return zero, errors.NewValidationError("variational_mean", "must not be nil", nil)
		}
		s, err := EnsureSingle(m, data, opts...)
		if err != nil {
			return zero, err
		}
		return f(mean, s)
	}
}
