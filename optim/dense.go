package optim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// DenseGradientFunc is the structured counterpart of GradientFunc: parameters
// and gradients are lists of matrices of matching shapes.
type DenseGradientFunc func(params []*mat.Dense, iter int) []*mat.Dense

type shape struct{ r, c int }

// AdamDense runs Adam on a list of matrices by flattening them into a single
// vector in row-major order. It returns the optimized matrices in the shapes
// of x0 together with the run summary.
//
// A gradient with the wrong number of matrices or a mismatched shape aborts
// the run with a *errors.DimensionError; a panic inside grad is returned as a
// *errors.PanicError.
func AdamDense(grad DenseGradientFunc, x0 []*mat.Dense, numIters int, opts ...AdamOption) (params []*mat.Dense, res *Result, err error) {
	const op = "AdamDense"
	defer errors.Recover(&err, op)

	if len(x0) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	shapes := make([]shape, len(x0))
	for i, p := range x0 {
		r, c := p.Dims()
		shapes[i] = shape{r, c}
	}

	flatGrad := func(x []float64, iter int) []float64 {
		g := grad(unflatten(x, shapes), iter)
		if len(g) != len(shapes) {
			panic(errors.NewDimensionError(op, len(shapes), len(g), 0))
		}
		for i, gi := range g {
			r, c := gi.Dims()
			if r != shapes[i].r {
				panic(errors.NewDimensionError(op, shapes[i].r, r, 0))
			}
			if c != shapes[i].c {
				panic(errors.NewDimensionError(op, shapes[i].c, c, 1))
			}
		}
		return Flatten(g)
	}

	res, err = Adam(flatGrad, Flatten(x0), numIters, opts...)
	if err != nil {
		return nil, nil, err
	}
	return unflatten(res.X, shapes), res, nil
}

// Flatten concatenates the elements of ms in row-major order.
func Flatten(ms []*mat.Dense) []float64 {
	n := 0
	for _, m := range ms {
		r, c := m.Dims()
		n += r * c
	}
	out := make([]float64, 0, n)
	for _, m := range ms {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				out = append(out, m.At(i, j))
			}
		}
	}
	return out
}

func unflatten(x []float64, shapes []shape) []*mat.Dense {
	out := make([]*mat.Dense, len(shapes))
	off := 0
	for i, s := range shapes {
		n := s.r * s.c
		data := make([]float64, n)
		copy(data, x[off:off+n])
		out[i] = mat.NewDense(s.r, s.c, data)
		off += n
	}
	return out
}
