// Package sequence normalizes the arguments of model-fitting entry points.
//
// A model takes a list of T_i×D data sequences together with optional
// T_i×M inputs, T_i×D observation masks and arbitrary per-sequence tags.
// EnsureLists and EnsureSingle fill in what the caller left out: zero inputs,
// all-observed masks and nil tags. Explicit values are checked against the
// shape of the data they accompany.
package sequence

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// Sequence is one normalized data sequence.
//
// Input is nil when the input dimension M is zero, since gonum has no
// zero-width matrices.
type Sequence struct {
	Data  *mat.Dense
	Input *mat.Dense
	Mask  *Mask
	Tag   any
}

// Batch is the normalized list form. All four slices have the same length.
type Batch struct {
	Datas  []*mat.Dense
	Inputs []*mat.Dense
	Masks  []*Mask
	Tags   []any
}

// Len returns the number of sequences.
func (b *Batch) Len() int { return len(b.Datas) }

// At returns sequence i.
func (b *Batch) At(i int) *Sequence {
	return &Sequence{Data: b.Datas[i], Input: b.Inputs[i], Mask: b.Masks[i], Tag: b.Tags[i]}
}

// ArgOption supplies an optional argument to EnsureLists or EnsureSingle.
type ArgOption func(*args)

type args struct {
	inputs    []*mat.Dense
	hasInputs bool
	masks     []*Mask
	hasMasks  bool
	tags      []any
	hasTags   bool
	logger    log.Logger
}

// WithInputs supplies one input matrix per data sequence. A nil entry is
// replaced by zeros.
func WithInputs(inputs ...*mat.Dense) ArgOption {
	return func(a *args) {
		a.inputs = inputs
		a.hasInputs = true
	}
}

// WithMasks supplies one mask per data sequence. A nil entry is replaced by a
// full mask.
func WithMasks(masks ...*Mask) ArgOption {
	return func(a *args) {
		a.masks = masks
		a.hasMasks = true
	}
}

// WithTags supplies one tag per data sequence.
func WithTags(tags ...any) ArgOption {
	return func(a *args) {
		a.tags = tags
		a.hasTags = true
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) ArgOption {
	return func(a *args) {
		a.logger = l
	}
}

// EnsureLists normalizes datas and the optional arguments into a Batch for a
// model with input dimension m.
func EnsureLists(m int, datas []*mat.Dense, opts ...ArgOption) (*Batch, error) {
	const op = "EnsureLists"

	if m < 0 {
		return nil, errors.NewValidationError("M", "must be non-negative", m)
	}
	if len(datas) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	for i, d := range datas {
		if d == nil || d.IsEmpty() {
			return nil, errors.Wrapf(errors.ErrEmptyData, "%s: datas[%d]", op, i)
		}
	}

	var a args
	for _, opt := range opts {
		opt(&a)
	}
	n := len(datas)

	b := &Batch{
		Datas:  datas,
		Inputs: make([]*mat.Dense, n),
		Masks:  make([]*Mask, n),
		Tags:   make([]any, n),
	}

	if a.hasInputs && len(a.inputs) != n {
		return nil, errors.NewDimensionError(op+": inputs", n, len(a.inputs), 0)
	}
	if a.hasMasks && len(a.masks) != n {
		return nil, errors.NewDimensionError(op+": masks", n, len(a.masks), 0)
	}
	if a.hasTags && len(a.tags) != n {
		return nil, errors.NewDimensionError(op+": tags", n, len(a.tags), 0)
	}

	for i, d := range datas {
		T, D := d.Dims()

		var in *mat.Dense
		if a.hasInputs {
			in = a.inputs[i]
		}
		switch {
		case in == nil && m > 0:
			in = mat.NewDense(T, m, nil)
		case in != nil:
			if r, c := in.Dims(); r != T || c != m {
				return nil, errors.NewInputShapeError("inputs", i, []int{T, m}, []int{r, c})
			}
		}
		b.Inputs[i] = in

		var mask *Mask
		if a.hasMasks {
			mask = a.masks[i]
		}
		if mask == nil {
			mask = FullMask(T, D)
		} else if r, c := mask.Dims(); r != T || c != D {
			return nil, errors.NewInputShapeError("masks", i, []int{T, D}, []int{r, c})
		}
		b.Masks[i] = mask

		if a.hasTags {
			b.Tags[i] = a.tags[i]
		}
	}

	logger := a.logger
	if logger == nil {
		logger = log.GetLoggerWithName("sequence")
	}
	logger.Debug("normalized arguments",
		log.OperationKey, log.OperationNormalize,
		log.SequencesKey, n,
	)
	return b, nil
}

// EnsureSingle normalizes one data sequence. At most one input, mask and tag
// may be supplied.
func EnsureSingle(m int, data *mat.Dense, opts ...ArgOption) (*Sequence, error) {
	if data == nil {
		return nil, errors.NewValidationError("data", "must not be nil", nil)
	}
	b, err := EnsureLists(m, []*mat.Dense{data}, opts...)
	if err != nil {
		return nil, err
	}
	return b.At(0), nil
}
