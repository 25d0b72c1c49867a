package align

import (
	"fmt"

	"github.com/YuminosukeSato/ssmkit/assignment"
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// FindPermutation returns perm of length K2 such that relabeling state k of
// z1 as perm[k] maximizes agreement with z2. The first K1 entries are the
// optimal matching; when K1 < K2 the unmatched states of z2 follow in
// ascending order, so perm is always a permutation of 0..K2-1.
//
// K1 > K2 cannot be aligned and yields an *errors.AlignmentError.
func FindPermutation(z1, z2 []int, opts ...Option) ([]int, error) {
	const op = "FindPermutation"
	cfg := newConfig(opts)

	overlap, err := computeOverlap(z1, z2, cfg)
	if err != nil {
		return nil, err
	}
	k1, k2 := overlap.Dims()
	if k1 > k2 {
		return nil, errors.NewAlignmentError(k1, k2)
	}

	rows, cols, err := assignment.Solve(overlap, assignment.WithMaximize())
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if len(rows) != k1 {
		return nil, errors.NewInvariantError(op, fmt.Sprintf("solver matched %d of %d rows", len(rows), k1))
	}
	for i, r := range rows {
		if r != i {
			return nil, errors.NewInvariantError(op, fmt.Sprintf("row %d unmatched", i))
		}
	}

	perm := make([]int, 0, k2)
	perm = append(perm, cols...)
	if k1 < k2 {
		used := make([]bool, k2)
		for _, c := range cols {
			used[c] = true
		}
		for j := 0; j < k2; j++ {
			if !used[j] {
				perm = append(perm, j)
			}
		}
	}

	cfg.logger.Debug("permutation found",
		log.OperationKey, log.OperationFindPermutation,
		log.K1Key, k1,
		log.K2Key, k2,
		log.OverlapKey, assignment.Total(overlap, rows, cols),
	)
	return perm, nil
}

// MustFindPermutation is like FindPermutation but panics on error.
func MustFindPermutation(z1, z2 []int, opts ...Option) []int {
	perm, err := FindPermutation(z1, z2, opts...)
	if err != nil {
		panic(err)
	}
	return perm
}

// Relabel maps every label k of z to perm[k]. Applied to the first argument
// of FindPermutation, it expresses that labeling in the states of the second.
func Relabel(z []int, perm []int) ([]int, error) {
	out := make([]int, len(z))
	for t, k := range z {
		if k < 0 || k >= len(perm) {
			return nil, errors.NewValidationError("z", fmt.Sprintf("label at position %d outside permutation of length %d", t, len(perm)), k)
		}
		out[t] = perm[k]
	}
	return out, nil
}
