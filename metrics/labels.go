package metrics

import (
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// LabelAccuracy は2つのラベル列が一致する時刻の割合を返す。
// 推定状態列は align.FindPermutation で真の状態列に揃えてから渡すこと。
func LabelAccuracy(zTrue, zPred []int) (float64, error) {
	if len(zTrue) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "LabelAccuracy")
	}
	if len(zPred) != len(zTrue) {
		return 0, errors.NewDimensionError("LabelAccuracy", len(zTrue), len(zPred), 0)
	}
	hits := 0
	for t, z := range zTrue {
		if zPred[t] == z {
			hits++
		}
	}
	return float64(hits) / float64(len(zTrue)), nil
}

// StateUsage returns the fraction of time steps spent in each of k states.
// Labels outside [0, k) are an error.
func StateUsage(z []int, k int) ([]float64, error) {
	if k <= 0 {
		return nil, errors.NewValidationError("K", "must be positive", k)
	}
	if len(z) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "StateUsage")
	}
	usage := make([]float64, k)
	for _, s := range z {
		if s < 0 || s >= k {
			return nil, errors.NewValidationError("K", "label out of range", s)
		}
		usage[s]++
	}
	for i := range usage {
		usage[i] /= float64(len(z))
	}
	return usage, nil
}
