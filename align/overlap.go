// Package align matches the states of one discrete labeling to another.
//
// Latent-state models recover states only up to a relabeling. ComputeOverlap
// tabulates how often each pair of labels co-occurs, and FindPermutation
// picks the one-to-one relabeling that maximizes total agreement by solving
// the assignment problem on that table.
package align

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/core/parallel"
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

// DefaultParallelThreshold is the sequence length above which overlap counts
// are accumulated by several goroutines.
const DefaultParallelThreshold = 1 << 16

// Option configures ComputeOverlap and FindPermutation.
type Option func(*config)

type config struct {
	k1, k2    int
	threshold int
	logger    log.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		threshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("align")
	}
	return cfg
}

// WithK1 sets the number of states of the first labeling. It must exceed the
// largest label in the first sequence; states that never occur get an empty row.
func WithK1(k int) Option {
	return func(c *config) {
		c.k1 = k
	}
}

// WithK2 sets the number of states of the second labeling.
func WithK2(k int) Option {
	return func(c *config) {
		c.k2 = k
	}
}

// WithParallelThreshold overrides DefaultParallelThreshold.
func WithParallelThreshold(n int) Option {
	return func(c *config) {
		c.threshold = n
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// ComputeOverlap returns the K1×K2 matrix whose (k1, k2) entry counts the
// positions t with z1[t] == k1 and z2[t] == k2. Entries sum to len(z1).
func ComputeOverlap(z1, z2 []int, opts ...Option) (*mat.Dense, error) {
	cfg := newConfig(opts)
	return computeOverlap(z1, z2, cfg)
}

func computeOverlap(z1, z2 []int, cfg config) (*mat.Dense, error) {
	const op = "ComputeOverlap"

	if len(z1) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(z2) != len(z1) {
		return nil, errors.NewDimensionError(op, len(z1), len(z2), 0)
	}

	k1, err := stateCount("K1", z1, cfg.k1)
	if err != nil {
		return nil, err
	}
	k2, err := stateCount("K2", z2, cfg.k2)
	if err != nil {
		return nil, err
	}

	T := len(z1)
	partial := make([][]float64, max(1, parallel.Workers(T)))
	workers := parallel.ParallelizeWithThreshold(T, cfg.threshold, func(w, start, end int) {
		counts := make([]float64, k1*k2)
		for t := start; t < end; t++ {
			counts[z1[t]*k2+z2[t]]++
		}
		partial[w] = counts
	})

	total := make([]float64, k1*k2)
	for _, counts := range partial {
		if counts != nil {
			floats.Add(total, counts)
		}
	}

	cfg.logger.Debug("overlap computed",
		log.OperationKey, log.OperationComputeOverlap,
		log.SamplesKey, T,
		log.K1Key, k1,
		log.K2Key, k2,
		log.WorkersKey, workers,
	)
	return mat.NewDense(k1, k2, total), nil
}

// stateCount validates labels and returns the state count: the explicit bound
// when given, otherwise max label + 1.
func stateCount(param string, z []int, bound int) (int, error) {
	maxLabel := -1
	for t, k := range z {
		if k < 0 {
			return 0, errors.NewValidationError(param, fmt.Sprintf("labels must be non-negative (position %d)", t), k)
		}
		if k > maxLabel {
			maxLabel = k
		}
	}
	if bound == 0 {
		return maxLabel + 1, nil
	}
	if bound <= maxLabel {
		return 0, errors.NewValidationError(param, fmt.Sprintf("must exceed the largest label %d", maxLabel), bound)
	}
	return bound, nil
}
