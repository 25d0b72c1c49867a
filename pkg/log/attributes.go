// Package log defines standard attribute keys for ssmkit operations.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "optim.iteration") so that log output can be filtered by category.

package log

// Operation context.
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "align", "optim", "rotation"
	ComponentKey = "ssm.component"

	// OperationKey names the operation being performed.
	OperationKey = "ssm.operation"
)

// Data shape.
const (
	// SamplesKey is the length T of the sequences being processed.
	SamplesKey = "data.samples"

	// SequencesKey is the number of sequences in a normalized batch.
	SequencesKey = "data.sequences"

	// DimensionKey is the length of a flattened parameter vector.
	DimensionKey = "data.dimension"

	// K1Key and K2Key are the label-space sizes of the two labelings.
	K1Key = "align.k1"
	K2Key = "align.k2"

	// WorkersKey is the number of goroutines used to count overlaps.
	WorkersKey = "align.workers"

	// OverlapKey is the total overlap captured by a permutation.
	OverlapKey = "align.total_overlap"
)

// Optimizer progress.
const (
	// IterationKey is the zero-based iteration index.
	IterationKey = "optim.iteration"

	// IterationsKey is the number of completed iterations.
	IterationsKey = "optim.iterations"

	// StepSizeKey is the Adam step size.
	StepSizeKey = "optim.step_size"

	// ToleranceKey is the mean |dx| threshold for early stopping.
	ToleranceKey = "optim.tolerance"

	// MeanStepKey is mean(|dx|) of the most recent update.
	MeanStepKey = "optim.mean_step"

	// ConvergedKey reports whether the run stopped on the tolerance check.
	ConvergedKey = "optim.converged"

	// LossKey records a loss value when the caller has one.
	LossKey = "optim.loss"
)

// Sampling.
const (
	// RandomSeedKey records the seed used for reproducible sampling.
	RandomSeedKey = "config.random_seed"

	// ThetaKey is the rotation angle in radians.
	ThetaKey = "rotation.theta"
)

// Error and warning context.
const (
	// WarningKey carries a warning value routed from errors.Warn.
	WarningKey = "warning"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard operation names.
const (
	OperationComputeOverlap  = "compute_overlap"
	OperationFindPermutation = "find_permutation"
	OperationAdam            = "adam"
	OperationRandomRotation  = "random_rotation"
	OperationNormalize       = "normalize_args"
)
