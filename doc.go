// Package ssmkit provides the numeric support layer of a state-space model
// toolkit: label alignment, a convergent Adam optimizer, random rotations for
// initializing dynamics, elementary parameter transforms and argument
// normalization for lists of sequences.
//
// The models themselves live elsewhere; they call into these packages to fit
// parameters and to compare inferred discrete states with ground truth.
//
// # Installation
//
//	go get github.com/YuminosukeSato/ssmkit
//
// # Quick Start
//
// Aligning inferred states with true states:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/ssmkit/align"
//	)
//
//	func main() {
//	    truth := []int{0, 0, 1, 1, 2, 2}
//	    inferred := []int{2, 2, 0, 0, 1, 1}
//
//	    perm, err := align.FindPermutation(truth, inferred)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(perm) // [2 0 1]
//	}
//
// Minimizing a function given its gradient:
//
//	grad := func(x []float64, _ int) []float64 {
//	    return []float64{2 * (x[0] - 5)}
//	}
//	res, err := optim.Adam(grad, []float64{0}, 10000,
//	    optim.WithStepSize(0.05),
//	    optim.WithTolerance(1e-4),
//	)
//
// # Packages
//
//   - align: overlap matrices and optimal state permutations
//   - assignment: rectangular linear sum assignment solver
//   - optim: Adam with early stopping, YAML configuration
//   - rotation: random rotation matrices
//   - transform: logistic, logit, softplus and inverse softplus
//   - sequence: normalization of data, inputs, masks and tags
//   - metrics: label accuracy and regression error
//   - viz: heat maps and trace plots (gonum/plot)
//   - core/parallel: chunked worker fan-out
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging over zerolog
//
// # Errors and Warnings
//
// Contract violations are returned as typed errors from pkg/errors and carry
// a stack trace. Conditions that do not invalidate a result, such as an
// optimizer exhausting its iteration budget, are reported through
// errors.Warn. Call log.Setup to route warnings into the structured log:
//
//	log.Setup(os.Stderr, log.LevelInfo)
//
// # Command Line
//
// cmd/ssmkit wraps the packages in a CLI:
//
//	ssmkit align --z1 truth.txt --z2 inferred.txt --plot overlap.png
//	ssmkit rotation --n 4 --seed 1
//	ssmkit transform --fn logit 0.25 0.5
//	ssmkit --config ssmkit.yaml lstsq --data points.csv --header
//
// # License
//
// ssmkit is released under the MIT License.
package ssmkit
