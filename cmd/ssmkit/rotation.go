package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/log"
	"github.com/YuminosukeSato/ssmkit/rotation"
)

func rotationCmd(a *app) *cobra.Command {
	var (
		n      int
		theta  float64
		seed   uint64
		planar bool
	)
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Sample a random rotation matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []rotation.Option
			if cmd.Flags().Changed("theta") {
				opts = append(opts, rotation.WithTheta(theta))
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, rotation.WithSource(rand.NewPCG(seed, seed)))
				log.GetLoggerWithName("cli").Debug("seeded rotation", log.RandomSeedKey, seed)
			}
			if planar {
				opts = append(opts, rotation.WithPlanarOnly())
			}

			r, err := rotation.Random(n, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", mat.Formatted(r, mat.Squeeze()))
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 2, "Matrix size")
	cmd.Flags().Float64Var(&theta, "theta", 0, "Rotation angle in radians (default sampled from U(0, pi/2))")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed")
	cmd.Flags().BoolVar(&planar, "planar", false, "Zero the complement of the rotated plane")
	return cmd
}
