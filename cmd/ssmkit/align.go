package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/align"
	"github.com/YuminosukeSato/ssmkit/metrics"
	"github.com/YuminosukeSato/ssmkit/viz"
)

func alignCmd(a *app) *cobra.Command {
	var (
		z1Path, z2Path string
		k1, k2         int
		plotPath       string
	)
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Match the states of one labeling to another",
		Long:  "Computes the overlap matrix of two label sequences and the permutation of the second labeling's states that maximizes agreement.",
		RunE: func(cmd *cobra.Command, args []string) error {
			z1, err := readLabels(z1Path)
			if err != nil {
				return err
			}
			z2, err := readLabels(z2Path)
			if err != nil {
				return err
			}

			opts := []align.Option{
				align.WithK1(k1),
				align.WithK2(k2),
				align.WithParallelThreshold(a.cfg.Align.ParallelThreshold),
			}
			overlap, err := align.ComputeOverlap(z1, z2, opts...)
			if err != nil {
				return err
			}
			perm, err := align.FindPermutation(z1, z2, opts...)
			if err != nil {
				return err
			}
			relabeled, err := align.Relabel(z1, perm)
			if err != nil {
				return err
			}
			before, err := metrics.LabelAccuracy(z2, z1)
			if err != nil {
				return err
			}
			after, err := metrics.LabelAccuracy(z2, relabeled)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "overlap:\n%v\n", mat.Formatted(overlap, mat.Squeeze()))
			fmt.Fprintf(out, "permutation: %v\n", perm)
			fmt.Fprintf(out, "accuracy: %.4f -> %.4f\n", before, after)

			if plotPath != "" {
				p, err := viz.OverlapHeatMap(overlap, "state overlap")
				if err != nil {
					return err
				}
				return viz.Save(p, plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&z1Path, "z1", "", "File with the first label sequence")
	cmd.Flags().StringVar(&z2Path, "z2", "", "File with the second label sequence")
	cmd.Flags().IntVar(&k1, "k1", 0, "Number of states of the first labeling (default max+1)")
	cmd.Flags().IntVar(&k2, "k2", 0, "Number of states of the second labeling (default max+1)")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write an overlap heat map to this file")
	_ = cmd.MarkFlagRequired("z1")
	_ = cmd.MarkFlagRequired("z2")
	return cmd
}
