package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/ssmkit/linear"
	"github.com/YuminosukeSato/ssmkit/metrics"
	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/pkg/log"
	"github.com/YuminosukeSato/ssmkit/viz"
)

func lstsqCmd(a *app) *cobra.Command {
	var (
		dataPath string
		header   bool
		plotPath string
		iters    int
	)
	cmd := &cobra.Command{
		Use:   "lstsq",
		Short: "Fit a linear regression with Adam",
		Long:  "Reads a numeric CSV whose last column is the target and fits weights and an intercept by minimizing the mean squared error with Adam.",
		RunE: func(cmd *cobra.Command, args []string) error {
			X, y, err := readXY(dataPath, header)
			if err != nil {
				return err
			}

			opts := []linear.Option{
				linear.WithConfig(a.cfg.Adam),
				linear.WithLossTrace(plotPath != ""),
			}
			if iters > 0 {
				opts = append(opts, linear.WithNumIters(iters))
			}
			model := linear.NewRegression(opts...)

			// gonum panics on shape mismatches
			if err := errors.SafeExecute("lstsq", func() error { return model.Fit(X, y) }); err != nil {
				return err
			}

			pred, err := model.Predict(X)
			if err != nil {
				return err
			}
			mse, err := metrics.MSE(y, pred)
			if err != nil {
				return err
			}
			r2, r2Err := metrics.R2Score(y, pred)
			if r2Err != nil {
				log.GetLoggerWithName("cli").Warn("r2 undefined", "error", r2Err)
			}

			weights := make([]string, model.NFeatures)
			for j := range weights {
				weights[j] = fmt.Sprintf("%.3f", model.Weights.AtVec(j))
			}
			status := "converged"
			if !model.Result.Converged {
				status = "not converged"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "weights: [%s]\n", strings.Join(weights, " "))
			fmt.Fprintf(out, "intercept: %.3f\n", model.Intercept)
			fmt.Fprintf(out, "iterations: %d (%s)\n", model.Result.Iterations, status)
			fmt.Fprintf(out, "mse: %.6g\n", mse)
			if r2Err == nil {
				fmt.Fprintf(out, "r2: %.4f\n", r2)
			}

			if plotPath != "" {
				plotOpts := []viz.TracePlotOption{viz.WithYLabel("mse")}
				if floats.Min(model.LossTrace) > 0 {
					plotOpts = append(plotOpts, viz.WithLogY())
				}
				p, err := viz.TracePlot(model.LossTrace, "training loss", plotOpts...)
				if err != nil {
					return err
				}
				return viz.Save(p, plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV file; the last column is the target")
	cmd.Flags().BoolVar(&header, "header", false, "Skip the first CSV row")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write a loss trace plot to this file")
	cmd.Flags().IntVar(&iters, "iters", 0, "Override the configured iteration budget")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
