package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
	"github.com/YuminosukeSato/ssmkit/transform"
)

var transforms = map[string]func(float64) (float64, error){
	"logistic":     func(x float64) (float64, error) { return transform.Logistic(x), nil },
	"logit":        transform.Logit,
	"softplus":     func(x float64) (float64, error) { return transform.Softplus(x), nil },
	"inv-softplus": transform.InvSoftplus,
}

func transformCmd() *cobra.Command {
	var fn string
	cmd := &cobra.Command{
		Use:   "transform [--fn NAME] -- VALUE...",
		Short: "Apply logistic, logit, softplus or inverse softplus",
		Long:  "Applies the chosen transform to each VALUE and prints one result per line. Put values after -- so negative numbers are not read as flags.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := transforms[strings.ToLower(fn)]
			if !ok {
				return errors.NewValidationError("fn", "unknown transform", fn)
			}
			for _, arg := range args {
				x, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return errors.Wrapf(err, "parse %q", arg)
				}
				y, err := f(x)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%g\n", y)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fn, "fn", "logistic", "Transform (logistic|logit|softplus|inv-softplus)")
	return cmd
}
