package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ssmkit/pkg/log"
)

const version = "v0.1.0"

type app struct {
	logLevel   string
	configPath string
	cfg        cliConfig
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultCLIConfig()}

	root := &cobra.Command{
		Use:           "ssmkit",
		Short:         "State-space model support utilities",
		Long:          "Align inferred state sequences, fit parameters with Adam and sample rotation matrices.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(a.logLevel)
			if err != nil {
				return err
			}
			log.Setup(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}, level)

			if a.configPath == "" {
				return nil
			}
			f, err := os.Open(a.configPath)
			if err != nil {
				return err
			}
			defer f.Close()
			cfg, err := loadCLIConfig(f)
			if err != nil {
				return err
			}
			a.cfg = cfg
			log.GetLoggerWithName("cli").Debug("loaded config", "path", a.configPath)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")

	root.AddCommand(
		alignCmd(a),
		rotationCmd(a),
		transformCmd(),
		lstsqCmd(a),
	)
	return root
}

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
