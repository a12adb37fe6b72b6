package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statkit/internal"
	"statkit/internal/config"
)

// app is the state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	format     string

	cfg    *config.Config
	logger *internal.Logger
}

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "statkit",
		Short:         "Classical hypothesis tests from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .statkit.yaml in . or $HOME)")
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", "Output format: table, json or yaml")

	rootCmd.AddCommand(
		newRunCmd(a),
		newTestsCmd(),
		newDescribeCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.format != "" {
		cfg.Format = a.format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	return nil
}
