package cmd

import (
	"fmt"
	"os"

	"splitHub/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	seed         int64
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Replay synthetic traffic through the allocation engine",
	Long: `simulator drives synthetic visitors with known conversion rates through
the assignment service, backed by an in-memory store, and reports how traffic
was split.

Usage:
  simulator run --scenario s.yaml --seed 7
  simulator compare --scenario s.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init("development")
		if verbose {
			logger.L().SetLevel(logrus.DebugLevel)
		} else {
			logger.L().SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario YAML file (required)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (default: the scenario's seed)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every allocation decision")
	_ = rootCmd.MarkPersistentFlagRequired("scenario")
}
