package cmd

import (
	"os"

	"splitHub/app/simulator/scenario"

	"github.com/spf13/cobra"
)

var runVisitors int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario through the assignment service",
	Long: `Run sends every synthetic visitor through the same resolver the API uses:
sticky assignment, MAB eligibility threshold, score cache and best-effort
counters included.

Examples:
  simulator run -s scenarios/green-button.yaml
  simulator run -s scenarios/green-button.yaml --seed 42 --visitors 20000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return err
		}
		if runVisitors > 0 {
			sc.Visitors = runVisitors
		}

		report, err := scenario.Run(cmd.Context(), sc, effectiveSeed(sc))
		if err != nil {
			return err
		}

		scenario.RenderReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&runVisitors, "visitors", "n", 0, "override the scenario's visitor count")
}

func effectiveSeed(sc scenario.Scenario) int64 {
	if seed != 0 {
		return seed
	}
	return sc.Seed
}
