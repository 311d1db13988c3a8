package cmd

import (
	"fmt"
	"os"
	"strings"

	"splitHub/app/simulator/scenario"
	"splitHub/domain"

	"github.com/spf13/cobra"
)

var compareAlgorithms []string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare allocation policies on the same scenario",
	Long: `Compare runs each scorer on its own, without stickiness or the MAB
eligibility threshold, and prints conversions, regret and traffic share.

Examples:
  simulator compare -s scenarios/green-button.yaml
  simulator compare -s scenarios/green-button.yaml --algorithms ucb1,thompson_sampling`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return err
		}

		algs := make([]domain.Algorithm, 0, len(compareAlgorithms))
		for _, a := range compareAlgorithms {
			alg := domain.Algorithm(strings.TrimSpace(a))
			if !alg.Valid() {
				return fmt.Errorf("unknown algorithm %q", a)
			}
			algs = append(algs, alg)
		}

		results, err := scenario.Compare(sc, effectiveSeed(sc), algs)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d visitors per policy\n\n", sc.Name, sc.Visitors)
		scenario.RenderComparison(os.Stdout, sc, results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringSliceVarP(&compareAlgorithms, "algorithms", "a",
		[]string{"uniform", "thompson_sampling", "ucb1", "epsilon_greedy"},
		"policies to compare")
}
