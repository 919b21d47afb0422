package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"impact-mcp/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := scenario.List(cfg.ScenariosDir)
		if err != nil {
			return err
		}
		for _, name := range names {
			sc, err := scenario.Resolve(cfg.ScenariosDir, name)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s (unloadable: %v)\n", name, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %3d months, team %.0f, %d stochastic params  %s\n",
				sc.Name, sc.Inputs.Months, sc.Inputs.Baseline.TeamSize,
				len(sc.ParameterNames()), sc.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
