package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"impact-mcp/internal/model"
	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
)

var compareReport bool

var compareCmd = &cobra.Command{
	Use:   "compare <scenario> <scenario> [scenario...]",
	Short: "Compare the deterministic outcomes of several scenarios",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var trajectories []*model.Trajectory
		for _, name := range args {
			sc, err := scenario.Resolve(cfg.ScenariosDir, name)
			if err != nil {
				return err
			}
			traj, err := model.Simulate(sc.Inputs)
			if err != nil {
				return err
			}
			trajectories = append(trajectories, traj)
		}

		markdown := report.RenderComparison(args, trajectories)
		fmt.Fprintln(cmd.OutOrStdout(), markdown)

		if compareReport {
			path, err := reportOptions().Write("comparison", markdown)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", path)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareReport, "report", false, "write a Markdown report to the reports folder")
	rootCmd.AddCommand(compareCmd)
}
