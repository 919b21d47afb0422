package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"impact-mcp/internal/model"
	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
)

var (
	runOverrides map[string]string
	runReport    bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run one deterministic simulation of a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Resolve(cfg.ScenariosDir, args[0])
		if err != nil {
			return err
		}
		if err := applyOverrides(sc, runOverrides); err != nil {
			return err
		}

		traj, err := model.Simulate(sc.Inputs)
		if err != nil {
			return err
		}

		markdown := report.RenderScenario(sc, traj, cfg.EnableMermaidCharts)
		fmt.Fprintln(cmd.OutOrStdout(), markdown)

		if runReport {
			opts := reportOptions()
			path, err := opts.Write(sc.Name+"-run", markdown)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", path)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringToStringVar(&runOverrides, "set", nil, "parameter overrides, e.g. --set baseline.team_size=120")
	runCmd.Flags().BoolVar(&runReport, "report", false, "write a Markdown report to the reports folder")
	rootCmd.AddCommand(runCmd)
}
