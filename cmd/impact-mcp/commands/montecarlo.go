package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"impact-mcp/internal/montecarlo"
	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
)

var (
	mcIterations int
	mcSeed       int64
	mcConfidence float64
	mcReport     bool
)

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo <scenario>",
	Short: "Run a Monte Carlo analysis of a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Resolve(cfg.ScenariosDir, args[0])
		if err != nil {
			return err
		}

		mcCfg := montecarlo.Config{
			Iterations: mcIterations,
			Seed:       mcSeed,
			Confidence: mcConfidence,
			Workers:    cfg.Workers,
		}
		if mcCfg.Iterations <= 0 {
			mcCfg.Iterations = cfg.DefaultIterations
		}

		result, err := montecarlo.Run(cmd.Context(), sc, mcCfg)
		if err != nil {
			return err
		}

		markdown := report.RenderMonteCarlo(result, cfg.EnableMermaidCharts)
		fmt.Fprintln(cmd.OutOrStdout(), markdown)

		if mcReport {
			path, err := reportOptions().Write(sc.Name+"-montecarlo", markdown)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", path)
		}
		return nil
	},
}

func init() {
	montecarloCmd.Flags().IntVarP(&mcIterations, "iterations", "n", 0, "iteration count (default from config)")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "RNG seed for reproducible runs")
	montecarloCmd.Flags().Float64Var(&mcConfidence, "confidence", 0.95, "confidence level for intervals")
	montecarloCmd.Flags().BoolVar(&mcReport, "report", false, "write a Markdown report to the reports folder")
	rootCmd.AddCommand(montecarloCmd)
}
