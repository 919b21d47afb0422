package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
	"impact-mcp/internal/sensitivity"
)

var (
	sensSamples int
	sensSeed    int64
	sensVarying []string
	sensReport  bool
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity <scenario>",
	Short: "Run a Sobol sensitivity analysis of a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Resolve(cfg.ScenariosDir, args[0])
		if err != nil {
			return err
		}

		sensCfg := sensitivity.Config{
			Samples: sensSamples,
			Seed:    sensSeed,
			Workers: cfg.Workers,
		}
		if sensCfg.Samples <= 0 {
			sensCfg.Samples = cfg.DefaultSamples
		}

		result, err := sensitivity.Analyze(cmd.Context(), sc, sensVarying, sensCfg)
		if err != nil {
			return err
		}

		markdown := report.RenderSensitivity(result, cfg.EnableMermaidCharts)
		fmt.Fprintln(cmd.OutOrStdout(), markdown)

		if sensReport {
			path, err := reportOptions().Write(sc.Name+"-sensitivity", markdown)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", path)
		}
		return nil
	},
}

func init() {
	sensitivityCmd.Flags().IntVarP(&sensSamples, "samples", "n", 0, "base sample count (default from config)")
	sensitivityCmd.Flags().Int64Var(&sensSeed, "seed", 0, "RNG seed for a reproducible design matrix")
	sensitivityCmd.Flags().StringSliceVar(&sensVarying, "varying", nil, "parameter subset to analyze")
	sensitivityCmd.Flags().BoolVar(&sensReport, "report", false, "write a Markdown report to the reports folder")
	rootCmd.AddCommand(sensitivityCmd)
}
