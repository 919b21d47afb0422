package commands

import (
	"strconv"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
)

func reportOptions() report.Options {
	return report.Options{
		Dir:     cfg.ReportsDir,
		Mermaid: cfg.EnableMermaidCharts,
		Open:    cfg.OpenReports,
	}
}

// applyOverrides parses --set values and applies them to the scenario's
// resolved inputs.
func applyOverrides(sc *scenario.Scenario, overrides map[string]string) error {
	for name, raw := range overrides {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errs.NewValidation(name, raw, "a numeric value")
		}
		if err := sc.Inputs.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}
