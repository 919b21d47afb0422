// Package report renders analysis results as Markdown documents, optionally
// with embedded Mermaid charts, and can open the written file in a browser.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"impact-mcp/internal/model"
	"impact-mcp/internal/montecarlo"
	"impact-mcp/internal/scenario"
	"impact-mcp/internal/sensitivity"
	"impact-mcp/internal/visuals"
)

// Options controls where reports land and how they are rendered.
type Options struct {
	Dir     string
	Mermaid bool
	Open    bool
}

// Write persists a rendered report and optionally opens it. The returned
// path is empty when Dir is unset.
func (o Options) Write(name, markdown string) (string, error) {
	if o.Dir == "" {
		return "", nil
	}
	path := filepath.Join(o.Dir, fmt.Sprintf("%s-%s.md", name, time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Msg("Report written")
	if o.Open {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open report in browser")
		}
	}
	return path, nil
}

// RenderScenario produces the single-run report for a deterministic
// trajectory.
func RenderScenario(sc *scenario.Scenario, traj *model.Trajectory, mermaid bool) string {
	s := traj.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Scenario Report: %s\n\n", sc.Name)
	if sc.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", sc.Description)
	}
	fmt.Fprintf(&sb, "Horizon: %d months | Team size: %.0f | Discount rate: %.1f%%\n\n",
		sc.Inputs.Months, sc.Inputs.Baseline.TeamSize, sc.Inputs.DiscountRateAnnual*100)

	sb.WriteString("## Financial Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| NPV | %s |\n", money(s.NPV))
	fmt.Fprintf(&sb, "| ROI | %.1f%% |\n", s.ROIPercent)
	fmt.Fprintf(&sb, "| Breakeven | %s |\n", breakevenLabel(s.BreakevenMonth))
	fmt.Fprintf(&sb, "| Payback | %s |\n", paybackLabel(s.PaybackMonths))
	fmt.Fprintf(&sb, "| Total value | %s |\n", money(s.TotalValue))
	fmt.Fprintf(&sb, "| Total cost | %s |\n", money(s.TotalCost))
	fmt.Fprintf(&sb, "| Peak adoption | %.1f%% |\n", s.PeakAdoption*100)
	fmt.Fprintf(&sb, "| Peak efficiency | %.1f%% |\n", s.PeakEfficiency*100)
	fmt.Fprintf(&sb, "| Annual value per adopted dev | %s |\n\n", money(s.ValuePerDevYear))

	sb.WriteString("## Value Composition (final month, annualized)\n\n")
	sb.WriteString("| Source | Annual Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Time to market | %s |\n", money(traj.Final.TimeValue))
	fmt.Fprintf(&sb, "| Quality | %s |\n", money(traj.Final.QualityValue))
	fmt.Fprintf(&sb, "| Capacity | %s |\n", money(traj.Final.CapacityValue))
	fmt.Fprintf(&sb, "| Strategic | %s |\n\n", money(traj.Final.StrategicValue))

	if mermaid {
		if chart := visuals.GenerateAdoptionChart(traj.Records); chart != "" {
			sb.WriteString("## Adoption\n\n" + chart + "\n\n")
		}
		if chart := visuals.GenerateCashFlowChart(traj.Records); chart != "" {
			sb.WriteString("## Cash Flow\n\n" + chart + "\n\n")
		}
		if chart := visuals.GenerateCostPie(traj.Costs); chart != "" {
			sb.WriteString("## Costs\n\n" + chart + "\n\n")
		}
	}
	return sb.String()
}

// RenderMonteCarlo produces the probabilistic report.
func RenderMonteCarlo(result *montecarlo.Result, mermaid bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Monte Carlo Report: %s\n\n", result.Scenario)
	fmt.Fprintf(&sb, "Iterations: %d (%d failed) | Seed: %d | Runtime: %.1fs\n\n",
		result.Iterations, result.Failed, result.Seed, result.RuntimeSeconds)

	if !result.Convergence.Converged {
		sb.WriteString("> **Warning:** the run did not converge; treat these numbers as indicative and increase iterations.\n\n")
	}

	sb.WriteString("## Outcome Distributions\n\n")
	sb.WriteString("| Metric | Mean | Median | Std | P5 | P95 |\n|---|---|---|---|---|---|\n")
	for _, name := range []string{"npv", "total_value", "total_cost"} {
		m, ok := result.Metrics[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			name, money(m.Mean), money(m.Median), money(m.Std), money(m.P5), money(m.P95))
	}
	if m, ok := result.Metrics["roi_percent"]; ok {
		fmt.Fprintf(&sb, "| roi_percent | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			m.Mean, m.Median, m.Std, m.P5, m.P95)
	}
	if m, ok := result.Metrics["breakeven_month"]; ok {
		fmt.Fprintf(&sb, "| breakeven_month | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			m.Mean, m.Median, m.Std, m.P5, m.P95)
	}
	sb.WriteString("\n")

	sb.WriteString("## Risk\n\n")
	fmt.Fprintf(&sb, "- P(NPV > 0): **%.1f%%**\n", result.ProbPositiveNPV*100)
	fmt.Fprintf(&sb, "- P(ROI above target): **%.1f%%**\n", result.ProbROIAboveTarget*100)
	fmt.Fprintf(&sb, "- P(breakeven within target): **%.1f%%**\n", result.ProbBreakevenWithinTarget*100)
	fmt.Fprintf(&sb, "- Breakeven reached at all: **%.1f%%**\n\n", result.BreakevenAchievedRate*100)

	if len(result.Importance) > 0 {
		sb.WriteString("## Parameter Influence on NPV\n\n")
		sb.WriteString("| Parameter | Correlation |\n|---|---|\n")
		for _, p := range result.Importance {
			fmt.Fprintf(&sb, "| %s | %+.3f |\n", p.Name, p.Correlation)
		}
		sb.WriteString("\n")
	}

	if mermaid {
		if chart := visuals.GenerateNPVDistributionChart(result.Metrics["npv"]); chart != "" {
			sb.WriteString("## NPV Distribution\n\n" + chart + "\n\n")
		}
	}
	return sb.String()
}

// RenderSensitivity produces the Sobol decomposition report.
func RenderSensitivity(result *sensitivity.Result, mermaid bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Sensitivity Report: %s\n\n", result.Scenario)
	fmt.Fprintf(&sb, "Target: %s | Base samples: %d | Evaluations: %d | Seed: %d\n\n",
		result.Target, result.Samples, result.Evaluations, result.Seed)

	fmt.Fprintf(&sb, "Variance explained by first-order effects: **%.1f%%**\n\n",
		result.VarianceExplained*100)
	if !result.Converged {
		sb.WriteString("> **Warning:** first-order indices explain little of the output variance. Either the response surface is flat or the sample count is too low.\n\n")
	}

	sb.WriteString("## Sobol Indices\n\n")
	sb.WriteString("| Parameter | First-order | Total-effect | Interaction |\n|---|---|---|---|\n")
	for _, p := range result.Params {
		fmt.Fprintf(&sb, "| %s | %.3f | %.3f | %.3f |\n",
			p.Name, p.FirstOrder, p.TotalEffect, p.Interaction)
	}
	sb.WriteString("\n")

	if len(result.Pairs) > 0 {
		sb.WriteString("## Second-Order Interactions\n\n")
		sb.WriteString("| Pair | Index |\n|---|---|\n")
		for _, pair := range result.Pairs {
			fmt.Fprintf(&sb, "| %s x %s | %.3f |\n", pair.A, pair.B, pair.SecondOrder)
		}
		sb.WriteString("\n")
	}

	if mermaid {
		if chart := visuals.GenerateTornadoChart(result.Params); chart != "" {
			sb.WriteString("## Ranking\n\n" + chart + "\n\n")
		}
	}
	return sb.String()
}

// RenderComparison produces a side-by-side table over several deterministic
// runs.
func RenderComparison(names []string, trajectories []*model.Trajectory) string {
	var sb strings.Builder
	sb.WriteString("# Scenario Comparison\n\n")
	sb.WriteString("| Metric |")
	for _, name := range names {
		fmt.Fprintf(&sb, " %s |", name)
	}
	sb.WriteString("\n|---|")
	for range names {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	row := func(label string, value func(*model.Trajectory) string) {
		fmt.Fprintf(&sb, "| %s |", label)
		for _, traj := range trajectories {
			fmt.Fprintf(&sb, " %s |", value(traj))
		}
		sb.WriteString("\n")
	}
	row("NPV", func(t *model.Trajectory) string { return money(t.Summary.NPV) })
	row("ROI", func(t *model.Trajectory) string { return fmt.Sprintf("%.1f%%", t.Summary.ROIPercent) })
	row("Breakeven", func(t *model.Trajectory) string { return breakevenLabel(t.Summary.BreakevenMonth) })
	row("Total value", func(t *model.Trajectory) string { return money(t.Summary.TotalValue) })
	row("Total cost", func(t *model.Trajectory) string { return money(t.Summary.TotalCost) })
	row("Peak adoption", func(t *model.Trajectory) string {
		return fmt.Sprintf("%.1f%%", t.Summary.PeakAdoption*100)
	})
	return sb.String()
}

func money(v float64) string {
	switch {
	case v >= 1_000_000 || v <= -1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case v >= 1_000 || v <= -1_000:
		return fmt.Sprintf("$%.0fk", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func breakevenLabel(month int) string {
	if month == model.NoBreakeven {
		return "not reached"
	}
	return fmt.Sprintf("month %d", month)
}

func paybackLabel(months float64) string {
	if months == model.NoBreakeven {
		return "not reached"
	}
	return fmt.Sprintf("%.1f months", months)
}
