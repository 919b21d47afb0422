package visuals

import (
	"fmt"
	"math"
	"strings"

	"impact-mcp/internal/model"
	"impact-mcp/internal/montecarlo"
	"impact-mcp/internal/sensitivity"
)

// GenerateAdoptionChart creates a Mermaid xychart-beta of the adoption and
// effective-adoption curves over the horizon.
func GenerateAdoptionChart(records []model.MonthRecord) string {
	if len(records) == 0 {
		return ""
	}

	var labels []string
	var adoption []string
	var effective []string

	// Subsample points if the chart is too wide for Mermaid's layout engine
	subsampleRate := 1
	if len(records) > 60 {
		subsampleRate = int(math.Ceil(float64(len(records)) / 60.0))
	}

	for i, r := range records {
		if i%subsampleRate == 0 || i == len(records)-1 {
			labels = append(labels, fmt.Sprintf("%d", r.Month))
			adoption = append(adoption, fmt.Sprintf("%.1f", r.Adoption*100))
			effective = append(effective, fmt.Sprintf("%.1f", r.EffectiveAdoption*100))
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Adoption vs Effective Adoption\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Team Share (%)\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(adoption, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(effective, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCashFlowChart creates a Mermaid line chart of cumulative net cash
// flow, scaled to thousands.
func GenerateCashFlowChart(records []model.MonthRecord) string {
	if len(records) == 0 {
		return ""
	}

	var labels []string
	var values []string
	minY, maxY := 0.0, 0.0

	subsampleRate := 1
	if len(records) > 60 {
		subsampleRate = int(math.Ceil(float64(len(records)) / 60.0))
	}

	for i, r := range records {
		if i%subsampleRate == 0 || i == len(records)-1 {
			k := r.CumulativeNet / 1000
			labels = append(labels, fmt.Sprintf("%d", r.Month))
			values = append(values, fmt.Sprintf("%.0f", k))
			if k < minY {
				minY = k
			}
			if k > maxY {
				maxY = k
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Cumulative Net Cash Flow\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Net ($k)\" %d --> %d\n",
		int(math.Floor(minY*1.1))-1, int(math.Ceil(maxY*1.1))+1))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateNPVDistributionChart creates a Mermaid bar chart of the NPV
// percentile ladder from a Monte Carlo result.
func GenerateNPVDistributionChart(npv montecarlo.MetricSummary) string {
	labels := []string{
		"\"P5 (Pessimistic)\"",
		"\"P10\"",
		"\"P25\"",
		"\"P50 (Median)\"",
		"\"P75\"",
		"\"P90\"",
		"\"P95 (Optimistic)\"",
	}
	points := []float64{npv.P5, npv.P10, npv.P25, npv.Median, npv.P75, npv.P90, npv.P95}

	minY, maxY := 0.0, 0.0
	var values []string
	for _, p := range points {
		k := p / 1000
		values = append(values, fmt.Sprintf("%.0f", k))
		if k < minY {
			minY = k
		}
		if k > maxY {
			maxY = k
		}
	}
	if minY == 0 && maxY == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"NPV Distribution (Percentiles)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"NPV ($k)\" %d --> %d\n",
		int(math.Floor(minY*1.1))-1, int(math.Ceil(maxY*1.1))+1))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTornadoChart creates a Mermaid bar chart of total-effect Sobol
// indices, strongest first.
func GenerateTornadoChart(params []sensitivity.ParamIndices) string {
	if len(params) == 0 {
		return ""
	}

	// Limit to 12 parameters to keep the chart readable
	limit := len(params)
	if limit > 12 {
		limit = 12
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for i := 0; i < limit; i++ {
		p := params[i]
		// Replace dots to help mermaid rendering
		safeName := strings.ReplaceAll(p.Name, ".", "_")
		labels = append(labels, fmt.Sprintf("\"%s\"", safeName))
		values = append(values, fmt.Sprintf("%.3f", p.TotalEffect))
		if p.TotalEffect > maxVal {
			maxVal = p.TotalEffect
		}
	}
	if maxVal == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Sensitivity (Total-Effect Sobol Index)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Index\" 0 --> %.2f\n", math.Min(1, maxVal*1.2)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCostPie creates a Mermaid pie chart of total cost by component.
func GenerateCostPie(costs model.CostBreakdown) string {
	total := func(series []float64) float64 {
		sum := 0.0
		for _, v := range series {
			sum += v
		}
		return sum
	}
	components := []struct {
		label  string
		series []float64
	}{
		{"Licensing", costs.Licensing},
		{"Tokens", costs.Tokens},
		{"Training", costs.Training},
		{"Hidden", costs.Hidden},
		{"Infrastructure", costs.Infrastructure},
		{"Admin", costs.Admin},
		{"Experimentation", costs.Experimentation},
	}

	hasData := false
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Cost Composition\n")
	for _, c := range components {
		if sum := total(c.series); sum > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %.0f\n", c.label, sum))
			hasData = true
		}
	}
	sb.WriteString("```")
	if !hasData {
		return ""
	}
	return sb.String()
}
