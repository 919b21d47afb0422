package model

import (
	"math"

	"impact-mcp/internal/errs"
)

// Inputs is one fully-resolved parameter set for a simulation run.
type Inputs struct {
	Months             int     `yaml:"timeframe_months" json:"timeframe_months"`
	DiscountRateAnnual float64 `yaml:"discount_rate_annual" json:"discount_rate_annual"`

	Baseline Baseline       `yaml:"baseline" json:"baseline"`
	Adoption AdoptionParams `yaml:"adoption" json:"adoption"`
	Impact   ImpactFactors  `yaml:"impact" json:"impact"`
	Costs    ToolCosts      `yaml:"costs" json:"costs"`
}

// Validate runs every section's domain checks.
func (in *Inputs) Validate() error {
	if in.Months <= 0 {
		return errs.NewValidation("timeframe_months", in.Months, "horizon > 0")
	}
	if in.DiscountRateAnnual <= -1 {
		return errs.NewValidation("discount_rate_annual", in.DiscountRateAnnual, "rate > -1")
	}
	if err := in.Baseline.Validate(); err != nil {
		return err
	}
	if err := in.Adoption.Validate(); err != nil {
		return err
	}
	if err := in.Impact.Validate(); err != nil {
		return err
	}
	return in.Costs.Validate()
}

// MonthRecord is one month of the simulated trajectory.
type MonthRecord struct {
	Month             int     `json:"month"`
	Adoption          float64 `json:"adoption"`
	Efficiency        float64 `json:"efficiency"`
	EffectiveAdoption float64 `json:"effective_adoption"`
	Value             float64 `json:"value"`
	Cost              float64 `json:"cost"`
	Net               float64 `json:"net"`
	CumulativeNet     float64 `json:"cumulative_net"`
}

// Trajectory is the immutable month-by-month output of one simulation run.
type Trajectory struct {
	Records []MonthRecord  `json:"records"`
	Costs   CostBreakdown  `json:"cost_breakdown"`
	Final   ValueBreakdown `json:"final_value_breakdown"`
	Summary Summary        `json:"summary"`
}

// Summary is the derived financial view over a trajectory.
type Summary struct {
	NPV             float64 `json:"npv"`
	ROIPercent      float64 `json:"roi_percent"`
	BreakevenMonth  int     `json:"breakeven_month"`
	PaybackMonths   float64 `json:"payback_months"`
	PeakAdoption    float64 `json:"peak_adoption"`
	PeakEfficiency  float64 `json:"peak_efficiency"`
	TotalValue      float64 `json:"total_value"`
	TotalCost       float64 `json:"total_cost"`
	ValuePerDevYear float64 `json:"annual_value_per_dev"`
	CostPerDevYear  float64 `json:"annual_cost_per_dev"`
}

// Simulate runs the deterministic month-stepped model:
//  1. diffusion of the five Rogers cohorts with dropout and re-engagement,
//  2. per-cohort learning curves aggregated into an efficiency multiplier,
//  3. efficiency-damped impact factors converted into monthly value,
//  4. the full cost stack, and
//  5. net cash flow, NPV, ROI and breakeven.
func Simulate(in Inputs) (*Trajectory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	months := in.Months
	adoption := make([]float64, months)
	efficiency := make([]float64, months)
	effective := make([]float64, months)

	state := NewAdoptionState(&in.Adoption)
	for t := 0; t < months; t++ {
		if t > 0 {
			state.Step(t)
		}
		adoption[t] = state.Adoption()
		efficiency[t] = state.Efficiency(t)
		effective[t] = adoption[t] * efficiency[t]
	}

	costs := MonthlyCosts(&in.Baseline, &in.Costs, effective)

	records := make([]MonthRecord, months)
	cumulativeValue := make([]float64, months)
	netFlows := make([]float64, months)
	cumulativeNet := 0.0
	totalValue := 0.0
	for t := 0; t < months; t++ {
		breakdown, err := AnnualValue(&in.Baseline, &in.Impact, effective[t])
		if err != nil {
			return nil, err
		}
		monthValue := breakdown.TotalAnnual / MonthsPerYear
		totalValue += monthValue
		cumulativeValue[t] = totalValue

		net := monthValue - costs.Total[t]
		netFlows[t] = net
		cumulativeNet += net
		records[t] = MonthRecord{
			Month:             t,
			Adoption:          adoption[t],
			Efficiency:        efficiency[t],
			EffectiveAdoption: effective[t],
			Value:             monthValue,
			Cost:              costs.Total[t],
			Net:               net,
			CumulativeNet:     cumulativeNet,
		}
	}

	npv, err := NPVMonthly(netFlows, in.DiscountRateAnnual)
	if err != nil {
		return nil, err
	}

	totalCost := costs.Cumulative[months-1]
	roi, err := ROIPercent(totalValue, totalCost)
	if err != nil {
		return nil, err
	}

	final, err := AnnualValue(&in.Baseline, &in.Impact, effective[months-1])
	if err != nil {
		return nil, err
	}

	cumNet := make([]float64, months)
	for t, r := range records {
		cumNet[t] = r.CumulativeNet
	}

	summary := Summary{
		NPV:            npv,
		ROIPercent:     roi,
		BreakevenMonth: BreakevenMonth(cumulativeValue, costs.Cumulative),
		PaybackMonths:  PaybackMonths(cumNet),
		PeakAdoption:   maxOf(adoption),
		PeakEfficiency: maxOf(efficiency),
		TotalValue:     totalValue,
		TotalCost:      totalCost,
	}
	summary.ValuePerDevYear = final.PerDeveloper
	if firstYear := math.Min(MonthsPerYear, float64(months)); firstYear > 0 {
		meanAdoption := 0.0
		costFirstYear := 0.0
		for t := 0; t < int(firstYear); t++ {
			meanAdoption += adoption[t]
			costFirstYear += costs.Total[t]
		}
		meanAdoption /= firstYear
		if meanAdoption > 0 {
			summary.CostPerDevYear = costFirstYear / (in.Baseline.TeamSize * meanAdoption)
		}
	}

	return &Trajectory{
		Records: records,
		Costs:   costs,
		Final:   final,
		Summary: summary,
	}, nil
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
