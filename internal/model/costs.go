package model

import (
	"math"

	"impact-mcp/internal/errs"
)

// ToolCosts describes the full cost structure of the tool rollout.
type ToolCosts struct {
	CostPerSeatMonth   float64 `yaml:"cost_per_seat_month" json:"cost_per_seat_month"`
	EnterpriseDiscount float64 `yaml:"enterprise_discount" json:"enterprise_discount"`

	InitialTokensPerDevMonth float64 `yaml:"initial_tokens_per_dev_month" json:"initial_tokens_per_dev_month"`
	TokenPricePerMillion     float64 `yaml:"token_price_per_million" json:"token_price_per_million"`
	TokenPriceDeclineAnnual  float64 `yaml:"token_price_decline_annual" json:"token_price_decline_annual"`
	TokenGrowthRateMonthly   float64 `yaml:"token_growth_rate_monthly" json:"token_growth_rate_monthly"`
	TokenPlateauMonth        float64 `yaml:"token_plateau_month" json:"token_plateau_month"`

	InitialTrainingCostPerDev float64 `yaml:"initial_training_cost_per_dev" json:"initial_training_cost_per_dev"`
	OngoingTrainingCostAnnual float64 `yaml:"ongoing_training_cost_annual" json:"ongoing_training_cost_annual"`
	TrainerCostPerDay         float64 `yaml:"trainer_cost_per_day" json:"trainer_cost_per_day"`
	TrainingDaysInitial       float64 `yaml:"training_days_initial" json:"training_days_initial"`

	InfrastructureSetup     float64 `yaml:"infrastructure_setup" json:"infrastructure_setup"`
	InfrastructureMonthly   float64 `yaml:"infrastructure_monthly" json:"infrastructure_monthly"`
	AdminOverheadPercentage float64 `yaml:"admin_overhead_percentage" json:"admin_overhead_percentage"`

	ContextSwitchCostMonth   float64 `yaml:"context_switch_cost_month" json:"context_switch_cost_month"`
	BadCodeCleanupPercentage float64 `yaml:"bad_code_cleanup_percentage" json:"bad_code_cleanup_percentage"`
	SecurityReviewHoursMonth float64 `yaml:"security_review_overhead" json:"security_review_overhead"`

	PilotBudget            float64 `yaml:"pilot_budget" json:"pilot_budget"`
	OngoingExperimentation float64 `yaml:"ongoing_experimentation" json:"ongoing_experimentation"`
}

// Validate checks cost domains.
func (c *ToolCosts) Validate() error {
	for name, v := range map[string]float64{
		"costs.cost_per_seat_month":          c.CostPerSeatMonth,
		"costs.initial_tokens_per_dev_month": c.InitialTokensPerDevMonth,
		"costs.token_price_per_million":      c.TokenPricePerMillion,
		"costs.trainer_cost_per_day":         c.TrainerCostPerDay,
	} {
		if v <= 0 {
			return errs.NewValidation(name, v, "cost > 0")
		}
	}
	for name, v := range map[string]float64{
		"costs.initial_training_cost_per_dev": c.InitialTrainingCostPerDev,
		"costs.ongoing_training_cost_annual":  c.OngoingTrainingCostAnnual,
		"costs.training_days_initial":         c.TrainingDaysInitial,
		"costs.infrastructure_setup":          c.InfrastructureSetup,
		"costs.infrastructure_monthly":        c.InfrastructureMonthly,
		"costs.context_switch_cost_month":     c.ContextSwitchCostMonth,
		"costs.security_review_overhead":      c.SecurityReviewHoursMonth,
		"costs.pilot_budget":                  c.PilotBudget,
		"costs.ongoing_experimentation":       c.OngoingExperimentation,
		"costs.token_growth_rate_monthly":     c.TokenGrowthRateMonthly,
	} {
		if v < 0 {
			return errs.NewValidation(name, v, "cost >= 0")
		}
	}
	for name, r := range map[string]float64{
		"costs.enterprise_discount":         c.EnterpriseDiscount,
		"costs.token_price_decline_annual":  c.TokenPriceDeclineAnnual,
		"costs.admin_overhead_percentage":   c.AdminOverheadPercentage,
		"costs.bad_code_cleanup_percentage": c.BadCodeCleanupPercentage,
	} {
		if r < 0 || r > 1 {
			return errs.NewValidation(name, r, "ratio in [0, 1]")
		}
	}
	if c.TokenPlateauMonth < 1 {
		return errs.NewValidation("costs.token_plateau_month", c.TokenPlateauMonth, "month >= 1")
	}
	return nil
}

// CostBreakdown holds per-component monthly cost series.
type CostBreakdown struct {
	Licensing       []float64 `json:"licensing"`
	Tokens          []float64 `json:"tokens"`
	Training        []float64 `json:"training"`
	Hidden          []float64 `json:"hidden"`
	Infrastructure  []float64 `json:"infrastructure"`
	Admin           []float64 `json:"admin"`
	Experimentation []float64 `json:"experimentation"`
	Total           []float64 `json:"total"`
	Cumulative      []float64 `json:"cumulative"`
}

// MonthlyCosts computes every cost component over the horizon for a given
// effective adoption curve.
func MonthlyCosts(b *Baseline, c *ToolCosts, adoption []float64) CostBreakdown {
	months := len(adoption)
	out := CostBreakdown{
		Licensing:       make([]float64, months),
		Tokens:          make([]float64, months),
		Training:        make([]float64, months),
		Hidden:          make([]float64, months),
		Infrastructure:  make([]float64, months),
		Admin:           make([]float64, months),
		Experimentation: make([]float64, months),
		Total:           make([]float64, months),
		Cumulative:      make([]float64, months),
	}

	hourlyRate := b.WeightedFLC() / WorkingHoursPerYear
	adminMonthly := c.AdminOverheadPercentage * b.WeightedFLC() / MonthsPerYear

	cumulative := 0.0
	for t := 0; t < months; t++ {
		adoptedDevs := b.TeamSize * adoption[t]

		// Licensing with enterprise volume discount.
		seats := adoptedDevs * c.CostPerSeatMonth
		if b.TeamSize >= EnterpriseTeamThreshold {
			seats *= 1 - c.EnterpriseDiscount
		}
		out.Licensing[t] = seats

		// Metered usage: linear growth until the plateau month, with an
		// annually declining unit price.
		yearsElapsed := float64(t) / MonthsPerYear
		price := c.TokenPricePerMillion * math.Pow(1-c.TokenPriceDeclineAnnual, yearsElapsed)
		growthMonths := math.Min(float64(t), c.TokenPlateauMonth)
		tokensPerDev := c.InitialTokensPerDevMonth * (1 + c.TokenGrowthRateMonthly*growthMonths)
		out.Tokens[t] = adoptedDevs * tokensPerDev / 1_000_000 * price

		// Training: onboarding burst over the first three months, then a
		// quarterly refresh scaled by the adopted share.
		if t < 3 {
			prev := 0.0
			if t > 0 {
				prev = adoption[t-1]
			}
			newAdopters := b.TeamSize * (adoption[t] - prev)
			if newAdopters > 0 {
				out.Training[t] = newAdopters * c.InitialTrainingCostPerDev
				trainerDays := c.TrainingDaysInitial * (newAdopters / trainingGroupSize)
				out.Training[t] += trainerDays * c.TrainerCostPerDay
			}
		} else if t%3 == 0 {
			out.Training[t] = c.OngoingTrainingCostAnnual / 4 * adoption[t]
		}

		// Hidden costs: context-switch drag (front-loaded), cleanup of
		// tool-introduced defects, and security review overhead.
		contextScale := 0.5
		if t < 6 {
			contextScale = 1 - float64(t)/12
		}
		contextCost := c.ContextSwitchCostMonth * adoptedDevs * contextScale
		badCodeCost := DevHoursPerMonth * c.BadCodeCleanupPercentage * adoptedDevs * hourlyRate
		securityCost := adoptedDevs * c.SecurityReviewHoursMonth * hourlyRate
		out.Hidden[t] = contextCost + badCodeCost + securityCost

		out.Infrastructure[t] = c.InfrastructureMonthly
		if t == 0 {
			out.Infrastructure[t] += c.InfrastructureSetup
		}

		out.Admin[t] = adminMonthly

		if t == 0 {
			out.Experimentation[t] = c.PilotBudget
		} else if t%int(MonthsPerYear) == 0 {
			out.Experimentation[t] = c.OngoingExperimentation
		}

		out.Total[t] = out.Licensing[t] + out.Tokens[t] + out.Training[t] +
			out.Hidden[t] + out.Infrastructure[t] + out.Admin[t] + out.Experimentation[t]
		cumulative += out.Total[t]
		out.Cumulative[t] = cumulative
	}

	return out
}

// CostPreset returns named cost structure presets.
func CostPreset(name string) (ToolCosts, bool) {
	presets := map[string]ToolCosts{
		"startup": {
			CostPerSeatMonth: 30, EnterpriseDiscount: 0,
			InitialTokensPerDevMonth: 200_000, TokenPricePerMillion: 10,
			TokenPriceDeclineAnnual: 0.3, TokenGrowthRateMonthly: 0.15, TokenPlateauMonth: 9,
			InitialTrainingCostPerDev: 500, OngoingTrainingCostAnnual: 200,
			TrainerCostPerDay: 1_500, TrainingDaysInitial: 2,
			InfrastructureSetup: 5_000, InfrastructureMonthly: 500, AdminOverheadPercentage: 0.02,
			ContextSwitchCostMonth: 500, BadCodeCleanupPercentage: 0.05, SecurityReviewHoursMonth: 2,
			PilotBudget: 10_000, OngoingExperimentation: 5_000,
		},
		"enterprise": {
			CostPerSeatMonth: 50, EnterpriseDiscount: 0.3,
			InitialTokensPerDevMonth: 500_000, TokenPricePerMillion: 8,
			TokenPriceDeclineAnnual: 0.25, TokenGrowthRateMonthly: 0.10, TokenPlateauMonth: 12,
			InitialTrainingCostPerDev: 2_000, OngoingTrainingCostAnnual: 500,
			TrainerCostPerDay: 2_000, TrainingDaysInitial: 5,
			InfrastructureSetup: 50_000, InfrastructureMonthly: 5_000, AdminOverheadPercentage: 0.05,
			ContextSwitchCostMonth: 1_000, BadCodeCleanupPercentage: 0.08, SecurityReviewHoursMonth: 4,
			PilotBudget: 100_000, OngoingExperimentation: 50_000,
		},
		"aggressive": {
			CostPerSeatMonth: 100, EnterpriseDiscount: 0.2,
			InitialTokensPerDevMonth: 1_000_000, TokenPricePerMillion: 6,
			TokenPriceDeclineAnnual: 0.35, TokenGrowthRateMonthly: 0.20, TokenPlateauMonth: 6,
			InitialTrainingCostPerDev: 3_000, OngoingTrainingCostAnnual: 1_000,
			TrainerCostPerDay: 2_500, TrainingDaysInitial: 7,
			InfrastructureSetup: 20_000, InfrastructureMonthly: 2_000, AdminOverheadPercentage: 0.03,
			ContextSwitchCostMonth: 2_000, BadCodeCleanupPercentage: 0.10, SecurityReviewHoursMonth: 3,
			PilotBudget: 50_000, OngoingExperimentation: 25_000,
		},
	}
	c, ok := presets[name]
	return c, ok
}
