package model

import (
	"impact-mcp/internal/errs"
)

// ParamPointers exposes every numeric input as a flat dotted-name lookup.
// The Monte Carlo and sensitivity layers resolve sampled values through this
// table instead of reflecting over nested structures.
func (in *Inputs) ParamPointers() map[string]*float64 {
	b, a, f, c := &in.Baseline, &in.Adoption, &in.Impact, &in.Costs
	return map[string]*float64{
		"discount_rate_annual": &in.DiscountRateAnnual,

		"baseline.team_size":                      &b.TeamSize,
		"baseline.junior_ratio":                   &b.JuniorRatio,
		"baseline.mid_ratio":                      &b.MidRatio,
		"baseline.senior_ratio":                   &b.SeniorRatio,
		"baseline.junior_flc":                     &b.JuniorFLC,
		"baseline.mid_flc":                        &b.MidFLC,
		"baseline.senior_flc":                     &b.SeniorFLC,
		"baseline.avg_feature_cycle_days":         &b.AvgFeatureCycleDays,
		"baseline.avg_bug_fix_hours":              &b.AvgBugFixHours,
		"baseline.onboarding_days":                &b.OnboardingDays,
		"baseline.defect_escape_rate":             &b.DefectEscapeRate,
		"baseline.production_incidents_per_month": &b.IncidentsPerMonth,
		"baseline.avg_incident_cost":              &b.AvgIncidentCost,
		"baseline.rework_percentage":              &b.ReworkPercentage,
		"baseline.new_feature_percentage":         &b.NewFeaturePct,
		"baseline.maintenance_percentage":         &b.MaintenancePct,
		"baseline.tech_debt_percentage":           &b.TechDebtPct,
		"baseline.meetings_percentage":            &b.MeetingsPct,
		"baseline.avg_pr_review_hours":            &b.AvgPRReviewHours,
		"baseline.pr_rejection_rate":              &b.PRRejectionRate,

		"adoption.initial_adopters":           &a.Innovators,
		"adoption.early_adopters":             &a.EarlyAdopters,
		"adoption.early_majority":             &a.EarlyMajority,
		"adoption.late_majority":              &a.LateMajority,
		"adoption.laggards":                   &a.Laggards,
		"adoption.training_effectiveness":     &a.TrainingEffectiveness,
		"adoption.peer_influence":             &a.PeerInfluence,
		"adoption.management_mandate":         &a.ManagementMandate,
		"adoption.initial_resistance":         &a.InitialResistance,
		"adoption.dropout_rate_month":         &a.DropoutRateMonth,
		"adoption.re_engagement_rate":         &a.ReEngagementRate,
		"adoption.initial_efficiency":         &a.InitialEfficiency,
		"adoption.learning_rate":              &a.LearningRate,
		"adoption.plateau_efficiency":         &a.PlateauEfficiency,
		"adoption.junior_adoption_multiplier": &a.JuniorAdoptionMultiplier,
		"adoption.mid_adoption_multiplier":    &a.MidAdoptionMultiplier,
		"adoption.senior_adoption_multiplier": &a.SeniorAdoptionMultiplier,

		"impact.feature_cycle_reduction": &f.FeatureCycleReduction,
		"impact.bug_fix_reduction":       &f.BugFixReduction,
		"impact.onboarding_reduction":    &f.OnboardingReduction,
		"impact.pr_review_reduction":     &f.PRReviewReduction,
		"impact.defect_reduction":        &f.DefectReduction,
		"impact.incident_reduction":      &f.IncidentReduction,
		"impact.rework_reduction":        &f.ReworkReduction,
		"impact.feature_capacity_gain":   &f.FeatureCapacityGain,
		"impact.tech_debt_capacity_gain": &f.TechDebtCapacityGain,
		"impact.junior_multiplier":       &f.JuniorMultiplier,
		"impact.mid_multiplier":          &f.MidMultiplier,
		"impact.senior_multiplier":       &f.SeniorMultiplier,

		"costs.cost_per_seat_month":           &c.CostPerSeatMonth,
		"costs.enterprise_discount":           &c.EnterpriseDiscount,
		"costs.initial_tokens_per_dev_month":  &c.InitialTokensPerDevMonth,
		"costs.token_price_per_million":       &c.TokenPricePerMillion,
		"costs.token_price_decline_annual":    &c.TokenPriceDeclineAnnual,
		"costs.token_growth_rate_monthly":     &c.TokenGrowthRateMonthly,
		"costs.token_plateau_month":           &c.TokenPlateauMonth,
		"costs.initial_training_cost_per_dev": &c.InitialTrainingCostPerDev,
		"costs.ongoing_training_cost_annual":  &c.OngoingTrainingCostAnnual,
		"costs.trainer_cost_per_day":          &c.TrainerCostPerDay,
		"costs.training_days_initial":         &c.TrainingDaysInitial,
		"costs.infrastructure_setup":          &c.InfrastructureSetup,
		"costs.infrastructure_monthly":        &c.InfrastructureMonthly,
		"costs.admin_overhead_percentage":     &c.AdminOverheadPercentage,
		"costs.context_switch_cost_month":     &c.ContextSwitchCostMonth,
		"costs.bad_code_cleanup_percentage":   &c.BadCodeCleanupPercentage,
		"costs.security_review_overhead":      &c.SecurityReviewHoursMonth,
		"costs.pilot_budget":                  &c.PilotBudget,
		"costs.ongoing_experimentation":       &c.OngoingExperimentation,
	}
}

// Get returns the current value of a dotted parameter name.
func (in *Inputs) Get(name string) (float64, bool) {
	p, ok := in.ParamPointers()[name]
	if !ok {
		return 0, false
	}
	return *p, true
}

// Set overrides a dotted parameter by name.
func (in *Inputs) Set(name string, value float64) error {
	p, ok := in.ParamPointers()[name]
	if !ok {
		return errs.NewValidation("parameter", name, "a known dotted parameter name")
	}
	*p = value
	return nil
}

// Apply sets many parameters at once.
func (in *Inputs) Apply(values map[string]float64) error {
	pointers := in.ParamPointers()
	for name, v := range values {
		p, ok := pointers[name]
		if !ok {
			return errs.NewValidation("parameter", name, "a known dotted parameter name")
		}
		*p = v
	}
	return nil
}
