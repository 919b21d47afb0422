// Package model contains the deterministic simulation core: the month-by-month
// adoption, impact and cost trajectory for one fully-resolved scenario.
package model

import (
	"impact-mcp/internal/errs"
)

// Working-time constants shared across the value and cost formulas.
const (
	WorkingDaysPerYear  = 260.0
	WorkingHoursPerYear = 2080.0
	DevHoursPerMonth    = 173.0
	MonthsPerYear       = 12.0

	// RatioSumTolerance is the slack allowed when ratio groups must sum to 1.
	RatioSumTolerance = 0.01

	// EnterpriseTeamThreshold is the team size at which seat licensing
	// qualifies for the enterprise discount.
	EnterpriseTeamThreshold = 50.0

	// MaxAdoptionRate caps the active adopter fraction.
	MaxAdoptionRate = 0.95

	bugsPerIncident      = 3.0
	hoursPerDefectFix    = 10.0
	klocPerTeamPerYear   = 100.0
	annualTurnoverRate   = 0.20
	techDebtMultiplier   = 1.5
	innovationCapacity   = 0.10
	competitiveValuePct  = 0.10
	retentionImprovement = 0.01
	juniorBoostFactor    = 0.20
	trainingGroupSize    = 10.0
)

// Baseline captures the organization's pre-adoption state.
type Baseline struct {
	TeamSize    float64 `yaml:"team_size" json:"team_size"`
	JuniorRatio float64 `yaml:"junior_ratio" json:"junior_ratio"`
	MidRatio    float64 `yaml:"mid_ratio" json:"mid_ratio"`
	SeniorRatio float64 `yaml:"senior_ratio" json:"senior_ratio"`

	// Fully-loaded annual cost per developer tier.
	JuniorFLC float64 `yaml:"junior_flc" json:"junior_flc"`
	MidFLC    float64 `yaml:"mid_flc" json:"mid_flc"`
	SeniorFLC float64 `yaml:"senior_flc" json:"senior_flc"`

	AvgFeatureCycleDays float64 `yaml:"avg_feature_cycle_days" json:"avg_feature_cycle_days"`
	AvgBugFixHours      float64 `yaml:"avg_bug_fix_hours" json:"avg_bug_fix_hours"`
	OnboardingDays      float64 `yaml:"onboarding_days" json:"onboarding_days"`

	DefectEscapeRate  float64 `yaml:"defect_escape_rate" json:"defect_escape_rate"`
	IncidentsPerMonth float64 `yaml:"production_incidents_per_month" json:"production_incidents_per_month"`
	AvgIncidentCost   float64 `yaml:"avg_incident_cost" json:"avg_incident_cost"`
	ReworkPercentage  float64 `yaml:"rework_percentage" json:"rework_percentage"`

	NewFeaturePct  float64 `yaml:"new_feature_percentage" json:"new_feature_percentage"`
	MaintenancePct float64 `yaml:"maintenance_percentage" json:"maintenance_percentage"`
	TechDebtPct    float64 `yaml:"tech_debt_percentage" json:"tech_debt_percentage"`
	MeetingsPct    float64 `yaml:"meetings_percentage" json:"meetings_percentage"`

	AvgPRReviewHours float64 `yaml:"avg_pr_review_hours" json:"avg_pr_review_hours"`
	PRRejectionRate  float64 `yaml:"pr_rejection_rate" json:"pr_rejection_rate"`
}

// Validate checks domains and ratio-group sums.
func (b *Baseline) Validate() error {
	if b.TeamSize <= 0 {
		return errs.NewValidation("baseline.team_size", b.TeamSize, "count > 0")
	}
	ratios := map[string]float64{
		"baseline.junior_ratio": b.JuniorRatio,
		"baseline.mid_ratio":    b.MidRatio,
		"baseline.senior_ratio": b.SeniorRatio,
	}
	for name, r := range ratios {
		if r < 0 || r > 1 {
			return errs.NewValidation(name, r, "ratio in [0, 1]")
		}
	}
	sum := b.JuniorRatio + b.MidRatio + b.SeniorRatio
	if sum < 1-RatioSumTolerance || sum > 1+RatioSumTolerance {
		return errs.NewValidation("baseline.seniority_ratios", sum, "junior+mid+senior = 1.0")
	}
	capSum := b.NewFeaturePct + b.MaintenancePct + b.TechDebtPct + b.MeetingsPct
	if capSum < 1-RatioSumTolerance || capSum > 1+RatioSumTolerance {
		return errs.NewValidation("baseline.capacity_percentages", capSum, "capacity split summing to 1.0")
	}
	for name, v := range map[string]float64{
		"baseline.junior_flc":             b.JuniorFLC,
		"baseline.mid_flc":                b.MidFLC,
		"baseline.senior_flc":             b.SeniorFLC,
		"baseline.avg_feature_cycle_days": b.AvgFeatureCycleDays,
	} {
		if v <= 0 {
			return errs.NewValidation(name, v, "value > 0")
		}
	}
	for name, v := range map[string]float64{
		"baseline.avg_bug_fix_hours":              b.AvgBugFixHours,
		"baseline.onboarding_days":                b.OnboardingDays,
		"baseline.defect_escape_rate":             b.DefectEscapeRate,
		"baseline.production_incidents_per_month": b.IncidentsPerMonth,
		"baseline.avg_incident_cost":              b.AvgIncidentCost,
		"baseline.avg_pr_review_hours":            b.AvgPRReviewHours,
	} {
		if v < 0 {
			return errs.NewValidation(name, v, "value >= 0")
		}
	}
	if b.ReworkPercentage < 0 || b.ReworkPercentage > 1 {
		return errs.NewValidation("baseline.rework_percentage", b.ReworkPercentage, "ratio in [0, 1]")
	}
	if b.PRRejectionRate < 0 || b.PRRejectionRate > 1 {
		return errs.NewValidation("baseline.pr_rejection_rate", b.PRRejectionRate, "ratio in [0, 1]")
	}
	return nil
}

// WeightedFLC is the seniority-weighted fully-loaded cost per developer.
func (b *Baseline) WeightedFLC() float64 {
	return b.JuniorFLC*b.JuniorRatio + b.MidFLC*b.MidRatio + b.SeniorFLC*b.SeniorRatio
}

// TotalTeamCost is the annual cost of the whole team.
func (b *Baseline) TotalTeamCost() float64 {
	return b.TeamSize * b.WeightedFLC()
}

// EffectiveCapacityHours is the annual coding hours per developer after
// meetings.
func (b *Baseline) EffectiveCapacityHours() float64 {
	return WorkingHoursPerYear * (1 - b.MeetingsPct)
}

// FeatureDeliveryRate is features delivered per developer per year.
func (b *Baseline) FeatureDeliveryRate() float64 {
	return WorkingDaysPerYear / b.AvgFeatureCycleDays * b.NewFeaturePct
}

// CostPerFeature is the team cost amortized over delivered features.
func (b *Baseline) CostPerFeature() (float64, error) {
	rate := b.TeamSize * b.FeatureDeliveryRate()
	if rate == 0 {
		return 0, errs.NewCalculation("cost_per_feature", "feature delivery rate is zero")
	}
	return b.TotalTeamCost() / rate, nil
}

// AnnualIncidentCost is the yearly production incident spend.
func (b *Baseline) AnnualIncidentCost() float64 {
	return b.IncidentsPerMonth * MonthsPerYear * b.AvgIncidentCost
}

// AnnualReworkCost is the yearly cost of rework on productive time.
func (b *Baseline) AnnualReworkCost() float64 {
	return b.TotalTeamCost() * (1 - b.MeetingsPct) * b.ReworkPercentage
}

// BaselineProfile returns industry benchmark baselines by name.
func BaselineProfile(name string) (Baseline, bool) {
	profiles := map[string]Baseline{
		"startup": {
			TeamSize: 10, JuniorRatio: 0.4, MidRatio: 0.4, SeniorRatio: 0.2,
			JuniorFLC: 120_000, MidFLC: 160_000, SeniorFLC: 220_000,
			AvgFeatureCycleDays: 14, AvgBugFixHours: 8, OnboardingDays: 30,
			DefectEscapeRate: 5.0, IncidentsPerMonth: 3, AvgIncidentCost: 5_000,
			ReworkPercentage: 0.15, NewFeaturePct: 0.60, MaintenancePct: 0.20,
			TechDebtPct: 0.05, MeetingsPct: 0.15,
			AvgPRReviewHours: 2, PRRejectionRate: 0.20,
		},
		"enterprise": {
			TeamSize: 50, JuniorRatio: 0.3, MidRatio: 0.5, SeniorRatio: 0.2,
			JuniorFLC: 140_000, MidFLC: 180_000, SeniorFLC: 250_000,
			AvgFeatureCycleDays: 30, AvgBugFixHours: 24, OnboardingDays: 60,
			DefectEscapeRate: 3.0, IncidentsPerMonth: 5, AvgIncidentCost: 15_000,
			ReworkPercentage: 0.20, NewFeaturePct: 0.40, MaintenancePct: 0.35,
			TechDebtPct: 0.10, MeetingsPct: 0.15,
			AvgPRReviewHours: 4, PRRejectionRate: 0.25,
		},
		"scale_up": {
			TeamSize: 25, JuniorRatio: 0.35, MidRatio: 0.45, SeniorRatio: 0.2,
			JuniorFLC: 130_000, MidFLC: 170_000, SeniorFLC: 230_000,
			AvgFeatureCycleDays: 21, AvgBugFixHours: 12, OnboardingDays: 45,
			DefectEscapeRate: 4.0, IncidentsPerMonth: 4, AvgIncidentCost: 10_000,
			ReworkPercentage: 0.18, NewFeaturePct: 0.50, MaintenancePct: 0.28,
			TechDebtPct: 0.07, MeetingsPct: 0.15,
			AvgPRReviewHours: 3, PRRejectionRate: 0.22,
		},
	}
	b, ok := profiles[name]
	return b, ok
}
