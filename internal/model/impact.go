package model

import (
	"impact-mcp/internal/errs"
)

// ImpactFactors are the nominal improvement multipliers the tool delivers at
// full proficiency. Realized improvement is damped by effective adoption.
type ImpactFactors struct {
	FeatureCycleReduction float64 `yaml:"feature_cycle_reduction" json:"feature_cycle_reduction"`
	BugFixReduction       float64 `yaml:"bug_fix_reduction" json:"bug_fix_reduction"`
	OnboardingReduction   float64 `yaml:"onboarding_reduction" json:"onboarding_reduction"`
	PRReviewReduction     float64 `yaml:"pr_review_reduction" json:"pr_review_reduction"`

	DefectReduction   float64 `yaml:"defect_reduction" json:"defect_reduction"`
	IncidentReduction float64 `yaml:"incident_reduction" json:"incident_reduction"`
	ReworkReduction   float64 `yaml:"rework_reduction" json:"rework_reduction"`

	FeatureCapacityGain  float64 `yaml:"feature_capacity_gain" json:"feature_capacity_gain"`
	TechDebtCapacityGain float64 `yaml:"tech_debt_capacity_gain" json:"tech_debt_capacity_gain"`

	JuniorMultiplier float64 `yaml:"junior_multiplier" json:"junior_multiplier"`
	MidMultiplier    float64 `yaml:"mid_multiplier" json:"mid_multiplier"`
	SeniorMultiplier float64 `yaml:"senior_multiplier" json:"senior_multiplier"`
}

// Validate checks that reductions are ratios and multipliers are positive.
func (f *ImpactFactors) Validate() error {
	for name, r := range map[string]float64{
		"impact.feature_cycle_reduction": f.FeatureCycleReduction,
		"impact.bug_fix_reduction":       f.BugFixReduction,
		"impact.onboarding_reduction":    f.OnboardingReduction,
		"impact.pr_review_reduction":     f.PRReviewReduction,
		"impact.defect_reduction":        f.DefectReduction,
		"impact.incident_reduction":      f.IncidentReduction,
		"impact.rework_reduction":        f.ReworkReduction,
		"impact.feature_capacity_gain":   f.FeatureCapacityGain,
		"impact.tech_debt_capacity_gain": f.TechDebtCapacityGain,
	} {
		if r < 0 || r > 1 {
			return errs.NewValidation(name, r, "ratio in [0, 1]")
		}
	}
	for name, v := range map[string]float64{
		"impact.junior_multiplier": f.JuniorMultiplier,
		"impact.mid_multiplier":    f.MidMultiplier,
		"impact.senior_multiplier": f.SeniorMultiplier,
	} {
		if v <= 0 {
			return errs.NewValidation(name, v, "multiplier > 0")
		}
	}
	return nil
}

// ValueBreakdown itemizes the annualized value streams at a given effective
// adoption level.
type ValueBreakdown struct {
	TimeValue      float64 `json:"time_value"`
	QualityValue   float64 `json:"quality_value"`
	CapacityValue  float64 `json:"capacity_value"`
	StrategicValue float64 `json:"strategic_value"`
	TotalAnnual    float64 `json:"total_annual_value"`
	PerDeveloper   float64 `json:"value_per_developer"`
}

// AnnualValue computes the annualized value created at the given effective
// adoption fraction. The adoption fraction damps every stream, so a team
// that is 30% proficient realizes 30% of the nominal improvement.
func AnnualValue(b *Baseline, f *ImpactFactors, adoption float64) (ValueBreakdown, error) {
	timeValue, err := timeToMarketValue(b, f, adoption)
	if err != nil {
		return ValueBreakdown{}, err
	}
	quality := qualityValue(b, f, adoption)
	capacity := capacityValue(b, f, adoption)
	strategic, err := strategicValue(b, f, adoption)
	if err != nil {
		return ValueBreakdown{}, err
	}

	total := timeValue + quality + capacity + strategic
	return ValueBreakdown{
		TimeValue:      timeValue,
		QualityValue:   quality,
		CapacityValue:  capacity,
		StrategicValue: strategic,
		TotalAnnual:    total,
		PerDeveloper:   total / b.TeamSize,
	}, nil
}

func timeToMarketValue(b *Baseline, f *ImpactFactors, adoption float64) (float64, error) {
	featureValue, err := featureAccelerationValue(b, f, adoption)
	if err != nil {
		return 0, err
	}

	// Faster bug fixes reduce downtime and customer impact.
	bugFixHoursSaved := b.AvgBugFixHours * f.BugFixReduction * adoption
	annualBugs := b.IncidentsPerMonth * MonthsPerYear * bugsPerIncident
	bugFixValue := (bugFixHoursSaved / 8) * (b.AvgIncidentCost / 10) * annualBugs

	// Faster onboarding shortens time-to-productivity for new hires.
	onboardingDaysSaved := b.OnboardingDays * f.OnboardingReduction * adoption
	annualHires := b.TeamSize * annualTurnoverRate
	onboardingValue := (onboardingDaysSaved / WorkingDaysPerYear) * b.WeightedFLC() * annualHires

	return featureValue + bugFixValue + onboardingValue, nil
}

func featureAccelerationValue(b *Baseline, f *ImpactFactors, adoption float64) (float64, error) {
	newCycleDays := b.AvgFeatureCycleDays * (1 - f.FeatureCycleReduction*adoption)
	if newCycleDays <= 0 {
		return 0, errs.NewCalculation("feature_acceleration",
			"reduced cycle time is not positive")
	}
	oldRate := b.FeatureDeliveryRate()
	newRate := WorkingDaysPerYear / newCycleDays * b.NewFeaturePct
	additionalFeatures := (newRate - oldRate) * b.TeamSize

	costPerFeature, err := b.CostPerFeature()
	if err != nil {
		return 0, err
	}
	return additionalFeatures * costPerFeature, nil
}

func qualityValue(b *Baseline, f *ImpactFactors, adoption float64) float64 {
	// Escaped defects avoided, priced at the hours to fix each one.
	defectsAvoided := b.DefectEscapeRate * f.DefectReduction * adoption
	defectValue := defectsAvoided * hoursPerDefectFix *
		(b.WeightedFLC() / WorkingHoursPerYear) * klocPerTeamPerYear

	incidentsAvoided := b.IncidentsPerMonth * f.IncidentReduction * adoption
	incidentValue := incidentsAvoided * MonthsPerYear * b.AvgIncidentCost

	reworkAvoided := b.ReworkPercentage * f.ReworkReduction * adoption
	reworkValue := b.TotalTeamCost() * reworkAvoided

	return defectValue + incidentValue + reworkValue
}

func capacityValue(b *Baseline, f *ImpactFactors, adoption float64) float64 {
	featureCapacity := f.FeatureCapacityGain * adoption * b.TotalTeamCost()
	techDebt := f.TechDebtCapacityGain * adoption * b.TotalTeamCost() * techDebtMultiplier
	contextSwitch := b.TotalTeamCost() * 0.05 * adoption
	return featureCapacity + techDebt + contextSwitch
}

func strategicValue(b *Baseline, f *ImpactFactors, adoption float64) (float64, error) {
	retention := b.WeightedFLC() * retentionImprovement * adoption * b.TeamSize

	innovationHours := b.EffectiveCapacityHours() * innovationCapacity * adoption
	innovation := (innovationHours / WorkingHoursPerYear) * b.WeightedFLC() * b.TeamSize

	featureValue, err := featureAccelerationValue(b, f, adoption)
	if err != nil {
		return 0, err
	}
	competitive := featureValue * competitiveValuePct

	juniorBoost := b.JuniorRatio * b.TeamSize * (f.JuniorMultiplier - 1) *
		adoption * b.JuniorFLC * juniorBoostFactor

	return retention + innovation + competitive + juniorBoost, nil
}

// ImpactPreset returns named impact factor presets.
func ImpactPreset(name string) (ImpactFactors, bool) {
	presets := map[string]ImpactFactors{
		"conservative": {
			FeatureCycleReduction: 0.10, BugFixReduction: 0.15, OnboardingReduction: 0.20,
			PRReviewReduction: 0.30, DefectReduction: 0.15, IncidentReduction: 0.10,
			ReworkReduction: 0.20, FeatureCapacityGain: 0.05, TechDebtCapacityGain: 0.02,
			JuniorMultiplier: 1.3, MidMultiplier: 1.2, SeniorMultiplier: 1.1,
		},
		"moderate": {
			FeatureCycleReduction: 0.25, BugFixReduction: 0.35, OnboardingReduction: 0.40,
			PRReviewReduction: 0.50, DefectReduction: 0.30, IncidentReduction: 0.25,
			ReworkReduction: 0.40, FeatureCapacityGain: 0.10, TechDebtCapacityGain: 0.05,
			JuniorMultiplier: 1.5, MidMultiplier: 1.3, SeniorMultiplier: 1.2,
		},
		"aggressive": {
			FeatureCycleReduction: 0.40, BugFixReduction: 0.50, OnboardingReduction: 0.60,
			PRReviewReduction: 0.70, DefectReduction: 0.45, IncidentReduction: 0.40,
			ReworkReduction: 0.60, FeatureCapacityGain: 0.15, TechDebtCapacityGain: 0.08,
			JuniorMultiplier: 1.8, MidMultiplier: 1.5, SeniorMultiplier: 1.3,
		},
	}
	f, ok := presets[name]
	return f, ok
}
