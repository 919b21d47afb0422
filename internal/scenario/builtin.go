package scenario

import (
	"impact-mcp/internal/model"
	"impact-mcp/internal/sampling"
)

func bound(v float64) *float64 { return &v }

// builtins returns the scenarios shipped with the server. Each composes a
// baseline profile, an adoption strategy and impact/cost presets, and carries
// a default uncertainty model for its key drivers.
func builtins() map[string]func() *Scenario {
	return map[string]func() *Scenario{
		"enterprise_rollout": func() *Scenario {
			s := compose("enterprise_rollout",
				"Large organization, organic adoption, moderate impact assumptions",
				"enterprise", "organic", "moderate", "enterprise", 36)
			s.Distributions = map[string]*sampling.Spec{
				"impact.feature_cycle_reduction": {
					Kind: sampling.KindTriangular,
					Min:  bound(0.10), Mode: 0.25, Max: bound(0.40),
				},
				"impact.defect_reduction": {
					Kind: sampling.KindTriangular,
					Min:  bound(0.05), Mode: 0.20, Max: bound(0.35),
				},
				"adoption.plateau_efficiency": {
					Kind: sampling.KindNormal,
					Mean: 0.85, Std: 0.05,
					Min: bound(0.50), Max: bound(1.00),
				},
				"costs.token_growth_rate_monthly": {
					Kind: sampling.KindNormal,
					Mean: 0.10, Std: 0.03,
					Min: bound(0), Max: bound(0.30),
				},
			}
			s.Correlations = []sampling.Correlation{
				{A: "impact.feature_cycle_reduction", B: "impact.defect_reduction", Coefficient: 0.5},
			}
			return s
		},
		"startup_aggressive": func() *Scenario {
			s := compose("startup_aggressive",
				"Small team, mandated rollout, aggressive impact assumptions",
				"startup", "mandated", "aggressive", "startup", 24)
			s.Distributions = map[string]*sampling.Spec{
				"impact.feature_cycle_reduction": {
					Kind: sampling.KindTriangular,
					Min:  bound(0.20), Mode: 0.40, Max: bound(0.60),
				},
				"adoption.learning_rate": {
					Kind:  sampling.KindBeta,
					Alpha: 4, Beta: 6,
					Min: bound(0.10), Max: bound(0.60),
				},
				"costs.initial_tokens_per_dev_month": {
					Kind:    sampling.KindLogNormal,
					MeanLog: 12.2, StdLog: 0.4,
					Min: bound(50_000), Max: bound(2_000_000),
				},
			}
			return s
		},
		"scale_up_cautious": func() *Scenario {
			s := compose("scale_up_cautious",
				"Mid-size team, grassroots adoption, conservative impact assumptions",
				"scale_up", "grassroots", "conservative", "startup", 36)
			s.Distributions = map[string]*sampling.Spec{
				"impact.feature_cycle_reduction": {
					Kind: sampling.KindUniform,
					Min:  bound(0.05), Max: bound(0.25),
				},
				"impact.rework_reduction": {
					Kind: sampling.KindTriangular,
					Min:  bound(0.05), Mode: 0.15, Max: bound(0.30),
				},
				"adoption.dropout_rate_month": {
					Kind: sampling.KindNormal,
					Mean: 0.03, Std: 0.01,
					Min: bound(0), Max: bound(0.10),
				},
			}
			s.Correlations = []sampling.Correlation{
				{A: "impact.feature_cycle_reduction", B: "impact.rework_reduction", Coefficient: 0.4},
			}
			return s
		},
	}
}

func compose(name, description, profile, strategy, impact, costs string, months int) *Scenario {
	s := &Scenario{Name: name, Description: description}
	s.Inputs.Months = months
	s.Inputs.DiscountRateAnnual = DefaultDiscountRate
	s.Inputs.Baseline, _ = model.BaselineProfile(profile)
	s.Inputs.Adoption, _ = model.AdoptionStrategy(strategy)
	s.Inputs.Impact, _ = model.ImpactPreset(impact)
	s.Inputs.Costs, _ = model.CostPreset(costs)
	return s
}

// Builtin returns a fresh copy of a shipped scenario.
func Builtin(name string) (*Scenario, bool) {
	build, ok := builtins()[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// BuiltinNames lists the shipped scenario names, unsorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins()))
	for name := range builtins() {
		names = append(names, name)
	}
	return names
}
