package model

import (
	"math"

	"impact-mcp/internal/errs"
)

// AdoptionParams controls the diffusion, dropout and learning dynamics.
type AdoptionParams struct {
	// Rogers cohort sizes; must sum to 1.0 within tolerance. Laggards never
	// adopt, so 1-Laggards is the adoption ceiling.
	Innovators    float64 `yaml:"initial_adopters" json:"initial_adopters"`
	EarlyAdopters float64 `yaml:"early_adopters" json:"early_adopters"`
	EarlyMajority float64 `yaml:"early_majority" json:"early_majority"`
	LateMajority  float64 `yaml:"late_majority" json:"late_majority"`
	Laggards      float64 `yaml:"laggards" json:"laggards"`

	TrainingEffectiveness float64 `yaml:"training_effectiveness" json:"training_effectiveness"`
	PeerInfluence         float64 `yaml:"peer_influence" json:"peer_influence"`
	ManagementMandate     float64 `yaml:"management_mandate" json:"management_mandate"`
	InitialResistance     float64 `yaml:"initial_resistance" json:"initial_resistance"`

	DropoutRateMonth float64 `yaml:"dropout_rate_month" json:"dropout_rate_month"`
	ReEngagementRate float64 `yaml:"re_engagement_rate" json:"re_engagement_rate"`

	InitialEfficiency float64 `yaml:"initial_efficiency" json:"initial_efficiency"`
	LearningRate      float64 `yaml:"learning_rate" json:"learning_rate"`
	PlateauEfficiency float64 `yaml:"plateau_efficiency" json:"plateau_efficiency"`

	JuniorAdoptionMultiplier float64 `yaml:"junior_adoption_multiplier" json:"junior_adoption_multiplier"`
	MidAdoptionMultiplier    float64 `yaml:"mid_adoption_multiplier" json:"mid_adoption_multiplier"`
	SeniorAdoptionMultiplier float64 `yaml:"senior_adoption_multiplier" json:"senior_adoption_multiplier"`
}

// Validate checks cohort sums, ratio domains and the learning curve ordering.
func (a *AdoptionParams) Validate() error {
	for name, r := range map[string]float64{
		"adoption.initial_adopters":       a.Innovators,
		"adoption.early_adopters":         a.EarlyAdopters,
		"adoption.early_majority":         a.EarlyMajority,
		"adoption.late_majority":          a.LateMajority,
		"adoption.laggards":               a.Laggards,
		"adoption.training_effectiveness": a.TrainingEffectiveness,
		"adoption.peer_influence":         a.PeerInfluence,
		"adoption.management_mandate":     a.ManagementMandate,
		"adoption.initial_resistance":     a.InitialResistance,
		"adoption.initial_efficiency":     a.InitialEfficiency,
		"adoption.plateau_efficiency":     a.PlateauEfficiency,
	} {
		if r < 0 || r > 1 {
			return errs.NewValidation(name, r, "ratio in [0, 1]")
		}
	}
	sum := a.Innovators + a.EarlyAdopters + a.EarlyMajority + a.LateMajority + a.Laggards
	if sum < 1-RatioSumTolerance || sum > 1+RatioSumTolerance {
		return errs.NewValidation("adoption.cohorts", sum, "cohort sizes summing to 1.0")
	}
	for name, v := range map[string]float64{
		"adoption.dropout_rate_month":         a.DropoutRateMonth,
		"adoption.re_engagement_rate":         a.ReEngagementRate,
		"adoption.learning_rate":              a.LearningRate,
		"adoption.junior_adoption_multiplier": a.JuniorAdoptionMultiplier,
		"adoption.mid_adoption_multiplier":    a.MidAdoptionMultiplier,
		"adoption.senior_adoption_multiplier": a.SeniorAdoptionMultiplier,
	} {
		if v < 0 {
			return errs.NewValidation(name, v, "value >= 0")
		}
	}
	if a.InitialEfficiency >= a.PlateauEfficiency {
		return errs.NewValidation("adoption.efficiency",
			[2]float64{a.InitialEfficiency, a.PlateauEfficiency},
			"initial_efficiency < plateau_efficiency")
	}
	return nil
}

// cohort describes one Rogers segment's activation schedule. Onset is the
// month the cohort starts adopting; rate is its exponential activation speed.
type cohort struct {
	name  string
	onset int
	rate  float64
}

// Innovators activate immediately; the remaining cohorts follow the classic
// Rogers timing (early adopters from month 1, early majority months 4-9, late
// majority months 10-18).
var cohortSchedule = []cohort{
	{name: "innovators", onset: 0, rate: 1.5},
	{name: "early_adopters", onset: 1, rate: 0.45},
	{name: "early_majority", onset: 4, rate: 0.30},
	{name: "late_majority", onset: 10, rate: 0.18},
}

func (a *AdoptionParams) cohortSizes() [4]float64 {
	return [4]float64{a.Innovators, a.EarlyAdopters, a.EarlyMajority, a.LateMajority}
}

// activation is the cumulative activated fraction of cohort c at month t.
func activation(c cohort, rate float64, t int) float64 {
	if t < c.onset {
		return 0
	}
	return 1 - math.Exp(-rate*float64(t-c.onset+1))
}

// networkEffect accelerates diffusion once critical adoption mass is reached.
func (a *AdoptionParams) networkEffect(current float64) float64 {
	switch {
	case current < 0.1:
		return 1.0
	case current < 0.3:
		return 1.0 + a.PeerInfluence*0.5
	case current < 0.5:
		return 1.0 + a.PeerInfluence*1.0
	default:
		return 1.0 + a.PeerInfluence*1.5
	}
}

// AdoptionState holds the per-month diffusion bookkeeping.
type AdoptionState struct {
	params  *AdoptionParams
	active  [4]float64 // active fraction per cohort
	dropped float64    // cumulative dropped-out pool
	ceiling float64
}

// NewAdoptionState initializes month-0 state: innovators are active
// immediately, everyone else is pending.
func NewAdoptionState(p *AdoptionParams) *AdoptionState {
	s := &AdoptionState{params: p, ceiling: math.Min(MaxAdoptionRate, 1-p.Laggards)}
	s.active[0] = math.Min(p.Innovators, s.ceiling)
	return s
}

// Step advances diffusion to month t (t >= 1) and returns the new aggregate
// adoption fraction. Dropout applies proportionally across cohorts and a
// share of the dropped pool re-engages each month.
func (s *AdoptionState) Step(t int) float64 {
	p := s.params
	sizes := p.cohortSizes()
	current := s.Adoption()
	boost := p.networkEffect(current)
	// Management mandate and initial resistance stretch or compress every
	// cohort's activation speed.
	rateScale := boost * (1 + 0.3*p.ManagementMandate) * (1 - 0.3*p.InitialResistance)

	for i, c := range cohortSchedule {
		rate := c.rate * rateScale
		newShare := sizes[i] * (activation(c, rate, t) - activation(c, rate, t-1))
		if newShare > 0 {
			s.active[i] += newShare
		}
	}

	// Dropout and re-engagement.
	var droppedNow float64
	for i := range s.active {
		d := s.active[i] * p.DropoutRateMonth
		s.active[i] -= d
		droppedNow += d
	}
	s.dropped += droppedNow

	reEngaged := s.dropped * p.ReEngagementRate
	if reEngaged > 0 {
		s.dropped -= reEngaged
		total := s.Adoption()
		for i := range s.active {
			if total > 0 {
				s.active[i] += reEngaged * s.active[i] / total
			} else {
				s.active[i] += reEngaged / float64(len(s.active))
			}
		}
	}

	// Cap at the ceiling, scaling cohorts down proportionally.
	if total := s.Adoption(); total > s.ceiling {
		scale := s.ceiling / total
		for i := range s.active {
			s.active[i] *= scale
		}
	}

	return s.Adoption()
}

// Adoption is the aggregate active adopter fraction.
func (s *AdoptionState) Adoption() float64 {
	var sum float64
	for _, a := range s.active {
		sum += a
	}
	return sum
}

// Efficiency is the adoption-weighted mean proficiency at month t. Each
// cohort learns from its own onset month, so earlier cohorts are further up
// the curve.
func (s *AdoptionState) Efficiency(t int) float64 {
	p := s.params
	var weighted, total float64
	for i, c := range cohortSchedule {
		if s.active[i] == 0 {
			continue
		}
		tenure := t - c.onset
		if tenure < 0 {
			tenure = 0
		}
		eff := p.InitialEfficiency +
			(p.PlateauEfficiency-p.InitialEfficiency)*(1-math.Exp(-p.LearningRate*float64(tenure)))
		weighted += s.active[i] * eff
		total += s.active[i]
	}
	if total == 0 {
		return p.InitialEfficiency
	}
	return weighted / total
}

// AdoptionStrategy returns preset adoption parameters by name.
func AdoptionStrategy(name string) (AdoptionParams, bool) {
	strategies := map[string]AdoptionParams{
		"organic": {
			Innovators: 0.05, EarlyAdopters: 0.15, EarlyMajority: 0.35,
			LateMajority: 0.30, Laggards: 0.15,
			TrainingEffectiveness: 0.5, PeerInfluence: 0.7, ManagementMandate: 0.3,
			InitialResistance: 0.4, DropoutRateMonth: 0.02, ReEngagementRate: 0.03,
			InitialEfficiency: 0.3, LearningRate: 0.3, PlateauEfficiency: 0.85,
			JuniorAdoptionMultiplier: 1.3, MidAdoptionMultiplier: 1.0, SeniorAdoptionMultiplier: 0.7,
		},
		"mandated": {
			Innovators: 0.20, EarlyAdopters: 0.30, EarlyMajority: 0.30,
			LateMajority: 0.15, Laggards: 0.05,
			TrainingEffectiveness: 0.7, PeerInfluence: 0.5, ManagementMandate: 0.9,
			InitialResistance: 0.2, DropoutRateMonth: 0.03, ReEngagementRate: 0.05,
			InitialEfficiency: 0.25, LearningRate: 0.25, PlateauEfficiency: 0.80,
			JuniorAdoptionMultiplier: 1.1, MidAdoptionMultiplier: 1.0, SeniorAdoptionMultiplier: 0.9,
		},
		"grassroots": {
			Innovators: 0.10, EarlyAdopters: 0.20, EarlyMajority: 0.30,
			LateMajority: 0.25, Laggards: 0.15,
			TrainingEffectiveness: 0.4, PeerInfluence: 0.9, ManagementMandate: 0.1,
			InitialResistance: 0.3, DropoutRateMonth: 0.015, ReEngagementRate: 0.04,
			InitialEfficiency: 0.4, LearningRate: 0.4, PlateauEfficiency: 0.90,
			JuniorAdoptionMultiplier: 1.5, MidAdoptionMultiplier: 1.2, SeniorAdoptionMultiplier: 0.6,
		},
	}
	p, ok := strategies[name]
	return p, ok
}
