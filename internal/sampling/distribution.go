// Package sampling provides the probability distribution and correlation
// machinery used by the Monte Carlo and sensitivity layers. Every draw takes
// an explicit *rand.Rand so runs are reproducible under a fixed seed.
package sampling

import (
	"math"
	"math/rand"

	"impact-mcp/internal/errs"
)

// Kind identifies a distribution family.
type Kind string

const (
	KindNormal        Kind = "normal"
	KindTriangular    Kind = "triangular"
	KindBeta          Kind = "beta"
	KindUniform       Kind = "uniform"
	KindLogNormal     Kind = "lognormal"
	KindDeterministic Kind = "deterministic"
)

// Spec is a tagged description of a parameter distribution. Which fields are
// meaningful depends on Kind. Min/Max act as truncation bounds for Normal and
// LogNormal (values are clamped, not resampled), as the support for Uniform
// and Triangular, and as the scaling range for Beta (default [0,1]).
type Spec struct {
	Kind Kind `yaml:"type" json:"type"`

	Mean float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	Std  float64 `yaml:"std,omitempty" json:"std,omitempty"`

	Mode float64 `yaml:"mode,omitempty" json:"mode,omitempty"`

	Alpha float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`
	Beta  float64 `yaml:"beta,omitempty" json:"beta,omitempty"`

	MeanLog float64 `yaml:"mean_log,omitempty" json:"mean_log,omitempty"`
	StdLog  float64 `yaml:"std_log,omitempty" json:"std_log,omitempty"`

	Value float64 `yaml:"value,omitempty" json:"value,omitempty"`

	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Deterministic builds a spec that always yields v.
func Deterministic(v float64) *Spec {
	return &Spec{Kind: KindDeterministic, Value: v}
}

// IsDeterministic reports whether the spec has zero variance.
func (s *Spec) IsDeterministic() bool {
	return s.Kind == KindDeterministic
}

// Validate checks the shape parameters for the chosen family.
func (s *Spec) Validate() error {
	switch s.Kind {
	case KindNormal:
		// Std of zero is allowed and degenerates to the mean.
		if s.Std < 0 {
			return errs.NewDistributionConfig("std", s.Std, "standard deviation >= 0")
		}
	case KindTriangular:
		if s.Min == nil || s.Max == nil {
			return errs.NewDistributionConfig("triangular", nil, "min and max to be set")
		}
		if !(*s.Min <= s.Mode && s.Mode <= *s.Max) {
			return errs.NewDistributionConfig("triangular",
				[3]float64{*s.Min, s.Mode, *s.Max}, "min <= mode <= max")
		}
	case KindBeta:
		if s.Alpha <= 0 || s.Beta <= 0 {
			return errs.NewDistributionConfig("beta",
				[2]float64{s.Alpha, s.Beta}, "alpha > 0 and beta > 0")
		}
		lo, hi := s.betaBounds()
		if lo >= hi {
			return errs.NewDistributionConfig("beta_bounds", [2]float64{lo, hi}, "min < max")
		}
	case KindUniform:
		if s.Min == nil || s.Max == nil {
			return errs.NewDistributionConfig("uniform", nil, "min and max to be set")
		}
		if *s.Min >= *s.Max {
			return errs.NewDistributionConfig("uniform_bounds",
				[2]float64{*s.Min, *s.Max}, "min < max")
		}
	case KindLogNormal:
		if s.StdLog <= 0 {
			return errs.NewDistributionConfig("std_log", s.StdLog, "log standard deviation > 0")
		}
	case KindDeterministic:
		// Always valid.
	default:
		return errs.NewDistributionConfig("type", string(s.Kind),
			"one of: normal, triangular, beta, uniform, lognormal, deterministic")
	}
	return nil
}

func (s *Spec) betaBounds() (float64, float64) {
	lo, hi := 0.0, 1.0
	if s.Min != nil {
		lo = *s.Min
	}
	if s.Max != nil {
		hi = *s.Max
	}
	return lo, hi
}

func (s *Spec) clamp(v float64) float64 {
	if s.Min != nil && v < *s.Min {
		v = *s.Min
	}
	if s.Max != nil && v > *s.Max {
		v = *s.Max
	}
	return v
}

// Sample draws one value from the distribution.
func (s *Spec) Sample(rng *rand.Rand) float64 {
	switch s.Kind {
	case KindNormal:
		return s.clamp(s.Mean + s.Std*rng.NormFloat64())
	case KindTriangular:
		return s.Quantile(rng.Float64())
	case KindBeta:
		lo, hi := s.betaBounds()
		return lo + sampleBeta(rng, s.Alpha, s.Beta)*(hi-lo)
	case KindUniform:
		return *s.Min + rng.Float64()*(*s.Max-*s.Min)
	case KindLogNormal:
		return s.clamp(math.Exp(s.MeanLog + s.StdLog*rng.NormFloat64()))
	default:
		return s.Value
	}
}

// SampleMany draws n values.
func (s *Spec) SampleMany(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Sample(rng)
	}
	return out
}

// Quantile returns the q-th quantile (inverse CDF), q in (0,1). Truncation
// bounds clamp the result for Normal and LogNormal.
func (s *Spec) Quantile(q float64) float64 {
	switch s.Kind {
	case KindNormal:
		if s.Std == 0 {
			return s.clamp(s.Mean)
		}
		return s.clamp(s.Mean + s.Std*normQuantile(q))
	case KindTriangular:
		a, b := *s.Min, *s.Max
		c := (s.Mode - a) / (b - a)
		if q < c {
			return a + math.Sqrt(q*(b-a)*(s.Mode-a))
		}
		return b - math.Sqrt((1-q)*(b-a)*(b-s.Mode))
	case KindBeta:
		lo, hi := s.betaBounds()
		return lo + betaQuantile(q, s.Alpha, s.Beta)*(hi-lo)
	case KindUniform:
		return *s.Min + q*(*s.Max-*s.Min)
	case KindLogNormal:
		return s.clamp(math.Exp(s.MeanLog + s.StdLog*normQuantile(q)))
	default:
		return s.Value
	}
}

// ExpectedValue returns the distribution mean.
func (s *Spec) ExpectedValue() float64 {
	switch s.Kind {
	case KindNormal:
		return s.Mean
	case KindTriangular:
		return (*s.Min + s.Mode + *s.Max) / 3
	case KindBeta:
		lo, hi := s.betaBounds()
		return lo + s.Alpha/(s.Alpha+s.Beta)*(hi-lo)
	case KindUniform:
		return (*s.Min + *s.Max) / 2
	case KindLogNormal:
		return math.Exp(s.MeanLog + s.StdLog*s.StdLog/2)
	default:
		return s.Value
	}
}

// StdDev returns the distribution standard deviation.
func (s *Spec) StdDev() float64 {
	switch s.Kind {
	case KindNormal:
		return s.Std
	case KindTriangular:
		a, m, b := *s.Min, s.Mode, *s.Max
		return math.Sqrt((a*a + m*m + b*b - a*m - a*b - m*b) / 18)
	case KindBeta:
		a, b := s.Alpha, s.Beta
		lo, hi := s.betaBounds()
		v := a * b / ((a + b) * (a + b) * (a + b + 1))
		return math.Sqrt(v) * (hi - lo)
	case KindUniform:
		return (*s.Max - *s.Min) / math.Sqrt(12)
	case KindLogNormal:
		v := (math.Exp(s.StdLog*s.StdLog) - 1) * math.Exp(2*s.MeanLog+s.StdLog*s.StdLog)
		return math.Sqrt(v)
	default:
		return 0
	}
}

// ConfidenceInterval returns the central interval at the given level.
func (s *Spec) ConfidenceInterval(level float64) (float64, float64) {
	alpha := 1 - level
	return s.Quantile(alpha / 2), s.Quantile(1 - alpha/2)
}
