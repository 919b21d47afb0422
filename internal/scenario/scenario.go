// Package scenario loads named analysis scenarios: a fully-resolved input
// set plus the distribution and correlation declarations the probabilistic
// layers sample from.
package scenario

import (
	"fmt"
	"slices"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/model"
	"impact-mcp/internal/sampling"
)

// Scenario is one named analysis configuration.
type Scenario struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Inputs model.Inputs `yaml:",inline" json:"inputs"`

	// Distributions maps dotted parameter names to the distribution that
	// replaces the point value during probabilistic runs.
	Distributions map[string]*sampling.Spec `yaml:"distributions,omitempty" json:"distributions,omitempty"`
	Correlations  []sampling.Correlation    `yaml:"correlations,omitempty" json:"correlations,omitempty"`
}

// Validate checks the resolved inputs, that every distribution and
// correlation refers to a known dotted parameter, and that each declared
// distribution carries well-formed shape parameters.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errs.NewValidation("name", s.Name, "a non-empty scenario name")
	}
	if err := s.Inputs.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	pointers := s.Inputs.ParamPointers()
	for name, spec := range s.Distributions {
		if _, ok := pointers[name]; !ok {
			return errs.NewDistributionConfig("parameter", name, "a known dotted parameter name")
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("scenario %s: distribution %s: %w", s.Name, name, err)
		}
	}
	for _, c := range s.Correlations {
		for _, name := range []string{c.A, c.B} {
			if _, ok := s.Distributions[name]; !ok {
				return errs.NewCorrelationConfig("parameter", name, "a parameter with a declared distribution")
			}
		}
	}
	return nil
}

// Sampler builds the correlated sampler over the declared distributions.
// Deterministic parameters keep their point values and never enter the
// copula.
func (s *Scenario) Sampler() (*sampling.Sampler, error) {
	return sampling.NewSampler(s.Distributions, s.Correlations)
}

// ParameterNames returns the stochastic parameter names in sorted order.
func (s *Scenario) ParameterNames() []string {
	names := make([]string, 0, len(s.Distributions))
	for name, spec := range s.Distributions {
		if !spec.IsDeterministic() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Clone returns a deep enough copy for one simulation run: the inputs are
// value-copied so Apply on the clone never mutates the source scenario.
func (s *Scenario) Clone() *Scenario {
	clone := *s
	return &clone
}
