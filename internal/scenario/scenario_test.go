package scenario

import (
	"errors"
	"slices"
	"testing"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/sampling"
)

func TestBuiltinsAreComplete(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("No builtin scenarios")
	}
	for _, name := range names {
		s, ok := Builtin(name)
		if !ok {
			t.Fatalf("Builtin(%s) missing", name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Builtin %s fails validation: %v", name, err)
		}
		if _, err := s.Sampler(); err != nil {
			t.Errorf("Builtin %s sampler: %v", name, err)
		}
		if len(s.Distributions) == 0 {
			t.Errorf("Builtin %s carries no uncertainty model", name)
		}
	}
}

func TestBuiltinReturnsFreshCopies(t *testing.T) {
	a, _ := Builtin("enterprise_rollout")
	a.Inputs.Months = 1

	b, _ := Builtin("enterprise_rollout")
	if b.Inputs.Months == 1 {
		t.Error("Mutating one builtin copy leaked into the next")
	}
}

func TestValidateRejectsMalformedDistribution(t *testing.T) {
	s, _ := Builtin("enterprise_rollout")
	s.Distributions["impact.feature_cycle_reduction"] = &sampling.Spec{
		Kind: sampling.KindTriangular, Mode: 0.25,
	}

	err := s.Validate()
	if err == nil {
		t.Fatal("Expected validation to reject a triangular spec without bounds")
	}
	if !errors.As(err, new(*errs.DistributionConfigError)) {
		t.Errorf("Expected a DistributionConfigError, got %T: %v", err, err)
	}
}

func TestParameterNamesSortedAndStochastic(t *testing.T) {
	s, _ := Builtin("enterprise_rollout")
	s.Distributions["baseline.team_size"] = sampling.Deterministic(50)

	names := s.ParameterNames()
	if !slices.IsSorted(names) {
		t.Errorf("Names not sorted: %v", names)
	}
	if slices.Contains(names, "baseline.team_size") {
		t.Error("Deterministic parameter listed as stochastic")
	}
	if len(names) != len(s.Distributions)-1 {
		t.Errorf("Got %d names for %d stochastic distributions", len(names), len(s.Distributions)-1)
	}
}

func TestCloneIsolatesInputs(t *testing.T) {
	s, _ := Builtin("enterprise_rollout")
	original := s.Inputs.Baseline.TeamSize

	c := s.Clone()
	if err := c.Inputs.Set("baseline.team_size", original+25); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Inputs.Baseline.TeamSize != original {
		t.Errorf("Clone mutation leaked: %v", s.Inputs.Baseline.TeamSize)
	}
}
