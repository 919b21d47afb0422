package model

import (
	"math"
	"testing"
)

func testInputs() Inputs {
	b, _ := BaselineProfile("enterprise")
	a, _ := AdoptionStrategy("organic")
	f, _ := ImpactPreset("moderate")
	c, _ := CostPreset("enterprise")
	return Inputs{
		Months:             24,
		DiscountRateAnnual: 0.10,
		Baseline:           b,
		Adoption:           a,
		Impact:             f,
		Costs:              c,
	}
}

func TestSimulateTrajectoryShape(t *testing.T) {
	traj, err := Simulate(testInputs())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if len(traj.Records) != 24 {
		t.Fatalf("Expected 24 monthly records, got %d", len(traj.Records))
	}
	if traj.Records[0].Adoption <= 0 {
		t.Error("Month-0 adoption should include the innovator cohort")
	}
	for i, r := range traj.Records {
		if r.Month != i {
			t.Fatalf("Record %d carries month %d", i, r.Month)
		}
		if r.Adoption < 0 || r.Adoption > MaxAdoptionRate+1e-9 {
			t.Fatalf("Month %d adoption %v out of range", i, r.Adoption)
		}
		if r.EffectiveAdoption > r.Adoption+1e-9 {
			t.Fatalf("Month %d effective adoption %v exceeds raw adoption %v", i, r.EffectiveAdoption, r.Adoption)
		}
		if r.Cost <= 0 {
			t.Fatalf("Month %d cost %v should be positive", i, r.Cost)
		}
	}

	if math.IsNaN(traj.Summary.NPV) || math.IsInf(traj.Summary.NPV, 0) {
		t.Errorf("NPV is not finite: %v", traj.Summary.NPV)
	}
	if traj.Summary.TotalCost <= 0 {
		t.Errorf("Total cost %v should be positive", traj.Summary.TotalCost)
	}
	if traj.Summary.PeakAdoption < traj.Records[0].Adoption {
		t.Error("Peak adoption below the starting point")
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	a, err := Simulate(testInputs())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	b, err := Simulate(testInputs())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if a.Summary != b.Summary {
		t.Errorf("Identical inputs produced different summaries:\n%+v\n%+v", a.Summary, b.Summary)
	}
}

func TestSimulateRejectsInvalidInputs(t *testing.T) {
	in := testInputs()
	in.Months = 0
	if _, err := Simulate(in); err == nil {
		t.Error("Expected error for zero horizon")
	}

	in = testInputs()
	in.Baseline.TeamSize = -5
	if _, err := Simulate(in); err == nil {
		t.Error("Expected error for negative team size")
	}
}

func TestHigherImpactRaisesNPV(t *testing.T) {
	low := testInputs()
	low.Impact, _ = ImpactPreset("conservative")
	high := testInputs()
	high.Impact, _ = ImpactPreset("aggressive")

	lowTraj, err := Simulate(low)
	if err != nil {
		t.Fatalf("Simulate(conservative): %v", err)
	}
	highTraj, err := Simulate(high)
	if err != nil {
		t.Fatalf("Simulate(aggressive): %v", err)
	}
	if highTraj.Summary.NPV <= lowTraj.Summary.NPV {
		t.Errorf("Aggressive impact NPV %v should exceed conservative %v",
			highTraj.Summary.NPV, lowTraj.Summary.NPV)
	}
}

func TestParamRegistryRoundTrip(t *testing.T) {
	in := testInputs()

	if err := in.Set("baseline.team_size", 80); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if in.Baseline.TeamSize != 80 {
		t.Errorf("Set did not write through, team size is %v", in.Baseline.TeamSize)
	}
	if v, ok := in.Get("baseline.team_size"); !ok || v != 80 {
		t.Errorf("Get = %v/%v, expected 80/true", v, ok)
	}

	if err := in.Apply(map[string]float64{
		"impact.feature_cycle_reduction": 0.33,
		"costs.cost_per_seat_month":      75,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if in.Impact.FeatureCycleReduction != 0.33 || in.Costs.CostPerSeatMonth != 75 {
		t.Error("Apply did not write through the registry")
	}

	if err := in.Set("baseline.hair_color", 1); err == nil {
		t.Error("Expected error for unknown parameter name")
	}
}

func TestEveryRegisteredParamIsDistinct(t *testing.T) {
	in := testInputs()
	pointers := in.ParamPointers()
	seen := make(map[*float64]string, len(pointers))
	for name, p := range pointers {
		if p == nil {
			t.Fatalf("%s maps to a nil pointer", name)
		}
		if other, dup := seen[p]; dup {
			t.Errorf("%s and %s alias the same field", name, other)
		}
		seen[p] = name
	}
}
