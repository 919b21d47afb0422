package model

import (
	"testing"
)

func TestAdoptionStrategiesValidate(t *testing.T) {
	for _, name := range []string{"organic", "mandated", "grassroots"} {
		p, ok := AdoptionStrategy(name)
		if !ok {
			t.Fatalf("Missing strategy %s", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Strategy %s fails validation: %v", name, err)
		}
	}
}

func TestValidateRejectsBadCohortSum(t *testing.T) {
	p, _ := AdoptionStrategy("organic")
	p.Laggards = 0.50 // cohorts now sum to 1.35
	if err := p.Validate(); err == nil {
		t.Fatal("Expected cohort sum violation")
	}
}

func TestValidateRejectsInvertedLearningCurve(t *testing.T) {
	p, _ := AdoptionStrategy("organic")
	p.InitialEfficiency = 0.9
	p.PlateauEfficiency = 0.5
	if err := p.Validate(); err == nil {
		t.Fatal("Expected inverted learning curve to be rejected")
	}
}

func TestAdoptionStartsWithInnovators(t *testing.T) {
	p, _ := AdoptionStrategy("organic")
	s := NewAdoptionState(&p)
	if got := s.Adoption(); got != p.Innovators {
		t.Errorf("Month-0 adoption = %v, expected innovators share %v", got, p.Innovators)
	}
}

func TestAdoptionRespectsCeiling(t *testing.T) {
	p, _ := AdoptionStrategy("mandated")
	p.DropoutRateMonth = 0

	s := NewAdoptionState(&p)
	ceiling := 1 - p.Laggards
	for m := 1; m <= 120; m++ {
		a := s.Step(m)
		if a > ceiling+1e-9 {
			t.Fatalf("Month %d adoption %v exceeds ceiling %v", m, a, ceiling)
		}
		if a > MaxAdoptionRate+1e-9 {
			t.Fatalf("Month %d adoption %v exceeds hard cap", m, a)
		}
	}
}

func TestAdoptionGrowsEarlyWithoutDropout(t *testing.T) {
	p, _ := AdoptionStrategy("organic")
	p.DropoutRateMonth = 0

	s := NewAdoptionState(&p)
	prev := s.Adoption()
	for m := 1; m <= 24; m++ {
		a := s.Step(m)
		if a < prev-1e-9 {
			t.Fatalf("Month %d adoption %v fell below month %d adoption %v with zero dropout", m, a, m-1, prev)
		}
		prev = a
	}
	if prev <= p.Innovators {
		t.Errorf("Adoption never grew past the innovator share: %v", prev)
	}
}

func TestMandateAcceleratesAdoption(t *testing.T) {
	base, _ := AdoptionStrategy("organic")
	pushed := base
	pushed.ManagementMandate = 1.0
	pushed.InitialResistance = 0.0

	slow := NewAdoptionState(&base)
	fast := NewAdoptionState(&pushed)
	for m := 1; m <= 12; m++ {
		slow.Step(m)
		fast.Step(m)
	}
	if fast.Adoption() <= slow.Adoption() {
		t.Errorf("Full mandate (%v) should outpace organic (%v) after a year",
			fast.Adoption(), slow.Adoption())
	}
}

func TestEfficiencyBoundsAndGrowth(t *testing.T) {
	p, _ := AdoptionStrategy("organic")
	s := NewAdoptionState(&p)

	prev := s.Efficiency(0)
	if prev < p.InitialEfficiency-1e-9 || prev > p.PlateauEfficiency+1e-9 {
		t.Fatalf("Month-0 efficiency %v outside [%v, %v]", prev, p.InitialEfficiency, p.PlateauEfficiency)
	}
	for m := 1; m <= 36; m++ {
		s.Step(m)
		e := s.Efficiency(m)
		if e < p.InitialEfficiency-1e-9 || e > p.PlateauEfficiency+1e-9 {
			t.Fatalf("Month %d efficiency %v outside learning curve bounds", m, e)
		}
	}
	if late := s.Efficiency(36); late < 0.7*p.PlateauEfficiency {
		t.Errorf("Efficiency after 3 years %v still far from plateau %v", late, p.PlateauEfficiency)
	}
}
