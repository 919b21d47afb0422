package model

import (
	"errors"
	"math"
	"testing"

	"impact-mcp/internal/errs"
)

func TestBaselineProfilesValidate(t *testing.T) {
	for _, name := range []string{"startup", "enterprise", "scale_up"} {
		b, ok := BaselineProfile(name)
		if !ok {
			t.Fatalf("Missing profile %s", name)
		}
		if err := b.Validate(); err != nil {
			t.Errorf("Profile %s fails validation: %v", name, err)
		}
	}
	if _, ok := BaselineProfile("fortune500"); ok {
		t.Error("Unknown profile should not resolve")
	}
}

func TestValidateRejectsBadRatios(t *testing.T) {
	b, _ := BaselineProfile("startup")
	b.JuniorRatio = 0.8 // sum now 1.4

	err := b.Validate()
	if err == nil {
		t.Fatal("Expected ratio sum violation")
	}
	if !errors.As(err, new(*errs.ValidationError)) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func TestValidateAcceptsRatioSumWithinTolerance(t *testing.T) {
	b, _ := BaselineProfile("startup")
	b.JuniorRatio = 0.405 // sum 1.005, inside the 0.01 tolerance
	if err := b.Validate(); err != nil {
		t.Errorf("Sum within tolerance rejected: %v", err)
	}
}

func TestDerivedMetrics(t *testing.T) {
	b, _ := BaselineProfile("startup")

	wantFLC := 120_000*0.4 + 160_000*0.4 + 220_000*0.2
	if got := b.WeightedFLC(); math.Abs(got-wantFLC) > 1e-6 {
		t.Errorf("WeightedFLC = %v, expected %v", got, wantFLC)
	}
	if got := b.TotalTeamCost(); math.Abs(got-wantFLC*10) > 1e-6 {
		t.Errorf("TotalTeamCost = %v, expected %v", got, wantFLC*10)
	}

	// 260 working days / 14-day cycle * 60% feature time
	wantRate := 260.0 / 14.0 * 0.60
	if got := b.FeatureDeliveryRate(); math.Abs(got-wantRate) > 1e-9 {
		t.Errorf("FeatureDeliveryRate = %v, expected %v", got, wantRate)
	}

	cpf, err := b.CostPerFeature()
	if err != nil {
		t.Fatalf("CostPerFeature: %v", err)
	}
	if want := b.TotalTeamCost() / (b.TeamSize * wantRate); math.Abs(cpf-want) > 1e-6 {
		t.Errorf("CostPerFeature = %v, expected %v", cpf, want)
	}
}

func TestCostPerFeatureDegenerateRate(t *testing.T) {
	b, _ := BaselineProfile("startup")
	b.NewFeaturePct = 0
	b.MaintenancePct = 0.80 // keep capacity split summing to 1

	if _, err := b.CostPerFeature(); err == nil {
		t.Fatal("Expected calculation error for zero delivery rate")
	} else if !errors.As(err, new(*errs.CalculationError)) {
		t.Errorf("Expected CalculationError, got %T", err)
	}
}
