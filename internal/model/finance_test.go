package model

import (
	"errors"
	"math"
	"testing"

	"impact-mcp/internal/errs"
)

func TestNPVZeroRateIsPlainSum(t *testing.T) {
	flows := []float64{-100, 40, 40, 40}
	npv, err := NPVMonthly(flows, 0)
	if err != nil {
		t.Fatalf("NPVMonthly: %v", err)
	}
	if math.Abs(npv-20) > 1e-9 {
		t.Errorf("NPV at 0%% = %v, expected 20", npv)
	}
}

func TestNPVDiscountsLaterFlows(t *testing.T) {
	flows := []float64{-100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 120}
	npv, err := NPVMonthly(flows, 0.20)
	if err != nil {
		t.Fatalf("NPVMonthly: %v", err)
	}
	// 120 twelve months out at 20% annual is 120/1.2 = 100.
	if math.Abs(npv-0) > 1e-9 {
		t.Errorf("NPV = %v, expected 0", npv)
	}
}

func TestNPVErrors(t *testing.T) {
	if _, err := NPVMonthly(nil, 0.1); err == nil {
		t.Error("Expected error on empty series")
	}
	if _, err := NPVMonthly([]float64{1}, -1); err == nil {
		t.Error("Expected error on rate <= -1")
	}
}

func TestBreakevenMonth(t *testing.T) {
	value := []float64{0, 50, 120, 200}
	cost := []float64{100, 110, 115, 120}
	if got := BreakevenMonth(value, cost); got != 2 {
		t.Errorf("BreakevenMonth = %d, expected 2", got)
	}
	if got := BreakevenMonth([]float64{0, 1}, []float64{10, 10}); got != NoBreakeven {
		t.Errorf("Expected NoBreakeven, got %d", got)
	}
}

func TestPaybackInterpolates(t *testing.T) {
	// Crosses zero halfway between month 1 (-50) and month 2 (+50).
	cumulative := []float64{-100, -50, 50}
	if got := PaybackMonths(cumulative); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("PaybackMonths = %v, expected 1.5", got)
	}
	if got := PaybackMonths([]float64{-1, -2, -3}); got != NoBreakeven {
		t.Errorf("Expected NoBreakeven, got %v", got)
	}
	if got := PaybackMonths([]float64{5, 6}); got != 0 {
		t.Errorf("Immediately positive series should pay back at 0, got %v", got)
	}
}

func TestROIPercent(t *testing.T) {
	roi, err := ROIPercent(300, 100)
	if err != nil {
		t.Fatalf("ROIPercent: %v", err)
	}
	if math.Abs(roi-200) > 1e-9 {
		t.Errorf("ROI = %v, expected 200", roi)
	}

	if _, err := ROIPercent(300, 0); err == nil {
		t.Fatal("Expected error on zero cost")
	} else if !errors.As(err, new(*errs.CalculationError)) {
		t.Errorf("Expected CalculationError, got %T", err)
	}
}

func TestIRRMonthly(t *testing.T) {
	// -100 now, 110 next month: IRR = 10% monthly.
	rate, ok := IRRMonthly([]float64{-100, 110})
	if !ok {
		t.Fatal("Expected an IRR")
	}
	if math.Abs(rate-0.10) > 1e-6 {
		t.Errorf("IRR = %v, expected 0.10", rate)
	}

	if _, ok := IRRMonthly([]float64{10, 20}); ok {
		t.Error("All-positive series has no IRR")
	}
}

func TestMonthlyRateCompounds(t *testing.T) {
	monthly := MonthlyRate(0.10)
	if got := math.Pow(1+monthly, 12); math.Abs(got-1.10) > 1e-12 {
		t.Errorf("Monthly rate compounds to %v, expected 1.10", got)
	}
}
