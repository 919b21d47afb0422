package model

import (
	"math"
	"testing"
)

func flatAdoption(months int, level float64) []float64 {
	out := make([]float64, months)
	for i := range out {
		out[i] = level
	}
	return out
}

func TestCostPresetsValidate(t *testing.T) {
	for _, name := range []string{"startup", "enterprise", "aggressive"} {
		c, ok := CostPreset(name)
		if !ok {
			t.Fatalf("Missing preset %s", name)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("Preset %s fails validation: %v", name, err)
		}
	}
}

func TestEnterpriseDiscountThreshold(t *testing.T) {
	c, _ := CostPreset("enterprise")
	adoption := flatAdoption(1, 1.0)

	small, _ := BaselineProfile("startup")  // 10 devs
	big, _ := BaselineProfile("enterprise") // 50 devs

	smallCosts := MonthlyCosts(&small, &c, adoption)
	bigCosts := MonthlyCosts(&big, &c, adoption)

	wantSmall := small.TeamSize * c.CostPerSeatMonth
	if math.Abs(smallCosts.Licensing[0]-wantSmall) > 1e-6 {
		t.Errorf("Sub-threshold team got a discount: %v vs %v", smallCosts.Licensing[0], wantSmall)
	}
	wantBig := big.TeamSize * c.CostPerSeatMonth * (1 - c.EnterpriseDiscount)
	if math.Abs(bigCosts.Licensing[0]-wantBig) > 1e-6 {
		t.Errorf("Threshold team missing discount: %v vs %v", bigCosts.Licensing[0], wantBig)
	}
}

func TestOneTimeCostsLandAtMonthZero(t *testing.T) {
	b, _ := BaselineProfile("scale_up")
	c, _ := CostPreset("startup")
	costs := MonthlyCosts(&b, &c, flatAdoption(13, 0.5))

	if costs.Infrastructure[0] < c.InfrastructureSetup {
		t.Errorf("Setup cost missing from month 0: %v", costs.Infrastructure[0])
	}
	if math.Abs(costs.Infrastructure[1]-c.InfrastructureMonthly) > 1e-9 {
		t.Errorf("Month 1 infrastructure = %v, expected only the monthly charge", costs.Infrastructure[1])
	}
	if costs.Experimentation[0] != c.PilotBudget {
		t.Errorf("Pilot budget missing from month 0: %v", costs.Experimentation[0])
	}
	if costs.Experimentation[12] != c.OngoingExperimentation {
		t.Errorf("Annual experimentation missing at month 12: %v", costs.Experimentation[12])
	}
	if costs.Experimentation[5] != 0 {
		t.Errorf("Unexpected experimentation spend at month 5: %v", costs.Experimentation[5])
	}
}

func TestTokenSpendGrowsThenPlateaus(t *testing.T) {
	b, _ := BaselineProfile("scale_up")
	c, _ := CostPreset("startup")
	c.TokenPriceDeclineAnnual = 0 // isolate the volume curve
	costs := MonthlyCosts(&b, &c, flatAdoption(24, 1.0))

	plateau := int(c.TokenPlateauMonth)
	for m := 1; m <= plateau; m++ {
		if costs.Tokens[m] <= costs.Tokens[m-1] {
			t.Fatalf("Token spend should grow until month %d, flat at month %d", plateau, m)
		}
	}
	if math.Abs(costs.Tokens[plateau+1]-costs.Tokens[plateau]) > 1e-9 {
		t.Errorf("Token volume should plateau after month %d: %v vs %v",
			plateau, costs.Tokens[plateau+1], costs.Tokens[plateau])
	}
}

func TestTrainingBurstThenQuarterlyRefresh(t *testing.T) {
	b, _ := BaselineProfile("startup")
	c, _ := CostPreset("startup")

	adoption := flatAdoption(12, 0.5)
	adoption[0] = 0.1
	adoption[1] = 0.3
	costs := MonthlyCosts(&b, &c, adoption)

	if costs.Training[0] == 0 || costs.Training[1] == 0 {
		t.Error("Onboarding burst missing in the first months")
	}
	if costs.Training[4] != 0 {
		t.Errorf("Unexpected training spend in a non-refresh month: %v", costs.Training[4])
	}
	wantRefresh := c.OngoingTrainingCostAnnual / 4 * adoption[6]
	if math.Abs(costs.Training[6]-wantRefresh) > 1e-9 {
		t.Errorf("Quarterly refresh at month 6 = %v, expected %v", costs.Training[6], wantRefresh)
	}
}

func TestCumulativeIsMonotone(t *testing.T) {
	b, _ := BaselineProfile("enterprise")
	c, _ := CostPreset("enterprise")
	costs := MonthlyCosts(&b, &c, flatAdoption(36, 0.7))

	for m := 1; m < 36; m++ {
		if costs.Cumulative[m] < costs.Cumulative[m-1] {
			t.Fatalf("Cumulative cost decreased at month %d", m)
		}
	}
	sum := 0.0
	for _, v := range costs.Total {
		sum += v
	}
	if math.Abs(sum-costs.Cumulative[35]) > 1e-6 {
		t.Errorf("Cumulative tail %v does not match summed totals %v", costs.Cumulative[35], sum)
	}
}
