package model

import (
	"math"

	"impact-mcp/internal/errs"
)

// NoBreakeven is the sentinel for "cumulative net never turns non-negative
// within the horizon".
const NoBreakeven = -1

// MonthlyRate converts an annual discount rate to its monthly equivalent.
func MonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/MonthsPerYear) - 1
}

// NPVMonthly discounts a series of monthly net cash flows at the given
// annual rate, with month 0 undiscounted.
func NPVMonthly(netFlows []float64, annualRate float64) (float64, error) {
	if len(netFlows) == 0 {
		return 0, errs.NewCalculation("npv", "cash flow series is empty")
	}
	if annualRate <= -1 {
		return 0, errs.NewCalculation("npv", "discount rate would divide by zero")
	}
	monthly := MonthlyRate(annualRate)
	npv := 0.0
	for t, flow := range netFlows {
		npv += flow / math.Pow(1+monthly, float64(t))
	}
	if math.IsNaN(npv) || math.IsInf(npv, 0) {
		return 0, errs.NewCalculation("npv", "non-finite result")
	}
	return npv, nil
}

// BreakevenMonth is the first month where cumulative value covers cumulative
// cost, or NoBreakeven.
func BreakevenMonth(cumulativeValue, cumulativeCost []float64) int {
	for t := range cumulativeValue {
		if cumulativeValue[t] >= cumulativeCost[t] {
			return t
		}
	}
	return NoBreakeven
}

// PaybackMonths interpolates the exact payback point from a cumulative net
// cash flow series. Returns NoBreakeven (as a float) when the series never
// recovers.
func PaybackMonths(cumulativeNet []float64) float64 {
	for t, net := range cumulativeNet {
		if net < 0 {
			continue
		}
		if t == 0 {
			return 0
		}
		prev := cumulativeNet[t-1]
		span := net - prev
		if span <= 0 {
			return float64(t)
		}
		return float64(t-1) + (-prev)/span
	}
	return NoBreakeven
}

// ROIPercent is (value - cost) / cost in percent. A zero-cost scenario with
// positive value returns +Inf by convention of the caller being guarded; here
// it is reported as an error because it means the cost model was degenerate.
func ROIPercent(totalValue, totalCost float64) (float64, error) {
	if totalCost == 0 {
		return 0, errs.NewCalculation("roi", "total cost is zero")
	}
	return (totalValue - totalCost) / totalCost * 100, nil
}

// IRRMonthly finds the monthly internal rate of return of a net cash flow
// series by bisection on the NPV sign change. ok is false when no sign
// change exists or the search fails to bracket a root.
func IRRMonthly(netFlows []float64) (float64, bool) {
	hasPos, hasNeg := false, false
	for _, f := range netFlows {
		if f > 0 {
			hasPos = true
		}
		if f < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return 0, false
	}

	npvAt := func(rate float64) float64 {
		v := 0.0
		for t, f := range netFlows {
			v += f / math.Pow(1+rate, float64(t))
		}
		return v
	}

	lo, hi := -0.99, 10.0
	fLo := npvAt(lo)
	if fLo*npvAt(hi) > 0 {
		return 0, false
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(mid)
		if fLo*fMid <= 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
		if hi-lo < 1e-9 {
			break
		}
	}
	return (lo + hi) / 2, true
}
