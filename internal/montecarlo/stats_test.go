package montecarlo

import (
	"math"
	"testing"
)

func TestPercentileInterpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	cases := []struct {
		q    float64
		want float64
	}{
		{0, 10},
		{0.25, 20},
		{0.5, 30},
		{0.625, 35},
		{1, 50},
	}
	for _, c := range cases {
		if got := Percentile(sorted, c.q); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, expected %v", c.q, got, c.want)
		}
	}

	if got := Percentile([]float64{7}, 0.99); got != 7 {
		t.Errorf("Single-element percentile = %v, expected 7", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Empty percentile = %v, expected 0", got)
	}
}

func TestSummarizeKnownSample(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	s := Summarize(values, 0.95)

	if math.Abs(s.Mean-5) > 1e-9 {
		t.Errorf("Mean = %v, expected 5", s.Mean)
	}
	if math.Abs(s.Std-2) > 1e-9 {
		t.Errorf("Std = %v, expected 2", s.Std)
	}
	if math.Abs(s.Median-4.5) > 1e-9 {
		t.Errorf("Median = %v, expected 4.5", s.Median)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Min/Max = %v/%v, expected 2/9", s.Min, s.Max)
	}
	if s.CILower < s.Min || s.CIUpper > s.Max || s.CILower > s.CIUpper {
		t.Errorf("CI [%v, %v] outside sample range", s.CILower, s.CIUpper)
	}
}

func TestSummarizeConstantSample(t *testing.T) {
	s := Summarize([]float64{3, 3, 3, 3}, 0.9)
	if s.Std != 0 {
		t.Errorf("Constant sample has Std %v", s.Std)
	}
	if s.Skewness != 0 || s.Kurtosis != 0 {
		t.Errorf("Constant sample reports shape %v/%v, expected 0/0", s.Skewness, s.Kurtosis)
	}
	if s.P5 != 3 || s.P95 != 3 {
		t.Errorf("Constant sample percentiles %v/%v, expected 3/3", s.P5, s.P95)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil, 0.95); s != (MetricSummary{}) {
		t.Errorf("Empty sample should produce a zero summary, got %+v", s)
	}
}

func TestPearsonCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	up := []float64{2, 4, 6, 8, 10}
	down := []float64{5, 4, 3, 2, 1}
	flat := []float64{7, 7, 7, 7, 7}

	if r := PearsonCorrelation(xs, up); math.Abs(r-1) > 1e-9 {
		t.Errorf("Perfect positive correlation = %v", r)
	}
	if r := PearsonCorrelation(xs, down); math.Abs(r+1) > 1e-9 {
		t.Errorf("Perfect negative correlation = %v", r)
	}
	if r := PearsonCorrelation(xs, flat); r != 0 {
		t.Errorf("Zero-variance series should correlate at 0, got %v", r)
	}
	if r := PearsonCorrelation(xs, []float64{1, 2}); r != 0 {
		t.Errorf("Mismatched lengths should correlate at 0, got %v", r)
	}
}
