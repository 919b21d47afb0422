// Package montecarlo runs N-iteration probabilistic analyses over the
// deterministic simulator, with correlated parameter sampling, summary
// statistics, risk probabilities and convergence diagnostics.
package montecarlo

import (
	"math"
	"slices"
)

// MetricSummary is the empirical distribution summary for one output metric.
type MetricSummary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P5       float64 `json:"p5"`
	P10      float64 `json:"p10"`
	P25      float64 `json:"p25"`
	P75      float64 `json:"p75"`
	P90      float64 `json:"p90"`
	P95      float64 `json:"p95"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Summarize computes the full summary for a sample, with the confidence
// interval at the given level.
func Summarize(values []float64, confidence float64) MetricSummary {
	if len(values) == 0 {
		return MetricSummary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean := Mean(values)
	std := StdDev(values, mean)
	alpha := (1 - confidence) / 2

	return MetricSummary{
		Mean:     mean,
		Median:   Percentile(sorted, 0.50),
		Std:      std,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		P5:       Percentile(sorted, 0.05),
		P10:      Percentile(sorted, 0.10),
		P25:      Percentile(sorted, 0.25),
		P75:      Percentile(sorted, 0.75),
		P90:      Percentile(sorted, 0.90),
		P95:      Percentile(sorted, 0.95),
		CILower:  Percentile(sorted, alpha),
		CIUpper:  Percentile(sorted, 1-alpha),
		Skewness: standardizedMoment(values, mean, std, 3),
		Kurtosis: standardizedMoment(values, mean, std, 4) - 3,
	}
}

// Mean is the arithmetic mean, accumulated with Neumaier compensation so a
// zero-variance sample keeps its mean at the shared value.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return compensatedSum(values) / float64(len(values))
}

// compensatedSum is Neumaier's variant of Kahan summation.
func compensatedSum(values []float64) float64 {
	sum, comp := 0.0, 0.0
	for _, v := range values {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			comp += (sum - t) + v
		} else {
			comp += (v - t) + sum
		}
		sum = t
	}
	return sum + comp
}

// StdDev is the population standard deviation around a known mean.
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func standardizedMoment(values []float64, mean, std float64, order float64) float64 {
	if std == 0 || len(values) == 0 {
		if order == 4 {
			return 3 // reported kurtosis excess works out to zero
		}
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Pow((v-mean)/std, order)
	}
	return sum / float64(len(values))
}

// Percentile interpolates linearly between order statistics. The input must
// already be sorted.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// PearsonCorrelation is the linear correlation between two equal-length
// samples, or 0 when either sample has zero variance.
func PearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) == 0 {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}
