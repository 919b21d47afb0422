package montecarlo

import (
	"math"
	"math/rand"
	"testing"
)

func TestConvergenceNeedsMinimumSamples(t *testing.T) {
	values := make([]float64, minConvergenceSamples-1)
	for i := range values {
		values[i] = 100
	}
	conv := CheckConvergence(values, 0.01)
	if conv.Converged {
		t.Error("Sample below the floor must never converge")
	}
	if !math.IsInf(conv.RelativeError, 1) {
		t.Errorf("Short sample relative error = %v, expected +Inf", conv.RelativeError)
	}
}

func TestConstantSampleConverges(t *testing.T) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = 42
	}
	conv := CheckConvergence(values, 0.01)
	if !conv.Converged {
		t.Errorf("Constant sample should converge: %+v", conv)
	}
	if conv.RelativeError != 0 || conv.RunningMeanDrift != 0 || conv.BatchDeviation != 0 {
		t.Errorf("Constant sample has nonzero diagnostics: %+v", conv)
	}
}

func TestNoisySampleFailsTightThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 200)
	for i := range values {
		values[i] = 100 + 50*rng.NormFloat64()
	}

	conv := CheckConvergence(values, 1e-6)
	if conv.Converged {
		t.Error("Noisy sample converged under an impossible threshold")
	}
	if conv.SamplesRequired <= len(values) {
		t.Errorf("Samples-required estimate %d should exceed the current %d",
			conv.SamplesRequired, len(values))
	}
}

func TestLargeSampleConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 50_000)
	for i := range values {
		values[i] = 1000 + 10*rng.NormFloat64()
	}

	conv := CheckConvergence(values, 0.01)
	if !conv.Converged {
		t.Errorf("Tight large sample should converge: %+v", conv)
	}
	want := (10 / math.Sqrt(50_000)) / 1000
	if math.Abs(conv.RelativeError-want) > want {
		t.Errorf("Relative error %v far from the analytic %v", conv.RelativeError, want)
	}
}

func TestZeroMeanUsesAbsoluteScale(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		if i%2 == 0 {
			values[i] = 1
		} else {
			values[i] = -1
		}
	}
	conv := CheckConvergence(values, 0.5)
	if math.IsNaN(conv.RelativeError) || math.IsInf(conv.RelativeError, 0) {
		t.Errorf("Zero-mean sample produced a non-finite relative error: %v", conv.RelativeError)
	}
	if !conv.Converged {
		t.Errorf("Alternating sample should converge at a loose threshold: %+v", conv)
	}
}
