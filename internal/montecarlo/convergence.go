package montecarlo

import "math"

// minConvergenceSamples is the floor below which convergence is never
// claimed, regardless of how tight the sample looks.
const minConvergenceSamples = 100

// batchCount for the batch-means stability check.
const batchCount = 10

// Convergence is the diagnostic attached to a Monte Carlo result.
type Convergence struct {
	Converged        bool    `json:"converged"`
	RelativeError    float64 `json:"relative_error"`
	RunningMeanDrift float64 `json:"running_mean_drift"`
	BatchDeviation   float64 `json:"batch_deviation"`
	SamplesRequired  int     `json:"samples_required_estimate"`
}

// CheckConvergence applies three tests to a sample in iteration order: the
// relative Monte Carlo standard error of the mean must be below threshold,
// the running mean must have drifted by less than threshold over the last
// 10% of iterations, and the batch means must agree with the overall mean.
// Fewer than minConvergenceSamples values never converge.
func CheckConvergence(values []float64, threshold float64) Convergence {
	n := len(values)
	if n < minConvergenceSamples {
		return Convergence{Converged: false, RelativeError: math.Inf(1)}
	}

	mean := Mean(values)
	std := sampleStdDev(values, mean)
	scale := mean
	if scale == 0 {
		// A perfectly centered distribution has no meaningful relative
		// error; fall back to the absolute standard error scale.
		scale = 1
	}
	stdErr := std / math.Sqrt(float64(n))
	relErr := math.Abs(stdErr / scale)

	// Running-mean drift over the last 10% of iterations.
	cut := n - n/10
	drift := math.Abs((mean - Mean(values[:cut])) / scale)

	// Batch means: split into fixed-count batches and measure the worst
	// batch-mean deviation relative to the overall mean.
	batchSize := n / batchCount
	worst := 0.0
	for b := 0; b < batchCount; b++ {
		batch := values[b*batchSize : (b+1)*batchSize]
		dev := math.Abs((Mean(batch) - mean) / scale)
		if dev > worst {
			worst = dev
		}
	}

	conv := Convergence{
		RelativeError:    relErr,
		RunningMeanDrift: drift,
		BatchDeviation:   worst,
	}
	conv.Converged = relErr < threshold && drift < threshold && worst < threshold*10

	// Invert the standard error formula for a rough sample size estimate.
	if relErr > 0 && threshold > 0 {
		ratio := relErr / threshold
		conv.SamplesRequired = int(math.Ceil(float64(n) * ratio * ratio))
	}
	return conv
}
