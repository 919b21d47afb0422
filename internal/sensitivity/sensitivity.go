// Package sensitivity performs variance-based global sensitivity analysis
// over the scenario simulator using the Saltelli sampling scheme and the
// standard Monte Carlo Sobol estimators.
package sensitivity

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/model"
	"impact-mcp/internal/scenario"
)

// minBaseSamples is the floor on the base sample count regardless of
// dimension.
const minBaseSamples = 64

// Config tunes one sensitivity run. Zero values fall back to defaults.
type Config struct {
	Samples int   `json:"samples"`
	Seed    int64 `json:"seed"`
	Workers int   `json:"workers"`

	// InteractionThreshold flags a parameter pair for explicit second-order
	// estimation when both members carry at least this much interaction
	// strength (total effect minus first order).
	InteractionThreshold float64 `json:"interaction_threshold"`

	// VarianceExplainedFloor is the minimum sum of first-order indices for
	// the run to count as converged.
	VarianceExplainedFloor float64 `json:"variance_explained_floor"`

	MaxFailureRate float64 `json:"max_failure_rate"`
}

func (c *Config) applyDefaults() {
	if c.Samples <= 0 {
		c.Samples = 1024
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.InteractionThreshold <= 0 {
		c.InteractionThreshold = 0.05
	}
	if c.VarianceExplainedFloor <= 0 {
		c.VarianceExplainedFloor = 0.7
	}
	if c.MaxFailureRate <= 0 {
		c.MaxFailureRate = 0.05
	}
}

// ParamIndices holds the Sobol indices for one parameter.
type ParamIndices struct {
	Name        string  `json:"name"`
	FirstOrder  float64 `json:"first_order"`
	TotalEffect float64 `json:"total_effect"`
	Interaction float64 `json:"interaction_strength"`
}

// PairInteraction is an explicit second-order index for a flagged pair.
type PairInteraction struct {
	A           string  `json:"param1"`
	B           string  `json:"param2"`
	SecondOrder float64 `json:"second_order"`
}

// Result is the outcome of one sensitivity run. Params are sorted by total
// effect, strongest first.
type Result struct {
	Scenario    string `json:"scenario"`
	Target      string `json:"target"`
	Samples     int    `json:"samples"`
	Evaluations int    `json:"evaluations"`
	Failed      int    `json:"failed_rows"`
	Seed        int64  `json:"seed"`

	Params []ParamIndices    `json:"parameters"`
	Pairs  []PairInteraction `json:"pair_interactions,omitempty"`

	VarianceExplained float64 `json:"variance_explained"`

	// Converged is false when the first-order indices fail to account for
	// enough of the output variance, which signals either a flat response
	// surface or an insufficient sample count.
	Converged bool `json:"converged"`

	RuntimeSeconds float64 `json:"runtime_seconds"`
}

// Analyze runs a Sobol decomposition of NPV over the varying parameters.
// When varying is empty, every stochastic parameter of the scenario varies.
// The design matrix is a pure function of the seed, so repeated runs and
// parallel execution reproduce exactly.
func Analyze(ctx context.Context, sc *scenario.Scenario, varying []string, cfg Config) (*Result, error) {
	cfg.applyDefaults()

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if len(varying) == 0 {
		varying = sc.ParameterNames()
	}
	k := len(varying)
	if k == 0 {
		return nil, errs.NewValidation("varying", varying, "at least one stochastic parameter")
	}
	for _, name := range varying {
		spec, ok := sc.Distributions[name]
		if !ok {
			return nil, errs.NewValidation("varying", name, "a parameter with a declared distribution")
		}
		if spec.IsDeterministic() {
			return nil, errs.NewValidation("varying", name, "a stochastic parameter")
		}
	}
	if cfg.Samples < minBaseSamples || cfg.Samples < 16*k {
		return nil, errs.NewValidation("samples", cfg.Samples,
			fmt.Sprintf("at least max(%d, 16*k) base samples for k=%d parameters", minBaseSamples, k))
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	start := time.Now()
	n := cfg.Samples
	evaluations := n * (k + 2)
	log.Info().
		Str("scenario", sc.Name).
		Int("samples", n).
		Int("parameters", k).
		Int("evaluations", evaluations).
		Int64("seed", cfg.Seed).
		Msg("sensitivity analysis started")

	// Saltelli design: two independent base matrices A and B in the unit
	// hypercube, plus k column-swapped hybrids. Generation is sequential
	// from one seeded stream so the design depends only on the seed.
	rng := rand.New(rand.NewSource(cfg.Seed))
	a := unitMatrix(rng, n, k)
	b := unitMatrix(rng, n, k)

	yA, okA, err := evaluate(ctx, sc, varying, a, cfg.Workers)
	if err != nil {
		return nil, err
	}
	yB, okB, err := evaluate(ctx, sc, varying, b, cfg.Workers)
	if err != nil {
		return nil, err
	}

	yAB := make([][]float64, k)
	okAB := make([][]bool, k)
	for i := 0; i < k; i++ {
		abi := swapColumn(a, b, i)
		yAB[i], okAB[i], err = evaluate(ctx, sc, varying, abi, cfg.Workers)
		if err != nil {
			return nil, err
		}
	}

	// A design row enters the estimators only when every evaluation that
	// shares it succeeded, so the paired differences stay aligned.
	valid := make([]bool, n)
	failed := 0
	for r := 0; r < n; r++ {
		valid[r] = okA[r] && okB[r]
		for i := 0; valid[r] && i < k; i++ {
			valid[r] = okAB[i][r]
		}
		if !valid[r] {
			failed++
		}
	}
	failureRate := float64(failed) / float64(n)
	if failureRate > cfg.MaxFailureRate {
		return nil, errs.NewSimulation(sc.Name, fmt.Sprintf(
			"%d of %d design rows failed (%.1f%%), exceeding the %.1f%% tolerance",
			failed, n, failureRate*100, cfg.MaxFailureRate*100))
	}

	result := computeIndices(varying, yA, yB, yAB, valid, cfg)
	result.Scenario = sc.Name
	result.Target = "npv"
	result.Samples = n
	result.Evaluations = evaluations
	result.Failed = failed
	result.Seed = cfg.Seed
	result.RuntimeSeconds = time.Since(start).Seconds()

	log.Info().
		Str("scenario", sc.Name).
		Float64("variance_explained", result.VarianceExplained).
		Bool("converged", result.Converged).
		Dur("elapsed", time.Since(start)).
		Msg("sensitivity analysis finished")
	return result, nil
}

func unitMatrix(rng *rand.Rand, n, k int) [][]float64 {
	m := make([][]float64, n)
	for r := range m {
		m[r] = make([]float64, k)
		for c := range m[r] {
			m[r][c] = rng.Float64()
		}
	}
	return m
}

func swapColumn(a, b [][]float64, col int) [][]float64 {
	n, k := len(a), len(a[0])
	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		out[r] = make([]float64, k)
		copy(out[r], a[r])
		out[r][col] = b[r][col]
	}
	return out
}

// evaluate maps each unit-hypercube row to parameter values through the
// declared inverse CDFs, simulates it, and extracts NPV. Rows that fault
// are marked invalid instead of aborting the pass.
func evaluate(ctx context.Context, sc *scenario.Scenario, varying []string, design [][]float64, workers int) ([]float64, []bool, error) {
	n := len(design)
	out := make([]float64, n)
	ok := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r := 0; r < n; r++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values := make(map[string]float64, len(varying))
			for c, name := range varying {
				values[name] = sc.Distributions[name].Quantile(design[r][c])
			}
			in := sc.Inputs
			if err := in.Apply(values); err != nil {
				return err
			}
			traj, err := model.Simulate(in)
			if err != nil {
				return nil
			}
			out[r] = traj.Summary.NPV
			ok[r] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("sensitivity evaluation interrupted: %w", err)
	}
	return out, ok, nil
}

// computeIndices applies the Saltelli first-order and Jansen total-effect
// estimators over the valid rows, plus explicit second-order estimates for
// pairs whose interaction strength clears the threshold.
func computeIndices(varying []string, yA, yB []float64, yAB [][]float64, valid []bool, cfg Config) *Result {
	k := len(varying)
	var fA, fB []float64
	for r, v := range valid {
		if v {
			fA = append(fA, yA[r])
			fB = append(fB, yB[r])
		}
	}
	m := float64(len(fA))
	result := &Result{}

	variance := sampleVariance(append(append([]float64{}, fA...), fB...))
	if variance == 0 || m == 0 {
		// Flat response surface: no variance to decompose.
		result.Params = make([]ParamIndices, k)
		for i, name := range varying {
			result.Params[i] = ParamIndices{Name: name}
		}
		return result
	}

	firstOrder := make([]float64, k)
	totalEffect := make([]float64, k)
	for i := 0; i < k; i++ {
		sumFirst, sumTotal := 0.0, 0.0
		for r, v := range valid {
			if !v {
				continue
			}
			sumFirst += yB[r] * (yAB[i][r] - yA[r])
			d := yA[r] - yAB[i][r]
			sumTotal += d * d
		}
		firstOrder[i] = math.Max(0, sumFirst/m/variance)
		totalEffect[i] = math.Max(0, 0.5*sumTotal/m/variance)
	}

	result.Params = make([]ParamIndices, k)
	for i, name := range varying {
		result.Params[i] = ParamIndices{
			Name:        name,
			FirstOrder:  firstOrder[i],
			TotalEffect: totalEffect[i],
			Interaction: math.Max(0, totalEffect[i]-firstOrder[i]),
		}
		result.VarianceExplained += firstOrder[i]
	}

	meanA, meanB := meanOf(fA), meanOf(fB)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if result.Params[i].Interaction < cfg.InteractionThreshold ||
				result.Params[j].Interaction < cfg.InteractionThreshold {
				continue
			}
			sum := 0.0
			for r, v := range valid {
				if v {
					sum += yAB[i][r] * yAB[j][r]
				}
			}
			closed := (sum/m - meanA*meanB) / variance
			second := math.Max(0, closed-firstOrder[i]-firstOrder[j])
			result.Pairs = append(result.Pairs, PairInteraction{
				A: varying[i], B: varying[j], SecondOrder: second,
			})
		}
	}

	sort.Slice(result.Params, func(a, b int) bool {
		if result.Params[a].TotalEffect == result.Params[b].TotalEffect {
			return result.Params[a].Name < result.Params[b].Name
		}
		return result.Params[a].TotalEffect > result.Params[b].TotalEffect
	})
	sort.Slice(result.Pairs, func(a, b int) bool {
		return result.Pairs[a].SecondOrder > result.Pairs[b].SecondOrder
	})

	result.Converged = result.VarianceExplained > cfg.VarianceExplainedFloor
	return result
}

// meanOf is the arithmetic mean.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values)-1)
}
