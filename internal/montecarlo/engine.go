package montecarlo

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

// rngStride decorrelates per-iteration seeds derived from the base seed.
const rngStride uint64 = 0x9E3779B97F4A7C15

// Config tunes one Monte Carlo run. Zero values fall back to defaults.
type Config struct {
	Iterations       int     `json:"iterations"`
	Seed             int64   `json:"seed"`
	Workers          int     `json:"workers"`
	Confidence       float64 `json:"confidence"`
	TargetROIPercent float64 `json:"target_roi_percent"`
	BreakevenTarget  int     `json:"breakeven_target_month"`
	MaxFailureRate   float64 `json:"max_failure_rate"`
	RelativeError    float64 `json:"relative_error_threshold"`
}

func (c *Config) applyDefaults() {
	if c.Iterations <= 0 {
		c.Iterations = 10_000
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		c.Confidence = 0.95
	}
	if c.TargetROIPercent == 0 {
		c.TargetROIPercent = 100
	}
	if c.BreakevenTarget <= 0 {
		c.BreakevenTarget = 24
	}
	if c.MaxFailureRate <= 0 {
		c.MaxFailureRate = 0.05
	}
	if c.RelativeError <= 0 {
		c.RelativeError = 0.01
	}
}

// ParamImportance ranks one stochastic parameter by its linear influence on
// NPV across the sample.
type ParamImportance struct {
	Name        string  `json:"name"`
	Correlation float64 `json:"correlation_with_npv"`
}

// Result is the aggregate outcome of a Monte Carlo run.
type Result struct {
	Scenario   string `json:"scenario"`
	Iterations int    `json:"iterations"`
	Failed     int    `json:"failed"`
	Seed       int64  `json:"seed"`

	Metrics map[string]MetricSummary `json:"metrics"`

	ProbPositiveNPV           float64 `json:"prob_positive_npv"`
	ProbROIAboveTarget        float64 `json:"prob_roi_above_target"`
	ProbBreakevenWithinTarget float64 `json:"prob_breakeven_within_target"`
	BreakevenAchievedRate     float64 `json:"breakeven_achieved_rate"`

	ParameterCorrelations map[string]float64 `json:"parameter_correlations"`
	Importance            []ParamImportance  `json:"parameter_importance"`

	Convergence Convergence `json:"convergence"`

	// NPVSamples feeds downstream charts; order matches iteration index
	// with failed iterations removed.
	NPVSamples []float64 `json:"-"`

	RuntimeSeconds float64 `json:"runtime_seconds"`
}

// outcome is one iteration's result. Faults are carried as values so a bad
// draw never aborts the run.
type outcome struct {
	npv        float64
	roi        float64
	breakeven  int
	totalValue float64
	totalCost  float64
	draws      map[string]float64
	err        error
}

// Run executes a full Monte Carlo analysis of the scenario. The sequence of
// outcomes is a pure function of the seed: each iteration derives its own
// generator from the base seed and the iteration index, so parallel and
// sequential execution produce identical results.
func Run(ctx context.Context, sc *scenario.Scenario, cfg Config) (*Result, error) {
	cfg.applyDefaults()

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sampler, err := sc.Sampler()
	if err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	start := time.Now()
	log.Info().
		Str("scenario", sc.Name).
		Int("iterations", cfg.Iterations).
		Int64("seed", cfg.Seed).
		Int("workers", cfg.Workers).
		Msg("monte carlo run started")

	outcomes := make([]outcome, cfg.Iterations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Iterations; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = runIteration(sc, sampler, cfg.Seed, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo interrupted: %w", err)
	}

	result, err := aggregate(sc, cfg, outcomes)
	if err != nil {
		return nil, err
	}
	result.RuntimeSeconds = time.Since(start).Seconds()

	log.Info().
		Str("scenario", sc.Name).
		Int("failed", result.Failed).
		Bool("converged", result.Convergence.Converged).
		Float64("mean_npv", result.Metrics["npv"].Mean).
		Dur("elapsed", time.Since(start)).
		Msg("monte carlo run finished")
	return result, nil
}

// runIteration samples one parameter vector and simulates it. The generator
// is derived from the base seed and the iteration index alone.
func runIteration(sc *scenario.Scenario, sampler paramSampler, seed int64, i int) outcome {
	rng := rand.New(rand.NewSource(int64(uint64(seed) ^ uint64(i+1)*rngStride)))
	draws := sampler.SampleVector(rng)

	in := sc.Inputs
	if err := in.Apply(draws); err != nil {
		return outcome{draws: draws, err: err}
	}
	traj, err := model.Simulate(in)
	if err != nil {
		return outcome{draws: draws, err: errs.NewSimulation(
			fmt.Sprintf("%s/%d", sc.Name, i), err.Error())}
	}
	return outcome{
		npv:        traj.Summary.NPV,
		roi:        traj.Summary.ROIPercent,
		breakeven:  traj.Summary.BreakevenMonth,
		totalValue: traj.Summary.TotalValue,
		totalCost:  traj.Summary.TotalCost,
		draws:      draws,
	}
}

// paramSampler is the slice of the sampling API the engine needs.
type paramSampler interface {
	SampleVector(rng *rand.Rand) map[string]float64
}

func aggregate(sc *scenario.Scenario, cfg Config, outcomes []outcome) (*Result, error) {
	n := len(outcomes)
	npvs := make([]float64, 0, n)
	rois := make([]float64, 0, n)
	values := make([]float64, 0, n)
	costs := make([]float64, 0, n)
	var breakevens []float64

	stochastic := sc.ParameterNames()
	paramDraws := make(map[string][]float64, len(stochastic))
	for _, name := range stochastic {
		paramDraws[name] = make([]float64, 0, n)
	}

	failed := 0
	positiveNPV, roiAbove, breakevenWithin := 0, 0, 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			continue
		}
		npvs = append(npvs, o.npv)
		rois = append(rois, o.roi)
		values = append(values, o.totalValue)
		costs = append(costs, o.totalCost)
		if o.breakeven != model.NoBreakeven {
			breakevens = append(breakevens, float64(o.breakeven))
			if o.breakeven <= cfg.BreakevenTarget {
				breakevenWithin++
			}
		}
		if o.npv > 0 {
			positiveNPV++
		}
		if o.roi > cfg.TargetROIPercent {
			roiAbove++
		}
		for _, name := range stochastic {
			paramDraws[name] = append(paramDraws[name], o.draws[name])
		}
	}

	failureRate := float64(failed) / float64(n)
	if failureRate > cfg.MaxFailureRate {
		return nil, errs.NewSimulation(sc.Name, fmt.Sprintf(
			"%d of %d iterations failed (%.1f%%), exceeding the %.1f%% tolerance",
			failed, n, failureRate*100, cfg.MaxFailureRate*100))
	}
	succeeded := float64(n - failed)

	result := &Result{
		Scenario:   sc.Name,
		Iterations: n,
		Failed:     failed,
		Seed:       cfg.Seed,
		Metrics: map[string]MetricSummary{
			"npv":         Summarize(npvs, cfg.Confidence),
			"roi_percent": Summarize(rois, cfg.Confidence),
			"total_value": Summarize(values, cfg.Confidence),
			"total_cost":  Summarize(costs, cfg.Confidence),
		},
		ProbPositiveNPV:           float64(positiveNPV) / succeeded,
		ProbROIAboveTarget:        float64(roiAbove) / succeeded,
		ProbBreakevenWithinTarget: float64(breakevenWithin) / succeeded,
		BreakevenAchievedRate:     float64(len(breakevens)) / succeeded,
		ParameterCorrelations:     make(map[string]float64, len(stochastic)),
		Convergence:               CheckConvergence(npvs, cfg.RelativeError),
		NPVSamples:                npvs,
	}
	if len(breakevens) > 0 {
		result.Metrics["breakeven_month"] = Summarize(breakevens, cfg.Confidence)
	}

	for _, name := range stochastic {
		r := PearsonCorrelation(paramDraws[name], npvs)
		result.ParameterCorrelations[name] = r
		result.Importance = append(result.Importance, ParamImportance{Name: name, Correlation: r})
	}
	sort.Slice(result.Importance, func(a, b int) bool {
		ra := math.Abs(result.Importance[a].Correlation)
		rb := math.Abs(result.Importance[b].Correlation)
		if ra == rb {
			return result.Importance[a].Name < result.Importance[b].Name
		}
		return ra > rb
	})

	return result, nil
}
