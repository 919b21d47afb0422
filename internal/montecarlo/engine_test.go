package montecarlo

import (
	"context"
	"errors"
	"math"
	"testing"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/model"
	"impact-mcp/internal/sampling"
	"impact-mcp/internal/scenario"
)

func testScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, ok := scenario.Builtin("enterprise_rollout")
	if !ok {
		t.Fatal("Missing builtin enterprise_rollout")
	}
	sc.Inputs.Months = 12
	return sc
}

func testConfig(seed int64) Config {
	return Config{Iterations: 600, Seed: seed, Workers: 4}
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	ctx := context.Background()
	sc := testScenario(t)

	cfg := testConfig(42)
	cfg.Workers = 1
	serial, err := Run(ctx, sc, cfg)
	if err != nil {
		t.Fatalf("Run(1 worker): %v", err)
	}

	cfg = testConfig(42)
	cfg.Workers = 8
	parallel, err := Run(ctx, sc, cfg)
	if err != nil {
		t.Fatalf("Run(8 workers): %v", err)
	}

	if serial.Metrics["npv"] != parallel.Metrics["npv"] {
		t.Errorf("Same seed, different NPV summaries:\n%+v\n%+v",
			serial.Metrics["npv"], parallel.Metrics["npv"])
	}
	if serial.ProbPositiveNPV != parallel.ProbPositiveNPV {
		t.Errorf("Same seed, different positive-NPV probabilities: %v vs %v",
			serial.ProbPositiveNPV, parallel.ProbPositiveNPV)
	}
	if len(serial.NPVSamples) != len(parallel.NPVSamples) {
		t.Fatalf("Sample counts differ: %d vs %d", len(serial.NPVSamples), len(parallel.NPVSamples))
	}
	for i := range serial.NPVSamples {
		if serial.NPVSamples[i] != parallel.NPVSamples[i] {
			t.Fatalf("NPV sample %d differs: %v vs %v", i, serial.NPVSamples[i], parallel.NPVSamples[i])
		}
	}
}

func TestIterationStreamsAreDecorrelated(t *testing.T) {
	sc := testScenario(t)
	sampler, err := sc.Sampler()
	if err != nil {
		t.Fatalf("Sampler: %v", err)
	}

	names := sc.ParameterNames()
	seen := map[float64]bool{}
	for _, i := range []int{0, 1, 2, 1 << 20, 1<<31 - 1} {
		o := runIteration(sc, sampler, 42, i)
		if o.err != nil {
			t.Fatalf("Iteration %d faulted: %v", i, o.err)
		}
		for _, name := range names {
			seen[o.draws[name]] = true
		}
	}
	if len(seen) < 2*len(names) {
		t.Errorf("Derived streams repeat draws: %d distinct values for %d parameters",
			len(seen), len(names))
	}
}

func TestDeterministicScenarioCollapsesToPointRun(t *testing.T) {
	sc := testScenario(t)
	ptrs := sc.Inputs.ParamPointers()
	for name := range sc.Distributions {
		sc.Distributions[name] = sampling.Deterministic(*ptrs[name])
	}
	sc.Correlations = nil

	point, err := model.Simulate(sc.Inputs)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	res, err := Run(context.Background(), sc, testConfig(11))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, v := range res.NPVSamples {
		if v != point.Summary.NPV {
			t.Fatalf("Sample %d = %v, point NPV %v", i, v, point.Summary.NPV)
		}
	}
	m := res.Metrics["npv"]
	if m.Min != point.Summary.NPV || m.Max != point.Summary.NPV || m.Median != point.Summary.NPV {
		t.Errorf("Degenerate summary [%v, %v, %v] should pin to %v",
			m.Min, m.Median, m.Max, point.Summary.NPV)
	}
	tol := 1e-12 * math.Abs(point.Summary.NPV)
	if math.Abs(m.Mean-point.Summary.NPV) > tol {
		t.Errorf("Mean %v drifted from the point NPV %v", m.Mean, point.Summary.NPV)
	}
	if m.Std > tol {
		t.Errorf("Zero-variance sample reports std %v", m.Std)
	}
	if !res.Convergence.Converged {
		t.Error("A constant sample should converge")
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	ctx := context.Background()

	a, err := Run(ctx, testScenario(t), testConfig(1))
	if err != nil {
		t.Fatalf("Run(seed 1): %v", err)
	}
	b, err := Run(ctx, testScenario(t), testConfig(2))
	if err != nil {
		t.Fatalf("Run(seed 2): %v", err)
	}
	if a.Metrics["npv"].Mean == b.Metrics["npv"].Mean {
		t.Error("Different seeds produced identical mean NPV")
	}
}

func TestRunResultShape(t *testing.T) {
	sc := testScenario(t)
	res, err := Run(context.Background(), sc, testConfig(9))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Iterations != 600 {
		t.Errorf("Iterations = %d, expected 600", res.Iterations)
	}
	if res.Seed != 9 {
		t.Errorf("Seed = %d, expected 9", res.Seed)
	}
	for _, key := range []string{"npv", "roi_percent", "total_value", "total_cost"} {
		if _, ok := res.Metrics[key]; !ok {
			t.Errorf("Missing metric %s", key)
		}
	}
	for name, p := range map[string]float64{
		"prob_positive_npv":            res.ProbPositiveNPV,
		"prob_roi_above_target":        res.ProbROIAboveTarget,
		"prob_breakeven_within_target": res.ProbBreakevenWithinTarget,
		"breakeven_achieved_rate":      res.BreakevenAchievedRate,
	} {
		if p < 0 || p > 1 {
			t.Errorf("%s = %v outside [0, 1]", name, p)
		}
	}

	stochastic := sc.ParameterNames()
	if len(res.ParameterCorrelations) != len(stochastic) {
		t.Errorf("Got correlations for %d parameters, expected %d",
			len(res.ParameterCorrelations), len(stochastic))
	}
	if len(res.Importance) != len(stochastic) {
		t.Fatalf("Got importance for %d parameters, expected %d",
			len(res.Importance), len(stochastic))
	}
	for i := 1; i < len(res.Importance); i++ {
		if math.Abs(res.Importance[i].Correlation) > math.Abs(res.Importance[i-1].Correlation) {
			t.Errorf("Importance not sorted by influence at position %d", i)
		}
	}
}

func TestZeroSeedIsReplaced(t *testing.T) {
	res, err := Run(context.Background(), testScenario(t), testConfig(0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Seed == 0 {
		t.Error("Unseeded run should record the seed it chose")
	}
}

func TestSystematicFailuresAbortTheRun(t *testing.T) {
	sc := testScenario(t)
	// Every draw pushes the team size negative, so every iteration faults.
	neg := -50.0
	hi := -1.0
	sc.Distributions["baseline.team_size"] = &sampling.Spec{
		Kind: sampling.KindUniform, Min: &neg, Max: &hi,
	}

	_, err := Run(context.Background(), sc, testConfig(5))
	if err == nil {
		t.Fatal("Expected the run to abort on a systematic failure rate")
	}
	if !errors.As(err, new(*errs.SimulationError)) {
		t.Errorf("Expected SimulationError, got %T: %v", err, err)
	}
}

func TestCancelledContextStopsTheRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, testScenario(t), testConfig(3)); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}

func TestInvalidScenarioRejected(t *testing.T) {
	sc := testScenario(t)
	sc.Name = ""
	if _, err := Run(context.Background(), sc, testConfig(3)); err == nil {
		t.Error("Expected validation to reject a nameless scenario")
	}
}
