package mcp

import (
	"context"
	"os"
	"strings"
	"testing"

	"impact-mcp/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.AppConfig{
		ScenariosDir:        t.TempDir(),
		ReportsDir:          t.TempDir(),
		CacheDir:            t.TempDir(),
		EnableMermaidCharts: true,
		DefaultIterations:   500,
		DefaultSamples:      128,
		Workers:             4,
		CacheTTLHours:       1,
	}
	return NewServer(cfg, "test")
}

func TestListScenariosIncludesBuiltins(t *testing.T) {
	s := testServer(t)

	_, result, err := s.handleListScenarios(context.Background(), nil, ListScenariosInput{})
	if err != nil {
		t.Fatalf("list_scenarios: %v", err)
	}
	if len(result.Scenarios) == 0 {
		t.Fatal("No scenarios listed")
	}

	found := false
	for _, info := range result.Scenarios {
		if info.Name == "enterprise_rollout" {
			found = true
			if info.StochasticCount == 0 || len(info.Parameters) != info.StochasticCount {
				t.Errorf("Inconsistent stochastic parameters: %+v", info)
			}
			if info.Months <= 0 || info.TeamSize <= 0 {
				t.Errorf("Missing shape fields: %+v", info)
			}
		}
	}
	if !found {
		t.Error("Builtin enterprise_rollout not listed")
	}
}

func TestRunScenarioWithOverridesAndReport(t *testing.T) {
	s := testServer(t)

	_, base, err := s.handleRunScenario(context.Background(), nil, RunScenarioInput{
		Scenario: "enterprise_rollout",
	})
	if err != nil {
		t.Fatalf("run_scenario: %v", err)
	}

	_, boosted, err := s.handleRunScenario(context.Background(), nil, RunScenarioInput{
		Scenario:  "enterprise_rollout",
		Overrides: map[string]float64{"impact.feature_cycle_reduction": 0.45},
		Report:    true,
	})
	if err != nil {
		t.Fatalf("run_scenario with overrides: %v", err)
	}

	if boosted.Summary.NPV <= base.Summary.NPV {
		t.Errorf("Boosted cycle reduction should raise NPV: %v vs %v",
			boosted.Summary.NPV, base.Summary.NPV)
	}
	if boosted.ReportPath == "" {
		t.Fatal("Report requested but no path returned")
	}
	if _, err := os.Stat(boosted.ReportPath); err != nil {
		t.Errorf("Report file missing: %v", err)
	}
	if !strings.Contains(boosted.Markdown, "# Scenario Report: enterprise_rollout") {
		t.Error("Markdown body missing the report heading")
	}
}

func TestRunScenarioUnknownName(t *testing.T) {
	s := testServer(t)
	_, _, err := s.handleRunScenario(context.Background(), nil, RunScenarioInput{Scenario: "nope"})
	if err == nil {
		t.Error("Expected an error for an unknown scenario")
	}
}

func TestMonteCarloSeededRunsAreCached(t *testing.T) {
	s := testServer(t)
	input := RunMonteCarloInput{Scenario: "startup_aggressive", Iterations: 300, Seed: 42}

	_, first, err := s.handleRunMonteCarlo(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("run_monte_carlo: %v", err)
	}
	if first.Cached {
		t.Error("First seeded run should not hit the cache")
	}

	_, second, err := s.handleRunMonteCarlo(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("run_monte_carlo repeat: %v", err)
	}
	if !second.Cached {
		t.Error("Repeated seeded run should come from the cache")
	}
	if first.Result.Metrics["npv"].Mean != second.Result.Metrics["npv"].Mean {
		t.Errorf("Cached mean NPV differs: %v vs %v",
			first.Result.Metrics["npv"].Mean, second.Result.Metrics["npv"].Mean)
	}
}

func TestMonteCarloUnseededRunsSkipCache(t *testing.T) {
	s := testServer(t)
	input := RunMonteCarloInput{Scenario: "startup_aggressive", Iterations: 200}

	for i := 0; i < 2; i++ {
		_, out, err := s.handleRunMonteCarlo(context.Background(), nil, input)
		if err != nil {
			t.Fatalf("run_monte_carlo: %v", err)
		}
		if out.Cached {
			t.Error("Unseeded runs must never come from the cache")
		}
	}
}

func TestRunSensitivity(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleRunSensitivity(context.Background(), nil, RunSensitivityInput{
		Scenario: "scale_up_cautious",
		Samples:  128,
		Seed:     7,
	})
	if err != nil {
		t.Fatalf("run_sensitivity: %v", err)
	}
	if out.Result == nil || len(out.Result.Params) == 0 {
		t.Fatal("Empty sensitivity result")
	}

	_, _, err = s.handleRunSensitivity(context.Background(), nil, RunSensitivityInput{
		Scenario: "scale_up_cautious",
		Samples:  16,
		Seed:     7,
	})
	if err == nil {
		t.Error("Expected rejection of an undersized design")
	}
}

func TestCompareScenarios(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleCompareScenarios(context.Background(), nil, CompareScenariosInput{
		Scenarios: []string{"enterprise_rollout"},
	})
	if err == nil {
		t.Error("Expected rejection of a single-scenario comparison")
	}

	_, out, err := s.handleCompareScenarios(context.Background(), nil, CompareScenariosInput{
		Scenarios: []string{"enterprise_rollout", "startup_aggressive"},
	})
	if err != nil {
		t.Fatalf("compare_scenarios: %v", err)
	}
	if len(out.Comparisons) != 2 {
		t.Fatalf("Got %d comparisons, expected 2", len(out.Comparisons))
	}
	if out.Best != "enterprise_rollout" && out.Best != "startup_aggressive" {
		t.Errorf("Best = %q, expected one of the inputs", out.Best)
	}
	if !strings.Contains(out.Markdown, "# Scenario Comparison") {
		t.Error("Markdown comparison table missing")
	}
}
