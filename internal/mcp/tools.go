package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"impact-mcp/internal/cache"
	"impact-mcp/internal/model"
	"impact-mcp/internal/montecarlo"
	"impact-mcp/internal/report"
	"impact-mcp/internal/scenario"
	"impact-mcp/internal/sensitivity"
)

// --- list_scenarios ---

type ListScenariosInput struct{}

type ScenarioInfo struct {
	Name            string   `json:"name" jsonschema:"scenario name usable in other tools"`
	Description     string   `json:"description,omitempty" jsonschema:"what the scenario models"`
	Months          int      `json:"timeframe_months" jsonschema:"analysis horizon in months"`
	TeamSize        float64  `json:"team_size" jsonschema:"baseline team size"`
	StochasticCount int      `json:"stochastic_parameters" jsonschema:"number of parameters with declared distributions"`
	Parameters      []string `json:"parameters,omitempty" jsonschema:"stochastic parameter names"`
}

type ListScenariosResult struct {
	Scenarios []ScenarioInfo `json:"scenarios" jsonschema:"available scenarios, builtin and from the scenarios folder"`
}

func listScenariosTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "list_scenarios",
		Description: "List the available analysis scenarios with their horizon, team size and stochastic parameters.",
	}
}

func (s *Server) handleListScenarios(_ context.Context, _ *sdk.CallToolRequest, _ ListScenariosInput) (*sdk.CallToolResult, ListScenariosResult, error) {
	names, err := scenario.List(s.cfg.ScenariosDir)
	if err != nil {
		return nil, ListScenariosResult{}, err
	}

	var result ListScenariosResult
	for _, name := range names {
		sc, err := scenario.Resolve(s.cfg.ScenariosDir, name)
		if err != nil {
			log.Warn().Err(err).Str("scenario", name).Msg("Skipping unloadable scenario")
			continue
		}
		params := sc.ParameterNames()
		result.Scenarios = append(result.Scenarios, ScenarioInfo{
			Name:            sc.Name,
			Description:     sc.Description,
			Months:          sc.Inputs.Months,
			TeamSize:        sc.Inputs.Baseline.TeamSize,
			StochasticCount: len(params),
			Parameters:      params,
		})
	}
	return nil, result, nil
}

// --- run_scenario ---

type RunScenarioInput struct {
	Scenario  string             `json:"scenario" jsonschema:"scenario name from list_scenarios"`
	Overrides map[string]float64 `json:"overrides,omitempty" jsonschema:"dotted parameter overrides applied before the run"`
	Report    bool               `json:"report,omitempty" jsonschema:"also write a Markdown report to the reports folder"`
}

type RunScenarioResult struct {
	Scenario   string        `json:"scenario"`
	Summary    model.Summary `json:"summary" jsonschema:"NPV, ROI, breakeven and totals for the deterministic run"`
	ReportPath string        `json:"report_path,omitempty" jsonschema:"path of the written report, when requested"`
	Markdown   string        `json:"markdown" jsonschema:"rendered report body"`
}

func runScenarioTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "run_scenario",
		Description: "Run one deterministic simulation of a scenario and return its financial summary.",
	}
}

func (s *Server) handleRunScenario(_ context.Context, _ *sdk.CallToolRequest, input RunScenarioInput) (*sdk.CallToolResult, RunScenarioResult, error) {
	sc, err := scenario.Resolve(s.cfg.ScenariosDir, input.Scenario)
	if err != nil {
		return nil, RunScenarioResult{}, err
	}
	if err := sc.Inputs.Apply(input.Overrides); err != nil {
		return nil, RunScenarioResult{}, err
	}

	traj, err := model.Simulate(sc.Inputs)
	if err != nil {
		return nil, RunScenarioResult{}, err
	}

	markdown := report.RenderScenario(sc, traj, s.cfg.EnableMermaidCharts)
	result := RunScenarioResult{
		Scenario: sc.Name,
		Summary:  traj.Summary,
		Markdown: markdown,
	}
	if input.Report {
		path, err := s.reportOptions().Write(sc.Name+"-run", markdown)
		if err != nil {
			return nil, RunScenarioResult{}, err
		}
		result.ReportPath = path
	}
	return nil, result, nil
}

// --- run_monte_carlo ---

type RunMonteCarloInput struct {
	Scenario   string  `json:"scenario" jsonschema:"scenario name from list_scenarios"`
	Iterations int     `json:"iterations,omitempty" jsonschema:"iteration count, default 10000"`
	Seed       int64   `json:"seed,omitempty" jsonschema:"RNG seed for reproducible runs, random when omitted"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"confidence level for intervals, default 0.95"`
	Report     bool    `json:"report,omitempty" jsonschema:"also write a Markdown report to the reports folder"`
}

type RunMonteCarloResult struct {
	Result     *montecarlo.Result `json:"result" jsonschema:"distribution summaries, risk probabilities and convergence diagnostics"`
	ReportPath string             `json:"report_path,omitempty" jsonschema:"path of the written report, when requested"`
	Cached     bool               `json:"cached" jsonschema:"whether the result came from the snapshot cache"`
}

func runMonteCarloTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "run_monte_carlo",
		Description: "Run a Monte Carlo analysis of a scenario: outcome distributions, risk probabilities, parameter influence and convergence diagnostics.",
	}
}

func (s *Server) handleRunMonteCarlo(ctx context.Context, _ *sdk.CallToolRequest, input RunMonteCarloInput) (*sdk.CallToolResult, RunMonteCarloResult, error) {
	sc, err := scenario.Resolve(s.cfg.ScenariosDir, input.Scenario)
	if err != nil {
		return nil, RunMonteCarloResult{}, err
	}

	cfg := montecarlo.Config{
		Iterations: input.Iterations,
		Seed:       input.Seed,
		Confidence: input.Confidence,
		Workers:    s.cfg.Workers,
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = s.cfg.DefaultIterations
	}

	var out RunMonteCarloResult
	// Seeded runs are pure functions of their inputs, so they are safe to
	// serve from the snapshot cache.
	var key string
	if input.Seed != 0 {
		key = cache.Key("mc", sc.Name, input.Seed, cfg.Iterations)
		var cached montecarlo.Result
		if s.cache.Get(key, &cached) {
			out.Result = &cached
			out.Cached = true
		}
	}
	if out.Result == nil {
		result, err := montecarlo.Run(ctx, sc, cfg)
		if err != nil {
			return nil, RunMonteCarloResult{}, err
		}
		out.Result = result
		if key != "" {
			if err := s.cache.Put(key, result); err != nil {
				log.Warn().Err(err).Msg("Failed to cache monte carlo result")
			}
		}
	}

	if input.Report {
		markdown := report.RenderMonteCarlo(out.Result, s.cfg.EnableMermaidCharts)
		path, err := s.reportOptions().Write(sc.Name+"-montecarlo", markdown)
		if err != nil {
			return nil, RunMonteCarloResult{}, err
		}
		out.ReportPath = path
	}
	return nil, out, nil
}

// --- run_sensitivity ---

type RunSensitivityInput struct {
	Scenario string   `json:"scenario" jsonschema:"scenario name from list_scenarios"`
	Samples  int      `json:"samples,omitempty" jsonschema:"base sample count N, total evaluations are N*(k+2), default 1024"`
	Seed     int64    `json:"seed,omitempty" jsonschema:"RNG seed for a reproducible design matrix"`
	Varying  []string `json:"varying,omitempty" jsonschema:"parameter subset to analyze, defaults to every stochastic parameter"`
	Report   bool     `json:"report,omitempty" jsonschema:"also write a Markdown report to the reports folder"`
}

type RunSensitivityResult struct {
	Result     *sensitivity.Result `json:"result" jsonschema:"Sobol indices, interactions and variance explained"`
	ReportPath string              `json:"report_path,omitempty" jsonschema:"path of the written report, when requested"`
}

func runSensitivityTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "run_sensitivity",
		Description: "Run a variance-based (Sobol) sensitivity analysis of NPV over a scenario's stochastic parameters.",
	}
}

func (s *Server) handleRunSensitivity(ctx context.Context, _ *sdk.CallToolRequest, input RunSensitivityInput) (*sdk.CallToolResult, RunSensitivityResult, error) {
	sc, err := scenario.Resolve(s.cfg.ScenariosDir, input.Scenario)
	if err != nil {
		return nil, RunSensitivityResult{}, err
	}

	cfg := sensitivity.Config{
		Samples: input.Samples,
		Seed:    input.Seed,
		Workers: s.cfg.Workers,
	}
	if cfg.Samples <= 0 {
		cfg.Samples = s.cfg.DefaultSamples
	}

	result, err := sensitivity.Analyze(ctx, sc, input.Varying, cfg)
	if err != nil {
		return nil, RunSensitivityResult{}, err
	}

	out := RunSensitivityResult{Result: result}
	if input.Report {
		markdown := report.RenderSensitivity(result, s.cfg.EnableMermaidCharts)
		path, err := s.reportOptions().Write(sc.Name+"-sensitivity", markdown)
		if err != nil {
			return nil, RunSensitivityResult{}, err
		}
		out.ReportPath = path
	}
	return nil, out, nil
}

// --- compare_scenarios ---

type CompareScenariosInput struct {
	Scenarios []string `json:"scenarios" jsonschema:"two or more scenario names to compare"`
	Report    bool     `json:"report,omitempty" jsonschema:"also write a Markdown report to the reports folder"`
}

type ScenarioComparison struct {
	Name    string        `json:"name"`
	Summary model.Summary `json:"summary"`
}

type CompareScenariosResult struct {
	Comparisons []ScenarioComparison `json:"comparisons" jsonschema:"deterministic summary per scenario, in request order"`
	Best        string               `json:"best_by_npv" jsonschema:"scenario with the highest NPV"`
	Markdown    string               `json:"markdown" jsonschema:"rendered comparison table"`
	ReportPath  string               `json:"report_path,omitempty"`
}

func compareScenariosTool() *sdk.Tool {
	// The inferred schema cannot express the two-scenario minimum, so this
	// tool declares its input schema explicitly.
	minScenarios := 2
	return &sdk.Tool{
		Name:        "compare_scenarios",
		Description: "Run several scenarios deterministically and compare their NPV, ROI and breakeven side by side.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"scenarios": {
					Type:        "array",
					Description: "two or more scenario names to compare",
					Items:       &jsonschema.Schema{Type: "string"},
					MinItems:    &minScenarios,
				},
				"report": {
					Type:        "boolean",
					Description: "also write a Markdown report to the reports folder",
				},
			},
			Required: []string{"scenarios"},
		},
	}
}

func (s *Server) handleCompareScenarios(_ context.Context, _ *sdk.CallToolRequest, input CompareScenariosInput) (*sdk.CallToolResult, CompareScenariosResult, error) {
	if len(input.Scenarios) < 2 {
		return nil, CompareScenariosResult{}, fmt.Errorf("compare_scenarios needs at least two scenario names, got %d", len(input.Scenarios))
	}

	var out CompareScenariosResult
	var trajectories []*model.Trajectory
	bestNPV := 0.0
	for i, name := range input.Scenarios {
		sc, err := scenario.Resolve(s.cfg.ScenariosDir, name)
		if err != nil {
			return nil, CompareScenariosResult{}, err
		}
		traj, err := model.Simulate(sc.Inputs)
		if err != nil {
			return nil, CompareScenariosResult{}, err
		}
		trajectories = append(trajectories, traj)
		out.Comparisons = append(out.Comparisons, ScenarioComparison{Name: sc.Name, Summary: traj.Summary})
		if i == 0 || traj.Summary.NPV > bestNPV {
			bestNPV = traj.Summary.NPV
			out.Best = sc.Name
		}
	}

	out.Markdown = report.RenderComparison(input.Scenarios, trajectories)
	if input.Report {
		path, err := s.reportOptions().Write("comparison", out.Markdown)
		if err != nil {
			return nil, CompareScenariosResult{}, err
		}
		out.ReportPath = path
	}
	return nil, out, nil
}
