package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"impact-mcp/internal/errs"
	"impact-mcp/internal/model"
	"impact-mcp/internal/sampling"
)

// DefaultMonths is the analysis horizon used when a scenario omits it.
const DefaultMonths = 36

// DefaultDiscountRate is the annual discount rate used when omitted.
const DefaultDiscountRate = 0.10

// scenarioFile mirrors the on-disk YAML layout. The four model sections are
// kept as raw nodes so a named preset can be resolved first and inline keys
// overlaid on top of it.
type scenarioFile struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Months      int     `yaml:"timeframe_months"`
	Discount    float64 `yaml:"discount_rate_annual"`

	Baseline yaml.Node `yaml:"baseline"`
	Adoption yaml.Node `yaml:"adoption"`
	Impact   yaml.Node `yaml:"impact"`
	Costs    yaml.Node `yaml:"costs"`

	Distributions map[string]*sampling.Spec `yaml:"distributions"`
	Correlations  []sampling.Correlation    `yaml:"correlations"`
}

// presetRef is the optional named-preset key inside a model section.
type presetRef struct {
	Profile  string `yaml:"profile"`
	Strategy string `yaml:"strategy"`
	Preset   string `yaml:"preset"`
}

// Decode parses a scenario from YAML bytes and validates it.
func Decode(data []byte) (*Scenario, error) {
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(data []byte) (*Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	s := &Scenario{
		Name:          file.Name,
		Description:   file.Description,
		Distributions: file.Distributions,
		Correlations:  file.Correlations,
	}
	s.Inputs.Months = file.Months
	if s.Inputs.Months == 0 {
		s.Inputs.Months = DefaultMonths
	}
	s.Inputs.DiscountRateAnnual = file.Discount
	if s.Inputs.DiscountRateAnnual == 0 {
		s.Inputs.DiscountRateAnnual = DefaultDiscountRate
	}

	if err := decodeSection(&file.Baseline, &s.Inputs.Baseline, func(name string) (model.Baseline, bool) {
		return model.BaselineProfile(name)
	}); err != nil {
		return nil, err
	}
	if err := decodeSection(&file.Adoption, &s.Inputs.Adoption, func(name string) (model.AdoptionParams, bool) {
		return model.AdoptionStrategy(name)
	}); err != nil {
		return nil, err
	}
	if err := decodeSection(&file.Impact, &s.Inputs.Impact, func(name string) (model.ImpactFactors, bool) {
		return model.ImpactPreset(name)
	}); err != nil {
		return nil, err
	}
	if err := decodeSection(&file.Costs, &s.Inputs.Costs, func(name string) (model.ToolCosts, bool) {
		return model.CostPreset(name)
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// decodeSection resolves an optional named preset and overlays any inline
// keys from the same node on top of it.
func decodeSection[T any](node *yaml.Node, out *T, lookup func(string) (T, bool)) error {
	if node.Kind == 0 {
		return nil
	}

	var ref presetRef
	if err := node.Decode(&ref); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}
	name := ref.Profile
	if name == "" {
		name = ref.Strategy
	}
	if name == "" {
		name = ref.Preset
	}
	if name != "" {
		preset, ok := lookup(name)
		if !ok {
			return errs.NewValidation("preset", name, "a known preset name")
		}
		*out = preset
	}
	return node.Decode(out)
}

// Load reads and decodes a scenario file. A file without a name takes its
// filename as the scenario name.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// List returns the scenario names available in a directory, builtin names
// included, sorted and deduplicated.
func List(dir string) ([]string, error) {
	names := BuiltinNames()
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("list scenarios: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Resolve returns the scenario for a name: a file in dir wins over a builtin
// of the same name.
func Resolve(dir, name string) (*Scenario, error) {
	if dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return Load(path)
			}
		}
	}
	if s, ok := Builtin(name); ok {
		return s, nil
	}
	available, _ := List(dir)
	return nil, &errs.ScenarioError{Scenario: name, Issue: "not found", Available: available}
}
