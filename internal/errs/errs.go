// Package errs defines the typed error taxonomy shared by the scenario,
// sampling, simulation and analysis layers.
package errs

import "fmt"

// ValidationError reports malformed or out-of-domain input detected before a
// simulation starts. It is never retried internally.
type ValidationError struct {
	Field    string
	Value    any
	Expected string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %q: %v (expected %s)", e.Field, e.Value, e.Expected)
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field string, value any, expected string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Expected: expected}
}

// CalculationError reports a runtime numerical fault (division by zero,
// non-finite intermediate) caused by a degenerate but schema-valid parameter
// combination.
type CalculationError struct {
	Operation string
	Reason    string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation error in %s: %s", e.Operation, e.Reason)
}

// NewCalculation builds a CalculationError for a named operation.
func NewCalculation(operation, reason string) *CalculationError {
	return &CalculationError{Operation: operation, Reason: reason}
}

// DistributionConfigError reports invalid distribution shape parameters.
// It matches ValidationError via errors.Is.
type DistributionConfigError struct {
	ValidationError
}

// NewDistributionConfig builds a DistributionConfigError.
func NewDistributionConfig(field string, value any, expected string) *DistributionConfigError {
	return &DistributionConfigError{ValidationError{Field: field, Value: value, Expected: expected}}
}

func (e *DistributionConfigError) Error() string {
	return "distribution config: " + e.ValidationError.Error()
}

// Is lets errors.Is treat a DistributionConfigError as a ValidationError.
func (e *DistributionConfigError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// CorrelationConfigError reports an invalid correlation declaration, such as
// a non-PSD correlation matrix or a correlation on a deterministic parameter.
// It matches ValidationError via errors.Is.
type CorrelationConfigError struct {
	ValidationError
}

// NewCorrelationConfig builds a CorrelationConfigError.
func NewCorrelationConfig(field string, value any, expected string) *CorrelationConfigError {
	return &CorrelationConfigError{ValidationError{Field: field, Value: value, Expected: expected}}
}

func (e *CorrelationConfigError) Error() string {
	return "correlation config: " + e.ValidationError.Error()
}

// Is lets errors.Is treat a CorrelationConfigError as a ValidationError.
func (e *CorrelationConfigError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// SimulationError reports the systemic failure of an entire Monte Carlo or
// sensitivity run, as opposed to an individual iteration fault.
type SimulationError struct {
	Run    string
	Reason string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation run %s failed: %s", e.Run, e.Reason)
}

// NewSimulation builds a SimulationError for a named run.
func NewSimulation(run, reason string) *SimulationError {
	return &SimulationError{Run: run, Reason: reason}
}

// ScenarioError reports a missing or unloadable scenario definition.
type ScenarioError struct {
	Scenario  string
	Issue     string
	Available []string
}

func (e *ScenarioError) Error() string {
	msg := fmt.Sprintf("scenario %q: %s", e.Scenario, e.Issue)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %v)", e.Available)
	}
	return msg
}
