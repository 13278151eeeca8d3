package seqopt

import (
	"encoding/json"
	"fmt"
)

// ParameterKind identifies how a parameter's search space is described.
type ParameterKind string

// Parameter kinds.
const (
	// KindRange is a continuous numeric interval with inclusive bounds.
	KindRange ParameterKind = "range"
	// KindChoice is an ordered set of discrete values.
	KindChoice ParameterKind = "choice"
	// KindFixed is a constant reported unchanged in every trial.
	KindFixed ParameterKind = "fixed"
)

// Valid returns true if the kind is one of range, choice, or fixed.
func (k ParameterKind) Valid() bool {
	switch k {
	case KindRange, KindChoice, KindFixed:
		return true
	default:
		return false
	}
}

// Parameter is one searchable dimension of an experiment.
//
// A Parameter is a tagged union: exactly one of the kind-specific fields is
// meaningful, selected by Kind. Use [RangeParameter], [ChoiceParameter], or
// [FixedParameter] to construct one with the right field populated.
// The schema is frozen once the experiment is created.
type Parameter struct {
	Name string
	Kind ParameterKind

	// Bounds holds (min, max) for KindRange. Invariant: Bounds[0] < Bounds[1].
	Bounds [2]float64

	// Values holds the candidate values for KindChoice, in declaration order.
	Values []string

	// Value is the constant for KindFixed.
	Value any
}

// RangeParameter creates a range parameter over [min, max].
func RangeParameter(name string, min, max float64) Parameter {
	return Parameter{Name: name, Kind: KindRange, Bounds: [2]float64{min, max}}
}

// ChoiceParameter creates a choice parameter over the given values.
func ChoiceParameter(name string, values ...string) Parameter {
	return Parameter{Name: name, Kind: KindChoice, Values: values}
}

// FixedParameter creates a fixed parameter with a constant value.
func FixedParameter(name string, value any) Parameter {
	return Parameter{Name: name, Kind: KindFixed, Value: value}
}

// Validate checks the parameter's kind-specific invariants.
func (p Parameter) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "parameter name is required")
	}
	switch p.Kind {
	case KindRange:
		if p.Bounds[0] >= p.Bounds[1] {
			return NewValidationError(p.Name,
				fmt.Sprintf("range min (%g) must be less than max (%g)", p.Bounds[0], p.Bounds[1]))
		}
	case KindChoice:
		if len(p.Values) == 0 {
			return NewValidationError(p.Name, "choice parameter needs at least one value")
		}
	case KindFixed:
		// Any value is acceptable, including the empty string.
	default:
		return NewValidationError(p.Name, fmt.Sprintf("unknown parameter kind %q", p.Kind))
	}
	return nil
}

// wireParameter is the on-the-wire shape shared by all parameter kinds.
type wireParameter struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Bounds []float64 `json:"bounds,omitempty"`
	Values []string  `json:"values,omitempty"`
	Value  any       `json:"value,omitempty"`
}

// MarshalJSON emits the kind-specific wire payload:
// {name, type:"range", bounds:[min,max]} / {name, type:"choice", values:[...]}
// / {name, type:"fixed", value}.
func (p Parameter) MarshalJSON() ([]byte, error) {
	w := wireParameter{Name: p.Name, Type: string(p.Kind)}
	switch p.Kind {
	case KindRange:
		w.Bounds = []float64{p.Bounds[0], p.Bounds[1]}
	case KindChoice:
		w.Values = p.Values
		if w.Values == nil {
			w.Values = []string{}
		}
	case KindFixed:
		w.Value = p.Value
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire payload back into the tagged union.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var w wireParameter
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Name = w.Name
	p.Kind = ParameterKind(w.Type)
	switch p.Kind {
	case KindRange:
		if len(w.Bounds) != 2 {
			return fmt.Errorf("seqopt: range parameter %q has %d bounds, want 2", w.Name, len(w.Bounds))
		}
		p.Bounds = [2]float64{w.Bounds[0], w.Bounds[1]}
	case KindChoice:
		p.Values = w.Values
	case KindFixed:
		p.Value = w.Value
	}
	return nil
}

// Objective is one quantity being optimized.
type Objective struct {
	Name string `json:"name"`
	// Minimize is true when smaller values are better.
	Minimize bool `json:"minimize"`
}

// Direction returns "Minimize" or "Maximize" for display.
func (o Objective) Direction() string {
	if o.Minimize {
		return "Minimize"
	}
	return "Maximize"
}

// Experiment is the frozen schema of parameters and objectives under
// optimization, identified by a backend-assigned ID. It is never mutated
// after creation.
type Experiment struct {
	ID         string
	Name       string
	Parameters []Parameter
	Objectives []Objective
}

// IsMultiObjective reports whether the experiment optimizes more than one
// objective. Pareto-front retrieval is only offered when this is true.
func (e *Experiment) IsMultiObjective() bool {
	return len(e.Objectives) > 1
}

// PrimaryObjective returns the first declared objective, used wherever a
// single-objective view is required.
func (e *Experiment) PrimaryObjective() Objective {
	return e.Objectives[0]
}

// Trial is one suggested parameter assignment awaiting a result.
type Trial struct {
	// TrialID is assigned by the backend and unique within the experiment.
	TrialID int `json:"trial_id"`
	// Parameters maps each declared parameter name to a concrete value.
	Parameters map[string]any `json:"parameters"`
}

// DisplayNumber returns the 1-based ordinal used for display.
// Backend trial IDs start at zero.
func (t *Trial) DisplayNumber() int {
	return t.TrialID + 1
}

// CompletedTrial is a trial paired with its observed outcome.
// Instances are immutable once appended to the history.
type CompletedTrial struct {
	TrialID    int            `json:"trial_id"`
	Parameters map[string]any `json:"parameters"`
	// Result maps every declared objective name to its observed value.
	Result map[string]float64 `json:"result"`
}

// ParetoPoint is one element of a backend-computed Pareto front.
type ParetoPoint struct {
	Objectives map[string]float64 `json:"objectives"`
	Parameters map[string]any     `json:"parameters"`
}

// ExperimentCreationRequest is the payload for POST /experiments.
type ExperimentCreationRequest struct {
	Name             string      `json:"name"`
	Parameters       []Parameter `json:"parameters"`
	Objectives       []Objective `json:"objectives"`
	PrimaryObjective string      `json:"primary_objective"`
}

// ExperimentResponse is the backend's acknowledgement of a created experiment.
type ExperimentResponse struct {
	ExperimentID string `json:"experiment_id"`
	Status       string `json:"status"`
}

// CompleteTrialRequest is the payload for POST /experiments/{id}/complete_trial.
// Parameters echo the proposed trial's assignment verbatim.
type CompleteTrialRequest struct {
	TrialID         int                `json:"trial_id"`
	Parameters      map[string]any     `json:"parameters"`
	ObjectiveValues map[string]float64 `json:"objective_values"`
}

// completeTrialAck is the backend's acknowledgement of a submitted result.
type completeTrialAck struct {
	Status string `json:"status"`
}

// HealthStatus is the backend's liveness response.
type HealthStatus struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
