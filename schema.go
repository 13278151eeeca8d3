package seqopt

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SchemaBuilder collects parameter and objective drafts from free-form input
// and turns them into a validated [ExperimentCreationRequest].
//
// Drafts are identified by opaque IDs handed out by AddParameter and
// AddObjective, so callers can address rows the way a form addresses its
// fields. A draft keeps the values entered for every kind: switching a
// parameter's kind and back restores what was typed before, nothing is
// discarded. Only the fields of the active kind are read by Build.
//
// A new builder starts with one unnamed objective, matching the invariant
// that an experiment always has at least one.
//
// SchemaBuilder is not safe for concurrent use; it models a single setup
// form.
type SchemaBuilder struct {
	name       string
	parameters []*parameterDraft
	objectives []*objectiveDraft
}

// parameterDraft holds the raw input for one parameter across all kinds.
type parameterDraft struct {
	id   string
	name string
	kind ParameterKind

	min, max float64 // range
	choices  string  // choice, comma-separated raw input
	fixed    string  // fixed, raw value
}

// objectiveDraft holds the raw input for one objective.
type objectiveDraft struct {
	id       string
	name     string
	minimize bool
}

// NewSchemaBuilder creates an empty builder seeded with one objective draft.
func NewSchemaBuilder() *SchemaBuilder {
	b := &SchemaBuilder{}
	b.AddObjective()
	return b
}

// SetName sets the experiment name.
func (b *SchemaBuilder) SetName(name string) {
	b.name = name
}

// AddParameter appends a new parameter draft and returns its ID.
// New drafts default to a range parameter over (0, 1).
func (b *SchemaBuilder) AddParameter() string {
	d := &parameterDraft{
		id:   uuid.NewString(),
		kind: KindRange,
		min:  0,
		max:  1,
	}
	b.parameters = append(b.parameters, d)
	return d.id
}

// RemoveParameter removes the draft with the given ID.
// It is a no-op if no such draft exists.
func (b *SchemaBuilder) RemoveParameter(id string) {
	for i, d := range b.parameters {
		if d.id == id {
			b.parameters = append(b.parameters[:i], b.parameters[i+1:]...)
			return
		}
	}
}

// SetParameterKind switches a draft's active kind. Values entered for the
// other kinds are preserved, so switching back restores them.
// Returns a *ValidationError for an unknown kind; an unknown draft ID is a
// no-op, like RemoveParameter.
func (b *SchemaBuilder) SetParameterKind(id string, kind ParameterKind) error {
	if !kind.Valid() {
		return NewValidationError("kind", fmt.Sprintf("unknown parameter kind %q", kind))
	}
	if d := b.parameter(id); d != nil {
		d.kind = kind
	}
	return nil
}

// SetParameterName sets a draft's name.
func (b *SchemaBuilder) SetParameterName(id, name string) {
	if d := b.parameter(id); d != nil {
		d.name = name
	}
}

// SetBounds sets a draft's range bounds. The min < max invariant is checked
// at Build time, not here, so partially-entered bounds are never rejected.
func (b *SchemaBuilder) SetBounds(id string, min, max float64) {
	if d := b.parameter(id); d != nil {
		d.min = min
		d.max = max
	}
}

// SetChoices sets a draft's choice values as raw comma-separated input.
// The input is split and trimmed at Build time.
func (b *SchemaBuilder) SetChoices(id, raw string) {
	if d := b.parameter(id); d != nil {
		d.choices = raw
	}
}

// SetFixedValue sets a draft's fixed value.
func (b *SchemaBuilder) SetFixedValue(id, value string) {
	if d := b.parameter(id); d != nil {
		d.fixed = value
	}
}

// AddObjective appends a new objective draft (maximize by default) and
// returns its ID.
func (b *SchemaBuilder) AddObjective() string {
	d := &objectiveDraft{id: uuid.NewString()}
	b.objectives = append(b.objectives, d)
	return d.id
}

// RemoveObjective removes the draft with the given ID. An experiment must
// always keep at least one objective, so the call is a silent no-op when only
// one draft remains. Unknown IDs are also a no-op.
func (b *SchemaBuilder) RemoveObjective(id string) {
	if len(b.objectives) <= 1 {
		return
	}
	for i, d := range b.objectives {
		if d.id == id {
			b.objectives = append(b.objectives[:i], b.objectives[i+1:]...)
			return
		}
	}
}

// SetObjectiveName sets an objective draft's name.
func (b *SchemaBuilder) SetObjectiveName(id, name string) {
	if d := b.objective(id); d != nil {
		d.name = name
	}
}

// SetObjectiveMinimize sets an objective draft's optimization direction.
func (b *SchemaBuilder) SetObjectiveMinimize(id string, minimize bool) {
	if d := b.objective(id); d != nil {
		d.minimize = minimize
	}
}

// ParameterIDs returns the draft IDs in declaration order.
func (b *SchemaBuilder) ParameterIDs() []string {
	ids := make([]string, len(b.parameters))
	for i, d := range b.parameters {
		ids[i] = d.id
	}
	return ids
}

// ObjectiveIDs returns the objective draft IDs in declaration order.
func (b *SchemaBuilder) ObjectiveIDs() []string {
	ids := make([]string, len(b.objectives))
	for i, d := range b.objectives {
		ids[i] = d.id
	}
	return ids
}

// ParameterCount returns the number of parameter drafts.
func (b *SchemaBuilder) ParameterCount() int { return len(b.parameters) }

// ObjectiveCount returns the number of objective drafts.
func (b *SchemaBuilder) ObjectiveCount() int { return len(b.objectives) }

// Build validates the drafts and produces the creation request. It is a
// deterministic transform: declaration order is preserved and only the
// active kind's fields are read for each parameter. Build does not perform
// any network activity.
//
// The primary objective is always the first declared objective.
func (b *SchemaBuilder) Build() (*ExperimentCreationRequest, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, NewValidationError("name", "experiment name is required")
	}
	if len(b.parameters) == 0 {
		return nil, NewValidationError("parameters", "at least one parameter is required")
	}
	if len(b.objectives) == 0 {
		return nil, NewValidationError("objectives", "at least one objective is required")
	}

	params := make([]Parameter, 0, len(b.parameters))
	seenParams := make(map[string]bool, len(b.parameters))
	for _, d := range b.parameters {
		p, err := d.build()
		if err != nil {
			return nil, err
		}
		if seenParams[p.Name] {
			return nil, NewValidationError(p.Name, "duplicate parameter name")
		}
		seenParams[p.Name] = true
		params = append(params, p)
	}

	objectives := make([]Objective, 0, len(b.objectives))
	seenObjs := make(map[string]bool, len(b.objectives))
	for _, d := range b.objectives {
		if d.name == "" {
			return nil, NewValidationError("objectives", "objective name is required")
		}
		if seenObjs[d.name] {
			return nil, NewValidationError(d.name, "duplicate objective name")
		}
		seenObjs[d.name] = true
		objectives = append(objectives, Objective{Name: d.name, Minimize: d.minimize})
	}

	return &ExperimentCreationRequest{
		Name:             b.name,
		Parameters:       params,
		Objectives:       objectives,
		PrimaryObjective: objectives[0].Name,
	}, nil
}

// build emits the kind-specific Parameter for a draft.
func (d *parameterDraft) build() (Parameter, error) {
	var p Parameter
	switch d.kind {
	case KindRange:
		p = RangeParameter(d.name, d.min, d.max)
	case KindChoice:
		// Empty input yields a single empty-string choice. The backend
		// tolerates it, so the builder does too.
		p = ChoiceParameter(d.name, splitChoices(d.choices)...)
	case KindFixed:
		p = FixedParameter(d.name, d.fixed)
	default:
		return p, NewValidationError(d.name, fmt.Sprintf("unknown parameter kind %q", d.kind))
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// splitChoices splits comma-separated input into trimmed values.
func splitChoices(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parameter finds a parameter draft by ID, or nil.
func (b *SchemaBuilder) parameter(id string) *parameterDraft {
	for _, d := range b.parameters {
		if d.id == id {
			return d
		}
	}
	return nil
}

// objective finds an objective draft by ID, or nil.
func (b *SchemaBuilder) objective(id string) *objectiveDraft {
	for _, d := range b.objectives {
		if d.id == id {
			return d
		}
	}
	return nil
}
