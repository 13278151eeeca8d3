package seqopt

import (
	"errors"
	"reflect"
	"testing"
)

func TestSchemaBuilderBuild(t *testing.T) {
	b := NewSchemaBuilder()
	b.SetName("Catalyst Optimization")

	temp := b.AddParameter()
	b.SetParameterName(temp, "Temperature")
	b.SetBounds(temp, 0, 100)

	solvent := b.AddParameter()
	b.SetParameterName(solvent, "Solvent")
	if err := b.SetParameterKind(solvent, KindChoice); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}
	b.SetChoices(solvent, "water, ethanol,acetone")

	pressure := b.AddParameter()
	b.SetParameterName(pressure, "Pressure")
	if err := b.SetParameterKind(pressure, KindFixed); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}
	b.SetFixedValue(pressure, "1.0")

	yield := b.ObjectiveIDs()[0]
	b.SetObjectiveName(yield, "Yield")

	cost := b.AddObjective()
	b.SetObjectiveName(cost, "Cost")
	b.SetObjectiveMinimize(cost, true)

	req, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if req.Name != "Catalyst Optimization" {
		t.Errorf("Name = %q, want Catalyst Optimization", req.Name)
	}

	wantParams := []Parameter{
		RangeParameter("Temperature", 0, 100),
		ChoiceParameter("Solvent", "water", "ethanol", "acetone"),
		FixedParameter("Pressure", "1.0"),
	}
	if !reflect.DeepEqual(req.Parameters, wantParams) {
		t.Errorf("Parameters = %+v, want %+v", req.Parameters, wantParams)
	}

	wantObjectives := []Objective{
		{Name: "Yield", Minimize: false},
		{Name: "Cost", Minimize: true},
	}
	if !reflect.DeepEqual(req.Objectives, wantObjectives) {
		t.Errorf("Objectives = %+v, want %+v", req.Objectives, wantObjectives)
	}

	if req.PrimaryObjective != "Yield" {
		t.Errorf("PrimaryObjective = %q, want Yield (first declared)", req.PrimaryObjective)
	}
}

func TestSchemaBuilderValidation(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(b *SchemaBuilder)
		wantField string
	}{
		{
			name: "missing experiment name",
			setup: func(b *SchemaBuilder) {
				p := b.AddParameter()
				b.SetParameterName(p, "x")
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
			},
			wantField: "name",
		},
		{
			name: "no parameters",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
			},
			wantField: "parameters",
		},
		{
			name: "missing parameter name",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				b.AddParameter()
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
			},
			wantField: "name",
		},
		{
			name: "range min not below max",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				p := b.AddParameter()
				b.SetParameterName(p, "x")
				b.SetBounds(p, 5, 5)
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
			},
			wantField: "x",
		},
		{
			name: "missing objective name",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				p := b.AddParameter()
				b.SetParameterName(p, "x")
			},
			wantField: "objectives",
		},
		{
			name: "duplicate parameter name",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				p1 := b.AddParameter()
				b.SetParameterName(p1, "x")
				p2 := b.AddParameter()
				b.SetParameterName(p2, "x")
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
			},
			wantField: "x",
		},
		{
			name: "duplicate objective name",
			setup: func(b *SchemaBuilder) {
				b.SetName("E")
				p := b.AddParameter()
				b.SetParameterName(p, "x")
				b.SetObjectiveName(b.ObjectiveIDs()[0], "y")
				o2 := b.AddObjective()
				b.SetObjectiveName(o2, "y")
			},
			wantField: "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSchemaBuilder()
			tt.setup(b)

			_, err := b.Build()
			valErr, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("Build() error = %v, want *ValidationError", err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.wantField)
			}
		})
	}
}

func TestRemoveObjectiveKeepsAtLeastOne(t *testing.T) {
	b := NewSchemaBuilder()
	first := b.ObjectiveIDs()[0]
	second := b.AddObjective()
	third := b.AddObjective()

	b.RemoveObjective(second)
	b.RemoveObjective(third)
	if b.ObjectiveCount() != 1 {
		t.Fatalf("ObjectiveCount = %d, want 1", b.ObjectiveCount())
	}

	// The last objective can never be removed, whatever the call sequence.
	b.RemoveObjective(first)
	b.RemoveObjective(first)
	if b.ObjectiveCount() != 1 {
		t.Errorf("ObjectiveCount = %d after removing last objective, want 1", b.ObjectiveCount())
	}
	if b.ObjectiveIDs()[0] != first {
		t.Errorf("surviving objective changed identity")
	}
}

func TestRemoveParameterAbsentIsNoop(t *testing.T) {
	b := NewSchemaBuilder()
	b.AddParameter()

	b.RemoveParameter("no-such-draft")
	if b.ParameterCount() != 1 {
		t.Errorf("ParameterCount = %d, want 1", b.ParameterCount())
	}
}

func TestSetParameterKindPreservesOtherKinds(t *testing.T) {
	b := NewSchemaBuilder()
	b.SetName("E")
	b.SetObjectiveName(b.ObjectiveIDs()[0], "y")

	p := b.AddParameter()
	b.SetParameterName(p, "x")
	b.SetBounds(p, 10, 20)

	// Switch away and back: the range bounds survive.
	if err := b.SetParameterKind(p, KindChoice); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}
	b.SetChoices(p, "a,b")
	if err := b.SetParameterKind(p, KindRange); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}

	req, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if req.Parameters[0].Bounds != [2]float64{10, 20} {
		t.Errorf("Bounds = %v, want [10 20]", req.Parameters[0].Bounds)
	}

	// And the choices survive the round trip too.
	if err := b.SetParameterKind(p, KindChoice); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}
	req, err = b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(req.Parameters[0].Values, want) {
		t.Errorf("Values = %v, want %v", req.Parameters[0].Values, want)
	}
}

func TestSetParameterKindInvalid(t *testing.T) {
	b := NewSchemaBuilder()
	p := b.AddParameter()

	err := b.SetParameterKind(p, ParameterKind("grid"))
	if _, ok := AsValidationError(err); !ok {
		t.Errorf("SetParameterKind error = %v, want *ValidationError", err)
	}
}

func TestChoiceEmptyInputYieldsEmptyStringChoice(t *testing.T) {
	b := NewSchemaBuilder()
	b.SetName("E")
	b.SetObjectiveName(b.ObjectiveIDs()[0], "y")

	p := b.AddParameter()
	b.SetParameterName(p, "solvent")
	if err := b.SetParameterKind(p, KindChoice); err != nil {
		t.Fatalf("SetParameterKind failed: %v", err)
	}

	// Empty choice input is tolerated, not rejected.
	req, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := []string{""}
	if !reflect.DeepEqual(req.Parameters[0].Values, want) {
		t.Errorf("Values = %v, want %v", req.Parameters[0].Values, want)
	}
}

func TestNewSchemaBuilderSeedsOneObjective(t *testing.T) {
	b := NewSchemaBuilder()
	if b.ObjectiveCount() != 1 {
		t.Errorf("ObjectiveCount = %d, want 1", b.ObjectiveCount())
	}
	if b.ParameterCount() != 0 {
		t.Errorf("ParameterCount = %d, want 0", b.ParameterCount())
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewSchemaBuilder()
	b.SetName("E")
	p := b.AddParameter()
	b.SetParameterName(p, "x")
	b.SetObjectiveName(b.ObjectiveIDs()[0], "y")

	first, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Build() output differs: %+v vs %+v", first, second)
	}
}

func TestParameterValidate(t *testing.T) {
	tests := []struct {
		name    string
		param   Parameter
		wantErr bool
	}{
		{"valid range", RangeParameter("x", 0, 1), false},
		{"inverted range", RangeParameter("x", 1, 0), true},
		{"valid choice", ChoiceParameter("x", "a"), false},
		{"empty choice", ChoiceParameter("x"), true},
		{"fixed empty string", FixedParameter("x", ""), false},
		{"unnamed", RangeParameter("", 0, 1), true},
		{"unknown kind", Parameter{Name: "x", Kind: "grid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.param.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("Validate() error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}
