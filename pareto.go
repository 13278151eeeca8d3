package seqopt

import (
	"fmt"
	"math"
)

// AbsentCell is rendered for values a Pareto point does not carry.
// A backend response that omits a key for some point degrades to this marker
// instead of failing the whole table.
const AbsentCell = "n/a"

// ChartPoint is one plottable element of a 2-D Pareto projection.
type ChartPoint struct {
	// X and Y are the point's values for the first and second declared
	// objectives. A value the point does not carry is NaN.
	X float64
	Y float64

	// Label is "Solution N" where N is the point's 1-based position in the
	// input sequence. It carries no ranking semantics.
	Label string
}

// ChartSeries projects a Pareto front onto the first two declared objectives.
//
// Higher-dimensional fronts are never fully visualized; the projection axes
// are always the first two objectives in declaration order, regardless of
// magnitude or spread. The transform is deterministic and leaves its inputs
// untouched, so repeated calls on the same input produce identical output.
func ChartSeries(points []ParetoPoint, objectives []Objective) ([]ChartPoint, error) {
	if len(objectives) < 2 {
		return nil, NewValidationError("objectives", "chart series requires at least two objectives")
	}

	xName := objectives[0].Name
	yName := objectives[1].Name

	series := make([]ChartPoint, len(points))
	for i, p := range points {
		series[i] = ChartPoint{
			X:     objectiveValue(p, xName),
			Y:     objectiveValue(p, yName),
			Label: fmt.Sprintf("Solution %d", i+1),
		}
	}
	return series, nil
}

// objectiveValue looks up a point's value for an objective, NaN when absent.
func objectiveValue(p ParetoPoint, name string) float64 {
	if v, ok := p.Objectives[name]; ok {
		return v
	}
	return math.NaN()
}

// Table is a presentation-ready comparison of Pareto solutions: one row per
// point, one column per objective followed by one column per parameter.
type Table struct {
	// Columns holds the header labels: "Solution", then each objective name,
	// then each parameter name, all in declaration order.
	Columns []string

	// Rows holds one rendered row per input point, each with one cell per
	// column.
	Rows [][]string
}

// ComparisonTable renders a Pareto front as a uniform table.
//
// The column set is fully determined by the experiment schema, never by
// inspecting a point's keys, so every row renders uniformly even when the
// backend omits a key for some point; missing values render as [AbsentCell].
// Numeric cells use fixed 4-decimal precision, non-numeric parameter values
// render verbatim. Rows keep input order and the transform is deterministic
// and idempotent.
func ComparisonTable(points []ParetoPoint, objectives []Objective, parameters []Parameter) *Table {
	columns := make([]string, 0, 1+len(objectives)+len(parameters))
	columns = append(columns, "Solution")
	for _, obj := range objectives {
		columns = append(columns, obj.Name)
	}
	for _, p := range parameters {
		columns = append(columns, p.Name)
	}

	rows := make([][]string, len(points))
	for i, point := range points {
		row := make([]string, 0, len(columns))
		row = append(row, fmt.Sprintf("Solution %d", i+1))
		for _, obj := range objectives {
			if v, ok := point.Objectives[obj.Name]; ok {
				row = append(row, fmt.Sprintf("%.4f", v))
			} else {
				row = append(row, AbsentCell)
			}
		}
		for _, p := range parameters {
			if v, ok := point.Parameters[p.Name]; ok {
				row = append(row, formatCell(v))
			} else {
				row = append(row, AbsentCell)
			}
		}
		rows[i] = row
	}

	return &Table{Columns: columns, Rows: rows}
}

// formatCell renders one parameter value: numbers at 4-decimal precision,
// everything else verbatim.
func formatCell(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.4f", n)
	case float32:
		return fmt.Sprintf("%.4f", float64(n))
	case int:
		return fmt.Sprintf("%.4f", float64(n))
	case int64:
		return fmt.Sprintf("%.4f", float64(n))
	case string:
		return n
	case nil:
		return AbsentCell
	default:
		return fmt.Sprint(v)
	}
}
