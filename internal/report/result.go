// Package report implements the eight catalog reports.
//
// Each report is a pure function of the loaded dataset: it joins the base
// tables it needs on product_id (inner-join semantics, unmatched rows drop
// silently), aggregates, and returns an ordered, labeled result table.
// Reports never mutate the dataset and never depend on each other.
package report

// Kind is the logical column type of a result column. Sinks map kinds to
// backend-specific SQL types.
type Kind string

const (
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindReal    Kind = "real"
)

// Column is one labeled result column.
type Column struct {
	Name string
	Kind Kind
}

// Result is one report's output: an ordered sequence of rows under explicit
// column labels. Row values are string, int64, float64, or nil.
type Result struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the labels in column order.
func (r Result) ColumnNames() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Name
	}
	return out
}
