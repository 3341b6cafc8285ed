// Package transform is the tabular post-extraction stage: an ordered
// sequence of pure Table -> Table steps with a validated contract (every
// step consumes and produces the same tabular shape family), applied
// sequentially. Validation steps reject bad data loudly; transformation
// steps drop or restructure rows.
package transform

import "fmt"

// Row is one record keyed by column name.
type Row map[string]any

// Table is an ordered set of rows with a declared column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Clone copies the table so steps stay pure.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// HasColumn reports whether the table declares the column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t Table) requireColumns(cols []string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("column %q not found in table", c)
		}
	}
	return nil
}

// asFloat normalizes the numeric types a Row can carry.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	var out []int
	for _, n := range in {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
