package transform

import (
	"fmt"
	"regexp"
)

// DropRowsWithNonPositiveValues removes rows whose value in the named
// columns is zero or negative.
func DropRowsWithNonPositiveValues(cols ...string) Step {
	return Step{Name: "drop_rows_with_non_positive_values", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		out := Table{Columns: t.Columns}
		for i, r := range t.Rows {
			drop := false
			for _, c := range cols {
				n, ok := asFloat(r[c])
				if !ok {
					return t, fmt.Errorf("row %d column %q is not numeric (%T)", i, c, r[c])
				}
				if n <= 0 {
					drop = true
					break
				}
			}
			if !drop {
				out.Rows = append(out.Rows, r)
			}
		}
		return out, nil
	}}
}

// DropRowsNotSatisfyingRegex keeps only rows whose value in the named
// columns matches the pattern. Matching is case-insensitive.
func DropRowsNotSatisfyingRegex(pattern string, cols ...string) Step {
	return Step{Name: "drop_rows_not_satisfying_regex", Fn: func(t Table) (Table, error) {
		re, err := regexp.Compile("(?is)" + pattern)
		if err != nil {
			return t, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		out := Table{Columns: t.Columns}
		for i, r := range t.Rows {
			keep := true
			for _, c := range cols {
				s, ok := r[c].(string)
				if !ok {
					return t, fmt.Errorf("row %d column %q is not a string (%T)", i, c, r[c])
				}
				if !re.MatchString(s) {
					keep = false
					break
				}
			}
			if keep {
				out.Rows = append(out.Rows, r)
			}
		}
		return out, nil
	}}
}

// DropRowsIfNoColumnMatchesRegex keeps a row when at least one of the named
// columns matches the pattern.
func DropRowsIfNoColumnMatchesRegex(pattern string, cols ...string) Step {
	return Step{Name: "drop_rows_if_no_column_matches_regex", Fn: func(t Table) (Table, error) {
		re, err := regexp.Compile("(?is)" + pattern)
		if err != nil {
			return t, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		out := Table{Columns: t.Columns}
		for i, r := range t.Rows {
			keep := false
			for _, c := range cols {
				s, ok := r[c].(string)
				if !ok {
					return t, fmt.Errorf("row %d column %q is not a string (%T)", i, c, r[c])
				}
				if re.MatchString(s) {
					keep = true
					break
				}
			}
			if keep {
				out.Rows = append(out.Rows, r)
			}
		}
		return out, nil
	}}
}

// ReduceListIntsToUnique replaces each list in the named columns with its
// unique values, preserving first-occurrence order.
func ReduceListIntsToUnique(cols ...string) Step {
	return Step{Name: "reduce_list_ints_to_unique", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		out := t.Clone()
		for i, r := range out.Rows {
			for _, c := range cols {
				list, ok := r[c].([]int)
				if !ok {
					return t, fmt.Errorf("row %d column %q is not a list of ints (%T)", i, c, r[c])
				}
				r[c] = uniqueInts(list)
			}
		}
		return out, nil
	}}
}

// GroupByDocumentAndStackTypes collapses entity rows to one row per
// document: organization types become a deduplicated list and the first
// row's count list is kept (count lists are expected to be identical per
// document after unique reduction). Document order follows first appearance.
func GroupByDocumentAndStackTypes(docCol, typeCol, countsCol string) Step {
	return Step{Name: "group_by_document_and_stack_types", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns([]string{docCol, typeCol, countsCol}); err != nil {
			return t, err
		}

		type agg struct {
			types  []string
			counts []int
		}
		byDoc := make(map[string]*agg)
		var order []string

		for i, r := range t.Rows {
			doc, ok := r[docCol].(string)
			if !ok {
				return t, fmt.Errorf("row %d column %q is not a string (%T)", i, docCol, r[docCol])
			}
			typ, ok := r[typeCol].(string)
			if !ok {
				return t, fmt.Errorf("row %d column %q is not a string (%T)", i, typeCol, r[typeCol])
			}
			counts, ok := r[countsCol].([]int)
			if !ok {
				return t, fmt.Errorf("row %d column %q is not a list of ints (%T)", i, countsCol, r[countsCol])
			}
			a := byDoc[doc]
			if a == nil {
				a = &agg{counts: counts}
				byDoc[doc] = a
				order = append(order, doc)
			}
			a.types = append(a.types, typ)
		}

		out := Table{Columns: []string{docCol, typeCol, countsCol}}
		for _, doc := range order {
			a := byDoc[doc]
			out.Rows = append(out.Rows, Row{
				docCol:    doc,
				typeCol:   uniqueStrings(a.types),
				countsCol: a.counts,
			})
		}
		return out, nil
	}}
}
