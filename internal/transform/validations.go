package transform

import (
	"fmt"
	"regexp"
)

// VerifyNoMissingData fails if any cell is nil.
func VerifyNoMissingData() Step {
	return Step{Name: "verify_no_missing_data", Fn: func(t Table) (Table, error) {
		for i, r := range t.Rows {
			for _, c := range t.Columns {
				if v, ok := r[c]; !ok || v == nil {
					return t, fmt.Errorf("row %d column %q is missing", i, c)
				}
			}
		}
		return t, nil
	}}
}

// VerifyNoNegatives fails if any numeric cell is negative. Lists of ints are
// checked element-wise.
func VerifyNoNegatives() Step {
	return Step{Name: "verify_no_negatives", Fn: func(t Table) (Table, error) {
		for i, r := range t.Rows {
			for _, c := range t.Columns {
				switch v := r[c].(type) {
				case []int:
					for _, n := range v {
						if n < 0 {
							return t, fmt.Errorf("row %d column %q contains negative %d", i, c, n)
						}
					}
				default:
					if n, ok := asFloat(v); ok && n < 0 {
						return t, fmt.Errorf("row %d column %q is negative (%v)", i, c, n)
					}
				}
			}
		}
		return t, nil
	}}
}

// VerifyNoEmptyStrings fails if any string cell is empty.
func VerifyNoEmptyStrings() Step {
	return Step{Name: "verify_no_empty_strings", Fn: func(t Table) (Table, error) {
		for i, r := range t.Rows {
			for _, c := range t.Columns {
				if s, ok := r[c].(string); ok && s == "" {
					return t, fmt.Errorf("row %d column %q is an empty string", i, c)
				}
			}
		}
		return t, nil
	}}
}

// CheckNumericColumns fails unless every value in the named columns is numeric.
func CheckNumericColumns(cols ...string) Step {
	return Step{Name: "check_numeric_columns", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		for i, r := range t.Rows {
			for _, c := range cols {
				if _, ok := asFloat(r[c]); !ok {
					return t, fmt.Errorf("row %d column %q is not numeric (%T)", i, c, r[c])
				}
			}
		}
		return t, nil
	}}
}

// CheckStringColumns fails unless every value in the named columns is a string.
func CheckStringColumns(cols ...string) Step {
	return Step{Name: "check_string_columns", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		for i, r := range t.Rows {
			for _, c := range cols {
				if _, ok := r[c].(string); !ok {
					return t, fmt.Errorf("row %d column %q is not a string (%T)", i, c, r[c])
				}
			}
		}
		return t, nil
	}}
}

// CheckColumnsSatisfyRegex fails unless every value in the named columns
// matches the pattern.
func CheckColumnsSatisfyRegex(pattern string, cols ...string) Step {
	return Step{Name: "check_columns_satisfy_regex", Fn: func(t Table) (Table, error) {
		re, err := regexp.Compile("(?is)" + pattern)
		if err != nil {
			return t, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		for i, r := range t.Rows {
			for _, c := range cols {
				s, ok := r[c].(string)
				if !ok {
					return t, fmt.Errorf("row %d column %q is not a string (%T)", i, c, r[c])
				}
				if !re.MatchString(s) {
					return t, fmt.Errorf("row %d column %q (%q) does not satisfy %q", i, c, s, pattern)
				}
			}
		}
		return t, nil
	}}
}

// VerifyListColumnContainsOnlyInts fails unless every value in the named
// columns is a list of ints.
func VerifyListColumnContainsOnlyInts(cols ...string) Step {
	return Step{Name: "verify_list_column_contains_only_ints", Fn: func(t Table) (Table, error) {
		if err := t.requireColumns(cols); err != nil {
			return t, err
		}
		for i, r := range t.Rows {
			for _, c := range cols {
				if _, ok := r[c].([]int); !ok {
					return t, fmt.Errorf("row %d column %q is not a list of ints (%T)", i, c, r[c])
				}
			}
		}
		return t, nil
	}}
}
