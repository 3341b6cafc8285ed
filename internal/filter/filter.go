// Package filter selects the text units worth sending to the model.
// Patterns are data, not code: the built-in families below are defaults
// and callers can supply their own.
package filter

import (
	"regexp"

	"github.com/ppiankov/callsift/internal/model"
)

// Pattern is a conjunction of case-insensitive regular expressions; a unit
// is retained iff every expression finds a match somewhere in its text.
// RE2 has no lookahead, so the original single-regex-with-lookaheads form
// becomes an explicit conjunction with identical semantics.
type Pattern struct {
	raw   []string
	exprs []*regexp.Regexp
}

// Compile builds a Pattern from one or more expressions. Every expression is
// compiled with the case-insensitive and dot-matches-newline flags. An invalid
// expression fails fast with a FilterConfigError.
func Compile(exprs ...string) (Pattern, error) {
	if len(exprs) == 0 {
		return Pattern{}, &model.FilterConfigError{Pattern: "", Err: errEmptyPattern}
	}
	p := Pattern{raw: exprs}
	for _, expr := range exprs {
		re, err := regexp.Compile("(?is)" + expr)
		if err != nil {
			return Pattern{}, &model.FilterConfigError{Pattern: expr, Err: err}
		}
		p.exprs = append(p.exprs, re)
	}
	return p, nil
}

// MustCompile is Compile for the built-in families, which are known valid.
func MustCompile(exprs ...string) Pattern {
	p, err := Compile(exprs...)
	if err != nil {
		panic(err)
	}
	return p
}

var errEmptyPattern = regexpError("pattern list is empty")

type regexpError string

func (e regexpError) Error() string { return string(e) }

// Match reports whether all expressions match the text.
func (p Pattern) Match(text string) bool {
	if len(p.exprs) == 0 {
		return false
	}
	for _, re := range p.exprs {
		if !re.MatchString(text) {
			return false
		}
	}
	return true
}

// String returns the source expressions for logging.
func (p Pattern) String() string {
	s := ""
	for i, r := range p.raw {
		if i > 0 {
			s += " && "
		}
		s += r
	}
	return s
}

// Money matches units that mention a euro token alongside at least one digit.
func Money() Pattern {
	return MustCompile(`\d`, `\beur\b|\beuro\b|\beuros\b|€`)
}

// Consortium matches the consortium-composition table block.
func Consortium() Pattern {
	return MustCompile(`consortium composition`, `entities`, `coordinators`, `beneficiaries`)
}

// Units retains, in source order, the units whose text matches the pattern.
// No reordering and no deduplication happen here.
func Units(units []string, p Pattern) []string {
	var kept []string
	for _, u := range units {
		if p.Match(u) {
			kept = append(kept, u)
		}
	}
	return kept
}

// Document filters a document's units at the requested depth.
func Document(doc *model.Document, p Pattern, depth model.ReferenceDepth) []string {
	return Units(doc.Units(depth), p)
}
