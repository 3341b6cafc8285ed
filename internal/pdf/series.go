// Package pdf selects call-for-proposal PDFs from a directory and converts
// them to plain text for segmentation.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// seriesPattern matches the PROGRAMCODE-YYYY-TYPE-GRANT-CATEGORY-XX naming
// convention used by call document series.
var seriesPattern = regexp.MustCompile(`(?i)([A-Z0-9]+)-\d{4}-([A-Z0-9]+)-([A-Z0-9]+)-([A-Z]+)-(\d{2})`)

type seriesKey struct {
	program  string
	typ      string
	grant    string
	category string
}

type seriesCandidate struct {
	number int
	path   string
}

// SelectCallPDFs returns the call documents worth processing from a
// directory:
//
//  1. every PDF whose name contains "call" but does not follow the series
//     naming convention, and
//  2. from each series, only the PDF with the lowest XX revision number.
//
// The result is sorted by path for stable output.
func SelectCallPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	bySeries := make(map[seriesKey][]seriesCandidate)
	var others []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".pdf") || !strings.Contains(lower, "call") {
			continue
		}
		full := filepath.Join(dir, name)

		m := seriesPattern.FindStringSubmatch(name)
		if m == nil {
			others = append(others, full)
			continue
		}
		n, err := strconv.Atoi(m[5])
		if err != nil {
			others = append(others, full)
			continue
		}
		k := seriesKey{
			program:  strings.ToUpper(m[1]),
			typ:      strings.ToUpper(m[2]),
			grant:    strings.ToUpper(m[3]),
			category: strings.ToUpper(m[4]),
		}
		bySeries[k] = append(bySeries[k], seriesCandidate{number: n, path: full})
	}

	var out []string
	for _, candidates := range bySeries {
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].number != candidates[j].number {
				return candidates[i].number < candidates[j].number
			}
			return candidates[i].path < candidates[j].path
		})
		out = append(out, candidates[0].path)
	}
	out = append(out, others...)
	sort.Strings(out)
	return out, nil
}

// SeriesTitles maps each path to the series segment of its file name.
// Paths that do not follow the series convention are skipped.
func SeriesTitles(paths []string) map[string]string {
	titles := make(map[string]string)
	for _, p := range paths {
		if m := seriesPattern.FindString(filepath.Base(p)); m != "" {
			titles[p] = m
		}
	}
	return titles
}
