// Package explore produces the exploratory summary of the merged
// dataset: shape, column types, missing-value counts and descriptive
// statistics.
package explore

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Summarize reads a CSV dataset and renders a plain-text exploration
// report.
func Summarize(r io.Reader) (string, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true))
	if df.Err != nil {
		return "", fmt.Errorf("failed to read dataset: %w", df.Err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d rows x %d columns\n\n", df.Nrow(), df.Ncol())

	fmt.Fprintf(&b, "Columns and types:\n")
	names := df.Names()
	types := df.Types()
	for i, name := range names {
		fmt.Fprintf(&b, "  %-40s %v\n", name, types[i])
	}

	fmt.Fprintf(&b, "\nMissing values per column:\n")
	missing := missingCounts(df)
	keys := make([]string, 0, len(missing))
	for k := range missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	anyMissing := false
	for _, k := range keys {
		if missing[k] == 0 {
			continue
		}
		anyMissing = true
		fmt.Fprintf(&b, "  %-40s %d\n", k, missing[k])
	}
	if !anyMissing {
		fmt.Fprintf(&b, "  (none)\n")
	}

	fmt.Fprintf(&b, "\nDescriptive statistics:\n")
	fmt.Fprintf(&b, "%v\n", df.Describe())
	return b.String(), nil
}

// missingCounts counts empty and NA cells per column from the raw
// records.
func missingCounts(df dataframe.DataFrame) map[string]int {
	counts := make(map[string]int, df.Ncol())
	records := df.Records()
	if len(records) == 0 {
		return counts
	}
	header := records[0]
	for _, name := range header {
		counts[name] = 0
	}
	for _, row := range records[1:] {
		for i, cell := range row {
			if cell == "" || cell == "NaN" || cell == "NA" {
				counts[header[i]]++
			}
		}
	}
	return counts
}
