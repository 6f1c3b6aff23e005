package model

import (
	"fmt"
	"sort"
)

// OneHotEncoder encodes categorical columns as indicator vectors. The
// first category of each column (lexicographic order) is dropped to
// avoid collinearity, and categories unseen at fit time encode as all
// zeros instead of failing.
//
// The encoder keeps no derived state beyond the sorted category lists,
// so a gob-decoded encoder is immediately usable and safe for
// concurrent encoding.
type OneHotEncoder struct {
	// Categories holds the sorted category values per column.
	Categories [][]string
}

// Fit learns the category set of each column from training data.
func (e *OneHotEncoder) Fit(cols [][]string) error {
	e.Categories = make([][]string, len(cols))
	for i, col := range cols {
		if len(col) == 0 {
			return fmt.Errorf("cannot fit encoder on empty column %d", i)
		}
		seen := make(map[string]struct{})
		for _, v := range col {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[i] = cats
	}
	return nil
}

// Width returns the number of indicator columns produced for column i.
func (e *OneHotEncoder) Width(i int) int {
	if len(e.Categories[i]) == 0 {
		return 0
	}
	return len(e.Categories[i]) - 1
}

// TotalWidth returns the number of indicator columns across all
// encoded columns.
func (e *OneHotEncoder) TotalWidth() int {
	total := 0
	for i := range e.Categories {
		total += e.Width(i)
	}
	return total
}

// Encode writes the indicator vector for value of column i into dst,
// which must have length Width(i). Unknown values and the dropped
// first category leave dst all zeros.
func (e *OneHotEncoder) Encode(i int, value string, dst []float64) {
	for j := range dst {
		dst[j] = 0
	}
	cats := e.Categories[i]
	pos := sort.SearchStrings(cats, value)
	if pos > 0 && pos < len(cats) && cats[pos] == value {
		dst[pos-1] = 1
	}
}

// FeatureNames returns the indicator column names for the given source
// column names, in encoding order, skipping each dropped category.
func (e *OneHotEncoder) FeatureNames(colNames []string) []string {
	names := make([]string, 0, e.TotalWidth())
	for i, cats := range e.Categories {
		for _, c := range cats[1:] {
			names = append(names, fmt.Sprintf("%s_%s", colNames[i], c))
		}
	}
	return names
}
