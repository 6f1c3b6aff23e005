// Package model implements the training pipeline: a column-wise
// preprocessing transform, a random forest regressor over gonum
// matrices, a log target transform, deterministic splitting, metrics
// and cross-validated grid search. The pieces follow the
// fit-then-transform/predict shape of scikit-learn style Go libraries
// and are composed by a thin Pipeline orchestrator.
package model

// Frame is a column-major, typed view of the model-ready dataset:
// numeric predictor columns as float64 slices and categorical predictor
// columns as string slices. Frames are fully materialized (no nulls);
// filling happens upstream in the feature engineering stage.
type Frame struct {
	NumericNames     []string
	CategoricalNames []string
	Numeric          [][]float64
	Categorical      [][]string
}

// NewFrame creates an empty frame with the given column names and row
// capacity preallocated.
func NewFrame(numericNames, categoricalNames []string, rows int) *Frame {
	f := &Frame{
		NumericNames:     append([]string(nil), numericNames...),
		CategoricalNames: append([]string(nil), categoricalNames...),
		Numeric:          make([][]float64, len(numericNames)),
		Categorical:      make([][]string, len(categoricalNames)),
	}
	for i := range f.Numeric {
		f.Numeric[i] = make([]float64, 0, rows)
	}
	for i := range f.Categorical {
		f.Categorical[i] = make([]string, 0, rows)
	}
	return f
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	if len(f.Numeric) > 0 {
		return len(f.Numeric[0])
	}
	if len(f.Categorical) > 0 {
		return len(f.Categorical[0])
	}
	return 0
}

// Subset returns a new frame containing the given rows, in order.
func (f *Frame) Subset(idx []int) *Frame {
	out := NewFrame(f.NumericNames, f.CategoricalNames, len(idx))
	for c := range f.Numeric {
		for _, r := range idx {
			out.Numeric[c] = append(out.Numeric[c], f.Numeric[c][r])
		}
	}
	for c := range f.Categorical {
		for _, r := range idx {
			out.Categorical[c] = append(out.Categorical[c], f.Categorical[c][r])
		}
	}
	return out
}

// subsetFloats selects values at idx from a slice.
func subsetFloats(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = values[r]
	}
	return out
}
