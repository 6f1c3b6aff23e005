package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ColumnPreprocessor is the column-wise preprocessing transform:
// numeric columns are standardized, categorical columns one-hot
// encoded. It is fit once on training data and then applied to any
// frame with the same schema.
type ColumnPreprocessor struct {
	NumericNames     []string
	CategoricalNames []string
	Scaler           *StandardScaler
	Encoder          *OneHotEncoder
}

// NewColumnPreprocessor creates an unfitted preprocessor for the given
// schema.
func NewColumnPreprocessor(numericNames, categoricalNames []string) *ColumnPreprocessor {
	return &ColumnPreprocessor{
		NumericNames:     append([]string(nil), numericNames...),
		CategoricalNames: append([]string(nil), categoricalNames...),
		Scaler:           &StandardScaler{},
		Encoder:          &OneHotEncoder{},
	}
}

// Fit learns scaling statistics and category sets from the training
// frame.
func (p *ColumnPreprocessor) Fit(f *Frame) error {
	if err := p.checkSchema(f); err != nil {
		return err
	}
	if err := p.Scaler.Fit(f.Numeric); err != nil {
		return fmt.Errorf("failed to fit scaler: %w", err)
	}
	if err := p.Encoder.Fit(f.Categorical); err != nil {
		return fmt.Errorf("failed to fit encoder: %w", err)
	}
	return nil
}

// Transform maps a frame to the dense design matrix consumed by the
// regressor: standardized numerics first, indicator columns after.
func (p *ColumnPreprocessor) Transform(f *Frame) (*mat.Dense, error) {
	if err := p.checkSchema(f); err != nil {
		return nil, err
	}
	if p.Scaler.Mean == nil || p.Encoder.Categories == nil {
		return nil, fmt.Errorf("preprocessor is not fitted")
	}

	rows := f.NumRows()
	width := len(p.NumericNames) + p.Encoder.TotalWidth()
	out := mat.NewDense(rows, width, nil)

	for r := 0; r < rows; r++ {
		col := 0
		for c := range f.Numeric {
			out.Set(r, col, p.Scaler.TransformValue(c, f.Numeric[c][r]))
			col++
		}
		for c := range f.Categorical {
			w := p.Encoder.Width(c)
			dst := out.RawRowView(r)[col : col+w]
			p.Encoder.Encode(c, f.Categorical[c][r], dst)
			col += w
		}
	}
	return out, nil
}

// FeatureNames returns the post-transform column names in matrix
// order, prefixed by transformer group like sklearn's
// get_feature_names_out (num__price, cat__seller_state_SP, ...).
func (p *ColumnPreprocessor) FeatureNames() []string {
	names := make([]string, 0, len(p.NumericNames)+p.Encoder.TotalWidth())
	for _, n := range p.NumericNames {
		names = append(names, "num__"+n)
	}
	for _, n := range p.Encoder.FeatureNames(p.CategoricalNames) {
		names = append(names, "cat__"+n)
	}
	return names
}

func (p *ColumnPreprocessor) checkSchema(f *Frame) error {
	if len(f.NumericNames) != len(p.NumericNames) || len(f.CategoricalNames) != len(p.CategoricalNames) {
		return fmt.Errorf("frame schema does not match preprocessor: %d/%d columns, want %d/%d",
			len(f.NumericNames), len(f.CategoricalNames), len(p.NumericNames), len(p.CategoricalNames))
	}
	for i, n := range p.NumericNames {
		if f.NumericNames[i] != n {
			return fmt.Errorf("numeric column %d is %q, want %q", i, f.NumericNames[i], n)
		}
	}
	for i, n := range p.CategoricalNames {
		if f.CategoricalNames[i] != n {
			return fmt.Errorf("categorical column %d is %q, want %q", i, f.CategoricalNames[i], n)
		}
	}
	return nil
}
