package feature

import (
	"fmt"

	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/model"
)

// ToFrame converts the model-ready table into the typed frame and
// target vector the training pipeline consumes. The table must carry
// the fixed schema with no nulls left in predictor columns.
func ToFrame(t *dataset.Table) (*model.Frame, []float64, error) {
	for _, c := range ModelColumns() {
		if !t.HasColumn(c) {
			return nil, nil, fmt.Errorf("model-ready dataset has no %s column", c)
		}
	}

	rows := t.NumRows()
	f := model.NewFrame(NumericFeatures, CategoricalFeatures, rows)
	target := make([]float64, 0, rows)

	for r := 0; r < rows; r++ {
		for i, c := range NumericFeatures {
			v, ok := dataset.ParseFloat(t.Value(r, c))
			if !ok {
				return nil, nil, fmt.Errorf("row %d: numeric column %s holds unparseable value %q", r, c, t.Value(r, c))
			}
			f.Numeric[i] = append(f.Numeric[i], v)
		}
		for i, c := range CategoricalFeatures {
			f.Categorical[i] = append(f.Categorical[i], t.Value(r, c))
		}
		v, ok := dataset.ParseFloat(t.Value(r, TargetColumn))
		if !ok {
			return nil, nil, fmt.Errorf("row %d: target column holds unparseable value %q", r, t.Value(r, TargetColumn))
		}
		target = append(target, v)
	}
	return f, target, nil
}
