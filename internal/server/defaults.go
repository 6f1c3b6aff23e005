// Package server holds the serving layer's request-completion logic:
// turning a partial predictor record into the full model-ready row the
// fitted pipeline expects.
package server

import (
	"fmt"
	"sort"

	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/feature"
	"github.com/your-org/olist-sales-model/internal/model"
)

// Defaults are the historical fallback values for unset predictors:
// column medians for numerics, column modes for categoricals, plus the
// observed category lists for UI choice menus. Computed once from the
// model-ready dataset at startup and read-only afterwards.
type Defaults struct {
	Medians map[string]float64
	Modes   map[string]string
	Options map[string][]string
}

// ComputeDefaults derives the default values from the model-ready
// table.
func ComputeDefaults(t *dataset.Table) (*Defaults, error) {
	d := &Defaults{
		Medians: make(map[string]float64, len(feature.NumericFeatures)),
		Modes:   make(map[string]string, len(feature.CategoricalFeatures)),
		Options: make(map[string][]string, len(feature.CategoricalFeatures)),
	}
	for _, c := range feature.NumericFeatures {
		med, ok, err := feature.ColumnMedian(t, c)
		if err != nil {
			return nil, fmt.Errorf("failed to compute median for %s: %w", c, err)
		}
		if !ok {
			med = 0
		}
		d.Medians[c] = med
	}
	for _, c := range feature.CategoricalFeatures {
		mode, err := feature.ColumnMode(t, c)
		if err != nil {
			return nil, fmt.Errorf("failed to compute mode for %s: %w", c, err)
		}
		d.Modes[c] = mode

		values, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		for _, v := range values {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
		opts := make([]string, 0, len(seen))
		for v := range seen {
			opts = append(opts, v)
		}
		sort.Strings(opts)
		d.Options[c] = opts
	}
	return d, nil
}

// BuildRow completes a partial predictor record into a one-row frame.
// Unset numerics take the column median, unset categoricals the column
// mode, and freight_ratio is always recomputed from the resolved price
// and freight with the divide-by-zero guard. Unknown feature names and
// wrong value types are request errors.
func (d *Defaults) BuildRow(input map[string]any) (*model.Frame, error) {
	numericSet := make(map[string]struct{}, len(feature.NumericFeatures))
	for _, c := range feature.NumericFeatures {
		numericSet[c] = struct{}{}
	}
	categoricalSet := make(map[string]struct{}, len(feature.CategoricalFeatures))
	for _, c := range feature.CategoricalFeatures {
		categoricalSet[c] = struct{}{}
	}
	for name := range input {
		if _, ok := numericSet[name]; ok {
			continue
		}
		if _, ok := categoricalSet[name]; ok {
			continue
		}
		return nil, fmt.Errorf("unknown feature %q", name)
	}

	numeric := make(map[string]float64, len(feature.NumericFeatures))
	for _, c := range feature.NumericFeatures {
		v, provided := input[c]
		if !provided {
			numeric[c] = d.Medians[c]
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("feature %q must be a number", c)
		}
		numeric[c] = f
	}
	numeric["freight_ratio"] = feature.FreightRatio(numeric["price"], numeric["freight_value"])

	frame := model.NewFrame(feature.NumericFeatures, feature.CategoricalFeatures, 1)
	for i, c := range feature.NumericFeatures {
		frame.Numeric[i] = append(frame.Numeric[i], numeric[c])
	}
	for i, c := range feature.CategoricalFeatures {
		v, provided := input[c]
		if !provided {
			frame.Categorical[i] = append(frame.Categorical[i], d.Modes[c])
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("feature %q must be a string", c)
		}
		frame.Categorical[i] = append(frame.Categorical[i], s)
	}
	return frame, nil
}
