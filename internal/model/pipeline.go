package model

import (
	"encoding/gob"
	"fmt"

	"github.com/google/uuid"
)

func init() {
	gob.Register(Log1pTransform{})
	gob.Register(IdentityTransform{})
}

// Pipeline is the single fitted artifact the serving layer consumes:
// preprocessing transform, forest regressor and target transform
// composed behind one Fit/Predict surface. It is never mutated after
// Fit, so a loaded pipeline is safe to share across concurrent
// prediction requests.
type Pipeline struct {
	Version string
	Pre     *ColumnPreprocessor
	Forest  *Forest
	Target  TargetTransform
	Seed    int64
}

// NewPipeline creates an unfitted pipeline for the given predictor
// schema and forest hyperparameters.
func NewPipeline(numericNames, categoricalNames []string, params ForestParams, target TargetTransform, seed int64) *Pipeline {
	return &Pipeline{
		Pre:    NewColumnPreprocessor(numericNames, categoricalNames),
		Forest: &Forest{Params: params},
		Target: target,
		Seed:   seed,
	}
}

// Fit fits the preprocessor on f, transforms it, and fits the forest
// on the transformed target. workers bounds the per-tree parallelism.
func (p *Pipeline) Fit(f *Frame, y []float64, workers int) error {
	if f.NumRows() != len(y) {
		return fmt.Errorf("frame has %d rows, target has %d", f.NumRows(), len(y))
	}
	if err := p.Pre.Fit(f); err != nil {
		return fmt.Errorf("failed to fit preprocessor: %w", err)
	}
	X, err := p.Pre.Transform(f)
	if err != nil {
		return fmt.Errorf("failed to transform training data: %w", err)
	}
	if err := p.Forest.Fit(X, p.Target.Forward(y), p.Seed, workers); err != nil {
		return fmt.Errorf("failed to fit forest: %w", err)
	}
	p.Version = uuid.New().String()
	return nil
}

// Predict returns predictions on the original target scale for every
// row of f.
func (p *Pipeline) Predict(f *Frame) ([]float64, error) {
	X, err := p.Pre.Transform(f)
	if err != nil {
		return nil, fmt.Errorf("failed to transform input: %w", err)
	}
	raw, err := p.Forest.Predict(X)
	if err != nil {
		return nil, err
	}
	return p.Target.Inverse(raw), nil
}

// PredictOne predicts a single row and returns the scalar.
func (p *Pipeline) PredictOne(f *Frame) (float64, error) {
	if f.NumRows() != 1 {
		return 0, fmt.Errorf("expected exactly one row, got %d", f.NumRows())
	}
	out, err := p.Predict(f)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// FeatureNames returns the post-transform feature names, aligned with
// FeatureImportances.
func (p *Pipeline) FeatureNames() []string {
	return p.Pre.FeatureNames()
}

// FeatureImportances exposes the trained ensemble's per-feature
// importances.
func (p *Pipeline) FeatureImportances() ([]float64, error) {
	return p.Forest.FeatureImportances()
}
