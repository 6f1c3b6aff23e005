package model

import (
	"fmt"

	"go.uber.org/zap"
)

// TrainOptions configures one training run.
type TrainOptions struct {
	Grid     Grid
	Folds    int
	TestSize float64
	Seed     int64
	Workers  int
}

// Evaluation holds the held-out test metrics on the original target
// scale.
type Evaluation struct {
	MSE float64
	R2  float64
}

// TrainOutput is everything a training run produces.
type TrainOutput struct {
	Pipeline  *Pipeline
	Search    *SearchResult
	Eval      Evaluation
	TrainRows int
	TestRows  int
}

// Train runs the full training pipeline: deterministic train/test
// split, cross-validated grid search on the training split, a final
// fit of the best combination, and a single evaluation on the held-out
// test split.
func Train(f *Frame, y []float64, opts TrainOptions, log *zap.SugaredLogger) (*TrainOutput, error) {
	trainIdx, testIdx, err := TrainTestSplit(f.NumRows(), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	trainF, testF := f.Subset(trainIdx), f.Subset(testIdx)
	trainY, testY := subsetFloats(y, trainIdx), subsetFloats(y, testIdx)

	if log != nil {
		log.Infof("training on %d rows, holding out %d rows", len(trainIdx), len(testIdx))
	}

	target := Log1pTransform{}
	search, err := GridSearchCV(trainF, trainY, opts.Grid, opts.Folds, target, opts.Seed, opts.Workers, log)
	if err != nil {
		return nil, fmt.Errorf("grid search failed: %w", err)
	}
	if log != nil {
		log.Infof("grid search selected %+v with mean cv r2 %.4f", search.BestParams, search.BestScore)
	}

	pipeline := NewPipeline(f.NumericNames, f.CategoricalNames, search.BestParams, target, opts.Seed)
	if err := pipeline.Fit(trainF, trainY, opts.Workers); err != nil {
		return nil, fmt.Errorf("final fit failed: %w", err)
	}

	pred, err := pipeline.Predict(testF)
	if err != nil {
		return nil, fmt.Errorf("test-set prediction failed: %w", err)
	}
	mse, err := MeanSquaredError(testY, pred)
	if err != nil {
		return nil, err
	}
	r2, err := RSquared(testY, pred)
	if err != nil {
		return nil, err
	}

	return &TrainOutput{
		Pipeline:  pipeline,
		Search:    search,
		Eval:      Evaluation{MSE: mse, R2: r2},
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
	}, nil
}
