package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/feature"
	"github.com/your-org/olist-sales-model/internal/model"
	"github.com/your-org/olist-sales-model/internal/runstore"
	"github.com/your-org/olist-sales-model/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/app_config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	l := logger.MustNew(cfg.App.LogLevel)
	defer l.Sync()
	sugar := l.Sugar()

	in := filepath.Join(cfg.Data.ProcessedDir, artifact.ModelDatasetFile)
	table, err := dataset.ReadCSV(in)
	if err != nil {
		sugar.Fatalf("model-ready dataset is missing (expected at %s); run cmd/features first: %v", in, err)
	}
	frame, y, err := feature.ToFrame(table)
	if err != nil {
		sugar.Fatalf("failed to build training frame: %v", err)
	}
	sugar.Infof("loaded %d rows with %d numeric and %d categorical predictors",
		frame.NumRows(), len(frame.NumericNames), len(frame.CategoricalNames))

	opts := model.TrainOptions{
		Grid: model.Grid{
			NEstimators:     cfg.Training.Grid.NEstimators,
			MaxDepth:        cfg.Training.Grid.MaxDepth,
			MinSamplesLeaf:  cfg.Training.Grid.MinSamplesLeaf,
			MinSamplesSplit: cfg.Training.Grid.MinSamplesSplit,
			MaxFeatures:     cfg.Training.Grid.MaxFeatures,
		},
		Folds:    cfg.Training.CVFolds,
		TestSize: cfg.Training.TestSize,
		Seed:     cfg.Training.Seed,
		Workers:  cfg.Training.Workers,
	}

	start := time.Now()
	out, err := model.Train(frame, y, opts, sugar)
	if err != nil {
		sugar.Fatalf("training failed: %v", err)
	}
	duration := time.Since(start)
	sugar.Infof("training finished in %s: test mse=%.4f r2=%.4f", duration, out.Eval.MSE, out.Eval.R2)

	metrics := artifact.Metrics{
		MSETest:    out.Eval.MSE,
		R2Test:     out.Eval.R2,
		BestParams: artifact.ParamsMap(out.Search.BestParams),
	}
	modelPath := filepath.Join(cfg.Data.ArtifactsDir, artifact.ModelFile)
	if err := artifact.SaveModel(modelPath, out.Pipeline); err != nil {
		sugar.Fatalf("failed to save model: %v", err)
	}
	metricsPath := filepath.Join(cfg.Data.ArtifactsDir, artifact.MetricsFile)
	if err := artifact.SaveMetrics(metricsPath, metrics); err != nil {
		sugar.Fatalf("failed to save metrics: %v", err)
	}
	names := out.Pipeline.FeatureNames()
	namesPath := filepath.Join(cfg.Data.ArtifactsDir, artifact.FeatureNamesFile)
	if err := artifact.SaveFeatureNames(namesPath, names); err != nil {
		sugar.Fatalf("failed to save feature names: %v", err)
	}
	sugar.Infof("artifacts saved under %s (model version %s)", cfg.Data.ArtifactsDir, out.Pipeline.Version)

	if cfg.RunStore.Path != "" {
		if err := recordRun(cfg.RunStore.Path, out, metrics, len(names), duration); err != nil {
			sugar.Fatalf("failed to record training run: %v", err)
		}
		sugar.Infof("training run recorded in %s", cfg.RunStore.Path)
	}
}

// recordRun appends the finished run to the run history store.
func recordRun(path string, out *model.TrainOutput, metrics artifact.Metrics, featureCount int, duration time.Duration) error {
	store, err := runstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	params, err := json.Marshal(metrics.BestParams)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.InsertRun(ctx, runstore.Run{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		MSETest:      metrics.MSETest,
		R2Test:       metrics.R2Test,
		BestParams:   string(params),
		TrainRows:    out.TrainRows,
		TestRows:     out.TestRows,
		FeatureCount: featureCount,
		DurationMS:   duration.Milliseconds(),
	})
}
