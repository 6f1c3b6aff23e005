package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/feature"
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

	in := filepath.Join(cfg.Data.ProcessedDir, artifact.MergedDatasetFile)
	merged, err := dataset.ReadCSV(in)
	if err != nil {
		sugar.Fatalf("merged dataset is missing (expected at %s); run cmd/merge first: %v", in, err)
	}
	sugar.Infof("loaded merged dataset: %d rows x %d columns", merged.NumRows(), merged.NumCols())

	ready, dropped, err := feature.Engineer(merged)
	if err != nil {
		sugar.Fatalf("feature engineering failed: %v", err)
	}
	sugar.Infof("dropped %d rows with a null target", dropped)

	out := filepath.Join(cfg.Data.ProcessedDir, artifact.ModelDatasetFile)
	if err := ready.WriteCSV(out); err != nil {
		sugar.Fatalf("failed to write model-ready dataset: %v", err)
	}
	sugar.Infof("model-ready dataset saved: %d rows x %d columns -> %s", ready.NumRows(), ready.NumCols(), out)
}
