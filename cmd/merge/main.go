package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/dataset"
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

	sugar.Infof("loading raw tables from %s", cfg.Data.RawDir)
	raw, err := dataset.LoadRawTables(cfg.Data.RawDir)
	if err != nil {
		sugar.Fatalf("failed to load raw tables: %v", err)
	}

	merged, err := dataset.Merge(raw)
	if err != nil {
		sugar.Fatalf("failed to merge tables: %v", err)
	}
	if merged.NumRows() != raw.OrderItems.NumRows() {
		sugar.Fatalf("merged row count %d does not match order items %d", merged.NumRows(), raw.OrderItems.NumRows())
	}

	if err := os.MkdirAll(cfg.Data.ProcessedDir, 0o755); err != nil {
		sugar.Fatalf("failed to create processed dir: %v", err)
	}
	out := filepath.Join(cfg.Data.ProcessedDir, artifact.MergedDatasetFile)
	if err := merged.WriteCSV(out); err != nil {
		sugar.Fatalf("failed to write merged dataset: %v", err)
	}
	sugar.Infof("merged dataset saved: %d rows x %d columns -> %s", merged.NumRows(), merged.NumCols(), out)
}
