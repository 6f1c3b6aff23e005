package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/explore"
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

	path := filepath.Join(cfg.Data.ProcessedDir, artifact.MergedDatasetFile)
	file, err := os.Open(path)
	if err != nil {
		sugar.Fatalf("merged dataset is missing (expected at %s); run cmd/merge first: %v", path, err)
	}
	defer file.Close()

	summary, err := explore.Summarize(file)
	if err != nil {
		sugar.Fatalf("failed to summarize dataset: %v", err)
	}
	fmt.Print(summary)

	out := filepath.Join(cfg.Data.ProcessedDir, "exploration_summary.txt")
	if err := os.WriteFile(out, []byte(summary), 0o644); err != nil {
		sugar.Fatalf("failed to write exploration summary: %v", err)
	}
	sugar.Infof("exploration summary saved to %s", out)
}
