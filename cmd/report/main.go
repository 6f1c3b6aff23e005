package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/report"
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

	metrics, err := artifact.LoadMetrics(filepath.Join(cfg.Data.ArtifactsDir, artifact.MetricsFile))
	if err != nil {
		sugar.Fatalf("failed to load metrics: %v", err)
	}
	names, err := artifact.LoadFeatureNames(filepath.Join(cfg.Data.ArtifactsDir, artifact.FeatureNamesFile))
	if err != nil {
		sugar.Fatalf("failed to load feature names: %v", err)
	}
	pipeline, err := artifact.LoadModel(filepath.Join(cfg.Data.ArtifactsDir, artifact.ModelFile))
	if err != nil {
		sugar.Fatalf("failed to load model: %v", err)
	}
	importances, err := pipeline.FeatureImportances()
	if err != nil {
		sugar.Fatalf("failed to read feature importances: %v", err)
	}
	ranked, err := report.RankImportances(names, importances)
	if err != nil {
		sugar.Fatalf("failed to rank feature importances: %v", err)
	}

	md := report.Render(report.Input{
		GeneratedAt: time.Now().UTC(),
		ModelName:   pipeline.Version,
		MSETest:     metrics.MSETest,
		R2Test:      metrics.R2Test,
		BestParams:  metrics.BestParams,
		Importances: ranked,
		TopFeatures: 10,
	})
	fmt.Print(md)

	out := filepath.Join(cfg.Data.ArtifactsDir, "model_report.md")
	if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
		sugar.Fatalf("failed to write report: %v", err)
	}
	sugar.Infof("evaluation report saved to %s", out)
}
