package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/config"
	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/report"
	"github.com/your-org/olist-sales-model/internal/runstore"
	"github.com/your-org/olist-sales-model/internal/server"
	"github.com/your-org/olist-sales-model/internal/server/handler"
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

	pipeline, err := artifact.LoadModel(filepath.Join(cfg.Data.ArtifactsDir, artifact.ModelFile))
	if err != nil {
		sugar.Fatalf("failed to load model: %v", err)
	}
	metrics, err := artifact.LoadMetrics(filepath.Join(cfg.Data.ArtifactsDir, artifact.MetricsFile))
	if err != nil {
		sugar.Fatalf("failed to load metrics: %v", err)
	}
	names, err := artifact.LoadFeatureNames(filepath.Join(cfg.Data.ArtifactsDir, artifact.FeatureNamesFile))
	if err != nil {
		sugar.Fatalf("failed to load feature names: %v", err)
	}
	importances, err := pipeline.FeatureImportances()
	if err != nil {
		sugar.Fatalf("failed to read feature importances: %v", err)
	}
	ranked, err := report.RankImportances(names, importances)
	if err != nil {
		sugar.Fatalf("failed to rank feature importances: %v", err)
	}

	datasetPath := filepath.Join(cfg.Data.ProcessedDir, artifact.ModelDatasetFile)
	table, err := dataset.ReadCSV(datasetPath)
	if err != nil {
		sugar.Fatalf("model-ready dataset is missing (expected at %s); run cmd/features first: %v", datasetPath, err)
	}
	defaults, err := server.ComputeDefaults(table)
	if err != nil {
		sugar.Fatalf("failed to compute input defaults: %v", err)
	}
	sugar.Infof("loaded model %s with %d features", pipeline.Version, len(names))

	var store *runstore.Store
	if cfg.RunStore.Path != "" {
		store, err = runstore.Open(cfg.RunStore.Path)
		if err != nil {
			sugar.Warnf("run history unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", handler.HealthCheckHandler)
	handler.NewPredictHandler(pipeline, defaults, sugar).RegisterRoutes(r)
	handler.NewMetricsHandler(metrics).RegisterRoutes(r)
	handler.NewImportanceHandler(ranked).RegisterRoutes(r)
	handler.NewOptionsHandler(defaults).RegisterRoutes(r)
	var lister handler.RunLister
	if store != nil {
		lister = store
	}
	handler.NewRunsHandler(lister, sugar).RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: c.Handler(r),
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infof("serving predictions on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("server error: %v", err)
		}
	case sig := <-sigCh:
		sugar.Infof("received signal %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			sugar.Errorf("graceful shutdown failed: %v", err)
		}
	}
}
