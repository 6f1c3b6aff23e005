// Package config handles application configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines the structure for all pipeline configuration.
type Config struct {
	App      AppConf      `yaml:"app"`
	Data     DataConf     `yaml:"data"`
	Training TrainingConf `yaml:"training"`
	Server   ServerConf   `yaml:"server"`
	RunStore RunStoreConf `yaml:"runstore"`
}

// AppConf holds application-wide settings.
type AppConf struct {
	LogLevel string `yaml:"log_level"`
}

// DataConf holds the directories the pipeline stages exchange files through.
type DataConf struct {
	// RawDir contains the nine raw Olist CSV tables.
	RawDir string `yaml:"raw_dir"`
	// ProcessedDir receives the merged and model-ready datasets.
	ProcessedDir string `yaml:"processed_dir"`
	// ArtifactsDir receives the trained model, metrics and feature names.
	ArtifactsDir string `yaml:"artifacts_dir"`
}

// TrainingConf holds the train/tune parameters.
type TrainingConf struct {
	Seed     int64    `yaml:"seed"`
	TestSize float64  `yaml:"test_size"`
	CVFolds  int      `yaml:"cv_folds"`
	Workers  int      `yaml:"workers"` // 0 means one worker per CPU
	Grid     GridConf `yaml:"grid"`
}

// GridConf is the exhaustive hyperparameter grid for the forest.
type GridConf struct {
	NEstimators     []int    `yaml:"n_estimators"`
	MaxDepth        []int    `yaml:"max_depth"`
	MinSamplesLeaf  []int    `yaml:"min_samples_leaf"`
	MinSamplesSplit []int    `yaml:"min_samples_split"`
	MaxFeatures     []string `yaml:"max_features"`
}

// ServerConf holds the serving layer settings.
type ServerConf struct {
	Addr               string   `yaml:"addr"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// RunStoreConf holds the training run history store settings.
type RunStoreConf struct {
	Path string `yaml:"path"`
}

// LoadConfig loads configuration from the specified YAML file path and
// applies environment variable overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		App:  AppConf{LogLevel: "info"},
		Data: DataConf{RawDir: "database", ProcessedDir: "data_processed", ArtifactsDir: "data"},
		Training: TrainingConf{
			Seed:     42,
			TestSize: 0.2,
			CVFolds:  5,
		},
		Server:   ServerConf{Addr: ":8080"},
		RunStore: RunStoreConf{Path: "data/runs.db"},
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Overrides from environment variables.
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("RUNSTORE_PATH"); path != "" {
		cfg.RunStore.Path = path
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("training.test_size must be in (0, 1), got %v", c.Training.TestSize)
	}
	if c.Training.CVFolds < 2 {
		return fmt.Errorf("training.cv_folds must be at least 2, got %d", c.Training.CVFolds)
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("training.workers must not be negative, got %d", c.Training.Workers)
	}
	return nil
}
