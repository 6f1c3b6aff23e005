package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
data:
  raw_dir: /data/raw
training:
  seed: 7
  test_size: 0.25
  cv_folds: 3
  grid:
    n_estimators: [100, 200]
    max_depth: [10, 20, 30]
    max_features: ["sqrt", "log2"]
server:
  addr: ":9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "/data/raw", cfg.Data.RawDir)
	assert.Equal(t, "data_processed", cfg.Data.ProcessedDir, "unset keys keep their defaults")
	assert.Equal(t, int64(7), cfg.Training.Seed)
	assert.Equal(t, 0.25, cfg.Training.TestSize)
	assert.Equal(t, 3, cfg.Training.CVFolds)
	assert.Equal(t, []int{100, 200}, cfg.Training.Grid.NEstimators)
	assert.Equal(t, []string{"sqrt", "log2"}, cfg.Training.Grid.MaxFeatures)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.Equal(t, 5, cfg.Training.CVFolds)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/runs.db", cfg.RunStore.Path)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("RUNSTORE_PATH", "/tmp/runs.db")

	cfg, err := LoadConfig(writeConfig(t, "app: {log_level: info}\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/tmp/runs.db", cfg.RunStore.Path)
}

func TestLoadConfigValidation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "training: {test_size: 1.5}\n"))
	assert.ErrorContains(t, err, "test_size")

	_, err = LoadConfig(writeConfig(t, "training: {cv_folds: 1}\n"))
	assert.ErrorContains(t, err, "cv_folds")

	_, err = LoadConfig(writeConfig(t, "training: {workers: -1}\n"))
	assert.ErrorContains(t, err, "workers")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "app: [broken\n"))
	assert.Error(t, err)
}
