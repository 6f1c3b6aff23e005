// Package artifact persists and loads the training pipeline's outputs:
// the fitted model, its evaluation metrics and the post-transform
// feature names. Each artifact is an independent file so the serving
// layer can load them without re-deriving any training state.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/your-org/olist-sales-model/internal/model"
)

// Artifact file names under the artifacts directory.
const (
	ModelFile        = "sales_model.gob"
	MetricsFile      = "model_metrics.json"
	FeatureNamesFile = "feature_names.json"
)

// Dataset file names under the processed directory.
const (
	MergedDatasetFile = "olist_dataset_full.csv"
	ModelDatasetFile  = "model_dataset.csv"
)

// Metrics is the persisted metrics record of one training run. The
// JSON keys are a fixed external interface.
type Metrics struct {
	MSETest    float64        `json:"mse_teste"`
	R2Test     float64        `json:"r2_teste"`
	BestParams map[string]any `json:"best_params"`
}

// ParamsMap flattens forest hyperparameters into the best_params
// mapping persisted with the metrics.
func ParamsMap(p model.ForestParams) map[string]any {
	return map[string]any{
		"n_estimators":      p.NEstimators,
		"max_depth":         p.MaxDepth,
		"min_samples_leaf":  p.MinSamplesLeaf,
		"min_samples_split": p.MinSamplesSplit,
		"max_features":      p.MaxFeatures,
	}
}

// MissingError describes an artifact that is not on disk, naming the
// stage that should have produced it.
type MissingError struct {
	Path  string
	Stage string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("artifact %s is missing; run %s first", e.Path, e.Stage)
}

// wrapMissing converts file-not-found errors into MissingError.
func wrapMissing(err error, path, stage string) error {
	if os.IsNotExist(err) {
		return &MissingError{Path: path, Stage: stage}
	}
	return err
}

// SaveModel writes the fitted pipeline as a gob artifact, atomically.
func SaveModel(path string, p *model.Pipeline) error {
	return writeAtomic(path, func(f *os.File) error {
		if err := gob.NewEncoder(f).Encode(p); err != nil {
			return fmt.Errorf("failed to encode model: %w", err)
		}
		return nil
	})
}

// LoadModel reads a fitted pipeline back from disk.
func LoadModel(path string) (*model.Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapMissing(err, path, "the training stage (cmd/train)")
	}
	defer f.Close()

	p := &model.Pipeline{}
	if err := gob.NewDecoder(f).Decode(p); err != nil {
		return nil, fmt.Errorf("failed to decode model from %s: %w", path, err)
	}
	return p, nil
}

// SaveMetrics writes the metrics record as indented JSON, atomically.
func SaveMetrics(path string, m Metrics) error {
	return writeAtomic(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "    ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
		return nil
	})
}

// LoadMetrics reads the metrics record.
func LoadMetrics(path string) (Metrics, error) {
	var m Metrics
	data, err := os.ReadFile(path)
	if err != nil {
		return m, wrapMissing(err, path, "the training stage (cmd/train)")
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse metrics from %s: %w", path, err)
	}
	return m, nil
}

// SaveFeatureNames writes the ordered post-transform feature names,
// atomically.
func SaveFeatureNames(path string, names []string) error {
	return writeAtomic(path, func(f *os.File) error {
		if err := json.NewEncoder(f).Encode(names); err != nil {
			return fmt.Errorf("failed to encode feature names: %w", err)
		}
		return nil
	})
}

// LoadFeatureNames reads the ordered post-transform feature names.
func LoadFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapMissing(err, path, "the training stage (cmd/train)")
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse feature names from %s: %w", path, err)
	}
	return names, nil
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place, so a failed save never leaves a partial
// artifact behind.
func writeAtomic(path string, write func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact file: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp.Name()))
		}
	}()

	if werr := write(tmp); werr != nil {
		return multierr.Append(werr, tmp.Close())
	}
	if cerr := tmp.Close(); cerr != nil {
		return fmt.Errorf("failed to close temp artifact file: %w", cerr)
	}
	if rerr := os.Rename(tmp.Name(), path); rerr != nil {
		return fmt.Errorf("failed to move artifact into place: %w", rerr)
	}
	return nil
}
