package model

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ForestParams are the tunable hyperparameters of the random forest.
type ForestParams struct {
	NEstimators     int
	MaxDepth        int // 0 means unlimited
	MinSamplesLeaf  int
	MinSamplesSplit int
	MaxFeatures     string // "sqrt", "log2" or "" for all features
}

func (p ForestParams) withDefaults() ForestParams {
	if p.NEstimators <= 0 {
		p.NEstimators = 100
	}
	if p.MinSamplesLeaf <= 0 {
		p.MinSamplesLeaf = 1
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	return p
}

// resolveMaxFeatures maps the max_features setting to a feature count.
func resolveMaxFeatures(setting string, features int) (int, error) {
	var m int
	switch setting {
	case "sqrt":
		m = int(math.Sqrt(float64(features)))
	case "log2":
		m = int(math.Log2(float64(features)))
	case "", "all":
		m = features
	default:
		return 0, fmt.Errorf("unknown max_features setting %q", setting)
	}
	if m < 1 {
		m = 1
	}
	if m > features {
		m = features
	}
	return m, nil
}

// Forest is a bagged ensemble of CART regression trees.
type Forest struct {
	Params      ForestParams
	NumFeatures int
	Trees       []*RegressionTree
}

// Fit grows the ensemble on the design matrix X and target y. Each
// tree is grown on a bootstrap sample with its own RNG seeded
// seed+treeIndex, so the fitted forest is identical no matter how the
// worker pool schedules the trees.
func (f *Forest) Fit(X *mat.Dense, y []float64, seed int64, workers int) error {
	rows, features := X.Dims()
	if rows == 0 || rows != len(y) {
		return fmt.Errorf("invalid training data: %d rows, %d targets", rows, len(y))
	}
	f.Params = f.Params.withDefaults()
	maxFeatures, err := resolveMaxFeatures(f.Params.MaxFeatures, features)
	if err != nil {
		return err
	}
	cfg := treeConfig{
		maxDepth:        f.Params.MaxDepth,
		minSamplesLeaf:  f.Params.MinSamplesLeaf,
		minSamplesSplit: f.Params.MinSamplesSplit,
		maxFeatures:     maxFeatures,
	}

	f.NumFeatures = features
	f.Trees = make([]*RegressionTree, f.Params.NEstimators)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(seed + int64(i)))
				sample := make([]int, rows)
				for j := range sample {
					sample[j] = rng.Intn(rows)
				}
				f.Trees[i] = fitTree(X, y, sample, cfg, rng)
			}
		}()
	}
	for i := 0; i < f.Params.NEstimators; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return nil
}

// Predict averages the tree predictions for every row of X.
func (f *Forest) Predict(X *mat.Dense) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("forest is not fitted")
	}
	rows, features := X.Dims()
	if features != f.NumFeatures {
		return nil, fmt.Errorf("input has %d features, forest was fitted on %d", features, f.NumFeatures)
	}
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		x := X.RawRowView(r)
		sum := 0.0
		for _, tree := range f.Trees {
			sum += tree.Predict(x)
		}
		out[r] = sum / float64(len(f.Trees))
	}
	return out, nil
}

// FeatureImportances returns the mean per-feature impurity decrease
// across trees, normalized to sum to one.
func (f *Forest) FeatureImportances() ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("forest is not fitted")
	}
	out := make([]float64, f.NumFeatures)
	for _, tree := range f.Trees {
		for i, v := range tree.Importances {
			out[i] += v
		}
	}
	total := 0.0
	for i := range out {
		out[i] /= float64(len(f.Trees))
		total += out[i]
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out, nil
}
