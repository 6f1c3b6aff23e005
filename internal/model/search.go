package model

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Grid is the exhaustive hyperparameter grid for the forest. Empty
// dimensions fall back to a single default value so a partial grid is
// still searchable.
type Grid struct {
	NEstimators     []int
	MaxDepth        []int
	MinSamplesLeaf  []int
	MinSamplesSplit []int
	MaxFeatures     []string
}

// Combinations expands the grid in a fixed nested order, which is also
// the tie-break order of the search (first-encountered best wins).
func (g Grid) Combinations() []ForestParams {
	nEst := g.NEstimators
	if len(nEst) == 0 {
		nEst = []int{100}
	}
	depth := g.MaxDepth
	if len(depth) == 0 {
		depth = []int{0}
	}
	leaf := g.MinSamplesLeaf
	if len(leaf) == 0 {
		leaf = []int{1}
	}
	split := g.MinSamplesSplit
	if len(split) == 0 {
		split = []int{2}
	}
	maxF := g.MaxFeatures
	if len(maxF) == 0 {
		maxF = []string{"sqrt"}
	}

	out := make([]ForestParams, 0, len(nEst)*len(depth)*len(leaf)*len(split)*len(maxF))
	for _, n := range nEst {
		for _, d := range depth {
			for _, l := range leaf {
				for _, s := range split {
					for _, m := range maxF {
						out = append(out, ForestParams{
							NEstimators:     n,
							MaxDepth:        d,
							MinSamplesLeaf:  l,
							MinSamplesSplit: s,
							MaxFeatures:     m,
						})
					}
				}
			}
		}
	}
	return out
}

// SearchResult is the outcome of a cross-validated grid search.
type SearchResult struct {
	BestParams ForestParams
	BestScore  float64
	// MeanScores holds the mean cross-validated R2 per combination, in
	// Combinations order.
	MeanScores []float64
}

// GridSearchCV evaluates every parameter combination with k-fold cross
// validation on (f, y), scoring by R2 on the original target scale,
// and selects the combination maximizing the mean score. Folds are
// contiguous and unshuffled. Evaluations are pure functions of
// (params, fold) and run on a bounded worker pool; results are reduced
// by index, so the outcome is independent of scheduling.
func GridSearchCV(f *Frame, y []float64, grid Grid, folds int, target TargetTransform, seed int64, workers int, log *zap.SugaredLogger) (*SearchResult, error) {
	n := f.NumRows()
	if n != len(y) {
		return nil, fmt.Errorf("frame has %d rows, target has %d", n, len(y))
	}
	if folds < 2 {
		return nil, fmt.Errorf("cross validation needs at least 2 folds, got %d", folds)
	}
	if n < folds {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, folds)
	}
	combos := grid.Combinations()

	valFolds := kFolds(n, folds)
	trainFolds := make([][]int, folds)
	for i, val := range valFolds {
		train := make([]int, 0, n-len(val))
		for r := 0; r < n; r++ {
			if len(val) > 0 && r >= val[0] && r <= val[len(val)-1] {
				continue
			}
			train = append(train, r)
		}
		trainFolds[i] = train
	}

	type job struct{ combo, fold int }
	scores := make([][]float64, len(combos))
	for i := range scores {
		scores[i] = make([]float64, folds)
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	jobs := make(chan job)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				score, err := evaluateFold(f, y, combos[j.combo], target, seed, trainFolds[j.fold], valFolds[j.fold])
				if err != nil {
					setErr(fmt.Errorf("combination %d fold %d: %w", j.combo, j.fold, err))
					continue
				}
				scores[j.combo][j.fold] = score
			}
		}()
	}
	for ci := range combos {
		for fi := 0; fi < folds; fi++ {
			jobs <- job{combo: ci, fold: fi}
		}
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	result := &SearchResult{
		BestScore:  math.Inf(-1),
		MeanScores: make([]float64, len(combos)),
	}
	for ci, combo := range combos {
		mean := 0.0
		for _, s := range scores[ci] {
			mean += s
		}
		mean /= float64(folds)
		result.MeanScores[ci] = mean
		if log != nil {
			log.Debugf("grid search: params=%+v mean_cv_r2=%.4f", combo, mean)
		}
		if mean > result.BestScore {
			result.BestScore = mean
			result.BestParams = combo
		}
	}
	if math.IsInf(result.BestScore, -1) {
		return nil, fmt.Errorf("grid search produced no valid score")
	}
	return result, nil
}

// evaluateFold fits one combination on a training fold and scores it
// on the validation fold. Tree fitting runs single-threaded here; the
// parallelism lives at the (params, fold) level.
func evaluateFold(f *Frame, y []float64, params ForestParams, target TargetTransform, seed int64, trainIdx, valIdx []int) (float64, error) {
	p := NewPipeline(f.NumericNames, f.CategoricalNames, params, target, seed)
	if err := p.Fit(f.Subset(trainIdx), subsetFloats(y, trainIdx), 1); err != nil {
		return 0, err
	}
	pred, err := p.Predict(f.Subset(valIdx))
	if err != nil {
		return 0, err
	}
	return RSquared(subsetFloats(y, valIdx), pred)
}
