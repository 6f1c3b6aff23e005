package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCombinationsOrder(t *testing.T) {
	g := Grid{
		NEstimators: []int{10, 20},
		MaxDepth:    []int{3, 5},
		MaxFeatures: []string{"sqrt"},
	}
	combos := g.Combinations()
	require.Len(t, combos, 4)

	// Nested expansion order: n_estimators outermost, then max_depth.
	assert.Equal(t, ForestParams{NEstimators: 10, MaxDepth: 3, MinSamplesLeaf: 1, MinSamplesSplit: 2, MaxFeatures: "sqrt"}, combos[0])
	assert.Equal(t, ForestParams{NEstimators: 10, MaxDepth: 5, MinSamplesLeaf: 1, MinSamplesSplit: 2, MaxFeatures: "sqrt"}, combos[1])
	assert.Equal(t, ForestParams{NEstimators: 20, MaxDepth: 3, MinSamplesLeaf: 1, MinSamplesSplit: 2, MaxFeatures: "sqrt"}, combos[2])
	assert.Equal(t, ForestParams{NEstimators: 20, MaxDepth: 5, MinSamplesLeaf: 1, MinSamplesSplit: 2, MaxFeatures: "sqrt"}, combos[3])
}

func TestGridCombinationsEmptyDimensionsDefault(t *testing.T) {
	combos := Grid{}.Combinations()
	require.Len(t, combos, 1)
	assert.Equal(t, ForestParams{NEstimators: 100, MaxDepth: 0, MinSamplesLeaf: 1, MinSamplesSplit: 2, MaxFeatures: "sqrt"}, combos[0])
}

func TestGridSearchCV(t *testing.T) {
	f, y := syntheticFrame(40)
	grid := Grid{
		NEstimators: []int{5},
		MaxDepth:    []int{3, 6},
		MaxFeatures: []string{"sqrt"},
	}

	res, err := GridSearchCV(f, y, grid, 2, Log1pTransform{}, 42, 2, nil)
	require.NoError(t, err)

	require.Len(t, res.MeanScores, 2)
	assert.Contains(t, []int{3, 6}, res.BestParams.MaxDepth)
	found := false
	for _, s := range res.MeanScores {
		if s == res.BestScore {
			found = true
		}
	}
	assert.True(t, found, "best score is one of the mean scores")
}

func TestGridSearchCVIsDeterministic(t *testing.T) {
	f, y := syntheticFrame(40)
	grid := Grid{NEstimators: []int{5}, MaxDepth: []int{3, 6}}

	res1, err := GridSearchCV(f, y, grid, 2, Log1pTransform{}, 42, 1, nil)
	require.NoError(t, err)
	res2, err := GridSearchCV(f, y, grid, 2, Log1pTransform{}, 42, 4, nil)
	require.NoError(t, err)

	assert.Equal(t, res1.BestParams, res2.BestParams)
	assert.Empty(t, cmp.Diff(res1.MeanScores, res2.MeanScores))
}

func TestGridSearchCVValidation(t *testing.T) {
	f, y := syntheticFrame(10)

	_, err := GridSearchCV(f, y, Grid{}, 1, IdentityTransform{}, 1, 1, nil)
	assert.Error(t, err, "fewer than 2 folds")

	_, err = GridSearchCV(f, y, Grid{}, 11, IdentityTransform{}, 1, 1, nil)
	assert.Error(t, err, "more folds than rows")

	_, err = GridSearchCV(f, y[:5], Grid{}, 2, IdentityTransform{}, 1, 1, nil)
	assert.Error(t, err, "target length mismatch")
}
