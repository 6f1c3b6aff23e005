package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplitIsDeterministic(t *testing.T) {
	train1, test1, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	_, testOther, err := TrainTestSplit(100, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1, testOther, "a different seed shuffles differently")
}

func TestTrainTestSplitPartition(t *testing.T) {
	train, test, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, test, 20)
	assert.Len(t, train, 80)

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	for i, v := range all {
		assert.Equal(t, i, v, "every row appears exactly once")
	}
}

func TestTrainTestSplitBounds(t *testing.T) {
	// Rounding never empties either side.
	train, test, err := TrainTestSplit(3, 0.01, 1)
	require.NoError(t, err)
	assert.Len(t, test, 1)
	assert.Len(t, train, 2)

	train, test, err = TrainTestSplit(3, 0.99, 1)
	require.NoError(t, err)
	assert.Len(t, test, 2)
	assert.Len(t, train, 1)

	_, _, err = TrainTestSplit(1, 0.2, 1)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 0, 1)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 1, 1)
	assert.Error(t, err)
}

func TestKFolds(t *testing.T) {
	folds := kFolds(10, 3)
	require.Len(t, folds, 3)
	assert.Equal(t, []int{0, 1, 2, 3}, folds[0], "first fold takes the remainder row")
	assert.Equal(t, []int{4, 5, 6}, folds[1])
	assert.Equal(t, []int{7, 8, 9}, folds[2])
}
