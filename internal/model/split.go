package model

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit partitions row indices 0..n-1 into a train and a test
// set. The split is a seeded Fisher-Yates permutation, so the same
// seed on the same input always yields identical partitions.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	nTest := int(math.Round(float64(n) * testSize))
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test, nil
}

// kFolds splits row indices 0..n-1 into k contiguous validation folds
// in data order. The first n%k folds get one extra row.
func kFolds(n, k int) [][]int {
	folds := make([][]int, k)
	base := n / k
	extra := n % k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		fold := make([]int, 0, size)
		for j := start; j < start+size; j++ {
			fold = append(fold, j)
		}
		folds[i] = fold
		start += size
	}
	return folds
}
