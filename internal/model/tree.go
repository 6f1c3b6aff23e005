package model

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of a regression tree, stored flat so trees
// serialize cleanly. Internal nodes route on Feature <= Threshold;
// leaves carry the mean target of their training samples.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Leaf      bool
}

// RegressionTree is a CART regression tree grown by variance
// reduction.
type RegressionTree struct {
	Nodes []TreeNode
	// Importances is the per-feature total impurity decrease of this
	// tree, normalized to sum to one.
	Importances []float64
}

// treeConfig carries the resolved growth limits for one tree.
type treeConfig struct {
	maxDepth        int // 0 means unlimited
	minSamplesLeaf  int
	minSamplesSplit int
	maxFeatures     int
}

// fitTree grows a tree on the sample rows idx of X (rows x features).
func fitTree(X *mat.Dense, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) *RegressionTree {
	_, features := X.Dims()
	t := &RegressionTree{Importances: make([]float64, features)}
	t.grow(X, y, idx, 0, cfg, rng, len(idx))
	total := 0.0
	for _, v := range t.Importances {
		total += v
	}
	if total > 0 {
		for i := range t.Importances {
			t.Importances[i] /= total
		}
	}
	return t
}

// grow builds the subtree for idx and returns its node index.
func (t *RegressionTree) grow(X *mat.Dense, y []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand, totalSamples int) int {
	n := len(idx)
	sum, sumSq := 0.0, 0.0
	for _, r := range idx {
		sum += y[r]
		sumSq += y[r] * y[r]
	}
	mean := sum / float64(n)
	impurity := sumSq/float64(n) - mean*mean
	if impurity < 0 {
		impurity = 0
	}

	leaf := func() int {
		t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Value: mean})
		return len(t.Nodes) - 1
	}

	if n < cfg.minSamplesSplit || n < 2*cfg.minSamplesLeaf || impurity == 0 {
		return leaf()
	}
	if cfg.maxDepth > 0 && depth >= cfg.maxDepth {
		return leaf()
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, cfg, rng, sum, sumSq, impurity)
	if gain <= 0 {
		return leaf()
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, r := range idx {
		if X.At(r, feature) <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf()
	}

	t.Importances[feature] += gain / float64(totalSamples)

	// Reserve this node before growing children so child indices are
	// stable.
	t.Nodes = append(t.Nodes, TreeNode{Feature: feature, Threshold: threshold})
	node := len(t.Nodes) - 1
	l := t.grow(X, y, left, depth+1, cfg, rng, totalSamples)
	r := t.grow(X, y, right, depth+1, cfg, rng, totalSamples)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

// bestSplit scans a random feature subset for the split maximizing the
// weighted variance reduction n*imp - (nL*impL + nR*impR).
func (t *RegressionTree) bestSplit(X *mat.Dense, y []float64, idx []int, cfg treeConfig, rng *rand.Rand, sum, sumSq, impurity float64) (feature int, threshold, gain float64) {
	n := len(idx)
	feature = -1
	gain = 0

	candidates := rng.Perm(len(t.Importances))[:cfg.maxFeatures]

	type pair struct{ v, y float64 }
	pairs := make([]pair, n)

	for _, f := range candidates {
		for i, r := range idx {
			pairs[i] = pair{v: X.At(r, f), y: y[r]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })
		if pairs[0].v == pairs[n-1].v {
			continue // constant feature within this node
		}

		sumL, sumSqL := 0.0, 0.0
		for i := 0; i < n-1; i++ {
			sumL += pairs[i].y
			sumSqL += pairs[i].y * pairs[i].y
			if pairs[i].v == pairs[i+1].v {
				continue
			}
			nL := i + 1
			nR := n - nL
			if nL < cfg.minSamplesLeaf || nR < cfg.minSamplesLeaf {
				continue
			}
			sumR := sum - sumL
			sumSqR := sumSq - sumSqL
			varL := sumSqL/float64(nL) - (sumL/float64(nL))*(sumL/float64(nL))
			varR := sumSqR/float64(nR) - (sumR/float64(nR))*(sumR/float64(nR))
			g := float64(n)*impurity - (float64(nL)*varL + float64(nR)*varR)
			if g > gain {
				gain = g
				feature = f
				threshold = (pairs[i].v + pairs[i+1].v) / 2
			}
		}
	}
	return feature, threshold, gain
}

// Predict routes a feature vector down the tree. The root is the node
// appended first for a grown tree (index 0).
func (t *RegressionTree) Predict(x []float64) float64 {
	node := 0
	for {
		nd := t.Nodes[node]
		if nd.Leaf {
			return nd.Value
		}
		if x[nd.Feature] <= nd.Threshold {
			node = nd.Left
		} else {
			node = nd.Right
		}
	}
}
