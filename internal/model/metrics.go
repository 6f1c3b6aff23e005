package model

import "fmt"

// MeanSquaredError returns the mean of squared residuals.
func MeanSquaredError(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0, fmt.Errorf("mismatched or empty slices: %d actual, %d predicted", len(actual), len(predicted))
	}
	var ss float64
	for i := range actual {
		d := actual[i] - predicted[i]
		ss += d * d
	}
	return ss / float64(len(actual)), nil
}

// RSquared returns the coefficient of determination. A constant actual
// vector has no variance to explain; that degenerate case returns 0.
func RSquared(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0, fmt.Errorf("mismatched or empty slices: %d actual, %d predicted", len(actual), len(predicted))
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		r := actual[i] - predicted[i]
		ssRes += r * r
		d := actual[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}
