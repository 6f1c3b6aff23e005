package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes numeric columns to zero mean and unit
// variance using statistics from the training data only.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit computes per-column mean and standard deviation. Constant
// columns get a scale of 1 so transforming them yields 0 instead of
// dividing by zero.
func (s *StandardScaler) Fit(cols [][]float64) error {
	s.Mean = make([]float64, len(cols))
	s.Scale = make([]float64, len(cols))
	for i, col := range cols {
		if len(col) == 0 {
			return fmt.Errorf("cannot fit scaler on empty column %d", i)
		}
		mean := stat.Mean(col, nil)
		// Population variance, matching the convention of fitting
		// statistics on the full training sample.
		var ss float64
		for _, v := range col {
			d := v - mean
			ss += d * d
		}
		variance := ss / float64(len(col))
		s.Mean[i] = mean
		if variance == 0 {
			s.Scale[i] = 1
		} else {
			s.Scale[i] = math.Sqrt(variance)
		}
	}
	return nil
}

// TransformValue standardizes a single value of column i.
func (s *StandardScaler) TransformValue(i int, v float64) float64 {
	return (v - s.Mean[i]) / s.Scale[i]
}
