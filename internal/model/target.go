package model

import "math"

// TargetTransform maps the target before fitting and maps predictions
// back afterwards, so downstream consumers never see the transformed
// scale.
type TargetTransform interface {
	Forward(y []float64) []float64
	Inverse(y []float64) []float64
	Name() string
}

// Log1pTransform fits on log1p(target) and inverts with expm1. It
// stabilizes variance in the right-skewed monetary target.
type Log1pTransform struct{}

// Forward applies log1p element-wise.
func (Log1pTransform) Forward(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = math.Log1p(v)
	}
	return out
}

// Inverse applies expm1 element-wise.
func (Log1pTransform) Inverse(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = math.Expm1(v)
	}
	return out
}

// Name identifies the transform in logs and reports.
func (Log1pTransform) Name() string { return "log1p" }

// IdentityTransform leaves the target untouched.
type IdentityTransform struct{}

// Forward returns y unchanged.
func (IdentityTransform) Forward(y []float64) []float64 { return y }

// Inverse returns y unchanged.
func (IdentityTransform) Inverse(y []float64) []float64 { return y }

// Name identifies the transform in logs and reports.
func (IdentityTransform) Name() string { return "identity" }
