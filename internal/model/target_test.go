package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog1pTransformRoundTrip(t *testing.T) {
	tr := Log1pTransform{}
	y := []float64{0, 1, 99.5, 12345.67}

	back := tr.Inverse(tr.Forward(y))
	for i := range y {
		assert.InDelta(t, y[i], back[i], 1e-9)
	}
	assert.Equal(t, "log1p", tr.Name())
}

func TestIdentityTransform(t *testing.T) {
	tr := IdentityTransform{}
	y := []float64{1, 2, 3}
	assert.Equal(t, y, tr.Forward(y))
	assert.Equal(t, y, tr.Inverse(y))
	assert.Equal(t, "identity", tr.Name())
}
