package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerFitTransform(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{
		{2, 4, 6, 8},
		{7, 7, 7, 7},
	}))

	assert.Equal(t, 5.0, s.Mean[0])
	assert.InDelta(t, 2.2360679, s.Scale[0], 1e-6, "population standard deviation")
	assert.Equal(t, 0.0, s.TransformValue(0, 5))
	assert.InDelta(t, 1.3416407, s.TransformValue(0, 8), 1e-6)

	assert.Equal(t, 1.0, s.Scale[1], "constant column keeps scale 1")
	assert.Equal(t, 0.0, s.TransformValue(1, 7))
}

func TestStandardScalerEmptyColumn(t *testing.T) {
	s := &StandardScaler{}
	assert.Error(t, s.Fit([][]float64{{}}))
}
