package explore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	csv := strings.Join([]string{
		"price,seller_state",
		"100.5,SP",
		"50.0,RJ",
		",SP",
	}, "\n")

	out, err := Summarize(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Contains(t, out, "3 rows")
	assert.Contains(t, out, "2 columns")
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "seller_state")
}

func TestSummarizeEmptyInput(t *testing.T) {
	_, err := Summarize(strings.NewReader(""))
	assert.Error(t, err)
}
