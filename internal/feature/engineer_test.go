package feature

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/olist-sales-model/internal/dataset"
)

func mergedFixture(t *testing.T) *dataset.Table {
	t.Helper()
	cols := []string{
		"order_purchase_timestamp", "order_delivered_customer_date", "order_estimated_delivery_date",
		"price", "freight_value", "payment_value",
		"review_score", "seller_state", "customer_state", "payment_type", "product_category_name_english",
	}
	tab := dataset.NewTable(cols)
	rows := [][]string{
		// On-time delivery: 9 whole days elapsed, 13 estimated.
		{"2018-01-01 10:00:00", "2018-01-10 12:00:00", "2018-01-15 00:00:00", "100", "20", "120", "5", "SP", "RJ", "credit_card", "health_beauty"},
		// Late delivery: 19 whole days against 9 estimated.
		{"2018-03-01 08:00:00", "2018-03-20 08:00:00", "2018-03-10 08:00:00", "50", "10", "60", "4", "RS", "MG", "boleto", "sports_leisure"},
		// Null target, must be dropped.
		{"2018-04-01 08:00:00", "2018-04-05 08:00:00", "2018-04-10 08:00:00", "30", "5", "", "2", "SP", "SP", "voucher", "toys"},
		// Missing delivery date, derived cells stay null and get filled.
		{"2018-05-01 09:00:00", "", "2018-05-10 09:00:00", "80", "0", "80", "3", "SP", "RJ", "credit_card", "health_beauty"},
	}
	for _, row := range rows {
		require.NoError(t, tab.AppendRow(row))
	}
	return tab
}

func numValue(t *testing.T, tab *dataset.Table, row int, col string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(tab.Value(row, col), 64)
	require.NoError(t, err, "column %s row %d", col, row)
	return v
}

func TestEngineerDerivedFeatures(t *testing.T) {
	out, dropped, err := Engineer(mergedFixture(t))
	require.NoError(t, err)

	assert.Equal(t, 1, dropped, "the null-target row is the only drop")
	require.Equal(t, 3, out.NumRows())
	assert.Equal(t, ModelColumns(), out.Columns())

	assert.Equal(t, 9.0, numValue(t, out, 0, "delivery_days"))
	assert.Equal(t, 13.0, numValue(t, out, 0, "estimated_days"))
	assert.Equal(t, 0.0, numValue(t, out, 0, "delay_days"), "early delivery clamps to zero")
	assert.Equal(t, 0.0, numValue(t, out, 0, "purchase_weekday"), "2018-01-01 was a Monday")
	assert.Equal(t, 1.0, numValue(t, out, 0, "purchase_month"))
	assert.InDelta(t, 20.0/120.0, numValue(t, out, 0, "freight_ratio"), 1e-12)

	assert.Equal(t, 19.0, numValue(t, out, 1, "delivery_days"))
	assert.Equal(t, 10.0, numValue(t, out, 1, "delay_days"), "late delivery keeps its delay")
	assert.Equal(t, 3.0, numValue(t, out, 1, "purchase_weekday"), "2018-03-01 was a Thursday")

	assert.Equal(t, "120", out.Value(0, TargetColumn))
	assert.Equal(t, "60", out.Value(1, TargetColumn))
}

func TestEngineerFillsNulls(t *testing.T) {
	out, _, err := Engineer(mergedFixture(t))
	require.NoError(t, err)

	// No predictor cell is left empty.
	for r := 0; r < out.NumRows(); r++ {
		for _, c := range NumericFeatures {
			assert.NotEmpty(t, out.Value(r, c), "numeric %s row %d", c, r)
		}
		for _, c := range CategoricalFeatures {
			assert.NotEmpty(t, out.Value(r, c), "categorical %s row %d", c, r)
		}
	}

	// The row with the missing delivery date takes the column medians.
	assert.Equal(t, 14.0, numValue(t, out, 2, "delivery_days"), "median of 9 and 19")
	assert.Equal(t, 5.0, numValue(t, out, 2, "delay_days"), "median of 0 and 10")
	// Source columns absent from the merged dataset fill with 0.
	assert.Equal(t, 0.0, numValue(t, out, 0, "product_weight_g"))

	// Zero freight keeps the ratio finite.
	assert.Equal(t, 0.0, numValue(t, out, 2, "freight_ratio"))
}

func TestEngineerMissingColumn(t *testing.T) {
	tab := dataset.NewTable([]string{"price"})
	_, _, err := Engineer(tab)
	assert.Error(t, err)
}

func TestFreightRatio(t *testing.T) {
	assert.InDelta(t, 20.0/120.0, FreightRatio(100, 20), 1e-12)
	assert.Equal(t, 0.0, FreightRatio(0, 0), "zero total never divides by zero")
	assert.Equal(t, 1.0, FreightRatio(0, 15))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2018, 1, 10, 12, 0, 0, 0, time.UTC), ParseDate("2018-01-10 12:00:00"))
	assert.Equal(t, time.Date(2018, 1, 10, 0, 0, 0, 0, time.UTC), ParseDate("2018-01-10"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("not a date").IsZero())
}

func TestColumnMedian(t *testing.T) {
	tab := dataset.NewTable([]string{"v"})
	for _, v := range []string{"3", "1", "", "2", "10"} {
		require.NoError(t, tab.AppendRow([]string{v}))
	}

	med, ok, err := ColumnMedian(tab, "v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, med, "even count averages the two middle values")

	empty := dataset.NewTable([]string{"v"})
	require.NoError(t, empty.AppendRow([]string{""}))
	_, ok, err = ColumnMedian(empty, "v")
	require.NoError(t, err)
	assert.False(t, ok, "an all-null column has no median")
}

func TestColumnMode(t *testing.T) {
	tab := dataset.NewTable([]string{"v"})
	for _, v := range []string{"b", "a", "b", "", "a"} {
		require.NoError(t, tab.AppendRow([]string{v}))
	}

	mode, err := ColumnMode(tab, "v")
	require.NoError(t, err)
	assert.Equal(t, "a", mode, "frequency ties break to the smallest value")
}
