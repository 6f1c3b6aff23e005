// Package feature turns the merged Olist dataset into the model-ready
// table: it derives delivery, calendar and freight features, prunes
// identifier and leakage columns, and fills the remaining nulls.
package feature

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/your-org/olist-sales-model/internal/dataset"
)

// Date layouts seen in the Olist tables.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an Olist date cell. Unparseable or empty values
// return a zero time, never an error; the zero time is the null-date
// sentinel.
func ParseDate(cell string) time.Time {
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FreightRatio is the freight share of the total charge,
// freight / (price + freight), defined as 0 when price+freight is 0 so
// a zero-priced row never propagates a NaN.
func FreightRatio(price, freight float64) float64 {
	total := price + freight
	if total == 0 {
		return 0
	}
	return freight / total
}

// wholeDays returns the difference to - from in whole days.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Engineer builds the model-ready table from the merged dataset.
//
// Rows with a null target are dropped; this is the only row-removal
// step. Derived feature cells stay empty when their source dates are
// missing and are median-filled afterwards, like every other numeric
// null. Negative delivery delays (early deliveries) are clamped to
// zero for compatibility with the historical model.
func Engineer(merged *dataset.Table) (*dataset.Table, int, error) {
	required := []string{
		"order_purchase_timestamp",
		"order_delivered_customer_date",
		"order_estimated_delivery_date",
		"price",
		"freight_value",
		"payment_value",
	}
	for _, c := range required {
		if !merged.HasColumn(c) {
			return nil, 0, fmt.Errorf("merged dataset has no %s column", c)
		}
	}
	for _, c := range CategoricalFeatures {
		if !merged.HasColumn(c) {
			return nil, 0, fmt.Errorf("merged dataset has no %s column", c)
		}
	}

	out := dataset.NewTable(ModelColumns())
	dropped := 0
	for r := 0; r < merged.NumRows(); r++ {
		target := merged.Value(r, "payment_value")
		if _, ok := dataset.ParseFloat(target); !ok {
			dropped++
			continue
		}

		purchase := ParseDate(merged.Value(r, "order_purchase_timestamp"))
		delivered := ParseDate(merged.Value(r, "order_delivered_customer_date"))
		estimated := ParseDate(merged.Value(r, "order_estimated_delivery_date"))

		var deliveryDays, estimatedDays, delayDays, weekday, month string
		if !purchase.IsZero() {
			if !delivered.IsZero() {
				deliveryDays = strconv.Itoa(wholeDays(purchase, delivered))
			}
			if !estimated.IsZero() {
				estimatedDays = strconv.Itoa(wholeDays(purchase, estimated))
			}
			if !delivered.IsZero() && !estimated.IsZero() {
				delay := wholeDays(purchase, delivered) - wholeDays(purchase, estimated)
				if delay < 0 {
					delay = 0
				}
				delayDays = strconv.Itoa(delay)
			}
			// Monday = 0 .. Sunday = 6.
			weekday = strconv.Itoa((int(purchase.Weekday()) + 6) % 7)
			month = strconv.Itoa(int(purchase.Month()))
		}

		var ratio string
		price, okP := dataset.ParseFloat(merged.Value(r, "price"))
		freight, okF := dataset.ParseFloat(merged.Value(r, "freight_value"))
		if okP && okF {
			ratio = strconv.FormatFloat(FreightRatio(price, freight), 'f', -1, 64)
		}

		derived := map[string]string{
			"delivery_days":    deliveryDays,
			"estimated_days":   estimatedDays,
			"delay_days":       delayDays,
			"purchase_weekday": weekday,
			"purchase_month":   month,
			"freight_ratio":    ratio,
		}

		cells := make([]string, 0, out.NumCols())
		for _, c := range NumericFeatures {
			if v, ok := derived[c]; ok {
				cells = append(cells, v)
				continue
			}
			cells = append(cells, merged.Value(r, c))
		}
		for _, c := range CategoricalFeatures {
			cells = append(cells, merged.Value(r, c))
		}
		cells = append(cells, target)
		if err := out.AppendRow(cells); err != nil {
			return nil, 0, err
		}
	}

	if err := fillNulls(out); err != nil {
		return nil, 0, err
	}
	return out, dropped, nil
}

// fillNulls replaces empty predictor cells with the column median
// (numeric) or mode (categorical). The target column is never filled;
// null-target rows were already dropped.
func fillNulls(t *dataset.Table) error {
	for _, c := range NumericFeatures {
		med, ok, err := ColumnMedian(t, c)
		if err != nil {
			return err
		}
		if !ok {
			med = 0 // column is entirely null
		}
		fill := strconv.FormatFloat(med, 'f', -1, 64)
		if err := replaceEmpty(t, c, fill); err != nil {
			return err
		}
	}
	for _, c := range CategoricalFeatures {
		mode, err := ColumnMode(t, c)
		if err != nil {
			return err
		}
		if err := replaceEmpty(t, c, mode); err != nil {
			return err
		}
	}
	return nil
}

func replaceEmpty(t *dataset.Table, col, fill string) error {
	i, ok := t.ColumnIndex(col)
	if !ok {
		return fmt.Errorf("unknown column %q", col)
	}
	for r := 0; r < t.NumRows(); r++ {
		if t.Row(r)[i] == "" {
			t.Row(r)[i] = fill
		}
	}
	return nil
}

// ColumnMedian computes the median over the non-null values of a
// numeric column. Even-sized samples average the two middle values.
// The second return value is false when the column is entirely null.
func ColumnMedian(t *dataset.Table, col string) (float64, bool, error) {
	values, err := t.Column(col)
	if err != nil {
		return 0, false, err
	}
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := dataset.ParseFloat(v); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return 0, false, nil
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid], true, nil
	}
	return (nums[mid-1] + nums[mid]) / 2, true, nil
}

// ColumnMode returns the most frequent non-null value of a column.
// Frequency ties break to the lexicographically smallest value so the
// fill is deterministic.
func ColumnMode(t *dataset.Table, col string) (string, error) {
	values, err := t.Column(col)
	if err != nil {
		return "", err
	}
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	mode := ""
	best := 0
	for v, n := range counts {
		if n > best || (n == best && (mode == "" || v < mode)) {
			mode = v
			best = n
		}
	}
	return mode, nil
}
