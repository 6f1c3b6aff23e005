package dataset

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// File names of the nine raw Olist tables expected under the raw data
// directory.
const (
	CustomersFile   = "olist_customers_dataset.csv"
	GeolocationFile = "olist_geolocation_dataset.csv"
	OrderItemsFile  = "olist_order_items_dataset.csv"
	PaymentsFile    = "olist_order_payments_dataset.csv"
	ReviewsFile     = "olist_order_reviews_dataset.csv"
	OrdersFile      = "olist_orders_dataset.csv"
	ProductsFile    = "olist_products_dataset.csv"
	SellersFile     = "olist_sellers_dataset.csv"
	TranslationFile = "product_category_name_translation.csv"
)

// RawTables holds the nine loaded Olist tables.
type RawTables struct {
	Customers   *Table
	Geolocation *Table
	OrderItems  *Table
	Payments    *Table
	Reviews     *Table
	Orders      *Table
	Products    *Table
	Sellers     *Table
	Translation *Table
}

// LoadRawTables loads all nine raw tables from dir. A missing or
// unreadable table is a fatal configuration error; there is no partial
// pipeline run.
func LoadRawTables(dir string) (*RawTables, error) {
	load := func(name string) (*Table, error) {
		path := filepath.Join(dir, name)
		t, err := ReadCSV(path)
		if err != nil {
			return nil, fmt.Errorf("raw table %s could not be loaded (expected at %s): %w", name, path, err)
		}
		return t, nil
	}

	raw := &RawTables{}
	var err error
	if raw.Customers, err = load(CustomersFile); err != nil {
		return nil, err
	}
	if raw.Geolocation, err = load(GeolocationFile); err != nil {
		return nil, err
	}
	if raw.OrderItems, err = load(OrderItemsFile); err != nil {
		return nil, err
	}
	if raw.Payments, err = load(PaymentsFile); err != nil {
		return nil, err
	}
	if raw.Reviews, err = load(ReviewsFile); err != nil {
		return nil, err
	}
	if raw.Orders, err = load(OrdersFile); err != nil {
		return nil, err
	}
	if raw.Products, err = load(ProductsFile); err != nil {
		return nil, err
	}
	if raw.Sellers, err = load(SellersFile); err != nil {
		return nil, err
	}
	if raw.Translation, err = load(TranslationFile); err != nil {
		return nil, err
	}
	return raw, nil
}

// DeduplicateReviews reduces the reviews table to one row per order_id.
// Rows are sorted by review_answer_timestamp ascending and the last row
// per order wins, so the most recently answered review is kept.
func DeduplicateReviews(reviews *Table) (*Table, error) {
	orderIdx, ok := reviews.ColumnIndex("order_id")
	if !ok {
		return nil, fmt.Errorf("reviews table has no order_id column")
	}
	tsIdx, ok := reviews.ColumnIndex("review_answer_timestamp")
	if !ok {
		return nil, fmt.Errorf("reviews table has no review_answer_timestamp column")
	}

	order := make([]int, reviews.NumRows())
	for i := range order {
		order[i] = i
	}
	// Olist timestamps are "YYYY-MM-DD HH:MM:SS", so lexicographic
	// order is chronological order.
	sort.SliceStable(order, func(a, b int) bool {
		return reviews.rows[order[a]][tsIdx] < reviews.rows[order[b]][tsIdx]
	})

	latest := make(map[string]int, reviews.NumRows())
	seen := make([]string, 0, reviews.NumRows())
	for _, r := range order {
		id := reviews.rows[r][orderIdx]
		if _, ok := latest[id]; !ok {
			seen = append(seen, id)
		}
		latest[id] = r
	}
	sort.Strings(seen)

	out := NewTable(reviews.cols)
	for _, id := range seen {
		out.rows = append(out.rows, reviews.rows[latest[id]])
	}
	return out, nil
}

// AggregatePayments reduces the payments table to one economically
// meaningful row per order_id: max sequential number, first payment
// type, max installment count and the decimal sum of payment values. A
// single order may carry several payment rows (e.g. part voucher, part
// boleto).
func AggregatePayments(payments *Table) (*Table, error) {
	cols := []string{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"}
	idx := make(map[string]int, len(cols))
	for _, c := range cols {
		i, ok := payments.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("payments table has no %s column", c)
		}
		idx[c] = i
	}

	type agg struct {
		sequential   int
		paymentType  string
		installments int
		value        decimal.Decimal
	}

	groups := make(map[string]*agg)
	orderIDs := make([]string, 0)
	for _, row := range payments.rows {
		id := row[idx["order_id"]]
		g, ok := groups[id]
		if !ok {
			g = &agg{paymentType: row[idx["payment_type"]], value: decimal.Zero}
			groups[id] = g
			orderIDs = append(orderIDs, id)
		}
		if seq, err := strconv.Atoi(row[idx["payment_sequential"]]); err == nil && seq > g.sequential {
			g.sequential = seq
		}
		if inst, err := strconv.Atoi(row[idx["payment_installments"]]); err == nil && inst > g.installments {
			g.installments = inst
		}
		if v, err := decimal.NewFromString(row[idx["payment_value"]]); err == nil {
			g.value = g.value.Add(v)
		}
	}

	out := NewTable(cols)
	for _, id := range orderIDs {
		g := groups[id]
		out.rows = append(out.rows, []string{
			id,
			strconv.Itoa(g.sequential),
			g.paymentType,
			strconv.Itoa(g.installments),
			g.value.String(),
		})
	}
	return out, nil
}

// Merge joins the nine raw tables into one denormalized dataset with
// one row per order item. All joins are left joins from the order items
// table, so the merged row count equals the order-items row count.
// Geolocation is loaded and validated upstream but not joined; the
// seller/customer distance feature derived from it is deferred.
func Merge(raw *RawTables) (*Table, error) {
	data, err := raw.OrderItems.LeftJoin(raw.Orders, "order_id", "_order")
	if err != nil {
		return nil, fmt.Errorf("failed to join orders: %w", err)
	}
	if data, err = data.LeftJoin(raw.Products, "product_id", "_product"); err != nil {
		return nil, fmt.Errorf("failed to join products: %w", err)
	}
	if data, err = data.LeftJoin(raw.Sellers, "seller_id", "_seller"); err != nil {
		return nil, fmt.Errorf("failed to join sellers: %w", err)
	}
	if data, err = data.LeftJoin(raw.Customers, "customer_id", "_customer"); err != nil {
		return nil, fmt.Errorf("failed to join customers: %w", err)
	}

	reviews, err := DeduplicateReviews(raw.Reviews)
	if err != nil {
		return nil, err
	}
	if data, err = data.LeftJoin(reviews, "order_id", "_review"); err != nil {
		return nil, fmt.Errorf("failed to join reviews: %w", err)
	}

	payments, err := AggregatePayments(raw.Payments)
	if err != nil {
		return nil, err
	}
	if data, err = data.LeftJoin(payments, "order_id", "_payment"); err != nil {
		return nil, fmt.Errorf("failed to join payments: %w", err)
	}

	if data, err = data.LeftJoin(raw.Translation, "product_category_name", "_translation"); err != nil {
		return nil, fmt.Errorf("failed to join category translation: %w", err)
	}
	return data, nil
}

// ParseFloat parses a cell as float64. The second return value is false
// for empty cells, unparseable values and NaN/Inf.
func ParseFloat(cell string) (float64, bool) {
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
