package feature

// The model-ready schema is fixed and explicit. Column order in the
// model-ready dataset is NumericFeatures, then CategoricalFeatures,
// then TargetColumn.

// NumericFeatures are the numeric predictor columns, standardized by
// the preprocessing transform.
var NumericFeatures = []string{
	"price",
	"freight_value",
	"product_name_lenght",
	"product_description_lenght",
	"product_photos_qty",
	"product_weight_g",
	"product_length_cm",
	"product_height_cm",
	"product_width_cm",
	"review_score",
	"payment_sequential",
	"payment_installments",
	"delivery_days",
	"estimated_days",
	"delay_days",
	"purchase_weekday",
	"purchase_month",
	"freight_ratio",
}

// CategoricalFeatures are the categorical predictor columns, one-hot
// encoded by the preprocessing transform.
var CategoricalFeatures = []string{
	"seller_state",
	"customer_state",
	"payment_type",
	"product_category_name_english",
}

// TargetColumn is the value the model predicts: the order's total
// payment value (payment_value renamed after the payment aggregation).
const TargetColumn = "total_sale_value"

// ModelColumns returns the full model-ready column list in stable order.
func ModelColumns() []string {
	cols := make([]string, 0, len(NumericFeatures)+len(CategoricalFeatures)+1)
	cols = append(cols, NumericFeatures...)
	cols = append(cols, CategoricalFeatures...)
	cols = append(cols, TargetColumn)
	return cols
}
