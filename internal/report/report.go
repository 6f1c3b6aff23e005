// Package report renders the evaluation report for a training run:
// test metrics, the dominant features and run provenance, as Markdown.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// FeatureImportance pairs a post-transform feature name with its
// importance score.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// RankImportances pairs names with scores and sorts descending by
// importance. Ties break by feature name so the ranking is stable.
func RankImportances(names []string, importances []float64) ([]FeatureImportance, error) {
	if len(names) != len(importances) {
		return nil, fmt.Errorf("got %d feature names for %d importances", len(names), len(importances))
	}
	out := make([]FeatureImportance, len(names))
	for i := range names {
		out[i] = FeatureImportance{Feature: names[i], Importance: importances[i]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Importance != out[b].Importance {
			return out[a].Importance > out[b].Importance
		}
		return out[a].Feature < out[b].Feature
	})
	return out, nil
}

// TopN returns the first n entries of a ranked importance list.
func TopN(ranked []FeatureImportance, n int) []FeatureImportance {
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// RMSE derives the root mean squared error from a mean squared error.
func RMSE(mse float64) float64 {
	if mse < 0 {
		return 0
	}
	return math.Sqrt(mse)
}

// FormatRMSE renders an RMSE for display, two decimals.
func FormatRMSE(mse float64) string {
	return fmt.Sprintf("%.2f", RMSE(mse))
}

// FormatR2 renders an R2 as a percentage, two decimals.
func FormatR2(r2 float64) string {
	return fmt.Sprintf("%.2f%%", r2*100)
}

// Input carries everything the report needs.
type Input struct {
	GeneratedAt time.Time
	ModelName   string
	MSETest     float64
	R2Test      float64
	BestParams  map[string]any
	Importances []FeatureImportance
	TopFeatures int
}

// Render produces the Markdown evaluation report.
func Render(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales Model Evaluation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", in.GeneratedAt.Format(time.RFC3339))
	if in.ModelName != "" {
		fmt.Fprintf(&b, "Model version: %s\n\n", in.ModelName)
	}

	fmt.Fprintf(&b, "## Test-Set Performance\n\n")
	fmt.Fprintf(&b, "- R-squared: %s\n", FormatR2(in.R2Test))
	fmt.Fprintf(&b, "- RMSE: %s\n", FormatRMSE(in.MSETest))
	fmt.Fprintf(&b, "- MSE: %.4f\n\n", in.MSETest)

	if len(in.BestParams) > 0 {
		fmt.Fprintf(&b, "## Selected Hyperparameters\n\n")
		keys := make([]string, 0, len(in.BestParams))
		for k := range in.BestParams {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %v\n", k, in.BestParams[k])
		}
		fmt.Fprintf(&b, "\n")
	}

	top := TopN(in.Importances, in.TopFeatures)
	if len(top) > 0 {
		fmt.Fprintf(&b, "## Top Features\n\n")
		for _, fi := range top {
			fmt.Fprintf(&b, "- %s: %.3f\n", fi.Feature, fi.Importance)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Notes\n\n")
	fmt.Fprintf(&b, "The model predicts an order item's total sale value from product, ")
	fmt.Fprintf(&b, "seller, customer and delivery features. Predictions are made on the ")
	fmt.Fprintf(&b, "original monetary scale; the log transform applied during training is ")
	fmt.Fprintf(&b, "inverted internally.\n")
	return b.String()
}
