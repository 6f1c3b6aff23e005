package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/report"
)

// MetricsHandler exposes the persisted evaluation metrics of the
// loaded model.
type MetricsHandler struct {
	metrics artifact.Metrics
}

// NewMetricsHandler creates a MetricsHandler around the loaded metrics
// record.
func NewMetricsHandler(metrics artifact.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// RegisterRoutes registers the metrics route on a chi router.
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/metrics", h.GetMetrics)
}

type metricsResponse struct {
	MSETest     float64        `json:"mse_teste"`
	R2Test      float64        `json:"r2_teste"`
	RMSETest    float64        `json:"rmse_teste"`
	RMSEDisplay string         `json:"rmse_display"`
	R2Display   string         `json:"r2_display"`
	BestParams  map[string]any `json:"best_params"`
}

// GetMetrics returns the test metrics, including the derived RMSE in
// display form.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, metricsResponse{
		MSETest:     h.metrics.MSETest,
		R2Test:      h.metrics.R2Test,
		RMSETest:    report.RMSE(h.metrics.MSETest),
		RMSEDisplay: report.FormatRMSE(h.metrics.MSETest),
		R2Display:   report.FormatR2(h.metrics.R2Test),
		BestParams:  h.metrics.BestParams,
	})
}
