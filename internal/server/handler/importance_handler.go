package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/your-org/olist-sales-model/internal/report"
)

// ImportanceHandler exposes the trained ensemble's feature importance
// ranking, paired with the persisted post-encoding feature names.
type ImportanceHandler struct {
	ranked []report.FeatureImportance
}

// NewImportanceHandler creates an ImportanceHandler around an already
// ranked importance list.
func NewImportanceHandler(ranked []report.FeatureImportance) *ImportanceHandler {
	return &ImportanceHandler{ranked: ranked}
}

// RegisterRoutes registers the importances route on a chi router.
func (h *ImportanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/importances", h.GetImportances)
}

// GetImportances returns the top-N features by importance (default 10).
func (h *ImportanceHandler) GetImportances(w http.ResponseWriter, r *http.Request) {
	top := 10
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		top = n
	}
	writeJSON(w, report.TopN(h.ranked, top))
}
