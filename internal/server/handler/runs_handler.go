package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/olist-sales-model/internal/runstore"
)

// RunLister lists past training runs.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]runstore.Run, error)
}

// RunsHandler exposes the training run history.
type RunsHandler struct {
	store  RunLister
	logger *zap.SugaredLogger
}

// NewRunsHandler creates a RunsHandler. A nil store disables the
// endpoint with 503 instead of crashing the server.
func NewRunsHandler(store RunLister, logger *zap.SugaredLogger) *RunsHandler {
	return &RunsHandler{store: store, logger: logger}
}

// RegisterRoutes registers the runs route on a chi router.
func (h *RunsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/runs", h.GetRuns)
}

// GetRuns returns the most recent training runs, newest first.
func (h *RunsHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "run history is not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list training runs", "error", err)
		http.Error(w, "failed to list training runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}
