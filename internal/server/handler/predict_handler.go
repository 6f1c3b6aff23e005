package handler

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/olist-sales-model/internal/model"
	"github.com/your-org/olist-sales-model/internal/server"
)

// PredictHandler serves single-row predictions from the loaded
// pipeline. Partial inputs are completed with historical defaults
// before predicting; a bad request fails that request only.
type PredictHandler struct {
	pipeline *model.Pipeline
	defaults *server.Defaults
	logger   *zap.SugaredLogger
}

// NewPredictHandler creates a PredictHandler around already-loaded
// artifacts.
func NewPredictHandler(pipeline *model.Pipeline, defaults *server.Defaults, logger *zap.SugaredLogger) *PredictHandler {
	return &PredictHandler{pipeline: pipeline, defaults: defaults, logger: logger}
}

// RegisterRoutes registers the prediction route on a chi router.
func (h *PredictHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/predict", h.Predict)
}

type predictRequest struct {
	Features map[string]any `json:"features"`
}

type predictResponse struct {
	Prediction   float64        `json:"prediction"`
	ModelVersion string         `json:"model_version"`
	Features     map[string]any `json:"features"`
}

// Predict completes the partial record, runs the pipeline on exactly
// one row and returns the predicted sale value.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Features == nil {
		req.Features = map[string]any{}
	}

	frame, err := h.defaults.BuildRow(req.Features)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prediction, err := h.pipeline.PredictOne(frame)
	if err != nil {
		h.logger.Errorw("prediction failed", "error", err)
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		h.logger.Errorw("prediction is not finite", "prediction", prediction)
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}

	resolved := make(map[string]any, len(frame.NumericNames)+len(frame.CategoricalNames))
	for i, n := range frame.NumericNames {
		resolved[n] = frame.Numeric[i][0]
	}
	for i, n := range frame.CategoricalNames {
		resolved[n] = frame.Categorical[i][0]
	}

	writeJSON(w, predictResponse{
		Prediction:   prediction,
		ModelVersion: h.pipeline.Version,
		Features:     resolved,
	})
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
