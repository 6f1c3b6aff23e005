package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/your-org/olist-sales-model/internal/server"
)

// OptionsHandler exposes the default values and categorical choice
// lists a prediction UI needs to populate its form.
type OptionsHandler struct {
	defaults *server.Defaults
}

// NewOptionsHandler creates an OptionsHandler around computed defaults.
func NewOptionsHandler(defaults *server.Defaults) *OptionsHandler {
	return &OptionsHandler{defaults: defaults}
}

// RegisterRoutes registers the options route on a chi router.
func (h *OptionsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/options", h.GetOptions)
}

type optionsResponse struct {
	NumericDefaults     map[string]float64  `json:"numeric_defaults"`
	CategoricalDefaults map[string]string   `json:"categorical_defaults"`
	CategoricalOptions  map[string][]string `json:"categorical_options"`
}

// GetOptions returns medians, modes and observed category lists.
func (h *OptionsHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, optionsResponse{
		NumericDefaults:     h.defaults.Medians,
		CategoricalDefaults: h.defaults.Modes,
		CategoricalOptions:  h.defaults.Options,
	})
}
