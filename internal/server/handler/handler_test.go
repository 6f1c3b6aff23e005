package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/olist-sales-model/internal/artifact"
	"github.com/your-org/olist-sales-model/internal/dataset"
	"github.com/your-org/olist-sales-model/internal/feature"
	"github.com/your-org/olist-sales-model/internal/model"
	"github.com/your-org/olist-sales-model/internal/report"
	"github.com/your-org/olist-sales-model/internal/runstore"
	"github.com/your-org/olist-sales-model/internal/server"
)

// fixture builds a small fitted pipeline plus the defaults computed
// from its training table.
func fixture(t *testing.T) (*model.Pipeline, *server.Defaults) {
	t.Helper()
	tab := dataset.NewTable(feature.ModelColumns())
	states := []string{"SP", "RJ", "MG", "SP"}
	payments := []string{"credit_card", "boleto", "credit_card", "voucher"}
	categories := []string{"health_beauty", "toys", "health_beauty", "sports_leisure"}
	for r := 0; r < 4; r++ {
		cells := make([]string, 0, tab.NumCols())
		for _, c := range tab.Columns() {
			switch c {
			case "seller_state", "customer_state":
				cells = append(cells, states[r])
			case "payment_type":
				cells = append(cells, payments[r])
			case "product_category_name_english":
				cells = append(cells, categories[r])
			case feature.TargetColumn:
				cells = append(cells, strconv.Itoa(100*(r+1)))
			default:
				cells = append(cells, strconv.Itoa(r+1))
			}
		}
		require.NoError(t, tab.AppendRow(cells))
	}

	frame, y, err := feature.ToFrame(tab)
	require.NoError(t, err)
	p := model.NewPipeline(frame.NumericNames, frame.CategoricalNames,
		model.ForestParams{NEstimators: 3, MaxDepth: 3}, model.Log1pTransform{}, 7)
	require.NoError(t, p.Fit(frame, y, 1))

	defaults, err := server.ComputeDefaults(tab)
	require.NoError(t, err)
	return p, defaults
}

func TestPredictHandler(t *testing.T) {
	pipeline, defaults := fixture(t)
	r := chi.NewRouter()
	NewPredictHandler(pipeline, defaults, zap.NewNop().Sugar()).RegisterRoutes(r)

	body := `{"features":{"price":100.0,"freight_value":20.0,"seller_state":"SP"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Prediction   float64        `json:"prediction"`
		ModelVersion string         `json:"model_version"`
		Features     map[string]any `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Prediction, 0.0)
	assert.Equal(t, pipeline.Version, resp.ModelVersion)
	assert.Equal(t, 100.0, resp.Features["price"])
	assert.NotEmpty(t, resp.Features["payment_type"], "unset features echo their resolved defaults")
}

func TestPredictHandlerUnseenCategory(t *testing.T) {
	pipeline, defaults := fixture(t)
	r := chi.NewRouter()
	NewPredictHandler(pipeline, defaults, zap.NewNop().Sugar()).RegisterRoutes(r)

	body := `{"features":{"seller_state":"ZZ"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "an unseen category must not fail the request")
	var resp struct {
		Prediction float64 `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Prediction, 0.0)
}

func TestPredictHandlerBadRequests(t *testing.T) {
	pipeline, defaults := fixture(t)
	r := chi.NewRouter()
	NewPredictHandler(pipeline, defaults, zap.NewNop().Sugar()).RegisterRoutes(r)

	for name, body := range map[string]string{
		"invalid json":    `{"features":`,
		"unknown feature": `{"features":{"bogus":1}}`,
		"wrong type":      `{"features":{"price":"expensive"}}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestMetricsHandler(t *testing.T) {
	r := chi.NewRouter()
	NewMetricsHandler(artifact.Metrics{
		MSETest:    400.0,
		R2Test:     0.87,
		BestParams: map[string]any{"n_estimators": 200},
	}).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 400.0, resp["mse_teste"])
	assert.Equal(t, 20.0, resp["rmse_teste"])
	assert.Equal(t, "20.00", resp["rmse_display"])
	assert.Equal(t, "87.00%", resp["r2_display"])
}

func TestImportanceHandler(t *testing.T) {
	ranked := make([]report.FeatureImportance, 0, 12)
	for i := 0; i < 12; i++ {
		ranked = append(ranked, report.FeatureImportance{
			Feature:    "f" + strconv.Itoa(i),
			Importance: float64(12 - i),
		})
	}
	r := chi.NewRouter()
	NewImportanceHandler(ranked).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/importances", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []report.FeatureImportance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 10, "defaults to the top ten")
	assert.Equal(t, "f0", out[0].Feature)

	req = httptest.NewRequest(http.MethodGet, "/api/importances?top=3", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 3)

	req = httptest.NewRequest(http.MethodGet, "/api/importances?top=abc", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsHandler(t *testing.T) {
	_, defaults := fixture(t)
	r := chi.NewRouter()
	NewOptionsHandler(defaults).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		NumericDefaults     map[string]float64  `json:"numeric_defaults"`
		CategoricalDefaults map[string]string   `json:"categorical_defaults"`
		CategoricalOptions  map[string][]string `json:"categorical_options"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.NumericDefaults, "price")
	assert.Equal(t, "SP", resp.CategoricalDefaults["seller_state"])
	assert.Equal(t, []string{"MG", "RJ", "SP"}, resp.CategoricalOptions["seller_state"])
}

type fakeRunLister struct {
	runs []runstore.Run
}

func (f *fakeRunLister) ListRuns(ctx context.Context, limit int) ([]runstore.Run, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func TestRunsHandler(t *testing.T) {
	lister := &fakeRunLister{runs: []runstore.Run{
		{ID: "run-2", MSETest: 380},
		{ID: "run-1", MSETest: 400},
	}}
	r := chi.NewRouter()
	NewRunsHandler(lister, zap.NewNop().Sugar()).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []runstore.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "run-2", out[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/runs?limit=1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsHandlerWithoutStore(t *testing.T) {
	r := chi.NewRouter()
	NewRunsHandler(nil, zap.NewNop().Sugar()).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthCheckHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HealthCheckHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
