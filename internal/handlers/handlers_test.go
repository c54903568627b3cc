package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/history"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/middleware"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/predict"
	"github.com/soltixdb/trendlens/internal/services"
)

const populationJSON = `{
  "indicator": "Population, total",
  "data": {"data": [
    {"country": {"value": "A"}, "date": "2020", "value": 100},
    {"country": {"value": "A"}, "date": "2021", "value": 110},
    {"country": {"value": "A"}, "date": "2022", "value": 121},
    {"country": {"value": "B"}, "date": "2021", "value": -500},
    {"country": {"value": "B"}, "date": "2020", "value": -400},
    {"country": {"value": "C"}, "date": "2020", "value": 50},
    {"country": {"value": "C"}, "date": "2021", "value": null},
    {"country": {"value": "D"}, "date": "2020", "value": 7},
    {"country": {"value": "D"}, "date": "2021", "value": 8}
  ]}
}`

type stubPredictor struct {
	prompt string
	err    error
}

func (p *stubPredictor) Predict(_ context.Context, prompt string, _ ...predict.CallOption) (string, error) {
	p.prompt = prompt
	if p.err != nil {
		return "", p.err
	}
	return "Growth continues through 2030.", nil
}

func (p *stubPredictor) Model() string    { return "stub-model" }
func (p *stubPredictor) Provider() string { return predict.ProviderGitHub }

type testServer struct {
	app       *fiber.App
	dataDir   string
	store     *history.Store
	predictor *stubPredictor
}

func newTestServer(t *testing.T, withHistory bool) *testServer {
	t.Helper()
	logger := logging.NewNop()

	cfg := config.DefaultConfig()
	cfg.Analysis.DataDir = t.TempDir()
	cfg.Analysis.TopN = 2
	cfg.Analysis.Horizon = 5
	cfg.Analysis.Algorithm = "linear"

	ts := &testServer{dataDir: cfg.Analysis.DataDir, predictor: &stubPredictor{}}

	deps := services.AnalysisDeps{}
	if withHistory {
		store, err := history.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		ts.store = store
		deps.History = store
	}

	analysis, err := services.NewAnalysisService(logger, cfg.Analysis, deps)
	require.NoError(t, err)

	predictions := services.NewPredictionServiceWithFactory(logger, func(provider, model string) (predict.Predictor, error) {
		if provider == predict.ProviderAnthropic {
			return nil, predict.ErrMissingCredential
		}
		return ts.predictor, nil
	}, 10, nil, nil)

	hd := Deps{Analysis: analysis, Predictions: predictions}
	if ts.store != nil {
		hd.History = ts.store
	}
	h := New(logger, cfg, hd)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Get("/health", h.Health)
	app.Post("/v1/analyze", h.Analyze)
	app.Post("/v1/analyze/file", h.AnalyzeFile)
	app.Post("/v1/forecast", h.Forecast)
	app.Post("/v1/insights", h.Insights)
	app.Post("/v1/predict", h.Predict)
	app.Get("/v1/history", h.ListHistory)
	app.Get("/v1/history/:id", h.GetHistory)
	app.Use(h.NotFound)
	ts.app = app
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (ts *testServer) writeData(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(ts.dataDir, name), []byte(content), 0644))
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	return er.Error.Code
}

func TestHandler_Health(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.NotEmpty(t, health.Timestamp)
}

func TestHandler_NotFound(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "GET", "/nonexistent", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "NOT_FOUND", er.Error.Code)
	assert.Equal(t, "Route not found", er.Error.Message)
	assert.Equal(t, "/nonexistent", er.Error.Path)
}

func TestHandler_Analyze(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := ts.do(t, "POST", "/v1/analyze", populationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	runID := resp.Header.Get(HeaderRunID)
	assert.NotEmpty(t, runID)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "Population, total", result.Indicator)
	assert.Equal(t, 4, result.TotalEntities)
	assert.Equal(t, []string{"B", "A"}, result.EntityAnalyses.Names())
	require.NotNil(t, result.GlobalSummary)
	assert.Equal(t, 121.0, result.GlobalSummary.MaxValue)
	assert.Equal(t, -500.0, result.GlobalSummary.MinValue)

	run, err := ts.store.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, services.SourceInline, run.Source)
}

func TestHandler_Analyze_Query(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "POST", "/v1/analyze?country=D", populationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, []string{"D"}, result.EntityAnalyses.Names())

	resp, body = ts.do(t, "POST", "/v1/analyze?top_n=3", populationJSON)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Len(t, result.EntityAnalyses, 3)

	for _, bad := range []string{"0", "-1", "ten"} {
		resp, body = ts.do(t, "POST", "/v1/analyze?top_n="+bad, populationJSON)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
		assert.Equal(t, services.CodeInvalidRequest, errorCode(t, body))
	}
}

func TestHandler_Analyze_BadBody(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "POST", "/v1/analyze", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.CodeInvalidDataset, errorCode(t, body))

	resp, body = ts.do(t, "POST", "/v1/analyze", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.CodeInvalidDataset, errorCode(t, body))
}

func TestHandler_AnalyzeFile(t *testing.T) {
	ts := newTestServer(t, false)
	ts.writeData(t, "population.json", populationJSON)

	resp, body := ts.do(t, "POST", "/v1/analyze/file", `{"path": "population.json", "top_n": 1}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out models.AnalyzeFileResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.RunID)
	require.NotNil(t, out.Result)
	assert.Equal(t, []string{"B"}, out.Result.EntityAnalyses.Names())
	assert.Equal(t, filepath.Join(ts.dataDir, "population.json"), out.Result.Filepath)
}

func TestHandler_AnalyzeFile_Errors(t *testing.T) {
	ts := newTestServer(t, false)
	ts.writeData(t, "broken.json", "{")

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing path", `{}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"bad format", `{"path": "x.json", "formats": ["pdf"]}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"escaping path", `{"path": "../secret.json"}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"absolute path", `{"path": "/etc/passwd"}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"missing file", `{"path": "nope.json"}`, fiber.StatusNotFound, services.CodeDatasetNotFound},
		{"broken file", `{"path": "broken.json"}`, fiber.StatusBadRequest, services.CodeInvalidDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, "POST", "/v1/analyze/file", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestHandler_AnalyzeFile_ValidationDetails(t *testing.T) {
	ts := newTestServer(t, false)

	_, body := ts.do(t, "POST", "/v1/analyze/file", `{"top_n": 5000}`)
	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	assert.Equal(t, "required", er.Error.Details["path"])
	assert.Equal(t, "max=1000", er.Error.Details["top_n"])
}

func TestHandler_Forecast(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "POST", "/v1/forecast", `{"dataset": `+populationJSON+`, "country": "A", "horizon": 2}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Country  string       `json:"country"`
		Horizon  int          `json:"horizon"`
		Trend    string       `json:"trend"`
		Forecast [][2]float64 `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "A", out.Country)
	assert.Equal(t, 2, out.Horizon)
	assert.Equal(t, "increasing", out.Trend)
	require.Len(t, out.Forecast, 2)
	assert.Equal(t, 2023.0, out.Forecast[0][0])
	assert.InDelta(t, 131.3333, out.Forecast[0][1], 1e-3)
}

func TestHandler_Forecast_Errors(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing dataset", `{"country": "A"}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"missing country", `{"dataset": ` + populationJSON + `}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"horizon too large", `{"dataset": ` + populationJSON + `, "country": "A", "horizon": 101}`, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{"unknown country", `{"dataset": ` + populationJSON + `, "country": "Z"}`, fiber.StatusNotFound, services.CodeEntityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, "POST", "/v1/forecast", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestHandler_Insights(t *testing.T) {
	ts := newTestServer(t, false)

	text := "Model: gpt-4o\n" +
		"- Population will likely grow by 5% in 2030 due to strong growth.\n" +
		"However, the outlook remains uncertain."
	payload, err := json.Marshal(models.InsightsRequest{Name: "pred.txt", Text: text})
	require.NoError(t, err)

	resp, body := ts.do(t, "POST", "/v1/insights", string(payload))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "pred.txt", out["filename"])
	assert.Equal(t, "gpt-4o", out["model"])

	resp, body = ts.do(t, "POST", "/v1/insights", `{"name": "x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.CodeInvalidRequest, errorCode(t, body))
}

func TestHandler_Predict(t *testing.T) {
	ts := newTestServer(t, false)
	ts.writeData(t, "population.json", populationJSON)

	resp, body := ts.do(t, "POST", "/v1/predict", `{"path": "population.json", "question": "Where is A heading?"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out models.PredictResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, predict.ProviderGitHub, out.Provider)
	assert.Equal(t, "stub-model", out.Model)
	assert.Equal(t, "Growth continues through 2030.", out.Prediction)
	assert.Empty(t, out.Output)
	assert.Contains(t, ts.predictor.prompt, "Where is A heading?")
}

func TestHandler_Predict_Errors(t *testing.T) {
	ts := newTestServer(t, false)
	ts.writeData(t, "population.json", populationJSON)

	resp, body := ts.do(t, "POST", "/v1/predict", `{"path": "population.json", "provider": "openai"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.CodeInvalidRequest, errorCode(t, body))

	resp, body = ts.do(t, "POST", "/v1/predict", `{"path": "population.json", "provider": "anthropic"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, services.CodeProviderUnavailable, errorCode(t, body))

	ts.predictor.err = errors.New("upstream exploded")
	resp, body = ts.do(t, "POST", "/v1/predict", `{"path": "population.json"}`)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, services.CodePredictionFailed, errorCode(t, body))
}

func TestHandler_History(t *testing.T) {
	ts := newTestServer(t, true)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, ts.store.Record(ctx, models.AnalysisRun{
			ID:             id,
			Indicator:      "GDP",
			Source:         "gdp.json",
			TotalCountries: 3,
			Selected:       2,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}))
	}

	resp, body := ts.do(t, "GET", "/v1/history?limit=2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list models.HistoryListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Runs, 2)
	assert.Equal(t, "run-3", list.Runs[0].ID)
	assert.Equal(t, "run-2", list.Runs[1].ID)

	resp, body = ts.do(t, "GET", "/v1/history/run-1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var run models.AnalysisRun
	require.NoError(t, json.Unmarshal(body, &run))
	assert.Equal(t, "GDP", run.Indicator)
	assert.True(t, base.Equal(run.CreatedAt))

	resp, body = ts.do(t, "GET", "/v1/history/missing", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	resp, _ = ts.do(t, "GET", "/v1/history?limit=abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_History_Disabled(t *testing.T) {
	ts := newTestServer(t, false)

	resp, body := ts.do(t, "GET", "/v1/history", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errorCode(t, body))
}
