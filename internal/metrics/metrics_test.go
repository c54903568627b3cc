package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()

	m.ObserveAnalysis(nil, 10*time.Millisecond, 3)
	m.ObserveAnalysis(nil, 5*time.Millisecond, 0)
	m.ObserveAnalysis(errors.New("boom"), time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(StatusError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.recordsDropped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.analysisDuration))
}

func TestObservePrediction(t *testing.T) {
	m := New()
	m.ObservePrediction("github", nil)
	m.ObservePrediction("anthropic", errors.New("rate limited"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("github", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionsTotal.WithLabelValues("anthropic", StatusError)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis(nil, time.Second, 1)
		m.ObservePrediction("github", nil)
		m.EventPublishFailed()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveAnalysis(nil, time.Millisecond, 2)
	m.EventPublishFailed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `trendlens_analyses_total{status="success"} 1`)
	assert.Contains(t, text, "trendlens_records_dropped_total 2")
	assert.Contains(t, text, "trendlens_event_publish_failures_total 1")
	assert.Contains(t, text, "trendlens_analysis_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}
