package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockHTTPMetrics は記録された値を保持するHTTPMetricsRecorderモック
type mockHTTPMetrics struct {
	statuses  []int
	durations []time.Duration
}

func (m *mockHTTPMetrics) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockHTTPMetrics) RecordRequestDuration(duration time.Duration) {
	m.durations = append(m.durations, duration)
}

// ステータスコードと処理時間が記録されることを検証
func TestMetricsMiddleware(t *testing.T) {
	recorder := &mockHTTPMetrics{}
	mw := NewMetricsMiddleware(recorder)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", recorder.statuses)
	}
	if len(recorder.durations) != 1 {
		t.Errorf("len(durations) = %d, want 1", len(recorder.durations))
	}
}
