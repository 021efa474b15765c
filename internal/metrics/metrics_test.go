package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Fetched(25)
	m.Fetched(3)
	m.Persisted()
	m.Persisted()
	m.Fallback()
	m.Skipped()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fetched", testutil.ToFloat64(m.fetched), 28},
		{"persisted", testutil.ToFloat64(m.persisted), 2},
		{"fallbacks", testutil.ToFloat64(m.fallbacks), 1},
		{"skipped", testutil.ToFloat64(m.skipped), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/cal/*path", 200, 10*time.Millisecond)
	m.ObserveRequest("/cal/*path", 200, 20*time.Millisecond)
	m.ObserveRequest("/cal/*path", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/cal/*path", "200")); got != 2 {
		t.Errorf("200 requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/cal/*path", "500")); got != 1 {
		t.Errorf("500 requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.requestDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(nil, 2*time.Second)
	m.ObserveRun(errors.New("boom"), time.Second)
	m.ObserveRun(nil, time.Second)

	if got := testutil.ToFloat64(m.runs.WithLabelValues(ResultSuccess)); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues(ResultFailure)); got != 1 {
		t.Errorf("failure runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Persisted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "compcal_competitions_persisted_total 1") {
		t.Errorf("exposition missing persisted counter:\n%s", rec.Body.String())
	}
}

func TestMetrics_Push(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New()
	m.Fetched(3)
	if err := m.Push(context.Background(), server.URL); err != nil {
		t.Fatalf("Push() error: %v", err)
	}
	if gotPath != "/metrics/job/"+pushJob {
		t.Errorf("push path = %q", gotPath)
	}
	if gotBody == "" {
		t.Error("push body is empty")
	}
}

func TestMetrics_PushDisabled(t *testing.T) {
	if err := New().Push(context.Background(), ""); err != nil {
		t.Errorf("Push(\"\") error = %v, want nil", err)
	}
}

func TestMetrics_PushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := New().Push(context.Background(), server.URL); err == nil {
		t.Error("Push() expected error for 500 response")
	}
}
