package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/replaylab/ballchasing-client/internal/testutil"
	"github.com/replaylab/ballchasing-client/pkg/client"
)

func newProxyClient(t *testing.T, mock *testutil.MockBallchasing) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig("test-key")
	cfg.BaseURL = mock.URL()

	bc, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return bc
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestQuotaEndpoint(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()

	bc := newProxyClient(t, mock)
	handler := quotaHandler(bc)

	req := httptest.NewRequest("GET", "/quota", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var state map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode quota response: %v", err)
	}

	if state["requests_per_window"].(float64) != 1000 {
		t.Errorf("requests_per_window = %v, want 1000", state["requests_per_window"])
	}
	if state["discovered"].(bool) {
		t.Error("discovered = true before any response was seen")
	}
}

func TestProxyHandler(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/maps", testutil.NewQuotaResponse(
		`{"park_p": "Beckwith Park"}`, 1000, 999, "3600"))

	bc := newProxyClient(t, mock)
	handler := proxyHandler(bc)

	req := httptest.NewRequest("GET", "/api/maps", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Beckwith Park") {
		t.Errorf("Unexpected body: %s", body)
	}
	if got := resp.Header.Get("X-Rate-Limit-Remaining"); got != "999" {
		t.Errorf("X-Rate-Limit-Remaining = %q, want 999 (upstream headers forwarded)", got)
	}
}

func TestProxyHandler_UpstreamErrorForwarded(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/replays/missing", testutil.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "not found"}`,
	})

	bc := newProxyClient(t, mock)
	handler := proxyHandler(bc)

	req := httptest.NewRequest("GET", "/api/replays/missing", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Result().StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()

	// Creating a client registers all metrics via promauto.
	newProxyClient(t, mock)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	promhttp.Handler().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}
	if !strings.Contains(bodyStr, "bc_quota_remaining") {
		t.Error("Expected metrics output to contain bc_quota_remaining")
	}
}
