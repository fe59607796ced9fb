// Package testutil provides testing utilities for the ballchasing client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockBallchasing is a configurable mock ballchasing API server for testing.
type MockBallchasing struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	Requests          []*http.Request
}

// NewMockBallchasing creates a new mock ballchasing server.
func NewMockBallchasing() *MockBallchasing {
	mock := &MockBallchasing{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.Requests = append(mock.Requests, r.Clone(r.Context()))
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBallchasing) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBallchasing) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockBallchasing) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.Requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBallchasing) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockBallchasing) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetPingResponse configures the root endpoint with an authenticated ping
// for the given patron tier.
func (m *MockBallchasing) SetPingResponse(tier string) {
	body := fmt.Sprintf(`{"chaser": true, "name": "tester", "steam_id": "7656119", "type": %q}`, tier)
	m.SetResponse("/", NewQuotaResponse(body, 1000, 999, "3600"))
}

// SetReplayPages configures the /replays endpoint to serve the given pages
// in order, each page linking to the next via an absolute cursor URL. Page
// bodies are JSON arrays of replay objects.
func (m *MockBallchasing) SetReplayPages(pages [][]map[string]any) {
	m.setCursorPages("/replays", pages)
}

// SetGroupPages configures the /groups endpoint the same way for group
// objects.
func (m *MockBallchasing) SetGroupPages(pages [][]map[string]any) {
	m.setCursorPages("/groups", pages)
}

func (m *MockBallchasing) setCursorPages(path string, pages [][]map[string]any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if after := r.URL.Query().Get("after"); after != "" {
			fmt.Sscanf(after, "%d", &page)
		}
		if page >= len(pages) {
			page = len(pages) - 1
		}

		items := pages[page]
		body := map[string]any{
			"count": len(items),
			"list":  items,
		}
		if page+1 < len(pages) {
			body["next"] = fmt.Sprintf("%s%s?after=%d", m.URL(), path, page+1)
		}

		w.Header().Set("X-Rate-Limit-Limit", "1000")
		w.Header().Set("X-Rate-Limit-Remaining", "998")
		w.Header().Set("X-Rate-Limit-Reset-After", "3600")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBallchasing) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// RequestsTo returns the recorded requests whose path matches path.
func (m *MockBallchasing) RequestsTo(path string) []*http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*http.Request
	for _, r := range m.Requests {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// defaultHandler serves a 200 with healthy quota headers.
func (m *MockBallchasing) defaultHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, NewQuotaResponse(`{"status": "ok"}`, 1000, 999, "3600"))
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewQuotaResponse creates a 200 OK response carrying the ballchasing quota
// headers.
func NewQuotaResponse(data string, limit, remaining int, resetAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"X-Rate-Limit-Limit":       fmt.Sprintf("%d", limit),
			"X-Rate-Limit-Remaining":   fmt.Sprintf("%d", remaining),
			"X-Rate-Limit-Reset-After": resetAfter,
			"Content-Type":             "application/json",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response with a
// Retry-After hint in seconds.
func NewRateLimitResponse(retryAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "rate limit exceeded"}`,
		Headers: map[string]string{
			"Retry-After":  retryAfter,
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}
