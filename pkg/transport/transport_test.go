package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestTransport(serverURL string) *HTTP {
	return NewHTTP(Config{
		BaseURL:   serverURL,
		AuthKey:   "test-key",
		UserAgent: "ballchasing-client-test/0.0",
	}, zerolog.Nop())
}

func TestHTTP_Call(t *testing.T) {
	var gotAuth, gotUA, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("X-Rate-Limit-Remaining", "7")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL)
	outcome, err := tr.Call(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/replays",
		Query:  url.Values{"playlist": {"ranked-duels"}, "count": {"50"}},
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if gotAuth != "test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "test-key")
	}
	if gotUA != "ballchasing-client-test/0.0" {
		t.Errorf("User-Agent = %q, want the configured value", gotUA)
	}
	if gotPath != "/replays" {
		t.Errorf("path = %q, want /replays", gotPath)
	}
	if !strings.Contains(gotQuery, "playlist=ranked-duels") || !strings.Contains(gotQuery, "count=50") {
		t.Errorf("query = %q, missing expected parameters", gotQuery)
	}

	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", outcome.StatusCode)
	}
	if string(outcome.Payload) != `{"ok":true}` {
		t.Errorf("Payload = %q, want body", outcome.Payload)
	}
	if outcome.Header.Get("X-Rate-Limit-Remaining") != "7" {
		t.Errorf("Header not captured in outcome")
	}
}

func TestHTTP_CallAbsoluteURL(t *testing.T) {
	// Pagination cursors are absolute URLs; they must bypass the base URL.
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tr := newTestTransport("http://base-url.invalid/api")
	_, err := tr.Call(context.Background(), Request{
		Method: http.MethodGet,
		Path:   server.URL + "/replays",
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if gotPath != "/replays" {
		t.Errorf("path = %q, want /replays on the cursor host", gotPath)
	}
}

func TestHTTP_CallNetworkError(t *testing.T) {
	tr := newTestTransport("http://127.0.0.1:1") // nothing listens here

	_, err := tr.Call(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("Call() expected error for unreachable host")
	}

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if terr.Class != ClassNetwork {
		t.Errorf("Class = %q, want %q", terr.Class, ClassNetwork)
	}
}

func TestHTTP_CallReturnsErrorStatusAsOutcome(t *testing.T) {
	// Non-2xx is not a transport failure: the caller decides what it means.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL)
	outcome, err := tr.Call(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Call() error = %v, want outcome", err)
	}
	if outcome.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", outcome.StatusCode)
	}
}
