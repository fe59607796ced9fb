package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/replaylab/ballchasing-client/internal/testutil"
	"github.com/replaylab/ballchasing-client/pkg/quota"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

func newTestClient(t *testing.T, mock *testutil.MockBallchasing) *Client {
	t.Helper()

	cfg := DefaultConfig("test-auth-key")
	cfg.BaseURL = mock.URL()
	cfg.MaxWait = 5 * time.Second

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing auth key",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "auth key only",
			cfg:     Config{AuthKey: "key"},
			wantErr: false,
		},
		{
			name:    "full config",
			cfg:     DefaultConfig("key"),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("New() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if c == nil {
				t.Fatal("New() returned nil client")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{AuthKey: "key"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if c.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.config.BaseURL, DefaultBaseURL)
	}

	state := c.Quota()
	limit := quota.TierRegular.Limit()
	if state.RequestsPerWindow != limit.Requests {
		t.Errorf("RequestsPerWindow = %d, want %d", state.RequestsPerWindow, limit.Requests)
	}
	if state.Window != limit.Window {
		t.Errorf("Window = %v, want %v", state.Window, limit.Window)
	}
}

func TestClient_Ping(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetPingResponse("champion")

	c := newTestClient(t, mock)

	ping, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}

	if !ping.Chaser {
		t.Error("ping.Chaser = false, want true")
	}
	if ping.Type != quota.TierChampion {
		t.Errorf("ping.Type = %q, want %q", ping.Type, quota.TierChampion)
	}

	// The authenticated response carries quota headers, so the budget is
	// authoritative afterwards.
	state := c.Quota()
	if !state.Discovered {
		t.Error("quota not marked discovered after ping")
	}
	if state.RequestsPerWindow != 1000 {
		t.Errorf("RequestsPerWindow = %d, want 1000", state.RequestsPerWindow)
	}

	if auth := mock.LastRequestHeader.Get("Authorization"); auth != "test-auth-key" {
		t.Errorf("Authorization = %q, want %q", auth, "test-auth-key")
	}
}

func TestClient_PingUnauthorized(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/", testutil.MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"error": "invalid key"}`,
	})

	c := newTestClient(t, mock)

	_, err := c.Ping(context.Background())
	if err == nil {
		t.Fatal("Ping() expected error, got nil")
	}

	var terr *transport.Error
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *transport.Error", err)
	}
	if terr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", terr.StatusCode)
	}
	if terr.Class != transport.ClassClient {
		t.Errorf("Class = %q, want %q", terr.Class, transport.ClassClient)
	}
}

func TestClient_GetMaps(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/maps", testutil.NewQuotaResponse(
		`{"arc_standard_p": "Starbase ARC", "bb_p": "Champions Field (NFL)"}`,
		1000, 999, "3600"))

	c := newTestClient(t, mock)

	maps, err := c.GetMaps(context.Background())
	if err != nil {
		t.Fatalf("GetMaps() failed: %v", err)
	}

	if len(maps) != 2 {
		t.Fatalf("len(maps) = %d, want 2", len(maps))
	}
	if maps["arc_standard_p"] != "Starbase ARC" {
		t.Errorf("maps[arc_standard_p] = %q, want %q", maps["arc_standard_p"], "Starbase ARC")
	}
}

func TestClient_QuotaTracksResponses(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/maps", testutil.NewQuotaResponse(`{}`, 2000, 1499, "1800"))

	c := newTestClient(t, mock)

	if _, err := c.GetMaps(context.Background()); err != nil {
		t.Fatalf("GetMaps() failed: %v", err)
	}

	state := c.Quota()
	if state.RequestsPerWindow != 2000 {
		t.Errorf("RequestsPerWindow = %d, want 2000", state.RequestsPerWindow)
	}
	if state.Remaining != 1499 {
		t.Errorf("Remaining = %d, want 1499", state.Remaining)
	}
}

func TestClient_DoEscapeHatch(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/some/unmapped/endpoint", testutil.NewQuotaResponse(
		`{"hello": "world"}`, 1000, 999, "3600"))

	c := newTestClient(t, mock)

	outcome, err := c.Do(context.Background(), transport.Request{
		Method: http.MethodGet,
		Path:   "/some/unmapped/endpoint",
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if outcome.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", outcome.StatusCode)
	}
	if string(outcome.Payload) != `{"hello": "world"}` {
		t.Errorf("Payload = %q", outcome.Payload)
	}
}
