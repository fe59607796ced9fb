package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/replaylab/ballchasing-client/internal/testutil"
)

func TestReplayFilter_Query(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter ReplayFilter
		want   map[string][]string
	}{
		{
			name:   "empty filter still sets page size",
			filter: ReplayFilter{},
			want:   map[string][]string{"count": {"200"}},
		},
		{
			name:   "count below page size is used directly",
			filter: ReplayFilter{Count: 50},
			want:   map[string][]string{"count": {"50"}},
		},
		{
			name:   "count above page size clamps to server maximum",
			filter: ReplayFilter{Count: 1000},
			want:   map[string][]string{"count": {"200"}},
		},
		{
			name: "repeated parameters",
			filter: ReplayFilter{
				PlayerNames: []string{"alice", "bob"},
				Playlists:   []Playlist{PlaylistDuels, PlaylistDoubles},
			},
			want: map[string][]string{
				"player-name": {"alice", "bob"},
				"playlist":    {"ranked-duels", "ranked-doubles"},
				"count":       {"200"},
			},
		},
		{
			name: "scalar parameters",
			filter: ReplayFilter{
				Title:        "grand final",
				Pro:          true,
				Uploader:     "me",
				MinRank:      RankGC,
				CreatedAfter: created,
				SortBy:       SortReplaysByReplayDate,
				SortDir:      SortDescending,
			},
			want: map[string][]string{
				"title":         {"grand final"},
				"pro":           {"true"},
				"uploader":      {"me"},
				"min-rank":      {"grand-champion"},
				"created-after": {"2024-03-01T12:00:00Z"},
				"sort-by":       {"replay-date"},
				"sort-dir":      {"desc"},
				"count":         {"200"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Query()
			if len(got) != len(tt.want) {
				t.Errorf("query has %d keys, want %d: %v", len(got), len(tt.want), got)
			}
			for key, want := range tt.want {
				if len(got[key]) != len(want) {
					t.Errorf("%s = %v, want %v", key, got[key], want)
					continue
				}
				for i := range want {
					if got[key][i] != want[i] {
						t.Errorf("%s[%d] = %q, want %q", key, i, got[key][i], want[i])
					}
				}
			}
		})
	}
}

func TestClient_ListReplays(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetReplayPages([][]map[string]any{
		{{"id": "r1"}, {"id": "r2"}},
		{{"id": "r3"}},
	})

	c := newTestClient(t, mock)

	replays, err := c.ListReplays(ReplayFilter{}).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}

	ids := make([]string, len(replays))
	for i, r := range replays {
		ids[i] = r.ID
	}
	want := []string{"r1", "r2", "r3"}
	if len(ids) != len(want) {
		t.Fatalf("got %d replays %v, want %v", len(ids), ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("replay[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	if n := mock.GetRequestCount(); n != 2 {
		t.Errorf("request count = %d, want 2", n)
	}
}

func TestClient_ListReplaysCount(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetReplayPages([][]map[string]any{
		{{"id": "r1"}, {"id": "r2"}},
		{{"id": "r3"}, {"id": "r4"}},
	})

	c := newTestClient(t, mock)

	replays, err := c.ListReplays(ReplayFilter{Count: 3}).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if len(replays) != 3 {
		t.Fatalf("got %d replays, want 3", len(replays))
	}
}

func TestClient_GetReplay(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/replays/abc-123", testutil.NewQuotaResponse(
		`{"id": "abc-123", "title": "some match", "playlist_id": "ranked-duels"}`,
		1000, 999, "3600"))

	c := newTestClient(t, mock)

	replay, err := c.GetReplay(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("GetReplay() failed: %v", err)
	}
	if replay.ID != "abc-123" {
		t.Errorf("ID = %q, want %q", replay.ID, "abc-123")
	}
	if replay.Title != "some match" {
		t.Errorf("Title = %q, want %q", replay.Title, "some match")
	}
}

func TestClient_PatchReplay(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()

	var gotBody []byte
	var gotMethod string
	mock.SetHandler("/replays/abc-123", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = json.Marshal(decodeBody(t, r))
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mock)

	title := "renamed"
	err := c.PatchReplay(context.Background(), "abc-123", ReplayPatch{
		Title:      &title,
		Visibility: VisibilityUnlisted,
	})
	if err != nil {
		t.Fatalf("PatchReplay() failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	want := `{"title":"renamed","visibility":"unlisted"}`
	if string(gotBody) != want {
		t.Errorf("body = %s, want %s", gotBody, want)
	}
}

func TestClient_DeleteReplay(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()

	var gotMethod string
	mock.SetHandler("/replays/abc-123", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mock)

	if err := c.DeleteReplay(context.Background(), "abc-123"); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
}

func TestClient_DownloadReplay(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/replays/abc-123/file", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "binary-replay-data",
		Headers:    map[string]string{"Content-Type": "application/octet-stream"},
	})

	c := newTestClient(t, mock)

	var buf bytes.Buffer
	if err := c.DownloadReplay(context.Background(), "abc-123", &buf); err != nil {
		t.Fatalf("DownloadReplay() failed: %v", err)
	}
	if buf.String() != "binary-replay-data" {
		t.Errorf("downloaded %q, want %q", buf.String(), "binary-replay-data")
	}
}

func TestClient_DownloadReplayToFile(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/replays/abc-123/file", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "binary-replay-data",
	})

	c := newTestClient(t, mock)
	dir := t.TempDir()

	if err := c.DownloadReplayToFile(context.Background(), "abc-123", dir); err != nil {
		t.Fatalf("DownloadReplayToFile() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc-123.replay"))
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "binary-replay-data" {
		t.Errorf("file content = %q, want %q", data, "binary-replay-data")
	}
}

func TestClient_DownloadReplayToFileCleansUpOnError(t *testing.T) {
	mock := testutil.NewMockBallchasing()
	defer mock.Close()
	mock.SetResponse("/replays/abc-123/file", testutil.MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "not found"}`,
	})

	c := newTestClient(t, mock)
	dir := t.TempDir()

	if err := c.DownloadReplayToFile(context.Background(), "abc-123", dir); err == nil {
		t.Fatal("expected error, got nil")
	}

	if _, err := os.Stat(filepath.Join(dir, "abc-123.replay")); !os.IsNotExist(err) {
		t.Error("partial file left behind after failed download")
	}
}

// decodeBody re-decodes a request body into a map so assertions do not
// depend on field ordering inside the handler.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	return m
}
