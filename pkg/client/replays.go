package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/replaylab/ballchasing-client/pkg/pagination"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

// The API serves at most this many results per page.
const maxPageSize = 200

// ReplayFilter selects replays for ListReplays. Zero values are omitted
// from the query.
type ReplayFilter struct {
	// Title filters replays by title.
	Title string

	// PlayerNames filters by the names of participating players.
	PlayerNames []string

	// PlayerIDs filters by platform ids in $platform:$id form, e.g.
	// steam:76561198141161044.
	PlayerIDs []string

	// Playlists restricts results to the given playlists.
	Playlists []Playlist

	// Seasons restricts results to the given seasons: 1..14 for the old
	// seasons, f1, f2, ... for free-to-play ones.
	Seasons []string

	// MatchResult filters by outcome for the queried player.
	MatchResult MatchResult

	// MinRank and MaxRank bound the players' ranks.
	MinRank Rank
	MaxRank Rank

	// Pro keeps only replays with at least one pro player.
	Pro bool

	// Uploader keeps replays uploaded by the given steam id, or the
	// special value "me".
	Uploader string

	// GroupID keeps replays directly under the given group (not its
	// children).
	GroupID string

	// MapID keeps replays on the given map; see GetMaps for codes.
	MapID string

	// CreatedBefore/CreatedAfter bound the upload time.
	CreatedBefore time.Time
	CreatedAfter  time.Time

	// ReplayDateBefore/ReplayDateAfter bound the game time.
	ReplayDateBefore time.Time
	ReplayDateAfter  time.Time

	// SortBy and SortDir order the results.
	SortBy  ReplaySortBy
	SortDir SortDir

	// Count caps the total number of replays yielded. The sequence
	// iterates past the server's 200-per-page limit; zero means no cap.
	Count int
}

// Query encodes the filter as request parameters.
func (f ReplayFilter) Query() url.Values {
	q := url.Values{}

	setNonEmpty(q, "title", f.Title)
	for _, name := range f.PlayerNames {
		q.Add("player-name", name)
	}
	for _, id := range f.PlayerIDs {
		q.Add("player-id", id)
	}
	for _, p := range f.Playlists {
		q.Add("playlist", string(p))
	}
	for _, s := range f.Seasons {
		q.Add("season", s)
	}
	setNonEmpty(q, "match-result", string(f.MatchResult))
	setNonEmpty(q, "min-rank", string(f.MinRank))
	setNonEmpty(q, "max-rank", string(f.MaxRank))
	if f.Pro {
		q.Set("pro", "true")
	}
	setNonEmpty(q, "uploader", f.Uploader)
	setNonEmpty(q, "group", f.GroupID)
	setNonEmpty(q, "map", f.MapID)
	setNonEmpty(q, "created-before", rfc3339(f.CreatedBefore))
	setNonEmpty(q, "created-after", rfc3339(f.CreatedAfter))
	setNonEmpty(q, "replay-date-before", rfc3339(f.ReplayDateBefore))
	setNonEmpty(q, "replay-date-after", rfc3339(f.ReplayDateAfter))
	setNonEmpty(q, "sort-by", string(f.SortBy))
	setNonEmpty(q, "sort-dir", string(f.SortDir))
	q.Set("count", strconv.Itoa(pageSize(f.Count)))

	return q
}

// ListReplays filters and retrieves replays as a lazy sequence. Pages are
// fetched strictly on demand; abandoning the sequence stops all further
// requests.
func (c *Client) ListReplays(filter ReplayFilter) *pagination.Seq[Replay] {
	req := transport.Request{
		Method: http.MethodGet,
		Path:   "/replays",
		Query:  filter.Query(),
	}

	seq := pagination.Fetch(c.fetcher, req, decodeReplayPage, replayPageCursor)
	if filter.Count > 0 {
		seq.Limit(filter.Count)
	}
	return seq
}

// GetReplay retrieves a replay's details and full stats.
func (c *Client) GetReplay(ctx context.Context, replayID string) (*Replay, error) {
	var replay Replay
	if err := c.getJSON(ctx, "/replays/"+replayID, nil, &replay); err != nil {
		return nil, err
	}
	return &replay, nil
}

// ReplayPatch updates one or more fields of a replay. Nil fields are left
// untouched.
type ReplayPatch struct {
	Title      *string    `json:"title,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
	Group      *string    `json:"group,omitempty"`
}

// PatchReplay updates the given fields of a replay.
func (c *Client) PatchReplay(ctx context.Context, replayID string, patch ReplayPatch) error {
	return c.sendJSON(ctx, http.MethodPatch, "/replays/"+replayID, patch, nil)
}

// DeleteReplay permanently deletes a replay. This cannot be undone.
func (c *Client) DeleteReplay(ctx context.Context, replayID string) error {
	return c.delete(ctx, "/replays/"+replayID)
}

// DownloadReplay streams the raw replay file into w.
func (c *Client) DownloadReplay(ctx context.Context, replayID string, w io.Writer) error {
	outcome, err := c.fetcher.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/replays/" + replayID + "/file",
	})
	if err != nil {
		return err
	}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		return transport.NewStatusError(outcome)
	}

	if _, err := w.Write(outcome.Payload); err != nil {
		return fmt.Errorf("write replay file: %w", err)
	}
	return nil
}

// DownloadReplayToFile saves the raw replay file as <dir>/<id>.replay.
func (c *Client) DownloadReplayToFile(ctx context.Context, replayID, dir string) error {
	f, err := os.Create(filepath.Join(dir, replayID+".replay"))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}

	if err := c.DownloadReplay(ctx, replayID, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}

func decodeReplayPage(payload []byte) ([]Replay, error) {
	var page ReplaySearch
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, err
	}
	return page.List, nil
}

func replayPageCursor(payload []byte) (string, error) {
	var page ReplaySearch
	if err := json.Unmarshal(payload, &page); err != nil {
		return "", err
	}
	return page.Next, nil
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// pageSize picks the per-page count: the requested total when it fits in
// one page, otherwise the server maximum.
func pageSize(total int) int {
	if total > 0 && total < maxPageSize {
		return total
	}
	return maxPageSize
}
