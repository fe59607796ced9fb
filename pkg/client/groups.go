package client

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/replaylab/ballchasing-client/pkg/pagination"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

// GroupFilter selects replay groups for ListGroups. Zero values are omitted
// from the query.
type GroupFilter struct {
	// Name filters groups by name.
	Name string

	// Creator keeps groups created by the given steam id, or the special
	// value "me".
	Creator string

	// Group keeps only children of the given group.
	Group string

	// CreatedBefore/CreatedAfter bound the creation time.
	CreatedBefore time.Time
	CreatedAfter  time.Time

	// SortBy and SortDir order the results.
	SortBy  GroupSortBy
	SortDir SortDir

	// Count caps the total number of groups yielded; zero means no cap.
	Count int
}

// Query encodes the filter as request parameters.
func (f GroupFilter) Query() url.Values {
	q := url.Values{}

	setNonEmpty(q, "name", f.Name)
	setNonEmpty(q, "creator", f.Creator)
	setNonEmpty(q, "group", f.Group)
	setNonEmpty(q, "created-before", rfc3339(f.CreatedBefore))
	setNonEmpty(q, "created-after", rfc3339(f.CreatedAfter))
	setNonEmpty(q, "sort-by", string(f.SortBy))
	setNonEmpty(q, "sort-dir", string(f.SortDir))
	q.Set("count", strconv.Itoa(pageSize(f.Count)))

	return q
}

// ListGroups filters and retrieves replay groups as a lazy sequence.
func (c *Client) ListGroups(filter GroupFilter) *pagination.Seq[ReplayGroup] {
	req := transport.Request{
		Method: http.MethodGet,
		Path:   "/groups",
		Query:  filter.Query(),
	}

	seq := pagination.Fetch(c.fetcher, req, decodeGroupPage, groupPageCursor)
	if filter.Count > 0 {
		seq.Limit(filter.Count)
	}
	return seq
}

// CreateGroupRequest describes a new replay group.
type CreateGroupRequest struct {
	Name                 string               `json:"name"`
	PlayerIdentification PlayerIdentification `json:"player_identification"`
	TeamIdentification   TeamIdentification   `json:"team_identification"`
	Parent               string               `json:"parent,omitempty"`
}

// CreateGroup creates a new replay group.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*GroupCreated, error) {
	var created GroupCreated
	if err := c.sendJSON(ctx, http.MethodPost, "/groups", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetGroup retrieves a group's info and aggregated stats.
func (c *Client) GetGroup(ctx context.Context, groupID string) (*ReplayGroup, error) {
	var group ReplayGroup
	if err := c.getJSON(ctx, "/groups/"+groupID, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupPatch updates one or more fields of a group.
type GroupPatch struct {
	Name                 string               `json:"name,omitempty"`
	PlayerIdentification PlayerIdentification `json:"player_identification,omitempty"`
	TeamIdentification   TeamIdentification   `json:"team_identification,omitempty"`
	Parent               string               `json:"parent,omitempty"`
	Shared               *bool                `json:"shared,omitempty"`
}

// PatchGroup updates the given fields of a group.
func (c *Client) PatchGroup(ctx context.Context, groupID string, patch GroupPatch) error {
	return c.sendJSON(ctx, http.MethodPatch, "/groups/"+groupID, patch, nil)
}

// DeleteGroup permanently deletes a group. This cannot be undone.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	return c.delete(ctx, "/groups/"+groupID)
}

// GroupReplays yields every replay in a group, including those of its child
// groups, depth first. Pages are fetched on demand as the consumer pulls.
func (c *Client) GroupReplays(ctx context.Context, groupID string) iter.Seq2[Replay, error] {
	return func(yield func(Replay, error) bool) {
		c.yieldGroupReplays(ctx, groupID, yield)
	}
}

func (c *Client) yieldGroupReplays(ctx context.Context, groupID string, yield func(Replay, error) bool) bool {
	children := c.ListGroups(GroupFilter{Group: groupID})
	for child, err := range children.All(ctx) {
		if err != nil {
			yield(Replay{}, fmt.Errorf("list child groups of %s: %w", groupID, err))
			return false
		}
		if !c.yieldGroupReplays(ctx, child.ID, yield) {
			return false
		}
	}

	direct := c.ListReplays(ReplayFilter{GroupID: groupID})
	for replay, err := range direct.All(ctx) {
		if err != nil {
			yield(Replay{}, fmt.Errorf("list replays of %s: %w", groupID, err))
			return false
		}
		if !yield(replay, nil) {
			return false
		}
	}
	return true
}

// DownloadGroup downloads every replay of a group into dir/<groupID>. With
// recursive set, child groups get their own nested directories; otherwise
// all replays, child groups included, land flat in the group directory.
func (c *Client) DownloadGroup(ctx context.Context, groupID, dir string, recursive bool) error {
	target := filepath.Join(dir, groupID)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("create group directory: %w", err)
	}

	if !recursive {
		for replay, err := range c.GroupReplays(ctx, groupID) {
			if err != nil {
				return err
			}
			if err := c.DownloadReplayToFile(ctx, replay.ID, target); err != nil {
				return err
			}
		}
		return nil
	}

	children := c.ListGroups(GroupFilter{Group: groupID})
	for child, err := range children.All(ctx) {
		if err != nil {
			return err
		}
		if err := c.DownloadGroup(ctx, child.ID, target, true); err != nil {
			return err
		}
	}

	direct := c.ListReplays(ReplayFilter{GroupID: groupID})
	for replay, err := range direct.All(ctx) {
		if err != nil {
			return err
		}
		if err := c.DownloadReplayToFile(ctx, replay.ID, target); err != nil {
			return err
		}
	}
	return nil
}

func decodeGroupPage(payload []byte) ([]ReplayGroup, error) {
	var page GroupSearch
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, err
	}
	return page.List, nil
}

func groupPageCursor(payload []byte) (string, error) {
	var page GroupSearch
	if err := json.Unmarshal(payload, &page); err != nil {
		return "", err
	}
	return page.Next, nil
}
