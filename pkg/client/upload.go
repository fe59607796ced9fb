package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/replaylab/ballchasing-client/pkg/transport"
)

// ErrDuplicateReplay is returned when the uploaded replay already exists on
// the server. The UploadResult returned alongside it carries the existing
// replay's id.
var ErrDuplicateReplay = errors.New("replay already uploaded")

// UploadOptions control how an uploaded replay is published.
type UploadOptions struct {
	// Visibility of the new replay. Defaults to public.
	Visibility Visibility

	// Group assigns the replay to the given group id.
	Group string
}

// UploadReplay uploads a replay file read from r. On a duplicate, the
// returned error matches ErrDuplicateReplay and the result still carries
// the id of the existing replay.
func (c *Client) UploadReplay(ctx context.Context, name string, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read replay data: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload form: %w", err)
	}

	visibility := opts.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	query := url.Values{}
	query.Set("visibility", string(visibility))
	if opts.Group != "" {
		query.Set("group", opts.Group)
	}

	outcome, err := c.fetcher.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/v2/upload",
		Query:       query,
		Body:        buf.Bytes(),
		ContentType: form.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var result UploadResult
	switch {
	case outcome.StatusCode == http.StatusConflict:
		// The server rejects duplicates with the existing replay's id.
		if err := json.Unmarshal(outcome.Payload, &result); err != nil {
			return nil, fmt.Errorf("decode duplicate upload response: %w", err)
		}
		return &result, fmt.Errorf("%w: %s", ErrDuplicateReplay, result.ID)

	case outcome.StatusCode < 200 || outcome.StatusCode >= 300:
		return nil, transport.NewStatusError(outcome)
	}

	if err := json.Unmarshal(outcome.Payload, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	c.logger.Info().
		Str("replay_id", result.ID).
		Str("name", name).
		Msg("Replay uploaded")

	return &result, nil
}

// UploadReplayFile uploads the replay file at path.
func (c *Client) UploadReplayFile(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	return c.UploadReplay(ctx, filepath.Base(path), f, opts)
}
