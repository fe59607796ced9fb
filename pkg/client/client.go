// Package client is the high-level ballchasing.com API client: replay
// search, replay groups, uploads and downloads, all sharing one quota
// governor so the aggregate request rate never knowingly exceeds the
// account's budget.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/replaylab/ballchasing-client/pkg/pagination"
	"github.com/replaylab/ballchasing-client/pkg/quota"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

// DefaultBaseURL is the production ballchasing API root.
const DefaultBaseURL = "https://ballchasing.com/api"

// Client is the main ballchasing API client. It is safe for concurrent use;
// independent operations share the quota governor but suspend only
// themselves when the quota runs dry.
type Client struct {
	transport transport.Caller
	governor  *quota.Governor
	fetcher   *pagination.Fetcher
	config    Config
	logger    zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// AuthKey is the ballchasing API token (REQUIRED).
	AuthKey string

	// BaseURL of the API. Defaults to DefaultBaseURL.
	BaseURL string

	// Tier assumed until the server reports the real quota. Defaults to
	// the regular (free) tier, the most conservative budget.
	Tier quota.Tier

	// MaxWait bounds a single quota suspension; a longer required wait
	// aborts the operation with quota.ErrWaitTimeout. Zero means no bound.
	MaxWait time.Duration

	// ExceededFallback is the backoff after a 429 that carries no retry
	// hint once the assumed window is over. Defaults to the window size.
	ExceededFallback time.Duration

	// UserAgent identifies this client to the service.
	UserAgent string

	// HTTPClient overrides the underlying HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration for the given token.
func DefaultConfig(authKey string) Config {
	return Config{
		AuthKey:   authKey,
		BaseURL:   DefaultBaseURL,
		Tier:      quota.TierRegular,
		MaxWait:   2 * time.Hour,
		UserAgent: "ballchasing-client/0.1.0",
	}
}

// New creates a new ballchasing client.
func New(cfg Config) (*Client, error) {
	if cfg.AuthKey == "" {
		return nil, fmt.Errorf("auth key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Tier == "" {
		cfg.Tier = quota.TierRegular
	}

	logger := log.With().Str("component", "ballchasing-client").Logger()

	governor := quota.NewGovernor(quota.Config{
		DefaultTier:      cfg.Tier,
		MaxWait:          cfg.MaxWait,
		ExceededFallback: cfg.ExceededFallback,
	}, logger)

	caller := transport.NewHTTP(transport.Config{
		BaseURL:    cfg.BaseURL,
		AuthKey:    cfg.AuthKey,
		UserAgent:  cfg.UserAgent,
		HTTPClient: cfg.HTTPClient,
	}, logger)

	return &Client{
		transport: caller,
		governor:  governor,
		fetcher:   pagination.NewFetcher(caller, governor, logger),
		config:    cfg,
		logger:    logger,
	}, nil
}

// Do performs one rate-governed request against the API. Most callers want
// the typed operations instead; Do is the escape hatch for endpoints this
// client does not model.
func (c *Client) Do(ctx context.Context, req transport.Request) (*transport.Outcome, error) {
	return c.fetcher.Do(ctx, req)
}

// Quota returns a snapshot of the current quota state.
func (c *Client) Quota() quota.State {
	return c.governor.Snapshot()
}

// Ping checks that the auth key is valid and the API reachable. The
// response carries the account's patron tier, which is fed into the quota
// governor so subsequent calls run against the real budget.
func (c *Client) Ping(ctx context.Context) (*Ping, error) {
	var ping Ping
	if err := c.getJSON(ctx, "/", nil, &ping); err != nil {
		return nil, err
	}

	if ping.Type != "" {
		c.governor.Discover(ping.Type)
	}

	c.logger.Info().
		Str("name", ping.Name).
		Str("steam_id", ping.SteamID).
		Str("tier", string(ping.Type)).
		Msg("Authenticated against ballchasing API")

	return &ping, nil
}

// GetMaps returns the mapping of map codes to map names.
func (c *Client) GetMaps(ctx context.Context) (map[string]string, error) {
	var maps map[string]string
	if err := c.getJSON(ctx, "/maps", nil, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// getJSON performs a governed GET and decodes a 2xx payload into v.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	outcome, err := c.fetcher.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return err
	}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		return transport.NewStatusError(outcome)
	}

	if err := json.Unmarshal(outcome.Payload, v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// sendJSON performs a governed request with a JSON body and decodes a 2xx
// payload into v when v is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, v any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
	}

	outcome, err := c.fetcher.Do(ctx, transport.Request{
		Method:      method,
		Path:        path,
		Body:        payload,
		ContentType: "application/json",
	})
	if err != nil {
		return err
	}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		return transport.NewStatusError(outcome)
	}

	if v != nil {
		if err := json.Unmarshal(outcome.Payload, v); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// delete performs a governed DELETE and expects a 2xx.
func (c *Client) delete(ctx context.Context, path string) error {
	outcome, err := c.fetcher.Do(ctx, transport.Request{
		Method: http.MethodDelete,
		Path:   path,
	})
	if err != nil {
		return err
	}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		return transport.NewStatusError(outcome)
	}
	return nil
}

// rfc3339 formats a filter timestamp the way the API expects. Zero times
// produce an empty string, which filters omit.
func rfc3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
