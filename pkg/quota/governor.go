package quota

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	bcQuotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bc_quota_remaining",
		Help: "Estimated request slots remaining in the current quota window",
	})

	bcQuotaWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bc_quota_waits_total",
		Help: "Total number of requests suspended waiting for a quota slot",
	})

	bcQuotaWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bc_quota_wait_seconds",
		Help:    "Duration requests spent suspended waiting for a quota slot",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 60, 300, 1800},
	})

	bcQuotaExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bc_quota_exceeded_total",
		Help: "Total number of quota-exceeded (429) responses observed",
	})
)

// ErrWaitTimeout is returned by Acquire when the computed suspension would
// exceed the configured maximum wait.
var ErrWaitTimeout = errors.New("quota wait exceeds configured maximum")

// Config holds governor configuration.
type Config struct {
	// DefaultTier is the budget assumed until the server reports real
	// limits, via headers or Discover.
	DefaultTier Tier

	// MaxWait bounds a single Acquire suspension. Zero means no bound.
	MaxWait time.Duration

	// ExceededFallback is the suspension applied after a quota-exceeded
	// response that carries no retry hint, when the remainder of the
	// assumed window is already zero. Defaults to the assumed window.
	ExceededFallback time.Duration

	// Clock overrides the time source (for testing). Defaults to the
	// system clock.
	Clock Clock
}

// DefaultConfig returns a conservative default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTier: TierRegular,
		MaxWait:     2 * time.Hour,
	}
}

// Governor gates outbound requests against the discovered quota. It is safe
// for use by multiple goroutines sharing one API key; state is guarded by a
// single mutex so concurrent Acquire and Report calls never act on a stale
// read.
type Governor struct {
	mu     sync.Mutex
	state  State
	cfg    Config
	clock  Clock
	logger zerolog.Logger
}

// NewGovernor creates a governor seeded with the default tier's budget.
func NewGovernor(cfg Config, logger zerolog.Logger) *Governor {
	if cfg.DefaultTier == "" {
		cfg.DefaultTier = TierRegular
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	limit := cfg.DefaultTier.Limit()
	now := clock.Now()

	g := &Governor{
		state: State{
			RequestsPerWindow: limit.Requests,
			Window:            limit.Window,
			Remaining:         limit.Requests,
			ResetAt:           now.Add(limit.Window),
		},
		cfg:    cfg,
		clock:  clock,
		logger: logger,
	}
	bcQuotaRemaining.Set(float64(g.state.Remaining))
	return g
}

// Acquire blocks until a request slot is available, reserves it, and
// returns. Only the calling goroutine is suspended; the governor's lock is
// released for the duration of any sleep so concurrent Report calls can
// refresh the state mid-wait. Returns ErrWaitTimeout if the required
// suspension exceeds Config.MaxWait, or the context error on cancellation.
func (g *Governor) Acquire(ctx context.Context) error {
	waited := time.Duration(0)

	g.mu.Lock()
	for {
		now := g.clock.Now()

		// Window elapsed: assume it reset.
		if !now.Before(g.state.ResetAt) {
			g.state.Remaining = g.state.RequestsPerWindow
			g.state.ResetAt = now.Add(g.state.Window)
		}

		if g.state.Remaining > 0 {
			g.state.Remaining--
			bcQuotaRemaining.Set(float64(g.state.Remaining))
			g.mu.Unlock()

			if waited > 0 {
				bcQuotaWaitSeconds.Observe(waited.Seconds())
			}
			return nil
		}

		wait := g.state.TimeUntilReset(now)
		if g.cfg.MaxWait > 0 && wait > g.cfg.MaxWait {
			g.mu.Unlock()
			return fmt.Errorf("%w: need %s, maximum %s", ErrWaitTimeout, wait, g.cfg.MaxWait)
		}

		resetAt := g.state.ResetAt
		g.mu.Unlock()

		g.logger.Debug().
			Dur("wait", wait).
			Time("reset_at", resetAt).
			Msg("Quota exhausted, suspending until window reset")
		bcQuotaWaitsTotal.Inc()

		if err := g.clock.SleepUntil(ctx, resetAt); err != nil {
			return err
		}
		waited += wait

		g.mu.Lock()
	}
}

// Report feeds the outcome of a completed physical request back into the
// quota model. Authoritative quota headers overwrite the estimated state; a
// 429 status empties the window, honoring any Retry-After hint.
func (g *Governor) Report(statusCode int, header http.Header) {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if hdrs := ParseHeaders(header); hdrs != nil {
		g.state.RequestsPerWindow = hdrs.Limit
		g.state.Remaining = hdrs.Remaining
		g.state.ResetAt = now.Add(hdrs.ResetAfter)
		if !g.state.Discovered {
			g.state.Discovered = true
			g.logger.Info().
				Int("limit", hdrs.Limit).
				Int("remaining", hdrs.Remaining).
				Dur("reset_after", hdrs.ResetAfter).
				Msg("Quota discovered from response headers")
		}
		bcQuotaRemaining.Set(float64(g.state.Remaining))
	}

	if statusCode == http.StatusTooManyRequests {
		bcQuotaExceededTotal.Inc()
		g.state.Remaining = 0

		if retryAfter := ParseRetryAfter(header); retryAfter > 0 {
			g.state.ResetAt = now.Add(retryAfter)
		} else if !now.Before(g.state.ResetAt) {
			// No hint and the assumed window is already over: back
			// off for the configured fallback.
			fallback := g.cfg.ExceededFallback
			if fallback <= 0 {
				fallback = g.state.Window
			}
			g.state.ResetAt = now.Add(fallback)
		}

		bcQuotaRemaining.Set(0)
		g.logger.Warn().
			Time("reset_at", g.state.ResetAt).
			Msg("Quota exceeded (429), emptying window")
	}
}

// Discover installs the budget of an explicitly learned tier, typically the
// one reported by the ping endpoint. It does not consume a request slot.
// Header-derived state wins: once headers have been seen, only the window
// duration is adopted from the tier.
func (g *Governor) Discover(tier Tier) {
	limit := tier.Limit()
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.Window = limit.Window
	if !g.state.Discovered {
		g.state.RequestsPerWindow = limit.Requests
		g.state.Remaining = limit.Requests
		g.state.ResetAt = now.Add(limit.Window)
		g.state.Discovered = true
		bcQuotaRemaining.Set(float64(g.state.Remaining))
	}

	g.logger.Info().
		Str("tier", string(tier)).
		Int("requests_per_window", limit.Requests).
		Dur("window", limit.Window).
		Msg("Quota tier discovered")
}

// Snapshot returns a copy of the current quota state.
func (g *Governor) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
