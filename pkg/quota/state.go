// Package quota implements ballchasing API quota tracking and request gating.
// The API grants a fixed number of requests per time window depending on the
// account's patron tier; the governor serializes outbound calls against that
// budget and learns the real limits from response headers.
package quota

import (
	"net/http"
	"strconv"
	"time"
)

// Quota headers returned by the ballchasing API.
const (
	HeaderLimit      = "X-Rate-Limit-Limit"
	HeaderRemaining  = "X-Rate-Limit-Remaining"
	HeaderResetAfter = "X-Rate-Limit-Reset-After"
	HeaderRetryAfter = "Retry-After"
)

// Tier is a ballchasing patron tier. Each tier is granted a different
// request quota.
type Tier string

const (
	TierRegular  Tier = "regular"
	TierGold     Tier = "gold"
	TierDiamond  Tier = "diamond"
	TierChampion Tier = "champion"
	TierGC       Tier = "gc"
	TierLegend   Tier = "legend"
	TierOrg      Tier = "org"
)

// Limit is a request budget: Requests calls allowed per Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Limit returns the documented request budget for the tier. Unknown tiers
// get the regular budget, the most conservative one.
func (t Tier) Limit() Limit {
	switch t {
	case TierGold:
		return Limit{Requests: 2000, Window: time.Hour}
	case TierDiamond:
		return Limit{Requests: 5000, Window: time.Hour}
	case TierChampion:
		return Limit{Requests: 8, Window: time.Second}
	case TierGC:
		return Limit{Requests: 16, Window: time.Second}
	case TierLegend:
		return Limit{Requests: 32, Window: time.Second}
	case TierOrg:
		return Limit{Requests: 64, Window: time.Second}
	default:
		return Limit{Requests: 1000, Window: time.Hour}
	}
}

// State is the governor's model of the current quota window.
// It is owned by the Governor and mutated under its lock.
type State struct {
	// RequestsPerWindow is the number of requests permitted per window.
	RequestsPerWindow int

	// Window is the duration of one quota window.
	Window time.Duration

	// Remaining is the estimated number of request slots left in the
	// current window. Decremented on every Acquire, overwritten whenever
	// the server reports an authoritative value.
	Remaining int

	// ResetAt is the estimated instant the current window resets.
	ResetAt time.Time

	// Discovered is false until the first authoritative quota header or an
	// explicit Discover call. Before that the state holds the
	// caller-supplied default tier's budget.
	Discovered bool
}

// Exhausted reports whether no request slot is available before the window
// reset.
func (s *State) Exhausted(now time.Time) bool {
	return s.Remaining <= 0 && now.Before(s.ResetAt)
}

// TimeUntilReset returns the duration until the window resets, or 0 if the
// reset instant has already passed.
func (s *State) TimeUntilReset(now time.Time) time.Duration {
	d := s.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Headers is the authoritative quota information carried by a response.
type Headers struct {
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// ParseHeaders extracts quota headers from a response. Returns nil if the
// response carries no quota information; all three headers must be present
// and well-formed for the result to be trusted.
func ParseHeaders(h http.Header) *Headers {
	limitStr := h.Get(HeaderLimit)
	if limitStr == "" {
		return nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil
	}

	remaining, err := strconv.Atoi(h.Get(HeaderRemaining))
	if err != nil {
		return nil
	}

	resetAfter, err := strconv.ParseFloat(h.Get(HeaderResetAfter), 64)
	if err != nil {
		return nil
	}

	return &Headers{
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: time.Duration(resetAfter * float64(time.Second)),
	}
}

// ParseRetryAfter extracts a Retry-After hint in seconds. Returns 0 if the
// header is absent or malformed.
func ParseRetryAfter(h http.Header) time.Duration {
	s := h.Get(HeaderRetryAfter)
	if s == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
