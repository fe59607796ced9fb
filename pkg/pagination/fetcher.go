package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/replaylab/ballchasing-client/pkg/quota"
	"github.com/replaylab/ballchasing-client/pkg/transport"
)

var bcPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bc_pages_fetched_total",
	Help: "Total pages fetched across all paginated sequences",
})

// Done is returned by Seq.Next when the sequence is exhausted.
var Done = errors.New("no more items")

// DecodeFunc extracts the items of one page from a response payload.
type DecodeFunc[T any] func(payload []byte) ([]T, error)

// CursorFunc extracts the next-page cursor from a response payload. An empty
// cursor is the terminal signal.
type CursorFunc func(payload []byte) (string, error)

// Fetcher issues rate-governed requests: every physical call first acquires
// a quota slot and afterwards reports its outcome back to the governor.
type Fetcher struct {
	caller   transport.Caller
	governor *quota.Governor
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher over the injected call capability and the
// shared governor.
func NewFetcher(caller transport.Caller, governor *quota.Governor, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		caller:   caller,
		governor: governor,
		logger:   logger,
	}
}

// Do performs one rate-governed request. Quota-exceeded responses are
// reported to the governor and the request is reissued after the window
// clears; they never surface to the caller. Any other outcome, including
// non-2xx statuses, is returned as-is.
func (f *Fetcher) Do(ctx context.Context, req transport.Request) (*transport.Outcome, error) {
	for {
		if err := f.governor.Acquire(ctx); err != nil {
			return nil, err
		}

		outcome, err := f.caller.Call(ctx, req)
		if err != nil {
			return nil, err
		}

		f.governor.Report(outcome.StatusCode, outcome.Header)

		if outcome.StatusCode == http.StatusTooManyRequests {
			f.logger.Warn().
				Str("method", req.Method).
				Str("path", req.Path).
				Msg("Quota exceeded, request will be reissued")
			continue
		}

		return outcome, nil
	}
}

// Seq is a lazy, single-pass, forward-only sequence of decoded items. It is
// not safe for concurrent use; one consumer drives one sequence.
type Seq[T any] struct {
	fetcher *Fetcher
	req     transport.Request
	decode  DecodeFunc[T]
	cursor  CursorFunc

	phase   phase
	buf     []T
	next    string
	limit   int
	yielded int
	err     error
}

type phase int

const (
	phaseNotStarted phase = iota
	phaseEmitting
	phaseExhausted
)

// Fetch produces a lazy sequence over a paginated endpoint. The first page
// is not requested until the first Next call.
func Fetch[T any](f *Fetcher, req transport.Request, decode DecodeFunc[T], cursor CursorFunc) *Seq[T] {
	return &Seq[T]{
		fetcher: f,
		req:     req,
		decode:  decode,
		cursor:  cursor,
	}
}

// Limit caps the number of items the sequence will yield, regardless of how
// many pages the server holds. Must be set before the first Next call.
func (s *Seq[T]) Limit(n int) *Seq[T] {
	s.limit = n
	return s
}

// Next returns the next item. It fetches a page only when the buffered one
// is drained. Returns Done once the sequence is exhausted; any other error
// is sticky and ends the sequence without a partial page.
func (s *Seq[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if s.err != nil {
		return zero, s.err
	}

	for {
		if s.limit > 0 && s.yielded >= s.limit {
			s.phase = phaseExhausted
		}

		if len(s.buf) > 0 && s.phase == phaseEmitting {
			item := s.buf[0]
			s.buf = s.buf[1:]
			s.yielded++
			return item, nil
		}

		switch s.phase {
		case phaseExhausted:
			return zero, Done

		case phaseNotStarted:
			if err := s.fetchPage(ctx, s.req); err != nil {
				return zero, err
			}

		case phaseEmitting:
			// Current page drained.
			if s.next == "" {
				s.phase = phaseExhausted
				return zero, Done
			}
			if err := s.fetchPage(ctx, s.req.WithCursor(s.next)); err != nil {
				return zero, err
			}
		}
	}
}

// All adapts the sequence for range-over-func consumption. Iteration stops
// at exhaustion or at the first error, which is yielded with a zero item.
func (s *Seq[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := s.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice.
func (s *Seq[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	for item, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// fetchPage performs one governed page request and refills the buffer.
// Failures are recorded so later Next calls do not re-fetch.
func (s *Seq[T]) fetchPage(ctx context.Context, req transport.Request) error {
	outcome, err := s.fetcher.Do(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		return s.fail(transport.NewStatusError(outcome))
	}

	items, err := s.decode(outcome.Payload)
	if err != nil {
		return s.fail(fmt.Errorf("decode page items: %w", err))
	}

	next, err := s.cursor(outcome.Payload)
	if err != nil {
		return s.fail(fmt.Errorf("extract next cursor: %w", err))
	}

	bcPagesFetchedTotal.Inc()
	s.fetcher.logger.Debug().
		Int("items", len(items)).
		Bool("last_page", next == "").
		Msg("Page fetched")

	s.buf = items
	s.next = next
	s.phase = phaseEmitting
	return nil
}

func (s *Seq[T]) fail(err error) error {
	s.err = err
	s.phase = phaseExhausted
	return err
}
