package quota

import (
	"context"
	"time"
)

// Clock abstracts time for the governor so suspensions can be tested
// deterministically.
type Clock interface {
	Now() time.Time

	// SleepUntil suspends the calling goroutine until t or until the
	// context is done, whichever comes first.
	SleepUntil(ctx context.Context, t time.Time) error
}

// SystemClock is the real-time Clock used outside of tests.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// SleepUntil implements Clock.
func (SystemClock) SleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
