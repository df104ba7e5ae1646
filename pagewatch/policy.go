package pagewatch

import (
	"context"
	"time"
)

// RetryPolicy is a bounded retry loop: at most MaxAttempts tries with a
// fixed Backoff between them. MaxAttempts <= 0 means unbounded (the
// caller relies on navigation events to stop retrying). The policy is
// plain data so retry behaviour is testable without DOM access.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Do runs fn until it reports success, attempts run out, or the context
// ends. Returns true when fn succeeded.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) bool) bool {
	for attempt := 0; p.MaxAttempts <= 0 || attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(p.Backoff):
			}
		}
		if fn(attempt) {
			return true
		}
	}
	return false
}
