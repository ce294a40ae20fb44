package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy is a bounded retry schedule shared by the fetcher's per-page and
// per-key request paths. Delay grows by Backoff after each failed attempt.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     float64
}

// Default is the policy used when the caller does not configure one.
var Default = Policy{MaxAttempts: 3, Delay: time.Second, Backoff: 2.0}

// Do runs op up to MaxAttempts times, sleeping between attempts. It returns
// nil on the first success, the last error otherwise. Context cancellation
// cuts the schedule short.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Delay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if p.Backoff > 1 {
			delay = time.Duration(float64(delay) * p.Backoff)
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
