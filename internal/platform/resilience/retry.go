package resilience

import (
	"context"
	"time"
)

// Retry calls fn up to attempts+1 times, waiting backoff*n between tries.
// retryable decides whether an error is worth another attempt; nil retries everything.
func Retry(ctx context.Context, attempts int, backoff time.Duration, retryable func(error) bool, fn func(context.Context) error) error {
	if attempts < 0 {
		attempts = 0
	}

	var err error
	for try := 0; try <= attempts; try++ {
		if try > 0 {
			timer := time.NewTimer(backoff * time.Duration(try))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
	}

	return err
}
