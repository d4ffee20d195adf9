// File: internal/services/response/retry.go
package response

import (
    "context"
    "time"
)

// Retry runs call up to attempts times with a fixed delay between tries,
// returning the first success or the last failure. Context cancellation
// aborts the wait immediately.
func Retry(ctx context.Context, attempts int, delay time.Duration, call func(ctx context.Context) error) error {
    if attempts < 1 {
        attempts = 1
    }

    var lastErr error
    for attempt := 0; attempt < attempts; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(delay):
            }
        }

        err := call(ctx)
        if err == nil {
            return nil
        }
        lastErr = err

        if ctx.Err() != nil {
            return ctx.Err()
        }
    }
    return lastErr
}
