package crawl

import (
	"context"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the pauses between fetch attempts: a fixed 2s
// after each failure, for 3 total attempts. The policy is deliberately
// simplistic: no exponential growth, no jitter.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second, 2 * time.Second}
}

// FetchWithRetry attempts to fetch a URL with the default bounded retry
// policy. The logger function, if provided, is called for each failed attempt.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
//
// The error returned after exhausting all attempts is the final attempt's
// error; no retry state is shared across calls.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if logger != nil {
			logger("error fetching %s (attempt %d/%d): %v", url, attempt+1, maxAttempts, err)
		}

		// Don't sleep after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
