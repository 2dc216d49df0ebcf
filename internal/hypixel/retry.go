package hypixel

import (
	"context"
	"log/slog"
	"time"
)

// Backoff schedule for transient upstream failures. The last delay repeats
// until the depth cap is hit.
var retryDelays = []time.Duration{
	time.Second,
	5 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
}

const maxRetryDepth = 7

// Retry runs fn with capped exponential backoff. Only the boundary retries;
// the recap core propagates every failure to its caller.
func Retry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	delays := retryDelays
	var zero T
	for depth := 0; ; depth++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if depth >= maxRetryDepth {
			return zero, err
		}
		slog.Warn("Fetch failed, retrying", "error", err, "delay", delays[0], "attempt", depth+1)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[0]):
		}
		if len(delays) > 1 {
			delays = delays[1:]
		}
	}
}
