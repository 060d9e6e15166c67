package counter

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// withRetry runs op, retrying only errors retryable accepts. It never retries
// when retryable is nil.
func withRetry(ctx context.Context, logger *slog.Logger, retryable func(error) bool, op func() error) error {
	if retryable == nil {
		return op()
	}
	return retry.Do(
		op,
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.MaxDelay(500*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(20*time.Millisecond),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying roast counter write", "attempt", n+1, "error", err)
		}),
		retry.LastErrorOnly(true),
	)
}
