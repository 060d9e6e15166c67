package server

import (
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// rateLimiter is a sliding-window limiter per client IP. Idle clients age out
// of the cache after one period without requests.
type rateLimiter struct {
	windows *otter.Cache[string, *window]
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	mu   sync.Mutex
	hits []time.Time
}

func newRateLimiter(limit int, period time.Duration) *rateLimiter {
	return &rateLimiter{
		windows: otter.Must(&otter.Options[string, *window]{
			MaximumSize:      100_000,
			InitialCapacity:  1_000,
			ExpiryCalculator: otter.ExpiryAccessing[string, *window](period),
		}),
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	w, ok := rl.windows.GetIfPresent(ip)
	if !ok {
		w, _ = rl.windows.SetIfAbsent(ip, &window{})
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.period)
	valid := w.hits[:0]
	for _, t := range w.hits {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	w.hits = valid

	if len(w.hits) >= rl.limit {
		return false
	}
	w.hits = append(w.hits, now)
	return true
}
