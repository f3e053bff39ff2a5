package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// RateLimiter applies a token bucket per client key and periodically
// evicts idle entries. A nil *RateLimiter allows everything.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-client limiter. It returns nil when rps or
// burst is not positive, which disables limiting.
func NewRateLimiter(rps float64, burst int, idleTTL time.Duration) *RateLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

// Allow reports whether one token can be consumed for key at now. An empty
// key is always allowed.
func (l *RateLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}

// Len returns the number of tracked client keys.
func (l *RateLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// RateLimit returns middleware that rejects solve requests from clients
// over their rate with a resource_exhausted error. The client is
// identified by ClientKeyFromContext. Ping is never limited.
func RateLimit(l *RateLimiter) Middleware {
	return func(next SolverService) SolverService {
		if l == nil {
			return next
		}
		return wrapSolve(next, func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			if !l.Allow(ClientKeyFromContext(ctx), time.Now()) {
				return nil, api.NewResourceExhaustedError("rate limit exceeded, retry later")
			}
			return next.Solve(ctx, req)
		})
	}
}

// ConcurrencyLimit returns middleware that allows at most n solves to run
// at once. Further requests wait for a slot until their context ends, and
// are then rejected with a resource_exhausted error. n <= 0 disables the
// limit.
func ConcurrencyLimit(n int64) Middleware {
	return func(next SolverService) SolverService {
		if n <= 0 {
			return next
		}
		sem := semaphore.NewWeighted(n)
		return wrapSolve(next, func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, api.NewResourceExhaustedError(
					fmt.Sprintf("all %d solve slots busy: %v", n, err))
			}
			defer sem.Release(1)
			return next.Solve(ctx, req)
		})
	}
}
