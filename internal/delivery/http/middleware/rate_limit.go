package middleware

import (
	"context"
	"ecommerce-backend/pkg/utils"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig tunes the per-client token buckets.
type RateLimitConfig struct {
	PerSecond     rate.Limit
	Burst         int
	CleanupPeriod time.Duration
	IdleTTL       time.Duration
	// ExemptPaths are never throttled (liveness probes).
	ExemptPaths []string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles callers by client address. Idle buckets are swept
// in the background until the parent context ends or Shutdown is called.
type RateLimiter struct {
	cfg    RateLimitConfig
	exempt map[string]struct{}

	mu      sync.Mutex
	buckets map[string]*bucket

	stop context.CancelFunc
	now  func() time.Time
}

func NewRateLimiter(ctx context.Context, cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		cfg:     cfg,
		exempt:  make(map[string]struct{}, len(cfg.ExemptPaths)),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	for _, p := range cfg.ExemptPaths {
		rl.exempt[p] = struct{}{}
	}

	ctx, rl.stop = context.WithCancel(ctx)
	if cfg.CleanupPeriod > 0 {
		go rl.sweepEvery(ctx, cfg.CleanupPeriod)
	}
	return rl
}

// Allow takes a token from key's bucket. When none is available it reports
// how long until one will be.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	limiter := rl.bucketFor(key)

	now := rl.now()
	res := limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := rl.exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if ok, wait := rl.Allow(getClientIP(r)); !ok {
				w.Header().Set("Retry-After", retryAfterSeconds(wait))
				utils.WriteError(w, http.StatusTooManyRequests, "RateLimited", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(wait time.Duration) string {
	secs := int64(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.cfg.PerSecond, rl.cfg.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = rl.now()
	return b.limiter
}

func (rl *RateLimiter) sweepEvery(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops buckets not touched within IdleTTL and returns how many it removed.
func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cfg.IdleTTL)
	removed := 0
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) Shutdown() {
	rl.stop()
}
