// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/guardops/internal/core"
)

// RateLimitConfig describes one limiter. Three are mounted: a global one
// keyed by client address, one on login, and one per authenticated
// caller on the protected route groups.
type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
	OnLimited  func(http.ResponseWriter, *http.Request, *redis_rate.Result)
}

// RateLimiter counts in Redis. When Redis cannot answer, the same limit
// is enforced per process so an outage never turns limiting off.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *bucketStore
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.OnLimited == nil {
		cfg.OnLimited = func(w http.ResponseWriter, _ *http.Request, res *redis_rate.Result) {
			WriteRateLimitExceeded(w, res)
		}
	}

	return &RateLimiter{
		shared: redis_rate.NewLimiter(rdb),
		local:  newBucketStore(),
		cfg:    cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.take(r.Context(), rl.cfg.KeyFunc(r))
		writeQuota(w.Header(), rl.cfg.Limit, res)

		if res.Allowed == 0 {
			rl.cfg.OnLimited(w, r, res)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "rate limit store unavailable, counting locally",
		"error", err,
		"key", key,
	)
	return rl.local.take(key, rl.cfg.Limit, time.Now())
}

// clientIP takes the last X-Forwarded-For hop, the one appended by the
// proxy in front of the API, then X-Real-IP, then the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

// KeyByPrincipal buckets authenticated traffic per user so that guards
// behind one site NAT do not share a quota. Unauthenticated requests fall
// back to the client address.
func KeyByPrincipal(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

// KeyWithScope namespaces another key function so that separate limiters
// on the same client do not share a bucket.
func KeyWithScope(
	scope string,
	keyFunc func(*http.Request) string,
) func(*http.Request) string {
	return func(r *http.Request) string {
		return scope + ":" + keyFunc(r)
	}
}

func writeQuota(h http.Header, limit redis_rate.Limit, res *redis_rate.Result) {
	reset := int(res.ResetAfter.Seconds())

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, reset))
}

// WriteRateLimitExceeded answers 429 with a Retry-After header.
func WriteRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = 5 * time.Minute
)

type bucket struct {
	tokens *rate.Limiter
	seen   time.Time
}

// bucketStore is the per-process fallback. Idle buckets are swept lazily
// on access rather than by a background goroutine.
type bucketStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newBucketStore() *bucketStore {
	return &bucketStore{buckets: make(map[string]*bucket)}
}

func (s *bucketStore) take(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	interval := limit.Period / time.Duration(max(limit.Rate, 1))

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepEvery {
		for k, b := range s.buckets {
			if now.Sub(b.seen) > bucketIdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		s.buckets[key] = b
	}
	b.seen = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1, ResetAfter: interval}
	if b.tokens.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.tokens.TokensAt(now)), 0)
	return res
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}
