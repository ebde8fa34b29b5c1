package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// RateLimitConfig sizes the per-client token bucket in front of /bookmarks.
type RateLimitConfig struct {
	Burst      int           // bucket capacity, also the X-RateLimit-Limit value
	PerMinute  int           // refill rate, 0 disables the limiter
	MaxClients int           // evict idle clients once this many are tracked, 0 = no cap
	IdleTTL    time.Duration // a client idle this long loses its bucket (default 15m)
	TrustProxy bool
	Logger     logger.Logger
}

type clientBucket struct {
	tokens   float64
	refilled time.Time
}

// clientBuckets tracks one bucket per client address. A single mutex is
// enough: the critical section is a map lookup and a few float ops.
type clientBuckets struct {
	mu       sync.Mutex
	perSec   float64
	capacity float64
	idleTTL  time.Duration
	max      int
	now      func() time.Time
	buckets  map[string]*clientBucket
	swept    time.Time
}

func newClientBuckets(cfg RateLimitConfig) *clientBuckets {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &clientBuckets{
		perSec:   float64(cfg.PerMinute) / 60,
		capacity: float64(max(cfg.Burst, 1)),
		idleTTL:  ttl,
		max:      cfg.MaxClients,
		now:      time.Now,
		buckets:  make(map[string]*clientBucket),
	}
}

// take spends one token for client. When the bucket is empty it reports how
// many whole seconds until the next token.
func (c *clientBuckets) take(client string) (ok bool, remaining int, retryAfter int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictLocked(now)

	b, found := c.buckets[client]
	if !found {
		b = &clientBucket{tokens: c.capacity, refilled: now}
		c.buckets[client] = b
	}

	// a bucket is full again after idleTTL, so refilling covers idle clients too
	if dt := now.Sub(b.refilled).Seconds(); dt > 0 {
		b.tokens = math.Min(c.capacity, b.tokens+dt*c.perSec)
		b.refilled = now
	}

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / c.perSec))
		return false, 0, max(wait, 1)
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// evictLocked drops idle clients once a minute, or immediately when the
// table is full.
func (c *clientBuckets) evictLocked(now time.Time) {
	full := c.max > 0 && len(c.buckets) >= c.max
	if !full && now.Sub(c.swept) < time.Minute {
		return
	}
	for k, b := range c.buckets {
		if now.Sub(b.refilled) > c.idleTTL {
			delete(c.buckets, k)
		}
	}
	c.swept = now
}

func (c *clientBuckets) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

// RateLimit throttles each client to Burst requests plus PerMinute refills.
// Rejections get a 429 JSON error with Retry-After. A zero PerMinute disables it.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.PerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return rateLimit(newClientBuckets(cfg), cfg.TrustProxy, log)
}

func rateLimit(c *clientBuckets, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(int(c.capacity))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r, trustProxy)
			ok, remaining, retry := c.take(client)

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				log.Warn("bookmarks rate limit exceeded",
					logger.String("client_ip", client),
					logger.String("method", r.Method),
					logger.Int("retry_after", retry),
				)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				handlers.WriteError(w, http.StatusTooManyRequests, MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
