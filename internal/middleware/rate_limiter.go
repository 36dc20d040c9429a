package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ──────────────────────────────────────────────────────
// Counters live in Redis so every replica shares the same budget per IP. When
// Redis is missing or failing, each replica falls back to its own in-memory
// window.

// rateEntry tracks request counts per IP for the in-memory fallback.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

type memoryWindow struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
}

func newMemoryWindow() *memoryWindow {
	return &memoryWindow{entries: make(map[string]*rateEntry)}
}

// hit counts one request and returns the count inside the current window.
func (m *memoryWindow) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd
}

// purge removes expired entries so IPs that never return do not leak memory.
func (m *memoryWindow) purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for key, e := range m.entries {
		if now.After(e.windowEnd) {
			delete(m.entries, key)
			purged++
		}
	}
	return purged
}

const purgeInterval = 5 * time.Minute

// RateLimiter allows limit requests per window per client IP. rdb may be nil.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryWindow()
	var purgeOnce sync.Once

	return func(c *gin.Context) {
		purgeOnce.Do(func() { go purgeLoop(mem) })

		now := time.Now()
		ip := c.ClientIP()

		count, resetAt, err := redisHit(c.Request.Context(), rdb, ip, window, now)
		if err != nil {
			log.Debug().Err(err).Msg("rate limiter: redis unavailable, using memory window")
			count, resetAt = mem.hit(ip, window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))
		if count > limit {
			c.Header("Retry-After", strconv.Itoa(int(resetAt.Sub(now).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

var errNoRedis = redis.Nil

func redisHit(ctx context.Context, rdb *redis.Client, ip string, window time.Duration, now time.Time) (int, time.Time, error) {
	if rdb == nil {
		return 0, time.Time{}, errNoRedis
	}
	start := now.Truncate(window)
	key := "ratelimit:" + ip + ":" + strconv.FormatInt(start.Unix(), 10)

	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	return int(incr.Val()), start.Add(window), nil
}

func purgeLoop(mem *memoryWindow) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		if purged := mem.purge(time.Now()); purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter map purged")
		}
	}
}
