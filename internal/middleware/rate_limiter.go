package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"finesse/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// clientKey identifies the caller. X-Forwarded-For is honored only when the
// engine trusts the proxy that sent it.
func clientKey(c *gin.Context) string {
	return c.ClientIP()
}

// ── General API rate limiter ──────────────────────────────────────────────────

// WindowStore records hits in a sliding window. Allow reports whether a new
// hit fits under limit and, when it does not, how long until the oldest hit
// leaves the window.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RateLimiter rejects a client once it has made limit requests within window.
// Store failures let the request through.
func RateLimiter(store WindowStore, limit int, window time.Duration) gin.HandlerFunc {
	if limit < 1 {
		limit = 1
	}
	return func(c *gin.Context) {
		ok, retry, err := store.Allow(c.Request.Context(), clientKey(c), limit, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter indisponível")
			c.Next()
			return
		}
		if !ok {
			secs := int(math.Ceil(retry.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// MemoryWindowStore keeps one timestamp log per key in process memory.
type MemoryWindowStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

const purgeInterval = 5 * time.Minute

// NewMemoryWindowStore starts a purge goroutine that stops with ctx.
func NewMemoryWindowStore(ctx context.Context, window time.Duration) *MemoryWindowStore {
	s := &MemoryWindowStore{hits: make(map[string][]time.Time), now: time.Now}
	go s.purgeLoop(ctx, window)
	return s
}

func (s *MemoryWindowStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	hits := trim(s.hits[key], now.Add(-window))
	if limit < 1 {
		return false, window, nil
	}
	if len(hits) >= limit {
		s.hits[key] = hits
		return false, hits[0].Add(window).Sub(now), nil
	}
	s.hits[key] = append(hits, now)
	return true, 0, nil
}

// trim drops timestamps at or before cutoff. The log is in ascending order.
func trim(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (s *MemoryWindowStore) purgeLoop(ctx context.Context, window time.Duration) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purge(window)
		}
	}
}

func (s *MemoryWindowStore) purge(window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-window)
	purged := 0
	for k, hits := range s.hits {
		if rest := trim(hits, cutoff); len(rest) == 0 {
			delete(s.hits, k)
			purged++
		} else {
			s.hits[k] = rest
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(s.hits)).Msg("rate limiter purged")
	}
}

// RedisWindowStore keeps one sorted set per key so every instance shares the
// same window. The script trims, counts and records atomically.
type RedisWindowStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisWindowStore(rdb *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{rdb: rdb, prefix: "ratelimit:"}
}

var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return 0
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = tonumber(oldest[2]) + window - now
if retry < 1 then retry = 1 end
return retry
`)

func (s *RedisWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now().UnixMilli()
	retry, err := slidingWindowScript.Run(ctx, s.rdb,
		[]string{s.prefix + key},
		now, window.Milliseconds(), limit, strconv.FormatInt(now, 10)+"-"+uuid.NewString(),
	).Int64()
	if err != nil {
		return false, 0, err
	}
	if retry == 0 {
		return true, 0, nil
	}
	return false, time.Duration(retry) * time.Millisecond, nil
}

// ── Login rate limiter ────────────────────────────────────────────────────────

type loginEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter is a token bucket per client that refills perMinute tokens
// each minute. Idle buckets are dropped when ctx is done or after a few minutes.
type LoginRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*loginEntry
	perMinute int
}

func NewLoginRateLimiter(ctx context.Context, perMinute int) *LoginRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	l := &LoginRateLimiter{entries: make(map[string]*loginEntry), perMinute: perMinute}
	go l.purgeLoop(ctx)
	return l
}

func (l *LoginRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &loginEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (l *LoginRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiter(clientKey(c)).Allow() {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas tentativas de login. Tente novamente em 1 minuto."))
			return
		}
		c.Next()
	}
}

func (l *LoginRateLimiter) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for k, e := range l.entries {
				if now.Sub(e.lastSeen) > purgeInterval {
					delete(l.entries, k)
				}
			}
			l.mu.Unlock()
		}
	}
}
