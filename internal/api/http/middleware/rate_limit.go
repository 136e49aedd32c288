package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long an untouched bucket is kept.
	limiterIdleTTL = 10 * time.Minute
	// limiterMaxKeys bounds the bucket map; when full, idle buckets are
	// swept and new keys share one overflow bucket until space frees up.
	limiterMaxKeys = 10000
	overflowKey    = "\x00overflow"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(*gin.Context) string

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per key with idle eviction.
type limiterSet struct {
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	maxKeys   int
	lastSweep time.Time
	visitors  map[string]*visitor
	now       func() time.Time
}

func newLimiterSet(r rate.Limit, b int) *limiterSet {
	return &limiterSet{
		r:        r,
		b:        b,
		idleTTL:  limiterIdleTTL,
		maxKeys:  limiterMaxKeys,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		s.sweep(now)
	}

	v, ok := s.visitors[key]
	if !ok {
		if len(s.visitors) >= s.maxKeys {
			s.sweep(now)
		}
		if len(s.visitors) >= s.maxKeys {
			key = overflowKey
			v = s.visitors[key]
		}
		if v == nil {
			v = &visitor{limiter: rate.NewLimiter(s.r, s.b)}
			s.visitors[key] = v
		}
	}
	v.lastSeen = now
	return v.limiter
}

func (s *limiterSet) sweep(now time.Time) {
	for k, v := range s.visitors {
		if now.Sub(v.lastSeen) >= s.idleTTL {
			delete(s.visitors, k)
		}
	}
	s.lastSweep = now
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimiter allows r requests per second with burst b per key.
func RateLimiter(r rate.Limit, b int, key KeyFunc) gin.HandlerFunc {
	return newLimiterSet(r, b).middleware(key)
}

func (s *limiterSet) middleware(key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.get(key(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// HeaderKey keys requests by a raw request header, falling back to the
// client IP. It needs no prior middleware, so it can run before identity
// lookups.
func HeaderKey(name string) KeyFunc {
	return func(c *gin.Context) string {
		if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
			return name + ":" + v
		}
		return "ip:" + c.ClientIP()
	}
}
