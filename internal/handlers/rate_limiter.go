package handlers

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter is a per-client token bucket. Each bucket holds up to burst tokens
// and refills at rps tokens per second.
type Limiter struct {
	buckets map[string]*bucket
	rps     float64
	burst   float64
	getID   func(*gin.Context) string
	now     func() time.Time
	mutex   sync.Mutex
}

type bucket struct {
	tokens float64
	last   time.Time
}

// maxBuckets caps memory use; full buckets are dropped when it is reached.
const maxBuckets = 10000

func NewLimiter(rps float64, getID func(*gin.Context) string) *Limiter {
	if getID == nil {
		getID = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		rps:     rps,
		burst:   math.Max(rps, 1),
		getID:   getID,
		now:     time.Now,
	}
}

// Allow takes one token from id's bucket if one is available.
func (l *Limiter) Allow(id string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	b, ok := l.buckets[id]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.prune(now)
		}
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[id] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * l.rps
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) prune(now time.Time) {
	for id, b := range l.buckets {
		if b.tokens+now.Sub(b.last).Seconds()*l.rps >= l.burst {
			delete(l.buckets, id)
		}
	}
}

func RateLimit(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(limiter.getID(c)) {
			fail(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
