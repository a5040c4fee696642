package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const minLimiterIdle = time.Second

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP. A bucket idle long enough to
// have refilled completely is dropped, since a fresh one behaves the same.
type ipLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	qps       rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func newIPLimiter(qps float64, burst int) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	idle := time.Duration(float64(burst) / qps * float64(time.Second))
	if idle < minLimiterIdle {
		idle = minLimiterIdle
	}
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		qps:     rate.Limit(qps),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= l.idle {
		l.prune(now)
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.qps, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *ipLimiter) prune(now time.Time) {
	for ip, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.idle {
			delete(l.entries, ip)
		}
	}
	l.lastPrune = now
}

func (l *ipLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RateLimit applies a token bucket per client IP. A non-positive qps disables it.
func RateLimit(qps float64, burst int) gin.HandlerFunc {
	if qps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(qps, burst)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "muitas requisições, tente novamente em instantes",
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one record per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
