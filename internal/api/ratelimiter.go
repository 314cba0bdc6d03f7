package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultMaxClients bounds the number of per-client buckets held at once.
	defaultMaxClients = 1024
	// defaultClientIdle is how long a bucket may go unused before it is pruned.
	defaultClientIdle = 10 * time.Minute
)

// rateLimiter admits or rejects requests per client key.
type rateLimiter interface {
	Allow(client string) bool
	RetryAfter() time.Duration
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client.
type clientLimiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	maxClients int
	idle       time.Duration
	clients    map[string]*clientEntry
	now        func() time.Time
}

func newClientLimiter(ratePerSecond float64, burst int) *clientLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &clientLimiter{
		limit:      rate.Limit(ratePerSecond),
		burst:      burst,
		maxClients: defaultMaxClients,
		idle:       defaultClientIdle,
		clients:    make(map[string]*clientEntry),
		now:        time.Now,
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[client]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.evict(now)
		}
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// RetryAfter is the time one token takes to refill.
func (l *clientLimiter) RetryAfter() time.Duration {
	if l == nil || l.limit <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / float64(l.limit))
}

// evict drops idle buckets, or the least recently seen one when none is idle.
// Callers hold l.mu.
func (l *clientLimiter) evict(now time.Time) {
	var (
		oldestKey string
		oldest    *clientEntry
	)
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > l.idle {
			delete(l.clients, key)
			continue
		}
		if oldest == nil || entry.lastSeen.Before(oldest.lastSeen) {
			oldestKey, oldest = key, entry
		}
	}
	if oldest != nil && len(l.clients) >= l.maxClients {
		delete(l.clients, oldestKey)
	}
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientKey identifies the caller by the host part of its remote address.
// Forwarding headers are not trusted.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow(clientKey(r)) {
			next.ServeHTTP(w, r)
			return
		}
		seconds := int(math.Ceil(limiter.RetryAfter().Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(1, seconds)))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}
