package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig shapes per-key request throttling.
type RateLimitConfig struct {
	Rate            float64                                      // tokens per second
	Burst           int                                          // bucket size
	KeyFunc         func(r *http.Request) string                 // default: client IP
	OnLimit         func(w http.ResponseWriter, r *http.Request) // default: 429 problem response
	CleanupInterval time.Duration                                // prune cadence, default 1m
	MaxIdle         time.Duration                                // entry lifetime without traffic, default 5m
}

// limiterPool keeps one token bucket per key and prunes buckets that
// have gone quiet, so the map cannot grow without bound.
type limiterPool struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	rate       rate.Limit
	burst      int
	pruneEvery time.Duration
	maxIdle    time.Duration
	lastPrune  time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// acquire returns the bucket for key, creating it on first sight and
// opportunistically pruning idle entries.
func (p *limiterPool) acquire(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastPrune) >= p.pruneEvery {
		for k, e := range p.entries {
			if now.Sub(e.lastSeen) > p.maxIdle {
				delete(p.entries, k)
			}
		}
		p.lastPrune = now
	}

	entry, ok := p.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(p.rate, p.burst)}
		p.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// RateLimit returns middleware that throttles requests per key using a
// token bucket. Keys default to the client IP; rejected requests get a
// Retry-After header and a 429 unless OnLimit overrides the response.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(w http.ResponseWriter, _ *http.Request) {
			writeErrorResponse(w, Error(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests)))
		}
	}

	pool := &limiterPool{
		entries:    make(map[string]*limiterEntry),
		rate:       rate.Limit(cfg.Rate),
		burst:      cfg.Burst,
		pruneEvery: cfg.CleanupInterval,
		maxIdle:    cfg.MaxIdle,
	}
	if pool.pruneEvery <= 0 {
		pool.pruneEvery = time.Minute
	}
	if pool.maxIdle <= 0 {
		pool.maxIdle = 5 * time.Minute
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.acquire(cfg.KeyFunc(r)).Allow() {
				w.Header().Set("Retry-After", strconv.FormatFloat(1/cfg.Rate, 'f', 0, 64))
				cfg.OnLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from the remote address, falling back to
// the raw value when there is none to strip.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
