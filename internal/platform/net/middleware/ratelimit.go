package middleware

import (
	"net"
	stdhttp "net/http"
	"strconv"
	"sync"
	"time"

	"ipclaim/internal/platform/logger"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitOptions configures per client token buckets
type RateLimitOptions struct {
	RPS   float64       // sustained requests per second per client, <= 0 disables limiting
	Burst int           // bucket size, default 5
	Idle  time.Duration // idle buckets are evicted after this, default 10m

	// Key derives the client key, default is the remote ip (run after RealIP)
	Key func(*stdhttp.Request) string

	// Body is written with status 429, default {"error":"Too many requests"}
	Body any
}

// ClientLimiter hands out one rate.Limiter per client key
type ClientLimiter struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	limit   rate.Limit
	burst   int
}

// NewClientLimiter creates a limiter set; idle entries expire after idle
func NewClientLimiter(rps float64, burst int, idle time.Duration) *ClientLimiter {
	if burst <= 0 {
		burst = 5
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &ClientLimiter{
		buckets: gocache.New(idle, idle),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether key may proceed now
func (l *ClientLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Delay returns how long key must wait for its next token without consuming it
func (l *ClientLimiter) Delay(key string) time.Duration {
	lim := l.get(key)
	r := lim.Reserve()
	d := r.Delay()
	r.Cancel()
	return d
}

func (l *ClientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		// touch so active clients keep their bucket
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, lim)
	return lim
}

// RateLimit rejects clients exceeding their token bucket with 429
// write is the JSON writer used for the rejection body
func RateLimit(o RateLimitOptions, write func(w stdhttp.ResponseWriter, status int, body any)) func(stdhttp.Handler) stdhttp.Handler {
	if o.RPS <= 0 {
		return func(next stdhttp.Handler) stdhttp.Handler { return next }
	}
	lim := NewClientLimiter(o.RPS, o.Burst, o.Idle)
	key := o.Key
	if key == nil {
		key = ClientIP
	}
	body := o.Body
	if body == nil {
		body = map[string]string{"error": "Too many requests"}
	}
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if r.Method == stdhttp.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			k := key(r)
			if !lim.Allow(k) {
				retry := lim.Delay(k)
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				logger.C(r.Context()).Warn().Str("client", k).Msg("rate limited")
				write(w, stdhttp.StatusTooManyRequests, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the host part of r.RemoteAddr
func ClientIP(r *stdhttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
