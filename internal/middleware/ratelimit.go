package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIdle is how long a client's limiter is kept after its last request.
const clientIdle = 5 * time.Minute

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiters holds one limiter per client address.
type clientLimiters struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func (c *clientLimiters) allow(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > clientIdle {
		for k, cl := range c.clients {
			if now.Sub(cl.seen) > clientIdle {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	cl, ok := c.clients[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(c.rps, c.burst)}
		c.clients[key] = cl
	}
	cl.seen = now
	return cl.lim.AllowN(now, 1)
}

// clientKey is the remote host without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit answers 429 once a client exceeds rps with the given burst.
// Clients are told apart by remote address; rps <= 0 disables the limiter.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiters := &clientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(clientKey(r), time.Now()) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
