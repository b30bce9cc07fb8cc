package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/metrics"
)

// SecurityHeaders adds the response headers every endpoint carries.
// Health and metrics output is never framed, sniffed or cached.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(HeaderContentType, HeaderValueNoSniff)
		h.Set(HeaderFrameOptions, HeaderValueDeny)
		h.Set(HeaderReferrerPolicy, HeaderValueReferrerNoReferrer)
		h.Set(HeaderCacheControl, HeaderValueCacheControlNoStore)
		next.ServeHTTP(w, r)
	})
}

// RateLimiter caps requests per client IP within a fixed window
type RateLimiter struct {
	mu             sync.Mutex
	limit          int
	window         time.Duration
	trustedProxies []string
	counts         map[string]int
	windowStart    time.Time
	now            func() time.Time
}

// NewRateLimiter allows limit requests per client per window. A limit <= 0 disables limiting.
func NewRateLimiter(limit int, window time.Duration, trustedProxies []string) *RateLimiter {
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		limit:          limit,
		window:         window,
		trustedProxies: trustedProxies,
		counts:         make(map[string]int),
		windowStart:    time.Now(),
		now:            time.Now,
	}
}

// Allow records one request from ip and reports whether it is within the limit
func (l *RateLimiter) Allow(ip string) bool {
	_, ok := l.record(ip)
	return ok
}

// record counts one request and returns the count for ip in the current window
func (l *RateLimiter) record(ip string) (int, bool) {
	if l == nil || l.limit <= 0 {
		return 0, true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if now := l.now(); now.Sub(l.windowStart) >= l.window {
		l.counts = make(map[string]int)
		l.windowStart = now
	}
	l.counts[ip]++
	n := l.counts[ip]
	return n, n <= l.limit
}

// Middleware rejects requests beyond the limit with 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, l.trustedProxies)
		if n, ok := l.record(ip); !ok {
			metrics.HTTPRequestsRateLimited.Inc()
			if (n-l.limit)%rateLogEvery == 1 {
				logger.FromContext(r.Context()).Warn(LogMsgRateLimited, "ip", ip, "count_in_window", n, "path", r.URL.Path)
			}
			http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address of the client. X-Forwarded-For is only honored when the
// direct peer is a trusted proxy, and then its rightmost entry is used.
func ClientIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != remoteIP {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
		break
	}

	return remoteIP
}
