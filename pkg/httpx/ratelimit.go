package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket refilled at RequestsPerWindow per Window
// and holding at most Burst tokens.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) limit() rate.Limit {
	if c.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// RateLimitProfiles groups the limits applied to each class of route.
type RateLimitProfiles struct {
	// Hook covers the calls made by the authorization server on every
	// authorize and token exchange. Keyed by IP.
	Hook RateLimitConfig
	// SelfService covers the /v1/me routes. Keyed by user and device.
	SelfService RateLimitConfig
	// Admin covers session and allow-list administration. Keyed by user
	// and IP.
	Admin RateLimitConfig
	// Public covers health probes and the forward-auth endpoint.
	Public RateLimitConfig
}

// DefaultRateLimitProfiles returns the built-in limits.
func DefaultRateLimitProfiles() RateLimitProfiles {
	return RateLimitProfiles{
		Hook:        RateLimitConfig{RequestsPerWindow: 600, Window: time.Minute, Burst: 100},
		SelfService: RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 10},
		Admin:       RateLimitConfig{RequestsPerWindow: 60, Window: time.Minute, Burst: 20},
		Public:      RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// ParseRateLimit overrides def from keys named RATELIMIT_{prefix}_REQUESTS,
// RATELIMIT_{prefix}_WINDOW_SEC and RATELIMIT_{prefix}_BURST. lookup returns
// "" for unset keys; invalid or non-positive values are ignored.
func ParseRateLimit(prefix string, def RateLimitConfig, lookup func(key string) string) RateLimitConfig {
	config := def
	positive := func(field string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(lookup("RATELIMIT_" + prefix + "_" + field)))
		return n, err == nil && n > 0
	}

	if n, ok := positive("REQUESTS"); ok {
		config.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		config.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		config.Burst = n
	}
	return config
}

// KeyExtractor picks the bucket a request is charged to. An empty key skips
// the limit.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client address, preferring the first
// X-Forwarded-For hop and then X-Real-IP over RemoteAddr.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// UserIDKeyExtractor returns the verified token subject, or "".
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// HeaderKeyExtractor keys requests on a request header, such as the device id.
func HeaderKeyExtractor(name string) KeyExtractor {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// bucketIdleTTL is how long an untouched bucket is kept before it is swept.
const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketSet holds one token bucket per key. Idle buckets are swept on
// access, at most once per bucketIdleTTL.
type bucketSet struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

func newBucketSet(cfg RateLimitConfig) *bucketSet {
	return &bucketSet{
		limit:   cfg.limit(),
		burst:   cfg.Burst,
		buckets: make(map[string]*bucket),
		swept:   time.Now(),
	}
}

// take spends one token from key's bucket. When the bucket is empty it
// reports how long until the next token.
func (bs *bucketSet) take(key string, now time.Time) (bool, time.Duration) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if now.Sub(bs.swept) >= bucketIdleTTL {
		for k, b := range bs.buckets {
			if now.Sub(b.lastSeen) >= bucketIdleTTL {
				delete(bs.buckets, k)
			}
		}
		bs.swept = now
	}

	b, ok := bs.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(bs.limit, bs.burst)}
		bs.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}
	res := b.limiter.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)
	return false, wait
}

// RateLimitMiddleware charges each request to the bucket chosen by
// keyExtractor and answers 429 rate_limit_exceeded once it is empty.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	buckets := newBucketSet(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyExtractor(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key for request, not limited")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := buckets.take(key, time.Now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(wait.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", key,
				"route", r.Pattern,
				"retry_after", retryAfter,
			)
			WriteError(w, http.StatusTooManyRequests,
				"rate_limit_exceeded", "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client address.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByUser limits by token subject and client address.
func RateLimitByUser(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		IPKeyExtractor,
	))
}

// RateLimitBySession limits by token subject and the device id header, so
// each signed-in device has its own bucket.
func RateLimitBySession(config RateLimitConfig, deviceHeader string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		HeaderKeyExtractor(deviceHeader),
	))
}

// RateLimitByIPAndHeader limits by client address plus a request header.
func RateLimitByIPAndHeader(config RateLimitConfig, header string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		IPKeyExtractor,
		HeaderKeyExtractor(header),
	))
}
