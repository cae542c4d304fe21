package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remoteAddr string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Device-Id", "dev-1")

	ctx := httpx.WithClaims(req.Context(), jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	req = req.WithContext(ctx)

	extract := httpx.CompositeKeyExtractor(":",
		httpx.UserIDKeyExtractor,
		httpx.IPKeyExtractor,
		httpx.HeaderKeyExtractor("X-Device-Id"),
		httpx.HeaderKeyExtractor("X-Missing"),
	)
	require.Equal(t, "user-1:192.168.1.1:dev-1", extract(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		})(okHandler)

		for i := range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:12345").Code, "request %d", i+1)
		}

		rec := hit(h, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})(okHandler)

		require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1").Code)
	})

	t.Run("header dimension", func(t *testing.T) {
		h := httpx.RateLimitByIPAndHeader(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, "X-Device-Id")(okHandler)

		device := func(id string) func(*http.Request) {
			return func(r *http.Request) { r.Header.Set("X-Device-Id", id) }
		}
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", device("a")).Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1", device("a")).Code)
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", device("b")).Code)
	})

	t.Run("session buckets are per user and device", func(t *testing.T) {
		h := httpx.RateLimitBySession(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, "X-Device-Id")(okHandler)

		as := func(sub, device string) func(*http.Request) {
			return func(r *http.Request) {
				r.Header.Set("X-Device-Id", device)
				*r = *r.WithContext(httpx.WithClaims(r.Context(), jwtx.Claims{
					RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
				}))
			}
		}
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", as("user-1", "phone")).Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.2:1", as("user-1", "phone")).Code)
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", as("user-1", "laptop")).Code)
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", as("user-2", "phone")).Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
		}
	})
}

func TestDefaultRateLimitProfiles(t *testing.T) {
	p := httpx.DefaultRateLimitProfiles()
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"hook":         p.Hook,
		"self_service": p.SelfService,
		"admin":        p.Admin,
		"public":       p.Public,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}
}

func TestParseRateLimit(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}
	env := map[string]string{
		"RATELIMIT_HOOK_REQUESTS":   "50",
		"RATELIMIT_HOOK_WINDOW_SEC": "30",
		"RATELIMIT_HOOK_BURST":      "-1",
		"RATELIMIT_ADMIN_BURST":     "abc",
	}
	lookup := func(k string) string { return env[k] }

	t.Run("overrides", func(t *testing.T) {
		got := httpx.ParseRateLimit("HOOK", def, lookup)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 10}, got)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimit("ADMIN", def, lookup))
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{
		RequestsPerWindow: 1000000,
		Window:            time.Minute,
		Burst:             1000,
	})(okHandler)

	for i := 0; b.Loop(); i++ {
		hit(h, fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255))
	}
}
