package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]jwtx.Claims

func (s stubVerifier) Verify(token string) (jwtx.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return jwtx.Claims{}, errors.New("bad token")
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	v := stubVerifier{
		"good": {
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			AuthorizedParty:  "web",
			Scope:            "openid sessions:admin",
		},
	}

	var seen jwtx.Claims
	h := httpx.AuthnMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		require.Equal(t, "user-1", httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer  ", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
				require.Contains(t, rec.Body.String(), "invalid_token")
			}
		})
	}

	require.Equal(t, "web", seen.Client())
}

func TestRequireScopes(t *testing.T) {
	withScopes := func(scope string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(httpx.WithClaims(req.Context(), jwtx.Claims{Scope: scope}))
	}

	t.Run("any", func(t *testing.T) {
		h := httpx.RequireAnyScope("sessions:admin", "sessions:read")(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withScopes("openid sessions:read"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, withScopes("openid"))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("has scope", func(t *testing.T) {
		ctx := withScopes("openid sessions:read").Context()
		require.True(t, httpx.HasScope(ctx, "sessions:read"))
		require.False(t, httpx.HasScope(ctx, "sessions:admin"))
		require.False(t, httpx.HasScope(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "openid"))
	})
}

func TestRequireSharedSecret(t *testing.T) {
	h := httpx.RequireSharedSecret("s3cret")(okHandler)

	for name, tc := range map[string]struct {
		header string
		status int
	}{
		"missing": {"", http.StatusUnauthorized},
		"wrong":   {"Bearer nope", http.StatusUnauthorized},
		"prefix":  {"Bearer s3cre", http.StatusUnauthorized},
		"match":   {"Bearer s3cret", http.StatusOK},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
		})
	}

	t.Run("empty secret rejects everything", func(t *testing.T) {
		h := httpx.RequireSharedSecret("")(okHandler)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"phone"}`))
	require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &dst))
	require.Equal(t, "phone", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.Error(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 1<<20)+`"}`))
	require.ErrorContains(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &dst), "exceeds")
}
