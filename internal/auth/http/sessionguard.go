package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

type sessionCtxKey struct{}

// GuardOptions configures the SessionGuard middleware.
type GuardOptions struct {
	Headers DeviceHeaders

	// EnforceDeviceHeaders requires the three device headers on every path
	// under APIPrefix, authenticated or not.
	EnforceDeviceHeaders bool
	APIPrefix            string

	// SkipPaths bypass the guard entirely. "/" matches only the root path;
	// any other entry matches as a case-insensitive prefix.
	SkipPaths []string
}

// DefaultGuardOptions returns the options used when nothing is configured.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		Headers:              DefaultDeviceHeaders(),
		EnforceDeviceHeaders: true,
		APIPrefix:            "/v1/me",
		SkipPaths: []string{
			"/",
			"/livez",
			"/readyz",
			"/metrics",
			"/swagger",
			"/v1/hooks",
			"/favicon.ico",
		},
	}
}

func (o GuardOptions) skipped(path string) bool {
	for _, p := range o.SkipPaths {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if hasPrefixFold(path, p) {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return prefix != "" && len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// SessionGuard rejects authenticated requests whose session has been revoked.
// It must run after httpx.AuthnMiddleware; requests without verified claims
// pass through untouched unless device headers are enforced on their path.
// The live session is stored in the request context.
func SessionGuard(guard *service.Guard, binder *service.DeviceBinder, opts GuardOptions) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			path := r.URL.Path

			if opts.skipped(path) {
				next.ServeHTTP(w, r)
				return
			}

			if opts.EnforceDeviceHeaders && hasPrefixFold(path, opts.APIPrefix) {
				if _, err := binder.CheckTokenRequest(ctx, opts.Headers.Read(r)); err != nil {
					rejectGuard(w, r, opts.Headers, err)
					return
				}
			}

			claims, ok := httpx.ClaimsFromContext(ctx)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			p := service.PrincipalFromClaims(claimSet(claims))
			if p.UserID == "" || p.ClientID == "" {
				rejectGuard(w, r, opts.Headers, service.ErrInvalidCredential)
				return
			}

			device, err := binder.CheckTokenRequest(ctx, opts.Headers.Read(r))
			if err != nil {
				rejectGuard(w, r, opts.Headers, err)
				return
			}

			sess, err := guard.Check(ctx, p, device.ID)
			if err != nil {
				rejectGuard(w, r, opts.Headers, err)
				return
			}

			ctx = slogx.With(ctx, "session_id", sess.ID, "user_id", sess.UserID, "client_id", sess.ClientID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionCtxKey{}, sess)))
		})
	}
}

// sessionFromContext returns the session admitted by SessionGuard.
func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(domain.Session)
	return s, ok
}

// rejectGuard answers 401 for every denial the guard can produce.
func rejectGuard(w http.ResponseWriter, r *http.Request, headers DeviceHeaders, err error) {
	oe := errorFor(err, headers)
	switch {
	case oe == nil:
		slogx.FromContext(r.Context()).Error("session guard failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	case oe.Code == authsdk.ErrorCodeInvalidToken:
		oe = oe.WithDescription("Missing required claims (sub/azp).")
	}

	oe = authsdk.NewOAuth2Error(http.StatusUnauthorized, oe.Code, oe.Description)
	oe.WriteError(w)
}
