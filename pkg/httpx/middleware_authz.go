package httpx

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

// HasScope reports whether the verified token in ctx was granted scope.
func HasScope(ctx context.Context, scope string) bool {
	return slices.Contains(scopesFromCtx(ctx), scope)
}

// RequireAnyScope admits callers granted at least one of the listed scopes
// and answers 403 insufficient_scope otherwise.
func RequireAnyScope(accepted ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for _, s := range accepted {
				if HasScope(ctx, s) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slogx.FromContext(ctx).Warn("insufficient scope",
				"sub", UserIDFromContext(ctx), "accepted", accepted)
			w.Header().Set("WWW-Authenticate",
				`Bearer error="insufficient_scope", scope="`+strings.Join(accepted, " ")+`"`)
			WriteError(w, http.StatusForbidden, "insufficient_scope",
				"The access token does not have the required scopes.")
		})
	}
}
