package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/metrics"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"

	_ "github.com/aussiebroadwan/sessiongate/api/sessiongate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	// AdminScope grants every /v1/admin route.
	AdminScope = "sessions:admin"

	// AdminReadScope grants the read-only /v1/admin routes.
	AdminReadScope = "sessions:read"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	hookSecret   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	cache cache.SessionCache

	SessionService    *service.SessionService
	RevocationService *service.RevocationService
	AllowListService  *service.AllowListService
	TokenRegistry     *service.TokenRegistry
	DeviceBinder      *service.DeviceBinder
	Guard             *service.Guard
	Metrics           *metrics.Metrics

	Limits       httpx.RateLimitProfiles
	GuardOptions GuardOptions
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	hookSecret, buildVersion string,
	st store.Store,
	sc cache.SessionCache,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		hookSecret:   hookSecret,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		cache:        sc,
		Limits:       httpx.DefaultRateLimitProfiles(),
		GuardOptions: DefaultGuardOptions(),
	}
}

// ApplyRoutes registers every route. Services must be set beforehand.
func (r *Router) ApplyRoutes() {
	// Metrics must sit inside the logger so it sees the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.Metrics.Middleware(),
	}

	r.registerHooks()
	r.registerMe()
	r.registerAdmin()
	r.registerGuard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Session Gate API
//	@version		0.1.0
//	@description	Device-bound sessions and revocation for an OAuth2/OIDC authorization server.
//	@description
//	@description				Access tokens are issued elsewhere; this service verifies them and checks that the session behind them is still live.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/sessiongate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	HookSecret
//	@in							header
//	@name						Authorization
//	@description				Shared hook secret. Format: "Bearer {secret}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) headers() DeviceHeaders {
	return r.GuardOptions.Headers
}

func (r *Router) registerHooks() {
	h := &HooksHandler{
		AllowList: r.AllowListService,
		Sessions:  r.SessionService,
		Binder:    r.DeviceBinder,
		Tokens:    r.TokenRegistry,
		Headers:   r.headers(),
	}

	// Called by the authorization server on every exchange; shared secret, IP limited.
	hook := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireSharedSecret(r.hookSecret),
			httpx.RateLimitByIP(r.Limits.Hook),
		)
	}

	r.Mux.Handle("POST /v1/hooks/authorize", hook(h.HandleAuthorize))
	r.Mux.Handle("POST /v1/hooks/token-request", hook(h.HandleTokenRequest))
	r.Mux.Handle("POST /v1/hooks/sign-in", hook(h.HandleSignIn))
	r.Mux.Handle("POST /v1/hooks/token-response", hook(h.HandleTokenResponse))
	r.Mux.Handle("POST /v1/hooks/tokens", hook(h.HandleRegisterToken))
	r.Mux.Handle("GET /v1/hooks/tokens/{id}", hook(h.HandleGetToken))
	r.Mux.Handle("POST /v1/hooks/tokens/{id}/revoke", hook(h.HandleRevokeToken))
}

func (r *Router) registerMe() {
	h := &MeHandler{
		Sessions:   r.SessionService,
		Revocation: r.RevocationService,
		Headers:    r.headers(),
	}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),                     // verify JWT (iss/aud/exp)
			SessionGuard(r.Guard, r.DeviceBinder, r.GuardOptions), // session still live
			httpx.RateLimitBySession(r.Limits.SelfService, r.headers().ID),
		)
	}

	r.Mux.Handle("GET /v1/me/sessions", secured(h.HandleList))
	r.Mux.Handle("GET /v1/me/sessions/current", secured(h.HandleCurrent))
	r.Mux.Handle("POST /v1/me/logout", secured(h.HandleLogout))
	r.Mux.Handle("POST /v1/me/sessions/revoke-others", secured(h.HandleRevokeOthers))
	r.Mux.Handle("POST /v1/me/sessions/revoke-all", secured(h.HandleRevokeAll))
	r.Mux.Handle("DELETE /v1/me/sessions/{client_id}/{device_id}", secured(h.HandleRevokeDevice))
}

func (r *Router) registerAdmin() {
	sessions := &AdminSessionsHandler{
		Sessions:   r.SessionService,
		Revocation: r.RevocationService,
		Headers:    r.headers(),
	}
	allow := &AdminAllowListHandler{
		AllowList: r.AllowListService,
		Headers:   r.headers(),
	}

	scoped := func(fn http.HandlerFunc, scopes ...string) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(scopes...),
			httpx.RateLimitByUser(r.Limits.Admin),
		)
	}
	admin := func(fn http.HandlerFunc) http.Handler { return scoped(fn, AdminScope) }
	read := func(fn http.HandlerFunc) http.Handler { return scoped(fn, AdminScope, AdminReadScope) }

	r.Mux.Handle("GET /v1/admin/users/{user_id}/sessions", read(sessions.HandleList))
	r.Mux.Handle("GET /v1/admin/users/{user_id}/sessions/current", read(sessions.HandleCurrent))
	r.Mux.Handle("POST /v1/admin/users/{user_id}/sessions/revoke", admin(sessions.HandleRevoke))
	r.Mux.Handle("GET /v1/admin/sessions/{id}", read(sessions.HandleGet))

	r.Mux.Handle("POST /v1/admin/allowlist", admin(allow.HandleAdd))
	r.Mux.Handle("GET /v1/admin/allowlist", read(allow.HandleList))
	r.Mux.Handle("GET /v1/admin/allowlist/resolve", read(allow.HandleResolve))
	r.Mux.Handle("GET /v1/admin/allowlist/{id}", read(allow.HandleGet))
	r.Mux.Handle("POST /v1/admin/allowlist/{id}/enable", admin(allow.HandleEnable))
	r.Mux.Handle("POST /v1/admin/allowlist/{id}/disable", admin(allow.HandleDisable))
	r.Mux.Handle("PUT /v1/admin/allowlist/{id}/audiences", admin(allow.HandleUpdateAudiences))
	r.Mux.Handle("POST /v1/admin/allowlist/{id}/rebind", admin(allow.HandleRebind))
	r.Mux.Handle("DELETE /v1/admin/allowlist/{id}", admin(allow.HandleRemove))
	r.Mux.Handle("DELETE /v1/admin/users/{user_id}/allowlist", admin(allow.HandleRemoveAllForUser))
}

func (r *Router) registerGuard() {
	// Forward-auth for reverse proxies; keyed by IP and device before the
	// token is even looked at.
	r.Mux.Handle("GET /v1/guard/verify",
		httpx.Chain(GuardVerifyHandler(r.headers()),
			httpx.RateLimitByIPAndHeader(r.Limits.Public, r.headers().ID),
			httpx.AuthnMiddleware(r.verifier),
			SessionGuard(r.Guard, r.DeviceBinder, r.GuardOptions),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache, r.keys),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
	r.Mux.Handle("GET /metrics", r.Metrics.Handler())
}
