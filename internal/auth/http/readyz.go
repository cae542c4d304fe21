package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
)

type schemaVersioner interface {
	SchemaVersion() (uint, bool, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports the database, schema, session cache and verification keys.
//	@Description	A disabled cache does not make the service unready.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	sc cache.SessionCache,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Schema:   "ok",
			Cache:    "disabled",
			Keys:     "ok",
		}
		ready := true

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			ready = false
		}

		if sv, ok := st.(schemaVersioner); ok {
			switch v, dirty, err := sv.SchemaVersion(); {
			case err != nil:
				checks.Schema = "error: " + err.Error()
				ready = false
			case dirty:
				checks.Schema = fmt.Sprintf("error: version %d is dirty", v)
				ready = false
			case v == 0:
				checks.Schema = "error: no migrations applied"
				ready = false
			default:
				checks.Schema = fmt.Sprintf("ok (version %d)", v)
			}
		}

		if p, ok := sc.(pinger); ok {
			checks.Cache = "ok"
			if err := p.Ping(ctx); err != nil {
				checks.Cache = "error: " + err.Error()
				ready = false
			}
		}

		if keys == nil || !keys.IsReady() {
			checks.Keys = "error: no keys loaded"
			ready = false
		}

		status, code := "ok", http.StatusOK
		if !ready {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
