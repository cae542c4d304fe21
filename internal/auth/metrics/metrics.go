// Package metrics holds the Prometheus collectors for the session layer.
// Every method is nil-safe so components can run without metrics wired.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sessiongate"

// Metrics encapsulates the Prometheus registry and the collectors used by
// services and HTTP handlers.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	sessionsRevoked *prometheus.CounterVec
	tokensRevoked   *prometheus.CounterVec
	tokenFailures   *prometheus.CounterVec
	upserts         *prometheus.CounterVec
	guardDecisions  *prometheus.CounterVec
	bindingFailures *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sessionsRevoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Sessions revoked, by revocation operation.",
		}, []string{"operation"}),
		tokensRevoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_revoked_total",
			Help:      "Correlated tokens revoked during a cascade, by revocation operation.",
		}, []string{"operation"}),
		tokenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_revoke_failures_total",
			Help:      "Token lookups or revokes that failed during a cascade.",
		}, []string{"operation"}),
		upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_upserts_total",
			Help:      "Session upserts by outcome (created, updated, resurrected, rejected).",
		}, []string{"outcome"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Session guard decisions by result.",
		}, []string{"result"}),
		bindingFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_binding_failures_total",
			Help:      "Device binding rejections by reason.",
		}, []string{"reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_cache_lookups_total",
			Help:      "Guard cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsRevoked,
		m.tokensRevoked,
		m.tokenFailures,
		m.upserts,
		m.guardDecisions,
		m.bindingFailures,
		m.cacheLookups,
		m.requestDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	return m
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRevocation records the outcome of one revocation call.
func (m *Metrics) ObserveRevocation(operation string, res domain.RevocationResult) {
	if m == nil {
		return
	}
	m.sessionsRevoked.WithLabelValues(operation).Add(float64(res.SessionsRevoked))
	m.tokensRevoked.WithLabelValues(operation).Add(float64(res.TokensRevoked))
	m.tokenFailures.WithLabelValues(operation).Add(float64(res.TokensFailed))
}

func (m *Metrics) ObserveUpsert(outcome string) {
	if m == nil {
		return
	}
	m.upserts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveGuard(result string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBindingFailure(reason string) {
	if m == nil {
		return
	}
	m.bindingFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Middleware records request durations labelled by the matched route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.requestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
