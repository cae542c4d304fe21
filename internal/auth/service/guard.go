package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/metrics"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// Principal is the identity carried by an already verified bearer token.
type Principal struct {
	UserID   string
	ClientID string
}

// PrincipalFromClaims reads the subject and the authorized party.
func PrincipalFromClaims(c domain.ClaimSet) Principal {
	clientID, _ := c.ClientID()
	return Principal{UserID: c.Get(domain.ClaimSubject), ClientID: clientID}
}

// Guard confirms on every authenticated request that the caller's session
// is still live, so that a revocation takes effect before the bearer token
// expires.
type Guard struct {
	Store   store.Store
	Cache   cache.SessionCache
	Metrics *metrics.Metrics

	// TouchOnAccess bumps last_seen_at on allowed requests, at most once
	// per TouchInterval.
	TouchOnAccess bool
	TouchInterval time.Duration

	Now func() time.Time
}

func (g *Guard) now() time.Time {
	if g.Now != nil {
		return g.Now().UTC()
	}
	return time.Now().UTC()
}

// Check returns the live session for the principal on the device.
func (g *Guard) Check(ctx context.Context, p Principal, deviceID string) (sess domain.Session, err error) {
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.ClientID) == "" {
		g.Metrics.ObserveGuard("invalid_credential")
		return domain.Session{}, ErrInvalidCredential
	}
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		g.Metrics.ObserveGuard("missing_device")
		return domain.Session{}, &MissingDeviceHeaderError{Header: HeaderDeviceID}
	}

	ctx, span := startSpan(ctx, "session.guard",
		attribute.String(attrUserID, p.UserID),
		attribute.String(attrClientID, p.ClientID),
		attribute.String(attrDeviceID, deviceID),
	)
	defer func() { endSpan(span, err) }()

	key := domain.SessionKey{UserID: p.UserID, ClientID: p.ClientID, DeviceID: deviceID}

	sess, err = g.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSessionRevoked) {
			g.Metrics.ObserveGuard("revoked")
		} else {
			g.Metrics.ObserveGuard("error")
		}
		return domain.Session{}, err
	}

	if g.TouchOnAccess {
		sess = g.touch(ctx, sess)
	}

	g.Metrics.ObserveGuard("allowed")
	return sess, nil
}

func (g *Guard) lookup(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	if g.Cache != nil {
		sess, err := g.Cache.Get(ctx, key)
		switch {
		case err == nil:
			g.Metrics.ObserveCache("hit")
			return sess, nil
		case errors.Is(err, cache.ErrMiss):
			g.Metrics.ObserveCache("miss")
		default:
			g.Metrics.ObserveCache("error")
			l.Warn("session cache read failed, falling back to store", "error", err)
		}
	}

	sess, err := g.Store.Sessions().GetLiveSession(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionRevoked
		}
		l.Error("failed to load session", "error", err)
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	g.remember(ctx, sess)
	return sess, nil
}

// touch updates last_seen_at when it is older than TouchInterval. Failures
// are logged and never deny the request.
func (g *Guard) touch(ctx context.Context, sess domain.Session) domain.Session {
	now := g.now()
	if now.Sub(sess.LastSeenAt) < g.TouchInterval {
		return sess
	}

	if err := g.Store.Sessions().TouchSession(ctx, sess.ID, now); err != nil {
		slogx.FromContext(ctx).Warn("failed to touch session", "session_id", sess.ID, "error", err)
		return sess
	}
	sess.LastSeenAt = now
	g.remember(ctx, sess)
	return sess
}

func (g *Guard) remember(ctx context.Context, sess domain.Session) {
	if g.Cache == nil {
		return
	}
	if err := g.Cache.Set(ctx, sess); err != nil {
		slogx.FromContext(ctx).Warn("failed to cache session", "session_id", sess.ID, "error", err)
	}
}
