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

// Revocation operation names, used as metric labels and log fields.
const (
	OpRevokeByClient   = "by_client"
	OpRevokeByDevice   = "by_device"
	OpRevokeAllExcept  = "all_except"
	OpRevokeAllForUser = "all_for_user"
)

// Revoker is the subset of the revocation engine other services depend on.
type Revoker interface {
	RevokeByClient(ctx context.Context, userID, clientID string) (domain.RevocationResult, error)
	RevokeAllForUser(ctx context.Context, userID string) (domain.RevocationResult, error)
}

// RevocationService revokes live sessions and the tokens correlated with
// them. Token revokes are best effort; the session flags are flipped in a
// single statement once every token has been attempted.
type RevocationService struct {
	Store   store.Store
	Tokens  TokenManager
	Cache   cache.SessionCache
	Metrics *metrics.Metrics
	Now     func() time.Time
}

var _ Revoker = (*RevocationService)(nil)

func (s *RevocationService) sessionCache() cache.SessionCache {
	if s.Cache == nil {
		return cache.Noop{}
	}
	return s.Cache
}

func (s *RevocationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RevokeByClient revokes every live session of the user on the client.
func (s *RevocationService) RevokeByClient(ctx context.Context, userID, clientID string) (domain.RevocationResult, error) {
	if blank(userID, clientID) {
		return domain.RevocationResult{}, ErrInvalidRequest
	}
	return s.revoke(ctx, OpRevokeByClient, domain.SessionSelector{UserID: userID, ClientID: clientID})
}

// RevokeByDevice revokes the live session of one exact triple.
func (s *RevocationService) RevokeByDevice(ctx context.Context, userID, clientID, deviceID string) (domain.RevocationResult, error) {
	if blank(userID, clientID, deviceID) {
		return domain.RevocationResult{}, ErrInvalidRequest
	}
	return s.revoke(ctx, OpRevokeByDevice, domain.SessionSelector{
		UserID:   userID,
		ClientID: clientID,
		DeviceID: deviceID,
	})
}

// RevokeAllExcept revokes the user's live sessions on every client other
// than keepClientID.
func (s *RevocationService) RevokeAllExcept(ctx context.Context, userID, keepClientID string) (domain.RevocationResult, error) {
	if blank(userID, keepClientID) {
		return domain.RevocationResult{}, ErrInvalidRequest
	}
	return s.revoke(ctx, OpRevokeAllExcept, domain.SessionSelector{UserID: userID, ExceptClientID: keepClientID})
}

// RevokeAllForUser revokes every live session of the user.
func (s *RevocationService) RevokeAllForUser(ctx context.Context, userID string) (domain.RevocationResult, error) {
	if blank(userID) {
		return domain.RevocationResult{}, ErrInvalidRequest
	}
	return s.revoke(ctx, OpRevokeAllForUser, domain.SessionSelector{UserID: userID})
}

func (s *RevocationService) revoke(ctx context.Context, op string, sel domain.SessionSelector) (res domain.RevocationResult, err error) {
	ctx, span := startSpan(ctx, "session.revoke",
		attribute.String(attrOperation, op),
		attribute.String(attrUserID, sel.UserID),
	)
	defer func() {
		span.SetAttributes(
			attribute.Int(attrSessions, res.SessionsRevoked),
			attribute.Int(attrTokens, res.TokensRevoked),
			attribute.Int(attrFailures, res.TokensFailed),
		)
		endSpan(span, err)
	}()

	l := slogx.FromContext(ctx).With("operation", op, "user_id", sel.UserID)

	sessions, err := s.Store.Sessions().SelectLiveSessions(ctx, sel)
	if err != nil {
		l.Error("failed to select sessions for revocation", "error", err)
		return domain.RevocationResult{}, fmt.Errorf("select sessions: %w", err)
	}
	if len(sessions) == 0 {
		return domain.RevocationResult{}, nil
	}

	var (
		out  domain.RevocationResult
		ids  = make([]string, 0, len(sessions))
		keys = make([]domain.SessionKey, 0, len(sessions))
	)
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
		keys = append(keys, sess.Key())
	}

	// Tombstone before the rows change so a guard fill that read the live
	// row cannot cache it afterwards.
	if err := s.sessionCache().Revoke(ctx, keys...); err != nil {
		l.Error("failed to tombstone cached sessions", "sessions", len(keys), "error", err)
		return domain.RevocationResult{}, fmt.Errorf("tombstone cached sessions: %w", err)
	}

	for _, sess := range sessions {
		if sess.TokenCorrelationID == "" {
			continue
		}
		revoked, err := s.revokeToken(ctx, sess.TokenCorrelationID)
		if err != nil {
			out.TokensFailed++
			l.Warn("token revoke failed, continuing", "session_id", sess.ID, "error", err)
			continue
		}
		if revoked {
			out.TokensRevoked++
		}
	}

	if _, err := s.Store.Sessions().RevokeSessions(ctx, ids, s.now()); err != nil {
		l.Error("failed to revoke sessions", "sessions", len(ids), "error", err)
		return domain.RevocationResult{}, fmt.Errorf("revoke sessions: %w", err)
	}
	out.SessionsRevoked = len(ids)

	// Refresh the tombstones so they outlive any fill that started while the
	// token revokes ran.
	if err := s.sessionCache().Revoke(ctx, keys...); err != nil {
		l.Warn("failed to refresh session tombstones", "error", err)
	}

	s.Metrics.ObserveRevocation(op, out)
	l.Info("sessions revoked",
		"sessions_revoked", out.SessionsRevoked,
		"tokens_revoked", out.TokensRevoked,
		"tokens_failed", out.TokensFailed,
	)
	return out, nil
}

// revokeToken looks the token up and revokes it. It reports false without
// an error when the token was already revoked.
func (s *RevocationService) revokeToken(ctx context.Context, id string) (bool, error) {
	if s.Tokens == nil {
		return false, &TokenRevokeError{TokenID: id, Err: errors.New("no token manager configured")}
	}
	if _, err := s.Tokens.FindByID(ctx, id); err != nil {
		return false, &TokenRevokeError{TokenID: id, Err: err}
	}
	revoked, err := s.Tokens.TryRevoke(ctx, id)
	if err != nil {
		return false, &TokenRevokeError{TokenID: id, Err: err}
	}
	return revoked, nil
}

// blank reports whether any of the values is empty after trimming.
func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
