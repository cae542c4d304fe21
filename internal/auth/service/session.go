package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/metrics"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/idx"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// maxUpsertAttempts bounds the retries of an upsert that lost a race with a
// concurrent writer on the same triple.
const maxUpsertAttempts = 3

// UpsertOutcome describes what an upsert did to the session row.
type UpsertOutcome string

const (
	UpsertCreated     UpsertOutcome = "created"
	UpsertUpdated     UpsertOutcome = "updated"
	UpsertResurrected UpsertOutcome = "resurrected"
)

// SessionService records a session for every token the protocol engine
// hands out and answers read queries over the session table.
type SessionService struct {
	Store   store.Store
	Binder  *DeviceBinder
	Tokens  TokenManager
	Cache   cache.SessionCache
	Metrics *metrics.Metrics

	// RequireReauthAfterRevoke stops a refresh grant from reviving a
	// revoked session; only a new authorization-code exchange can.
	RequireReauthAfterRevoke bool

	Now func() time.Time
}

type UpsertRequest struct {
	Grant     domain.GrantType
	UserID    string
	ClientID  string
	Device    domain.Device
	IPAddress string
	UserAgent string
	TokenID   string
}

type UpsertResult struct {
	Session domain.Session
	Outcome UpsertOutcome
}

// SignInRequest is what the protocol engine reports after a successful
// code or refresh redemption.
type SignInRequest struct {
	Grant    domain.GrantType
	UserID   string
	ClientID string

	// AuthorizedDevice is the device captured in the code (or carried by the
	// refresh token). PresentedDevice comes from the request headers.
	AuthorizedDevice domain.Device
	PresentedDevice  domain.Device

	IPAddress string
	UserAgent string
	TokenID   string
}

// TokenSignInRequest is a SignInRequest where the user and client are
// resolved from the issued token itself.
type TokenSignInRequest struct {
	Grant            domain.GrantType
	Reference        string
	AuthorizedDevice domain.Device
	PresentedDevice  domain.Device
	IPAddress        string
	UserAgent        string
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SessionService) sessionCache() cache.SessionCache {
	if s.Cache == nil {
		return cache.Noop{}
	}
	return s.Cache
}

func (s *SessionService) binder() *DeviceBinder {
	if s.Binder == nil {
		return &DeviceBinder{Metrics: s.Metrics}
	}
	return s.Binder
}

// SignIn runs both device checks and then upserts the session. A binding
// failure leaves the session table untouched.
func (s *SessionService) SignIn(ctx context.Context, req SignInRequest) (UpsertResult, error) {
	if !req.Grant.Valid() {
		return UpsertResult{}, ErrInvalidRequest
	}

	presented, err := s.binder().CheckTokenRequest(ctx, req.PresentedDevice)
	if err != nil {
		return UpsertResult{}, err
	}

	device := presented
	if req.Grant == domain.GrantAuthorizationCode || req.AuthorizedDevice.ID != "" {
		// Trimming only decides blankness; the id is compared as sent.
		exchanged := presented
		exchanged.ID = req.PresentedDevice.ID
		device, err = s.binder().CheckExchange(ctx, req.AuthorizedDevice, exchanged)
		if err != nil {
			return UpsertResult{}, err
		}
	}

	return s.Upsert(ctx, UpsertRequest{
		Grant:     req.Grant,
		UserID:    req.UserID,
		ClientID:  req.ClientID,
		Device:    device,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		TokenID:   req.TokenID,
	})
}

// SignInWithToken resolves the subject and client of a freshly issued token
// through the token manager and signs the session in under it.
func (s *SessionService) SignInWithToken(ctx context.Context, req TokenSignInRequest) (UpsertResult, error) {
	if s.Tokens == nil {
		return UpsertResult{}, errors.New("session service: no token manager configured")
	}

	tok, err := s.Tokens.FindByReference(ctx, req.Reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UpsertResult{}, ErrInvalidCredential
		}
		return UpsertResult{}, err
	}
	if tok.Revoked() || tok.Expired(s.now()) {
		return UpsertResult{}, ErrInvalidCredential
	}

	return s.SignIn(ctx, SignInRequest{
		Grant:            req.Grant,
		UserID:           tok.Subject,
		ClientID:         tok.ClientID,
		AuthorizedDevice: req.AuthorizedDevice,
		PresentedDevice:  req.PresentedDevice,
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
		TokenID:          tok.ID,
	})
}

// Upsert creates or refreshes the session for the (user, client, device)
// triple. An existing row is reused whatever its flags: known device
// metadata is only overwritten by non-blank values, the network fields
// always take the latest values, and the row is made live again.
func (s *SessionService) Upsert(ctx context.Context, req UpsertRequest) (res UpsertResult, err error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.UserID == "" || req.ClientID == "" || req.Device.ID == "" || !req.Grant.Valid() {
		return UpsertResult{}, ErrInvalidRequest
	}

	ctx, span := startSpan(ctx, "session.upsert",
		attribute.String(attrUserID, req.UserID),
		attribute.String(attrClientID, req.ClientID),
		attribute.String(attrDeviceID, req.Device.ID),
	)
	defer func() {
		if err == nil {
			span.SetAttributes(attribute.String(attrOutcome, string(res.Outcome)))
		}
		endSpan(span, err)
	}()

	l := slogx.FromContext(ctx)

	for attempt := 1; ; attempt++ {
		res, err = s.upsertOnce(ctx, req)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrConflict) && !errors.Is(err, store.ErrAlreadyExists) {
			if errors.Is(err, ErrSessionRevoked) {
				s.Metrics.ObserveUpsert("rejected")
				return UpsertResult{}, err
			}
			l.Error("session upsert failed", "user_id", req.UserID, "client_id", req.ClientID, "error", err)
			return UpsertResult{}, fmt.Errorf("session upsert: %w", err)
		}
		if attempt >= maxUpsertAttempts {
			l.Error("session upsert kept losing races", "attempts", attempt, "error", err)
			return UpsertResult{}, fmt.Errorf("session upsert: %w", err)
		}
		l.Debug("session upsert raced, retrying", "attempt", attempt, "error", err)
	}

	if err := s.sessionCache().Forget(ctx, res.Session.Key()); err != nil {
		l.Warn("failed to invalidate cached session", "session_id", res.Session.ID, "error", err)
	}

	s.Metrics.ObserveUpsert(string(res.Outcome))
	l.Info("session upserted",
		slog.String("session_id", res.Session.ID),
		slog.String("client_id", res.Session.ClientID),
		slog.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

func (s *SessionService) upsertOnce(ctx context.Context, req UpsertRequest) (UpsertResult, error) {
	var res UpsertResult
	now := s.now()
	key := domain.SessionKey{UserID: req.UserID, ClientID: req.ClientID, DeviceID: req.Device.ID}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Sessions().GetSessionByKey(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			sess := domain.Session{
				ID:                 idx.New().String(),
				UserID:             key.UserID,
				ClientID:           key.ClientID,
				DeviceID:           key.DeviceID,
				DeviceName:         strings.TrimSpace(req.Device.Name),
				Platform:           strings.TrimSpace(req.Device.Platform),
				IPAddress:          req.IPAddress,
				UserAgent:          req.UserAgent,
				TokenCorrelationID: req.TokenID,
				IsActive:           true,
				IsRevoked:          false,
				CreatedAt:          now,
				LastSeenAt:         now,
				Version:            1,
			}
			if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
				return err
			}
			res = UpsertResult{Session: sess, Outcome: UpsertCreated}
			return nil
		}
		if err != nil {
			return err
		}

		outcome := UpsertUpdated
		if !existing.Live() {
			if req.Grant == domain.GrantRefreshToken && s.RequireReauthAfterRevoke {
				return ErrSessionRevoked
			}
			outcome = UpsertResurrected
		}

		sess := existing
		if name := strings.TrimSpace(req.Device.Name); name != "" {
			sess.DeviceName = name
		}
		if platform := strings.TrimSpace(req.Device.Platform); platform != "" {
			sess.Platform = platform
		}
		sess.IPAddress = req.IPAddress
		sess.UserAgent = req.UserAgent
		sess.TokenCorrelationID = req.TokenID
		sess.IsActive = true
		sess.IsRevoked = false
		sess.RevokedAt = nil
		sess.LastSeenAt = now

		if err := tx.Sessions().UpdateSession(ctx, sess); err != nil {
			return err
		}
		sess.Version = existing.Version + 1
		res = UpsertResult{Session: sess, Outcome: outcome}
		return nil
	})
	return res, err
}

// List returns the user's live sessions, most recently seen first.
func (s *SessionService) List(ctx context.Context, userID string) ([]domain.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidRequest
	}
	return s.Store.Sessions().ListLiveSessionsByUser(ctx, userID)
}

// Current returns the live session for the triple.
func (s *SessionService) Current(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	if key.UserID == "" || key.ClientID == "" || key.DeviceID == "" {
		return domain.Session{}, ErrInvalidRequest
	}
	sess, err := s.Store.Sessions().GetLiveSession(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrNotFound
	}
	return sess, err
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	if !idx.Valid(id) {
		return domain.Session{}, ErrNotFound
	}
	sess, err := s.Store.Sessions().GetSessionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrNotFound
	}
	return sess, err
}
