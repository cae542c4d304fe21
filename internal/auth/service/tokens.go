package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/pkg/cryptox"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

// TokenManager is the view of the external token store the session layer
// needs. Implementations may fail independently of the session store.
type TokenManager interface {
	// FindByID returns the token with the given correlation id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (domain.Token, error)

	// FindByReference resolves an opaque token value to its record, or ErrNotFound.
	FindByReference(ctx context.Context, reference string) (domain.Token, error)

	// TryRevoke revokes the token. It reports false when the token was
	// already revoked.
	TryRevoke(ctx context.Context, id string) (bool, error)
}

// TokenRegistry is the built-in TokenManager backed by the tokens table.
// The protocol engine registers every refresh token it issues so that
// sessions can be correlated to it.
type TokenRegistry struct {
	Store store.Store
	Now   func() time.Time
}

var _ TokenManager = (*TokenRegistry)(nil)

type RegisterTokenRequest struct {
	ID            string
	Reference     string // opaque token value, only its fingerprint is stored
	Subject       string
	ApplicationID string
	ClientID      string
	ExpiresAt     time.Time
}

func (r *TokenRegistry) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// Register records an issued token.
func (r *TokenRegistry) Register(ctx context.Context, req RegisterTokenRequest) (domain.Token, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Subject = strings.TrimSpace(req.Subject)
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.ID == "" || req.Reference == "" || req.Subject == "" || req.ClientID == "" {
		return domain.Token{}, ErrInvalidRequest
	}

	now := r.now()
	if req.ExpiresAt.IsZero() || !req.ExpiresAt.After(now) {
		return domain.Token{}, ErrInvalidRequest
	}

	t := domain.Token{
		ID:            req.ID,
		ReferenceHash: cryptox.FingerprintToken(req.Reference),
		Subject:       req.Subject,
		ApplicationID: strings.TrimSpace(req.ApplicationID),
		ClientID:      req.ClientID,
		Status:        domain.TokenStatusValid,
		ExpiresAt:     req.ExpiresAt.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.Store.Tokens().CreateToken(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Token{}, ErrConflict
		}
		slogx.FromContext(ctx).Error("failed to register token", "token_id", t.ID, "error", err)
		return domain.Token{}, err
	}
	return t, nil
}

func (r *TokenRegistry) FindByID(ctx context.Context, id string) (domain.Token, error) {
	t, err := r.Store.Tokens().GetTokenByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Token{}, ErrNotFound
	}
	return t, err
}

func (r *TokenRegistry) FindByReference(ctx context.Context, reference string) (domain.Token, error) {
	if reference == "" {
		return domain.Token{}, ErrNotFound
	}
	t, err := r.Store.Tokens().GetTokenByReferenceHash(ctx, cryptox.FingerprintToken(reference))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Token{}, ErrNotFound
	}
	return t, err
}

func (r *TokenRegistry) TryRevoke(ctx context.Context, id string) (bool, error) {
	ok, err := r.Store.Tokens().RevokeToken(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, ErrNotFound
	}
	return ok, err
}
