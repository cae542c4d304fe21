package domain

import "time"

// TokenStatus is the lifecycle state of a registered token.
type TokenStatus string

const (
	TokenStatusValid   TokenStatus = "valid"
	TokenStatusRevoked TokenStatus = "revoked"
)

// Token is the record of an issued refresh credential as seen by the token
// manager. Sessions refer to it by ID (the correlation id).
type Token struct {
	ID            string
	ReferenceHash string // deterministic fingerprint (base64url SHA-256) of the opaque token
	Subject       string
	ApplicationID string
	ClientID      string
	Status        TokenStatus
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Revoked reports whether the token has been revoked.
func (t Token) Revoked() bool { return t.Status == TokenStatusRevoked }

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}
