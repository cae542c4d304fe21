package domain

import "time"

// Session is one logged-in device for one user on one client. The triple
// (UserID, ClientID, DeviceID) is the identity key; at most one row per
// triple is live at any time.
type Session struct {
	ID       string
	UserID   string
	ClientID string
	DeviceID string

	DeviceName string // optional
	Platform   string // optional
	IPAddress  string // optional, last observed
	UserAgent  string // optional, last observed

	// TokenCorrelationID references the currently valid token in the
	// external token manager. Older tokens for the same row are stale.
	TokenCorrelationID string

	IsActive  bool
	IsRevoked bool

	CreatedAt  time.Time
	LastSeenAt time.Time
	RevokedAt  *time.Time

	// Version is bumped on every write and used for optimistic concurrency.
	Version int64
}

// Live reports whether the session is active and not revoked.
func (s Session) Live() bool { return s.IsActive && !s.IsRevoked }

// Key returns the (user, client, device) triple of the session.
func (s Session) Key() SessionKey {
	return SessionKey{UserID: s.UserID, ClientID: s.ClientID, DeviceID: s.DeviceID}
}

// SessionKey is the (user, client, device) identity of a session.
type SessionKey struct {
	UserID   string
	ClientID string
	DeviceID string
}

// SessionSelector narrows which live sessions a revocation applies to. Blank
// fields are not filtered on. UserID is always required.
type SessionSelector struct {
	UserID         string
	ClientID       string
	DeviceID       string
	ExceptClientID string
}

// RevocationResult is returned by every revocation for audit and logging.
type RevocationResult struct {
	SessionsRevoked int `json:"sessions_revoked"`
	TokensRevoked   int `json:"tokens_revoked"`

	// TokensFailed counts token lookups that missed and revokes that failed.
	TokensFailed int `json:"tokens_failed"`
}

// GrantType is the token-endpoint grant that produced a fresh token.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
)

// Valid reports whether g is a grant that hands out a new token correlation id.
func (g GrantType) Valid() bool {
	return g == GrantAuthorizationCode || g == GrantRefreshToken
}
