package authsdk

import "time"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Error is the error code (e.g., "invalid_request", "session_revoked")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Shared Types
// ============================================================================

// Device is the device metadata declared by a client.
type Device struct {
	ID       string `json:"device_id"`
	Name     string `json:"device_name,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Session is a device-bound session as exposed over the API.
type Session struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ClientID   string     `json:"client_id"`
	DeviceID   string     `json:"device_id"`
	DeviceName string     `json:"device_name,omitempty"`
	Platform   string     `json:"platform,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	Active     bool       `json:"active"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// ListSessionsResponse lists sessions, most recently seen first.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// RevocationResponse reports what a revocation did.
type RevocationResponse struct {
	SessionsRevoked int `json:"sessions_revoked"`
	TokensRevoked   int `json:"tokens_revoked"`
	TokensFailed    int `json:"tokens_failed"`
}

// ============================================================================
// Hook Types (called by the authorization server)
// ============================================================================

// AuthorizeHookRequest asks whether the user may authorize the client.
type AuthorizeHookRequest struct {
	UserID   string `json:"user_id"`
	ClientID string `json:"client_id"`
}

// AuthorizeHookResponse carries the audiences the issued tokens must use.
type AuthorizeHookResponse struct {
	EntryID   string   `json:"entry_id"`
	Audiences []string `json:"audiences"`
}

// SignInHookRequest reports a successful code or refresh redemption.
type SignInHookRequest struct {
	GrantType        string `json:"grant_type"`
	UserID           string `json:"user_id"`
	ClientID         string `json:"client_id"`
	AuthorizedDevice Device `json:"authorized_device"`
	PresentedDevice  Device `json:"presented_device"`
	IPAddress        string `json:"ip_address,omitempty"`
	UserAgent        string `json:"user_agent,omitempty"`
	TokenID          string `json:"token_id,omitempty"`
}

// TokenResponseHookRequest reports a freshly issued refresh token. The
// session layer resolves the user and client from the token itself.
type TokenResponseHookRequest struct {
	GrantType        string `json:"grant_type"`
	RefreshToken     string `json:"refresh_token"`
	AuthorizedDevice Device `json:"authorized_device"`
	PresentedDevice  Device `json:"presented_device"`
	IPAddress        string `json:"ip_address,omitempty"`
	UserAgent        string `json:"user_agent,omitempty"`
}

// SignInResponse is the session after a sign-in hook.
type SignInResponse struct {
	Session Session `json:"session"`

	// Outcome is one of "created", "updated" or "resurrected".
	Outcome string `json:"outcome"`
}

// RegisterTokenRequest records an issued refresh token so sessions can be
// correlated to it.
type RegisterTokenRequest struct {
	ID            string    `json:"id"`
	RefreshToken  string    `json:"refresh_token"`
	Subject       string    `json:"subject"`
	ApplicationID string    `json:"application_id,omitempty"`
	ClientID      string    `json:"client_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// TokenRecord is a registered token. The opaque value is never returned.
type TokenRecord struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	ApplicationID string    `json:"application_id,omitempty"`
	ClientID      string    `json:"client_id"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// RevokeTokenResponse reports whether the call changed the token's status.
type RevokeTokenResponse struct {
	Revoked bool `json:"revoked"`
}

// ============================================================================
// Admin Types
// ============================================================================

// RevokeSessionsRequest selects which of a user's sessions to revoke:
//   - device_id (with client_id): one device
//   - client_id: every device on the client
//   - except_client_id: every client but one
//   - nothing: every session of the user
type RevokeSessionsRequest struct {
	ClientID       string `json:"client_id,omitempty"`
	DeviceID       string `json:"device_id,omitempty"`
	ExceptClientID string `json:"except_client_id,omitempty"`
}

// AllowListEntry grants a user access to a client.
type AllowListEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClientID  string    `json:"client_id"`
	Enabled   bool      `json:"enabled"`
	Audiences []string  `json:"audiences"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListAllowListResponse lists entries, newest first.
type ListAllowListResponse struct {
	Entries []AllowListEntry `json:"entries"`
}

// AddAllowListEntryRequest creates an enabled entry.
type AddAllowListEntryRequest struct {
	UserID    string   `json:"user_id"`
	ClientID  string   `json:"client_id"`
	Audiences []string `json:"audiences"`
}

// UpdateAudiencesRequest replaces an entry's audiences.
type UpdateAudiencesRequest struct {
	Audiences []string `json:"audiences"`
}

// RebindAllowListEntryRequest moves an entry from one client to another.
type RebindAllowListEntryRequest struct {
	FromClientID string `json:"from_client_id"`
	ToClientID   string `json:"to_client_id"`
}

// AllowListChangeResponse is returned by changes that revoke sessions.
type AllowListChangeResponse struct {
	Entry      *AllowListEntry    `json:"entry,omitempty"`
	Revocation RevocationResponse `json:"revocation"`
}

// RemoveAllForUserResponse reports a bulk allow-list removal.
type RemoveAllForUserResponse struct {
	EntriesRemoved int64              `json:"entries_removed"`
	Revocation     RevocationResponse `json:"revocation"`
}

// ============================================================================
// Guard & Health Types
// ============================================================================

// GuardVerifyResponse identifies the live session behind a request.
type GuardVerifyResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	ClientID  string `json:"client_id"`
	DeviceID  string `json:"device_id"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Schema   string `json:"schema"`
	Cache    string `json:"cache"`
	Keys     string `json:"keys"`
}
