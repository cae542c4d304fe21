package jwtx

import (
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the session layer reads. Tokens are
// minted by the authorization server; we only ever verify them.
type Claims struct {
	jwt.RegisteredClaims

	// AuthorizedParty is the client the token was issued to ("azp").
	AuthorizedParty string `json:"azp,omitempty"`

	// ClientID is set by servers that do not emit azp.
	ClientID string `json:"client_id,omitempty"`

	// Scope is the RFC 8693 space-delimited form; Scopes the array form.
	Scope  string   `json:"scope,omitempty"`
	Scopes []string `json:"scopes,omitempty"`

	// Device claims captured at authorization time.
	DeviceID   string `json:"device_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
	Platform   string `json:"platform,omitempty"`
}

// Client returns azp, falling back to client_id.
func (c *Claims) Client() string {
	if strings.TrimSpace(c.AuthorizedParty) != "" {
		return c.AuthorizedParty
	}
	return c.ClientID
}

// AllScopes merges both scope encodings, without duplicates.
func (c *Claims) AllScopes() []string {
	out := make([]string, 0, len(c.Scopes))
	for _, s := range append(strings.Fields(c.Scope), c.Scopes...) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Values returns the string claims keyed by their JSON names. Blank claims
// are omitted.
func (c *Claims) Values() map[string]string {
	out := make(map[string]string, 6)
	set := func(k, v string) {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	set("sub", c.Subject)
	set("azp", c.AuthorizedParty)
	set("client_id", c.ClientID)
	set("device_id", c.DeviceID)
	set("device_name", c.DeviceName)
	set("platform", c.Platform)
	return out
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiryWithLeeway checks exp and nbf, tolerating leeway of clock
// skew in both directions.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
