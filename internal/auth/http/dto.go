package http

import (
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
)

func toSession(s domain.Session) authsdk.Session {
	return authsdk.Session{
		ID:         s.ID,
		UserID:     s.UserID,
		ClientID:   s.ClientID,
		DeviceID:   s.DeviceID,
		DeviceName: s.DeviceName,
		Platform:   s.Platform,
		IPAddress:  s.IPAddress,
		UserAgent:  s.UserAgent,
		Active:     s.IsActive,
		Revoked:    s.IsRevoked,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
		RevokedAt:  s.RevokedAt,
	}
}

func toSessions(in []domain.Session) authsdk.ListSessionsResponse {
	out := make([]authsdk.Session, 0, len(in))
	for _, s := range in {
		out = append(out, toSession(s))
	}
	return authsdk.ListSessionsResponse{Sessions: out}
}

func toRevocation(r domain.RevocationResult) authsdk.RevocationResponse {
	return authsdk.RevocationResponse{
		SessionsRevoked: r.SessionsRevoked,
		TokensRevoked:   r.TokensRevoked,
		TokensFailed:    r.TokensFailed,
	}
}

func toEntry(e domain.AllowListEntry) authsdk.AllowListEntry {
	return authsdk.AllowListEntry{
		ID:        e.ID,
		UserID:    e.UserID,
		ClientID:  e.ClientID,
		Enabled:   e.Enabled,
		Audiences: e.Audiences(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEntries(in []domain.AllowListEntry) authsdk.ListAllowListResponse {
	out := make([]authsdk.AllowListEntry, 0, len(in))
	for _, e := range in {
		out = append(out, toEntry(e))
	}
	return authsdk.ListAllowListResponse{Entries: out}
}

func toToken(t domain.Token) authsdk.TokenRecord {
	return authsdk.TokenRecord{
		ID:            t.ID,
		Subject:       t.Subject,
		ApplicationID: t.ApplicationID,
		ClientID:      t.ClientID,
		Status:        string(t.Status),
		ExpiresAt:     t.ExpiresAt,
		CreatedAt:     t.CreatedAt,
	}
}

func fromDevice(d authsdk.Device) domain.Device {
	return domain.Device{ID: d.ID, Name: d.Name, Platform: d.Platform}
}

// claimSet exposes verified token claims to the service layer.
func claimSet(c jwtx.Claims) domain.ClaimSet {
	out := make(domain.ClaimSet)
	for k, v := range c.Values() {
		out[domain.ClaimKey(k)] = v
	}
	return out
}
