package domain

import "time"

// AllowListEntry states that a user may obtain tokens for a client, and
// which audiences tokens under that pairing carry.
type AllowListEntry struct {
	ID               string
	UserID           string
	ClientID         string
	Enabled          bool
	AllowedAudiences []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Audiences returns exactly the configured audiences, in order. It never
// returns nil so callers can embed the result directly.
func (e AllowListEntry) Audiences() []string {
	out := make([]string, len(e.AllowedAudiences))
	copy(out, e.AllowedAudiences)
	return out
}
