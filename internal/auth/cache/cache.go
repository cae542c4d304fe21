// Package cache fronts the session guard lookup with a short-lived cache of
// live sessions. Revocation replaces entries with tombstones that a later
// fill cannot overwrite; a session upsert clears them.
package cache

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache: miss")

// SessionCache caches live sessions by their (user, client, device) key.
type SessionCache interface {
	// Get returns the cached live session, or ErrMiss. A tombstoned key is
	// a miss.
	Get(ctx context.Context, key domain.SessionKey) (domain.Session, error)

	// Set caches a live session unless its key is tombstoned.
	Set(ctx context.Context, s domain.Session) error

	// Revoke tombstones the keys so that no fill racing the revocation can
	// cache them as live.
	Revoke(ctx context.Context, keys ...domain.SessionKey) error

	// Forget drops entries and tombstones. Called after a session is
	// (re)created so the next lookup reads the store.
	Forget(ctx context.Context, keys ...domain.SessionKey) error
}

// Noop is a SessionCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, domain.SessionKey) (domain.Session, error) {
	return domain.Session{}, ErrMiss
}
func (Noop) Set(context.Context, domain.Session) error          { return nil }
func (Noop) Revoke(context.Context, ...domain.SessionKey) error { return nil }
func (Noop) Forget(context.Context, ...domain.SessionKey) error { return nil }
