package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned when an optimistic write lost a race against
	// a concurrent writer (the row version moved on).
	ErrConflict = errors.New("store: write conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so transactions cannot be nested by accident.
type Store interface {
	Sessions() Sessions
	AllowList() AllowList
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Sessions interface {
	// GetSessionByID returns a session by id regardless of its flags.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// GetSessionByKey returns the row for the (user, client, device) triple
	// regardless of its active/revoked flags.
	GetSessionByKey(ctx context.Context, key domain.SessionKey) (domain.Session, error)

	// GetLiveSession returns the active, non-revoked row for the triple.
	GetLiveSession(ctx context.Context, key domain.SessionKey) (domain.Session, error)

	// ListLiveSessionsByUser returns active sessions ordered by last_seen_at (newest first).
	ListLiveSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error)

	// SelectLiveSessions returns the active, non-revoked sessions matching sel.
	SelectLiveSessions(ctx context.Context, sel domain.SessionSelector) ([]domain.Session, error)

	// CreateSession inserts a new session. Returns ErrAlreadyExists when a row
	// for the same triple already exists.
	CreateSession(ctx context.Context, s domain.Session) error

	// UpdateSession writes every mutable column when the stored version
	// still equals s.Version, and bumps the version. Returns ErrConflict
	// otherwise.
	UpdateSession(ctx context.Context, s domain.Session) error

	// RevokeSessions flips is_active=0, is_revoked=1, revoked_at=at for every
	// id in one statement and returns the number of rows changed.
	RevokeSessions(ctx context.Context, ids []string, at time.Time) (int64, error)

	// TouchSession bumps last_seen_at without changing the version.
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteRevokedSessionsBefore purges revoked rows older than before (housekeeping).
	DeleteRevokedSessionsBefore(ctx context.Context, before time.Time) (int64, error)
}

type AllowList interface {
	// CreateEntry inserts a new allow-list entry (id is provided by app via ULID).
	CreateEntry(ctx context.Context, e domain.AllowListEntry) error

	// GetEntryByID returns an entry by id.
	GetEntryByID(ctx context.Context, id string) (domain.AllowListEntry, error)

	// ListEntriesByUser returns every entry for a user (newest first).
	ListEntriesByUser(ctx context.Context, userID string) ([]domain.AllowListEntry, error)

	// ListEntriesByClient returns every entry for a client (newest first).
	ListEntriesByClient(ctx context.Context, clientID string) ([]domain.AllowListEntry, error)

	// ListEntriesByPair returns every entry for a (user, client) pair (newest first).
	ListEntriesByPair(ctx context.Context, userID, clientID string) ([]domain.AllowListEntry, error)

	SetEntryEnabled(ctx context.Context, id string, enabled bool) error
	UpdateEntryAudiences(ctx context.Context, id string, audiences []string) error
	UpdateEntryClient(ctx context.Context, id string, clientID string) error

	DeleteEntry(ctx context.Context, id string) error

	// DeleteEntriesByUser removes every entry for a user and returns how many were removed.
	DeleteEntriesByUser(ctx context.Context, userID string) (int64, error)
}

type Tokens interface {
	// CreateToken registers an issued token.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetTokenByID returns a token by its correlation id.
	GetTokenByID(ctx context.Context, id string) (domain.Token, error)

	// GetTokenByReferenceHash returns a token by the fingerprint of its opaque value.
	GetTokenByReferenceHash(ctx context.Context, hash string) (domain.Token, error)

	// RevokeToken flips the status to revoked. Reports false when the token
	// was already revoked.
	RevokeToken(ctx context.Context, id string) (bool, error)

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
