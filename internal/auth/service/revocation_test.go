package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestRevocationCascadeCompleteness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	a := env.signIn(t, "user-1", "mobile", "dev-A", "tok-A")
	b := env.signIn(t, "user-1", "mobile", "dev-B", "tok-B")
	c := env.signIn(t, "user-1", "mobile", "dev-C", "tok-C")
	env.signIn(t, "user-1", "web", "dev-A", "tok-W")

	// dev-B's token revoke fails, dev-C's token is unknown to the manager.
	env.tokens.revokeErr["tok-B"] = errors.New("token store offline")
	delete(env.tokens.tokens, "tok-C")

	res, err := env.revocation.RevokeByClient(ctx, "user-1", "mobile")
	require.NoError(t, err)
	require.Equal(t, domain.RevocationResult{SessionsRevoked: 3, TokensRevoked: 1, TokensFailed: 2}, res)

	for _, id := range []string{a.ID, b.ID, c.ID} {
		got, err := env.sessions.Get(ctx, id)
		require.NoError(t, err)
		require.False(t, got.IsActive)
		require.True(t, got.IsRevoked)
		require.NotNil(t, got.RevokedAt)
		require.Equal(t, env.clock.Now(), *got.RevokedAt)
	}

	require.Equal(t, domain.TokenStatusRevoked, env.tokens.status("tok-A"))
	require.Equal(t, domain.TokenStatusValid, env.tokens.status("tok-W"))
	require.Equal(t, 1, liveCount(t, env, "user-1"))
}

func TestRevocationIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ops := map[string]func(*RevocationService) (domain.RevocationResult, error){
		"by client": func(s *RevocationService) (domain.RevocationResult, error) {
			return s.RevokeByClient(ctx, "user-1", "mobile")
		},
		"by device": func(s *RevocationService) (domain.RevocationResult, error) {
			return s.RevokeByDevice(ctx, "user-1", "mobile", "dev-A")
		},
		"all except": func(s *RevocationService) (domain.RevocationResult, error) {
			return s.RevokeAllExcept(ctx, "user-1", "web")
		},
		"all for user": func(s *RevocationService) (domain.RevocationResult, error) {
			return s.RevokeAllForUser(ctx, "user-1")
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn(t, "user-1", "mobile", "dev-A", "tok-1")

			first, err := op(env.revocation)
			require.NoError(t, err)
			require.Equal(t, 1, first.SessionsRevoked)
			require.Equal(t, 1, first.TokensRevoked)

			second, err := op(env.revocation)
			require.NoError(t, err)
			require.Equal(t, domain.RevocationResult{}, second)
		})
	}
}

func TestRevokeAllExceptScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	c1a := env.signIn(t, "user-1", "client-1", "dev-A", "tok-1")
	c1b := env.signIn(t, "user-1", "client-1", "dev-B", "tok-2")
	c2 := env.signIn(t, "user-1", "client-2", "dev-A", "tok-3")
	other := env.signIn(t, "user-2", "client-1", "dev-A", "tok-4")

	res, err := env.revocation.RevokeAllExcept(ctx, "user-1", "client-2")
	require.NoError(t, err)
	require.Equal(t, 2, res.SessionsRevoked)

	for _, id := range []string{c1a.ID, c1b.ID} {
		got, err := env.sessions.Get(ctx, id)
		require.NoError(t, err)
		require.False(t, got.Live())
	}
	for _, id := range []string{c2.ID, other.ID} {
		got, err := env.sessions.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, got.Live())
	}
}

func TestRevokeByDeviceDeniesGuard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	env.signIn(t, "user-1", "mobile", "dev-A", "tok-1")
	env.signIn(t, "user-1", "mobile", "dev-B", "tok-2")
	p := Principal{UserID: "user-1", ClientID: "mobile"}

	_, err := env.guard.Check(ctx, p, "dev-A")
	require.NoError(t, err)

	res, err := env.revocation.RevokeByDevice(ctx, "user-1", "mobile", "dev-A")
	require.NoError(t, err)
	require.Equal(t, 1, res.SessionsRevoked)

	_, err = env.guard.Check(ctx, p, "dev-A")
	require.ErrorIs(t, err, ErrSessionRevoked)

	_, err = env.guard.Check(ctx, p, "dev-B")
	require.NoError(t, err)
}

func TestRevocationRejectsBlankSelectors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.revocation.RevokeByClient(ctx, "user-1", "")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = env.revocation.RevokeByDevice(ctx, "user-1", "mobile", " ")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = env.revocation.RevokeAllExcept(ctx, "user-1", "")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = env.revocation.RevokeAllForUser(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

var sessionMockColumns = []string{
	"id", "user_id", "client_id", "device_id", "device_name", "platform",
	"ip_address", "user_agent", "token_correlation_id", "is_active", "is_revoked",
	"created_at", "last_seen_at", "revoked_at", "version",
}

func newMockRevocation(t *testing.T, tokens TokenManager) (*RevocationService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &RevocationService{Store: sqlite.NewStoreFromDB(db), Tokens: tokens}, mock
}

func TestRevocationEmptySelectionDoesNotWrite(t *testing.T) {
	t.Parallel()

	svc, mock := newMockRevocation(t, newFakeTokens())
	mock.ExpectQuery(`SELECT (.+) FROM sessions`).
		WithArgs("user-1", "mobile").
		WillReturnRows(sqlmock.NewRows(sessionMockColumns))

	res, err := svc.RevokeByClient(context.Background(), "user-1", "mobile")
	require.NoError(t, err)
	require.Equal(t, domain.RevocationResult{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationFailedBatchWriteIsFatal(t *testing.T) {
	t.Parallel()

	tokens := newFakeTokens()
	tokens.add("tok-1", "user-1", "mobile")

	svc, mock := newMockRevocation(t, tokens)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM sessions`).
		WithArgs("user-1", "mobile").
		WillReturnRows(sqlmock.NewRows(sessionMockColumns).AddRow(
			"sess-1", "user-1", "mobile", "dev-A", "Pixel", "android",
			nil, nil, "tok-1", true, false,
			now, now, nil, int64(1),
		))
	mock.ExpectExec(`UPDATE sessions SET`).
		WillReturnError(errors.New("database is locked"))

	res, err := svc.RevokeByClient(context.Background(), "user-1", "mobile")
	require.Error(t, err)
	require.ErrorContains(t, err, "database is locked")
	require.Equal(t, domain.RevocationResult{}, res)
	require.NoError(t, mock.ExpectationsWereMet())

	// The token side already ran and is not rolled back.
	require.Equal(t, domain.TokenStatusRevoked, tokens.status("tok-1"))
}

func TestRevocationFailsClosedWhenCacheIsUnwritable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.revocation.Cache = unwritableCache{}

	env.signIn(t, "user-1", "mobile", "dev-A", "tok-1")

	res, err := env.revocation.RevokeByDevice(ctx, "user-1", "mobile", "dev-A")
	require.ErrorIs(t, err, errCacheUnavailable)
	require.Equal(t, domain.RevocationResult{}, res)

	// Nothing was changed, so the caller can retry.
	require.Equal(t, 1, liveCount(t, env, "user-1"))
	require.Equal(t, domain.TokenStatusValid, env.tokens.status("tok-1"))
}
