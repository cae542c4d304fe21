package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessiongate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func mustReference(t *testing.T) string {
	t.Helper()
	ref, err := cryptox.NewReference(cryptox.ReferenceSize)
	require.NoError(t, err)
	return ref
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTokens is an in-memory TokenManager with per-token failure injection.
type fakeTokens struct {
	mu        sync.Mutex
	tokens    map[string]domain.Token
	revokeErr map[string]error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{
		tokens:    map[string]domain.Token{},
		revokeErr: map[string]error{},
	}
}

func (f *fakeTokens) add(id, subject, clientID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[id] = domain.Token{
		ID:            id,
		ReferenceHash: "ref-" + id,
		Subject:       subject,
		ClientID:      clientID,
		Status:        domain.TokenStatusValid,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

func (f *fakeTokens) status(id string) domain.TokenStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[id].Status
}

func (f *fakeTokens) FindByID(_ context.Context, id string) (domain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return domain.Token{}, ErrNotFound
	}
	return t, nil
}

func (f *fakeTokens) FindByReference(_ context.Context, reference string) (domain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.ReferenceHash == "ref-"+reference {
			return t, nil
		}
	}
	return domain.Token{}, ErrNotFound
}

func (f *fakeTokens) TryRevoke(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.revokeErr[id]; err != nil {
		return false, err
	}
	t, ok := f.tokens[id]
	if !ok {
		return false, ErrNotFound
	}
	if t.Revoked() {
		return false, nil
	}
	t.Status = domain.TokenStatusRevoked
	f.tokens[id] = t
	return true, nil
}

// failingRevoker fails every revocation.
type failingRevoker struct{}

var errRevokeUnavailable = errors.New("revocation unavailable")

func (failingRevoker) RevokeByClient(context.Context, string, string) (domain.RevocationResult, error) {
	return domain.RevocationResult{}, errRevokeUnavailable
}

func (failingRevoker) RevokeAllForUser(context.Context, string) (domain.RevocationResult, error) {
	return domain.RevocationResult{}, errRevokeUnavailable
}

// interleavingCache runs beforeSet once, just before the first fill reaches
// the wrapped cache.
type interleavingCache struct {
	cache.SessionCache

	once      sync.Once
	beforeSet func()
}

func (c *interleavingCache) Set(ctx context.Context, s domain.Session) error {
	c.once.Do(c.beforeSet)
	return c.SessionCache.Set(ctx, s)
}

// unwritableCache fails every tombstone write.
type unwritableCache struct {
	cache.Noop
}

var errCacheUnavailable = errors.New("cache unavailable")

func (unwritableCache) Revoke(context.Context, ...domain.SessionKey) error {
	return errCacheUnavailable
}

type testEnv struct {
	store      *sqlite.Store
	clock      *testClock
	tokens     *fakeTokens
	sessions   *SessionService
	revocation *RevocationService
	allowList  *AllowListService
	guard      *Guard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := newTestStore(t)
	clock := newTestClock()
	tokens := newFakeTokens()

	revocation := &RevocationService{Store: st, Tokens: tokens, Now: clock.Now}
	return &testEnv{
		store:      st,
		clock:      clock,
		tokens:     tokens,
		sessions:   &SessionService{Store: st, Tokens: tokens, Now: clock.Now},
		revocation: revocation,
		allowList:  &AllowListService{Store: st, Revocation: revocation, Now: clock.Now},
		guard:      &Guard{Store: st, Now: clock.Now},
	}
}

// signIn upserts a live session for the triple bound to a fresh token.
func (e *testEnv) signIn(t *testing.T, userID, clientID, deviceID, tokenID string) domain.Session {
	t.Helper()

	e.tokens.add(tokenID, userID, clientID)
	res, err := e.sessions.Upsert(context.Background(), UpsertRequest{
		Grant:     domain.GrantAuthorizationCode,
		UserID:    userID,
		ClientID:  clientID,
		Device:    domain.Device{ID: deviceID, Name: "Pixel 9", Platform: "android"},
		IPAddress: "10.0.0.1",
		UserAgent: "okhttp/4.12",
		TokenID:   tokenID,
	})
	require.NoError(t, err)
	return res.Session
}

func liveCount(t *testing.T, e *testEnv, userID string) int {
	t.Helper()
	sessions, err := e.store.Sessions().ListLiveSessionsByUser(context.Background(), userID)
	require.NoError(t, err)
	return len(sessions)
}
