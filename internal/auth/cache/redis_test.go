package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniRedisCache(t *testing.T, ttl time.Duration) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisFromClient(client, "test:", ttl), mr
}

func liveSession() domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Session{
		ID:                 "01J0000000000000000000SESS",
		UserID:             "user-1",
		ClientID:           "client:mobile",
		DeviceID:           "device/1",
		DeviceName:         "Pixel",
		Platform:           "android",
		TokenCorrelationID: "tok-1",
		IsActive:           true,
		CreatedAt:          now,
		LastSeenAt:         now,
		Version:            3,
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMiniRedisCache(t, time.Minute)

	s := liveSession()
	_, err := c.Get(ctx, s.Key())
	require.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Set(ctx, s))

	got, err := c.Get(ctx, s.Key())
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestRedisCacheForget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMiniRedisCache(t, time.Minute)

	a := liveSession()
	b := liveSession()
	b.DeviceID = "device/2"

	require.NoError(t, c.Set(ctx, a))
	require.NoError(t, c.Set(ctx, b))
	require.NoError(t, c.Forget(ctx, a.Key(), b.Key()))

	_, err := c.Get(ctx, a.Key())
	require.ErrorIs(t, err, cache.ErrMiss)
	_, err = c.Get(ctx, b.Key())
	require.ErrorIs(t, err, cache.ErrMiss)

	// Forgetting nothing is a no-op.
	require.NoError(t, c.Forget(ctx))
}

func TestRedisCacheNeverStoresRevokedSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMiniRedisCache(t, time.Minute)

	s := liveSession()
	require.NoError(t, c.Set(ctx, s))

	s.IsActive = false
	s.IsRevoked = true
	require.NoError(t, c.Set(ctx, s))

	_, err := c.Get(ctx, s.Key())
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisCacheTombstones(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, mr := newMiniRedisCache(t, 10*time.Second)

	s := liveSession()
	require.NoError(t, c.Set(ctx, s))
	require.NoError(t, c.Revoke(ctx, s.Key()))

	t.Run("tombstone reads as a miss", func(t *testing.T) {
		_, err := c.Get(ctx, s.Key())
		require.ErrorIs(t, err, cache.ErrMiss)
	})

	t.Run("fill does not overwrite a tombstone", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, s))
		_, err := c.Get(ctx, s.Key())
		require.ErrorIs(t, err, cache.ErrMiss)
	})

	t.Run("forget clears the tombstone", func(t *testing.T) {
		require.NoError(t, c.Forget(ctx, s.Key()))
		require.NoError(t, c.Set(ctx, s))
		got, err := c.Get(ctx, s.Key())
		require.NoError(t, err)
		require.Equal(t, s, got)
	})

	t.Run("tombstone expires", func(t *testing.T) {
		require.NoError(t, c.Revoke(ctx, s.Key()))
		mr.FastForward(11 * time.Second)
		require.NoError(t, c.Set(ctx, s))
		_, err := c.Get(ctx, s.Key())
		require.NoError(t, err)
	})
}

func TestRedisCacheEntriesExpire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, mr := newMiniRedisCache(t, 10*time.Second)

	s := liveSession()
	require.NoError(t, c.Set(ctx, s))

	mr.FastForward(11 * time.Second)

	_, err := c.Get(ctx, s.Key())
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisCacheKeysDoNotCollide(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newMiniRedisCache(t, time.Minute)

	// "a:b" + "c" must not alias "a" + "b:c".
	one := liveSession()
	one.UserID, one.ClientID = "a:b", "c"
	two := liveSession()
	two.UserID, two.ClientID = "a", "b:c"

	require.NoError(t, c.Set(ctx, one))

	_, err := c.Get(ctx, two.Key())
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var c cache.SessionCache = cache.Noop{}
	s := liveSession()
	require.NoError(t, c.Set(ctx, s))
	_, err := c.Get(ctx, s.Key())
	require.ErrorIs(t, err, cache.ErrMiss)
	require.NoError(t, c.Revoke(ctx, s.Key()))
	require.NoError(t, c.Forget(ctx, s.Key()))
}
