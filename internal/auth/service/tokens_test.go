package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestTokenRegistry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := newTestClock()
	reg := &TokenRegistry{Store: newTestStore(t), Now: clock.Now}

	opaque := mustReference(t)
	tok, err := reg.Register(ctx, RegisterTokenRequest{
		ID:            "tok-1",
		Reference:     opaque,
		Subject:       "user-1",
		ApplicationID: "app-1",
		ClientID:      "mobile",
		ExpiresAt:     clock.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(opaque), tok.ReferenceHash)
	require.NotContains(t, tok.ReferenceHash, opaque)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		_, err := reg.Register(ctx, RegisterTokenRequest{
			ID: "tok-1", Reference: "other", Subject: "user-1", ClientID: "mobile",
			ExpiresAt: clock.Now().Add(time.Hour),
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := reg.Register(ctx, RegisterTokenRequest{ID: "tok-2", Reference: "r", Subject: "u", ClientID: "c"})
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, err = reg.Register(ctx, RegisterTokenRequest{ID: "tok-2", Subject: "u", ClientID: "c", ExpiresAt: clock.Now().Add(time.Hour)})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("lookups", func(t *testing.T) {
		byRef, err := reg.FindByReference(ctx, opaque)
		require.NoError(t, err)
		require.Equal(t, "user-1", byRef.Subject)
		require.Equal(t, "app-1", byRef.ApplicationID)

		_, err = reg.FindByReference(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = reg.FindByID(ctx, "tok-404")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("revoke once", func(t *testing.T) {
		ok, err := reg.TryRevoke(ctx, "tok-1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = reg.TryRevoke(ctx, "tok-1")
		require.NoError(t, err)
		require.False(t, ok)

		got, err := reg.FindByID(ctx, "tok-1")
		require.NoError(t, err)
		require.True(t, got.Revoked())

		_, err = reg.TryRevoke(ctx, "tok-404")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
