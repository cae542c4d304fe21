package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestCheckTokenRequest(t *testing.T) {
	t.Parallel()
	b := &DeviceBinder{}
	ctx := context.Background()

	tests := []struct {
		name     string
		device   domain.Device
		wantCode string
	}{
		{"all present", domain.Device{ID: "d", Name: "n", Platform: "p"}, ""},
		{"blank id", domain.Device{ID: " ", Name: "n", Platform: "p"}, "missing_device"},
		{"blank name", domain.Device{ID: "d", Name: "", Platform: "p"}, "missing_device_name"},
		{"blank platform", domain.Device{ID: "d", Name: "n", Platform: "\t"}, "missing_platform"},
		{"all blank reports id first", domain.Device{}, "missing_device"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.CheckTokenRequest(ctx, tt.device)
			if tt.wantCode == "" {
				require.NoError(t, err)
				require.Equal(t, tt.device, got)
				return
			}
			require.ErrorIs(t, err, ErrMissingDeviceHeaders)
			var mh *MissingDeviceHeaderError
			require.ErrorAs(t, err, &mh)
			require.Equal(t, tt.wantCode, mh.Code())
		})
	}
}

func TestCheckExchange(t *testing.T) {
	t.Parallel()
	b := &DeviceBinder{}
	ctx := context.Background()

	t.Run("ids must match exactly", func(t *testing.T) {
		for _, id := range []string{"dev-b", "DEV-A", "dev-a ", ""} {
			_, err := b.CheckExchange(ctx, domain.Device{ID: "dev-a"}, domain.Device{ID: id})
			require.ErrorIs(t, err, ErrDeviceMismatch, "presented %q", id)
		}
	})

	t.Run("blank authorized id never matches", func(t *testing.T) {
		_, err := b.CheckExchange(ctx, domain.Device{}, domain.Device{})
		require.ErrorIs(t, err, ErrDeviceMismatch)
	})

	t.Run("error does not reveal the device", func(t *testing.T) {
		_, err := b.CheckExchange(ctx, domain.Device{ID: "secret-a"}, domain.Device{ID: "secret-b"})
		require.NotContains(t, err.Error(), "secret")
	})

	t.Run("authorization-time metadata wins", func(t *testing.T) {
		got, err := b.CheckExchange(ctx,
			domain.Device{ID: "dev-a", Name: "Work phone", Platform: ""},
			domain.Device{ID: "dev-a", Name: "Pixel", Platform: "android"},
		)
		require.NoError(t, err)
		require.Equal(t, domain.Device{ID: "dev-a", Name: "Work phone", Platform: "android"}, got)
	})
}

func TestDeviceFromClaims(t *testing.T) {
	t.Parallel()

	d := domain.Device{ID: "dev-a", Name: "Pixel", Platform: "android"}
	require.Equal(t, d, domain.DeviceFromClaims(d.Claims()))

	partial := domain.DeviceFromClaims(domain.ClaimSet{domain.ClaimDeviceID: "dev-a", domain.ClaimPlatform: "  "})
	require.Equal(t, domain.Device{ID: "dev-a"}, partial)
}
