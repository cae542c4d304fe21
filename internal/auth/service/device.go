package service

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/metrics"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

// DeviceBinder enforces that tokens are only handed to clients that declare
// a device, and that the device redeeming an authorization code is the one
// the code was issued to.
type DeviceBinder struct {
	Metrics *metrics.Metrics
}

// CheckTokenRequest runs before a token or refresh request is accepted.
// All three device headers must be present and non-blank. The returned
// device is trimmed.
func (b *DeviceBinder) CheckTokenRequest(ctx context.Context, presented domain.Device) (domain.Device, error) {
	d := domain.Device{
		ID:       strings.TrimSpace(presented.ID),
		Name:     strings.TrimSpace(presented.Name),
		Platform: strings.TrimSpace(presented.Platform),
	}

	var missing DeviceHeader
	switch {
	case d.ID == "":
		missing = HeaderDeviceID
	case d.Name == "":
		missing = HeaderDeviceName
	case d.Platform == "":
		missing = HeaderPlatform
	default:
		return d, nil
	}

	b.Metrics.ObserveBindingFailure(string(missing))
	slogx.FromContext(ctx).Info("token request rejected: missing device header", "header", missing)
	return domain.Device{}, &MissingDeviceHeaderError{Header: missing}
}

// CheckExchange compares the device captured at authorization time with the
// one presented when the code is redeemed. IDs must match byte-for-byte; the
// error never says which side was wrong. Name and platform come from the
// authorization step when set, otherwise from the presented headers.
func (b *DeviceBinder) CheckExchange(ctx context.Context, authorized, presented domain.Device) (domain.Device, error) {
	if authorized.ID == "" || authorized.ID != presented.ID {
		b.Metrics.ObserveBindingFailure("mismatch")
		slogx.FromContext(ctx).Warn("device binding mismatch on code exchange")
		return domain.Device{}, ErrDeviceMismatch
	}

	return domain.Device{
		ID:       authorized.ID,
		Name:     preferNonBlank(authorized.Name, presented.Name),
		Platform: preferNonBlank(authorized.Platform, presented.Platform),
	}, nil
}

func preferNonBlank(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}
