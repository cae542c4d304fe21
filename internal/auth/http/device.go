package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
)

// DeviceHeaders names the request headers that carry the device metadata.
type DeviceHeaders struct {
	ID       string
	Name     string
	Platform string
}

// DefaultDeviceHeaders returns X-Device-Id, X-Device-Name and X-Platform.
func DefaultDeviceHeaders() DeviceHeaders {
	return DeviceHeaders{
		ID:       authsdk.HeaderDeviceID,
		Name:     authsdk.HeaderDeviceName,
		Platform: authsdk.HeaderPlatform,
	}
}

// Read returns the raw header values. Validation and trimming are left to
// the device binder.
func (h DeviceHeaders) Read(r *http.Request) domain.Device {
	return domain.Device{
		ID:       r.Header.Get(h.ID),
		Name:     r.Header.Get(h.Name),
		Platform: r.Header.Get(h.Platform),
	}
}

func (h DeviceHeaders) nameOf(header service.DeviceHeader) string {
	switch header {
	case service.HeaderDeviceName:
		return h.Name
	case service.HeaderPlatform:
		return h.Platform
	default:
		return h.ID
	}
}
