package domain

import "strings"

// Device is the device metadata a client declares. Values are opaque strings
// and are compared byte-for-byte.
type Device struct {
	ID       string `json:"device_id"`
	Name     string `json:"device_name"`
	Platform string `json:"platform"`
}

// ClaimKey names a claim understood by the session layer.
type ClaimKey string

const (
	ClaimSubject         ClaimKey = "sub"
	ClaimAuthorizedParty ClaimKey = "azp"
	ClaimClientID        ClaimKey = "client_id"
	ClaimDeviceID        ClaimKey = "device_id"
	ClaimDeviceName      ClaimKey = "device_name"
	ClaimPlatform        ClaimKey = "platform"
)

// ClaimSet is a typed lookup over the string claims carried by a principal
// or an authorization code.
type ClaimSet map[ClaimKey]string

// Lookup returns the claim value and whether it is present and non-blank.
func (c ClaimSet) Lookup(key ClaimKey) (string, bool) {
	v, ok := c[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Get returns the claim value or "" when absent.
func (c ClaimSet) Get(key ClaimKey) string {
	v, _ := c.Lookup(key)
	return v
}

// ClientID prefers the authorized party and falls back to client_id.
func (c ClaimSet) ClientID() (string, bool) {
	if v, ok := c.Lookup(ClaimAuthorizedParty); ok {
		return v, true
	}
	return c.Lookup(ClaimClientID)
}

// DeviceFromClaims reads the device claims captured at authorization time.
func DeviceFromClaims(c ClaimSet) Device {
	return Device{
		ID:       c.Get(ClaimDeviceID),
		Name:     c.Get(ClaimDeviceName),
		Platform: c.Get(ClaimPlatform),
	}
}

// Claims returns the device as a claim set, for embedding in an
// authorization code.
func (d Device) Claims() ClaimSet {
	out := ClaimSet{}
	if d.ID != "" {
		out[ClaimDeviceID] = d.ID
	}
	if d.Name != "" {
		out[ClaimDeviceName] = d.Name
	}
	if d.Platform != "" {
		out[ClaimPlatform] = d.Platform
	}
	return out
}
