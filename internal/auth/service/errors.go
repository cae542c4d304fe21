package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDeviceHeaders = errors.New("missing_device_headers")
	ErrDeviceMismatch       = errors.New("device_mismatch")
	ErrNotAllowed           = errors.New("not_allowed")
	ErrSessionRevoked       = errors.New("session_revoked")
	ErrNotFound             = errors.New("not_found")
	ErrConflict             = errors.New("conflict")
	ErrTokenRevokeFailed    = errors.New("token_revoke_failed")
	ErrInvalidCredential    = errors.New("invalid_credential")
	ErrInvalidRequest       = errors.New("invalid_request")
)

// DeviceHeader names one of the three device headers a client must send.
type DeviceHeader string

const (
	HeaderDeviceID   DeviceHeader = "device_id"
	HeaderDeviceName DeviceHeader = "device_name"
	HeaderPlatform   DeviceHeader = "platform"
)

// MissingDeviceHeaderError reports which device header was absent or blank.
// It matches ErrMissingDeviceHeaders with errors.Is.
type MissingDeviceHeaderError struct {
	Header DeviceHeader
}

func (e *MissingDeviceHeaderError) Error() string {
	return fmt.Sprintf("missing device header: %s", e.Header)
}

func (e *MissingDeviceHeaderError) Unwrap() error { return ErrMissingDeviceHeaders }

// Code returns the machine-readable error code for the missing header.
func (e *MissingDeviceHeaderError) Code() string {
	switch e.Header {
	case HeaderDeviceName:
		return "missing_device_name"
	case HeaderPlatform:
		return "missing_platform"
	default:
		return "missing_device"
	}
}

// TokenRevokeError collects the per-token failures of a revocation cascade.
// It is only ever logged; the revocation itself still succeeds.
type TokenRevokeError struct {
	TokenID string
	Err     error
}

func (e *TokenRevokeError) Error() string {
	return fmt.Sprintf("revoke token %s: %v", e.TokenID, e.Err)
}

func (e *TokenRevokeError) Unwrap() []error { return []error{ErrTokenRevokeFailed, e.Err} }
