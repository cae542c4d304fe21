package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

// errorFor maps a service error to its wire form. It returns nil for errors
// that are not part of the service taxonomy.
func errorFor(err error, headers DeviceHeaders) *authsdk.OAuth2Error {
	var missing *service.MissingDeviceHeaderError
	switch {
	case errors.As(err, &missing):
		return authsdk.NewOAuth2Error(http.StatusBadRequest, missing.Code(),
			headers.nameOf(missing.Header)+" header is required.")
	case errors.Is(err, service.ErrDeviceMismatch):
		return authsdk.ErrDeviceMismatch
	case errors.Is(err, service.ErrNotAllowed):
		return authsdk.ErrNotAllowed
	case errors.Is(err, service.ErrSessionRevoked):
		return authsdk.ErrSessionRevoked
	case errors.Is(err, service.ErrInvalidCredential):
		return authsdk.ErrInvalidToken
	case errors.Is(err, service.ErrNotFound):
		return authsdk.ErrNotFound
	case errors.Is(err, service.ErrConflict):
		return authsdk.ErrConflict
	case errors.Is(err, service.ErrInvalidRequest):
		return authsdk.ErrInvalidRequest
	}
	return nil
}

// writeServiceError writes the mapped error, or logs err and answers 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, headers DeviceHeaders, err error, msg string) {
	if oe := errorFor(err, headers); oe != nil {
		oe.WriteError(w)
		return
	}
	slogx.FromContext(r.Context()).Error(msg, "error", err)
	authsdk.ErrServerError.WriteError(w)
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	authsdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
}
