package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	// OAuth2 error codes per RFC 6749 / RFC 6750
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidClient     = "invalid_client"
	ErrorCodeInvalidGrant      = "invalid_grant"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeAccessDenied      = "access_denied"
	ErrorCodeServerError       = "server_error"

	// Session layer error codes
	ErrorCodeMissingDevice     = "missing_device"
	ErrorCodeMissingDeviceName = "missing_device_name"
	ErrorCodeMissingPlatform   = "missing_platform"
	ErrorCodeDeviceMismatch    = "device_mismatch"
	ErrorCodeNotAllowed        = "not_allowed"
	ErrorCodeSessionRevoked    = "session_revoked"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
)

// ============================================================================
// OAuth2Error - Standard error type
// ============================================================================

// OAuth2Error is the {error, error_description} body every endpoint returns
// on failure. It implements the error interface and is used both by the
// server (to write HTTP responses) and by the SDK client (to represent errors).
type OAuth2Error struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the error code (e.g., "invalid_request", "session_revoked")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code so callers can write
// errors.Is(err, authsdk.ErrSessionRevoked) against a parsed response.
func (e *OAuth2Error) Is(target error) bool {
	var t *OAuth2Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WriteError writes this OAuth2Error to an HTTP response writer.
func (e *OAuth2Error) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// WithDescription returns a copy of e carrying a different description.
func (e *OAuth2Error) WithDescription(desc string) *OAuth2Error {
	return &OAuth2Error{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

// NewOAuth2Error creates a new OAuth2Error with the given status code, error code, and description.
func NewOAuth2Error(statusCode int, code, description string) *OAuth2Error {
	return &OAuth2Error{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter or is otherwise malformed.
	ErrInvalidRequest = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidClient is returned when a hook call carries the wrong secret.
	ErrInvalidClient = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidClient,
		Description: "invalid client",
	}

	// ErrInvalidGrant is returned when a refresh token passed to a hook is
	// unknown, expired or revoked.
	ErrInvalidGrant = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidGrant,
		Description: "the grant is invalid, expired or revoked",
	}

	// ErrInvalidToken is returned when the access token is missing, invalid,
	// expired or lacks the sub/azp claims.
	ErrInvalidToken = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid, expired or revoked",
	}

	// ErrInsufficientScope is returned when the access token lacks required scopes.
	ErrInsufficientScope = &OAuth2Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientScope,
		Description: "the access token does not have the required scopes",
	}

	// ErrServerError is returned on unexpected failures.
	ErrServerError = &OAuth2Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrDeviceMismatch is returned when the device presented at the token
	// exchange is not the device the code was issued to. It never says
	// which part differed.
	ErrDeviceMismatch = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeDeviceMismatch,
		Description: "device mismatch",
	}

	// ErrNotAllowed is returned when the user has no enabled allow-list
	// entry for the client.
	ErrNotAllowed = &OAuth2Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNotAllowed,
		Description: "the user is not allowed to use this client",
	}

	// ErrSessionRevoked is returned when the caller's session is revoked or
	// inactive.
	ErrSessionRevoked = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionRevoked,
		Description: "This session is revoked or inactive. Please login again.",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &OAuth2Error{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	// ErrConflict is returned when the request conflicts with current state.
	ErrConflict = &OAuth2Error{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "the request conflicts with the current state",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *OAuth2Error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &OAuth2Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &OAuth2Error{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
