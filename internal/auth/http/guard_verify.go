package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// Headers set on a successful guard verification, for reverse proxies that
// forward the identity upstream.
const (
	HeaderSessionID = "X-Session-Id"
	HeaderUserID    = "X-User-Id"
	HeaderClientID  = "X-Client-Id"
)

// GuardVerifyHandler godoc
//
//	@Summary		Verify a bearer token and its session
//	@Description	Forward-auth endpoint. Answers 200 with the session identity when the token is valid and its session is live, 401 otherwise.
//	@Tags			Guard
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Device-Id		header		string	true	"Device id"
//	@Param			X-Device-Name	header		string	true	"Device name"
//	@Param			X-Platform		header		string	true	"Platform"
//	@Success		200				{object}	authsdk.GuardVerifyResponse
//	@Failure		401				{object}	authsdk.ErrorResponse	"invalid_token, session_revoked, missing_device"
//	@Router			/v1/guard/verify [get].
func GuardVerifyHandler(headers DeviceHeaders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}

		h := w.Header()
		h.Set(HeaderSessionID, sess.ID)
		h.Set(HeaderUserID, sess.UserID)
		h.Set(HeaderClientID, sess.ClientID)
		h.Set(headers.ID, sess.DeviceID)

		httpx.WriteJSON(w, http.StatusOK, authsdk.GuardVerifyResponse{
			SessionID: sess.ID,
			UserID:    sess.UserID,
			ClientID:  sess.ClientID,
			DeviceID:  sess.DeviceID,
		})
	}
}
