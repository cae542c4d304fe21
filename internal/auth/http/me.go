package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// MeHandler serves the self-service session endpoints. Every route sits
// behind SessionGuard, so the caller's live session is in the context.
type MeHandler struct {
	Sessions   *service.SessionService
	Revocation *service.RevocationService
	Headers    DeviceHeaders
}

func (h *MeHandler) session(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
	}
	return sess, ok
}

// HandleList handles GET /v1/me/sessions
//
//	@Summary	List my live sessions
//	@Tags		Sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Device-Id		header		string	true	"Device id"
//	@Param		X-Device-Name	header		string	true	"Device name"
//	@Param		X-Platform		header		string	true	"Platform"
//	@Success	200				{object}	authsdk.ListSessionsResponse
//	@Failure	401				{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router		/v1/me/sessions [get].
func (h *MeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sessions, err := h.Sessions.List(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to list sessions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessions(sessions))
}

// HandleCurrent handles GET /v1/me/sessions/current
//
//	@Summary	Get the calling session
//	@Tags		Sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	authsdk.Session
//	@Failure	401	{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router		/v1/me/sessions/current [get].
func (h *MeHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(sess))
}

// HandleLogout handles POST /v1/me/logout
//
//	@Summary		Log out this device
//	@Description	Revokes the calling session and the refresh token bound to it.
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.RevocationResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router			/v1/me/logout [post].
func (h *MeHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Revocation.RevokeByDevice(r.Context(), sess.UserID, sess.ClientID, sess.DeviceID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to log out")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRevocation(res))
}

// HandleRevokeOthers handles POST /v1/me/sessions/revoke-others
//
//	@Summary		Sign out of every other application
//	@Description	Revokes every live session of the caller except those of the calling client.
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.RevocationResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router			/v1/me/sessions/revoke-others [post].
func (h *MeHandler) HandleRevokeOthers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Revocation.RevokeAllExcept(r.Context(), sess.UserID, sess.ClientID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to revoke other sessions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRevocation(res))
}

// HandleRevokeAll handles POST /v1/me/sessions/revoke-all
//
//	@Summary	Sign out everywhere
//	@Tags		Sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	authsdk.RevocationResponse
//	@Failure	401	{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router		/v1/me/sessions/revoke-all [post].
func (h *MeHandler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Revocation.RevokeAllForUser(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to revoke sessions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRevocation(res))
}

// HandleRevokeDevice handles DELETE /v1/me/sessions/{client_id}/{device_id}
//
//	@Summary	Revoke one of my devices
//	@Tags		Sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		client_id	path		string	true	"Client id"
//	@Param		device_id	path		string	true	"Device id"
//	@Success	200			{object}	authsdk.RevocationResponse
//	@Failure	401			{object}	authsdk.ErrorResponse	"session_revoked, invalid_token"
//	@Router		/v1/me/sessions/{client_id}/{device_id} [delete].
func (h *MeHandler) HandleRevokeDevice(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Revocation.RevokeByDevice(r.Context(), sess.UserID, r.PathValue("client_id"), r.PathValue("device_id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to revoke device")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRevocation(res))
}
