package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// AdminSessionsHandler serves session inspection and revocation for
// operators. Reads accept sessions:read; revocation needs sessions:admin.
type AdminSessionsHandler struct {
	Sessions   *service.SessionService
	Revocation *service.RevocationService
	Headers    DeviceHeaders
}

// HandleList handles GET /v1/admin/users/{user_id}/sessions
//
//	@Summary	List a user's live sessions
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user_id	path		string	true	"User id"
//	@Success	200		{object}	authsdk.ListSessionsResponse
//	@Failure	403		{object}	authsdk.ErrorResponse	"insufficient_scope"
//	@Router		/v1/admin/users/{user_id}/sessions [get].
func (h *AdminSessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Sessions.List(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to list sessions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSessions(sessions))
}

// HandleCurrent handles GET /v1/admin/users/{user_id}/sessions/current
//
//	@Summary	Get the newest session of a triple
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user_id		path		string	true	"User id"
//	@Param		client_id	query		string	true	"Client id"
//	@Param		device_id	query		string	true	"Device id"
//	@Success	200			{object}	authsdk.Session
//	@Failure	404			{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/v1/admin/users/{user_id}/sessions/current [get].
func (h *AdminSessionsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess, err := h.Sessions.Current(r.Context(), domain.SessionKey{
		UserID:   r.PathValue("user_id"),
		ClientID: q.Get("client_id"),
		DeviceID: q.Get("device_id"),
	})
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to load session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(sess))
}

// HandleGet handles GET /v1/admin/sessions/{id}
//
//	@Summary	Get a session by id
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Session id"
//	@Success	200	{object}	authsdk.Session
//	@Failure	404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/v1/admin/sessions/{id} [get].
func (h *AdminSessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to load session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(sess))
}

// HandleRevoke handles POST /v1/admin/users/{user_id}/sessions/revoke
//
//	@Summary		Revoke a user's sessions
//	@Description	The selector picks the operation: client_id and device_id revoke one device, client_id alone revokes one client, except_client_id keeps one client, and an empty body revokes everything.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user_id	path		string							true	"User id"
//	@Param			request	body		authsdk.RevokeSessionsRequest	false	"Selector"
//	@Success		200		{object}	authsdk.RevocationResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Router			/v1/admin/users/{user_id}/sessions/revoke [post].
func (h *AdminSessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RevokeSessionsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, err.Error())
		return
	}

	var (
		ctx      = r.Context()
		userID   = r.PathValue("user_id")
		clientID = strings.TrimSpace(req.ClientID)
		deviceID = strings.TrimSpace(req.DeviceID)
		exceptID = strings.TrimSpace(req.ExceptClientID)
		res      domain.RevocationResult
		err      error
	)
	switch {
	case exceptID != "" && (clientID != "" || deviceID != ""):
		writeBadRequest(w, "except_client_id cannot be combined with client_id or device_id")
		return
	case deviceID != "" && clientID == "":
		writeBadRequest(w, "device_id requires client_id")
		return
	case deviceID != "":
		res, err = h.Revocation.RevokeByDevice(ctx, userID, clientID, deviceID)
	case clientID != "":
		res, err = h.Revocation.RevokeByClient(ctx, userID, clientID)
	case exceptID != "":
		res, err = h.Revocation.RevokeAllExcept(ctx, userID, exceptID)
	default:
		res, err = h.Revocation.RevokeAllForUser(ctx, userID)
	}
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to revoke sessions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRevocation(res))
}
