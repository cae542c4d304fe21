package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// HooksHandler serves the calls the authorization server makes around the
// authorize and token endpoints.
type HooksHandler struct {
	AllowList *service.AllowListService
	Sessions  *service.SessionService
	Binder    *service.DeviceBinder
	Tokens    *service.TokenRegistry
	Headers   DeviceHeaders
}

// HandleAuthorize handles POST /v1/hooks/authorize
//
//	@Summary		Allow-list check
//	@Description	Resolves the effective allow-list entry for the pair. Tokens issued under the pairing must carry exactly the returned audiences.
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Security		HookSecret
//	@Param			request	body		authsdk.AuthorizeHookRequest	true	"User and client"
//	@Success		200		{object}	authsdk.AuthorizeHookResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse	"not_allowed"
//	@Router			/v1/hooks/authorize [post].
func (h *HooksHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AuthorizeHookRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, err := h.AllowList.Resolve(r.Context(), req.UserID, req.ClientID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to resolve allow-list entry")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthorizeHookResponse{
		EntryID:   entry.ID,
		Audiences: entry.Audiences(),
	})
}

// HandleTokenRequest handles POST /v1/hooks/token-request
//
//	@Summary		Pre-token device check
//	@Description	Rejects a token request whose device id, name or platform header is blank.
//	@Tags			Hooks
//	@Accept			json
//	@Security		HookSecret
//	@Param			request	body	authsdk.Device	true	"Device headers presented on the token request"
//	@Success		204
//	@Failure		400	{object}	authsdk.ErrorResponse	"missing_device, missing_device_name, missing_platform"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/hooks/token-request [post].
func (h *HooksHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	var req authsdk.Device
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if _, err := h.Binder.CheckTokenRequest(r.Context(), fromDevice(req)); err != nil {
		writeServiceError(w, r, h.Headers, err, "device check failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSignIn handles POST /v1/hooks/sign-in
//
//	@Summary		Bind a session after a token exchange
//	@Description	Runs the device checks and creates, updates or resurrects the session for the (user, client, device) triple.
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Security		HookSecret
//	@Param			request	body		authsdk.SignInHookRequest	true	"Redeemed grant"
//	@Success		200		{object}	authsdk.SignInResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request, missing_device, device_mismatch"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/hooks/sign-in [post].
func (h *HooksHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignInHookRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.Sessions.SignIn(r.Context(), service.SignInRequest{
		Grant:            domain.GrantType(req.GrantType),
		UserID:           req.UserID,
		ClientID:         req.ClientID,
		AuthorizedDevice: fromDevice(req.AuthorizedDevice),
		PresentedDevice:  fromDevice(req.PresentedDevice),
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
		TokenID:          req.TokenID,
	})
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to sign in session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SignInResponse{
		Session: toSession(res.Session),
		Outcome: string(res.Outcome),
	})
}

// HandleTokenResponse handles POST /v1/hooks/token-response
//
//	@Summary		Bind a session to a freshly issued refresh token
//	@Description	Resolves the subject and client of the refresh token through the token registry, then signs the session in.
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Security		HookSecret
//	@Param			request	body		authsdk.TokenResponseHookRequest	true	"Issued token"
//	@Success		200		{object}	authsdk.SignInResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_grant, missing_device, device_mismatch"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/hooks/token-response [post].
func (h *HooksHandler) HandleTokenResponse(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenResponseHookRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	res, err := h.Sessions.SignInWithToken(r.Context(), service.TokenSignInRequest{
		Grant:            domain.GrantType(req.GrantType),
		Reference:        req.RefreshToken,
		AuthorizedDevice: fromDevice(req.AuthorizedDevice),
		PresentedDevice:  fromDevice(req.PresentedDevice),
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
	})
	if errors.Is(err, service.ErrInvalidCredential) {
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to sign in session from token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SignInResponse{
		Session: toSession(res.Session),
		Outcome: string(res.Outcome),
	})
}

// HandleRegisterToken handles POST /v1/hooks/tokens
//
//	@Summary		Register an issued refresh token
//	@Tags			Hooks
//	@Accept			json
//	@Produce		json
//	@Security		HookSecret
//	@Param			request	body		authsdk.RegisterTokenRequest	true	"Token"
//	@Success		201		{object}	authsdk.TokenRecord
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"conflict"
//	@Router			/v1/hooks/tokens [post].
func (h *HooksHandler) HandleRegisterToken(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	tok, err := h.Tokens.Register(r.Context(), service.RegisterTokenRequest{
		ID:            req.ID,
		Reference:     req.RefreshToken,
		Subject:       req.Subject,
		ApplicationID: req.ApplicationID,
		ClientID:      req.ClientID,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to register token")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toToken(tok))
}

// HandleGetToken handles GET /v1/hooks/tokens/{id}
//
//	@Summary	Get a registered token
//	@Tags		Hooks
//	@Produce	json
//	@Security	HookSecret
//	@Param		id	path		string	true	"Token id"
//	@Success	200	{object}	authsdk.TokenRecord
//	@Failure	404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/v1/hooks/tokens/{id} [get].
func (h *HooksHandler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.Tokens.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to load token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toToken(tok))
}

// HandleRevokeToken handles POST /v1/hooks/tokens/{id}/revoke
//
//	@Summary	Revoke a registered token
//	@Tags		Hooks
//	@Produce	json
//	@Security	HookSecret
//	@Param		id	path		string	true	"Token id"
//	@Success	200	{object}	authsdk.RevokeTokenResponse
//	@Failure	404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/v1/hooks/tokens/{id}/revoke [post].
func (h *HooksHandler) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.Tokens.TryRevoke(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to revoke token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.RevokeTokenResponse{Revoked: revoked})
}
