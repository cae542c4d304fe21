package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessiongate/internal/auth/domain"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/pkg/authsdk"
	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
)

// AdminAllowListHandler manages allow-list entries. Changes that withdraw
// access revoke the affected sessions before answering.
type AdminAllowListHandler struct {
	AllowList *service.AllowListService
	Headers   DeviceHeaders
}

func changeResponse(e *domain.AllowListEntry, res domain.RevocationResult) authsdk.AllowListChangeResponse {
	out := authsdk.AllowListChangeResponse{Revocation: toRevocation(res)}
	if e != nil {
		entry := toEntry(*e)
		out.Entry = &entry
	}
	return out
}

// HandleAdd handles POST /v1/admin/allowlist
//
//	@Summary	Allow a user on a client
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		authsdk.AddAllowListEntryRequest	true	"Entry"
//	@Success	201		{object}	authsdk.AllowListEntry
//	@Failure	400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure	409		{object}	authsdk.ErrorResponse	"conflict"
//	@Router		/v1/admin/allowlist [post].
func (h *AdminAllowListHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AddAllowListEntryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, err := h.AllowList.Add(r.Context(), req.UserID, req.ClientID, req.Audiences)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to add allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEntry(entry))
}

// HandleGet handles GET /v1/admin/allowlist/{id}
//
//	@Summary	Get an allow-list entry
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Entry id"
//	@Success	200	{object}	authsdk.AllowListEntry
//	@Failure	404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/v1/admin/allowlist/{id} [get].
func (h *AdminAllowListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.AllowList.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to load allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry))
}

// HandleList handles GET /v1/admin/allowlist
//
//	@Summary		List allow-list entries
//	@Description	Exactly one of user_id or client_id must be given.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user_id		query		string	false	"User id"
//	@Param			client_id	query		string	false	"Client id"
//	@Success		200			{object}	authsdk.ListAllowListResponse
//	@Failure		400			{object}	authsdk.ErrorResponse	"invalid_request"
//	@Router			/v1/admin/allowlist [get].
func (h *AdminAllowListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := strings.TrimSpace(q.Get("user_id"))
	clientID := strings.TrimSpace(q.Get("client_id"))

	var (
		entries []domain.AllowListEntry
		err     error
	)
	switch {
	case userID != "" && clientID == "":
		entries, err = h.AllowList.ListByUser(r.Context(), userID)
	case clientID != "" && userID == "":
		entries, err = h.AllowList.ListByClient(r.Context(), clientID)
	default:
		writeBadRequest(w, "exactly one of user_id or client_id is required")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to list allow-list entries")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntries(entries))
}

// HandleResolve handles GET /v1/admin/allowlist/resolve
//
//	@Summary	Resolve the effective entry for a pair
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user_id		query		string	true	"User id"
//	@Param		client_id	query		string	true	"Client id"
//	@Success	200			{object}	authsdk.AllowListEntry
//	@Failure	403			{object}	authsdk.ErrorResponse	"not_allowed"
//	@Router		/v1/admin/allowlist/resolve [get].
func (h *AdminAllowListHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entry, err := h.AllowList.Resolve(r.Context(), q.Get("user_id"), q.Get("client_id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to resolve allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry))
}

// HandleEnable handles POST /v1/admin/allowlist/{id}/enable
//
//	@Summary	Enable an allow-list entry
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Entry id"
//	@Success	200	{object}	authsdk.AllowListEntry
//	@Failure	404	{object}	authsdk.ErrorResponse	"not_found"
//	@Failure	409	{object}	authsdk.ErrorResponse	"conflict"
//	@Router		/v1/admin/allowlist/{id}/enable [post].
func (h *AdminAllowListHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	entry, err := h.AllowList.Enable(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to enable allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry))
}

// HandleDisable handles POST /v1/admin/allowlist/{id}/disable
//
//	@Summary		Disable an allow-list entry
//	@Description	Revokes the user's sessions on the entry's client.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	authsdk.AllowListChangeResponse
//	@Failure		404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router			/v1/admin/allowlist/{id}/disable [post].
func (h *AdminAllowListHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	entry, res, err := h.AllowList.Disable(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to disable allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, changeResponse(&entry, res))
}

// HandleUpdateAudiences handles PUT /v1/admin/allowlist/{id}/audiences
//
//	@Summary		Replace the audiences of an entry
//	@Description	Tokens already issued keep their audiences until they expire.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Entry id"
//	@Param			request	body		authsdk.UpdateAudiencesRequest	true	"Audiences"
//	@Success		200		{object}	authsdk.AllowListEntry
//	@Failure		404		{object}	authsdk.ErrorResponse	"not_found"
//	@Router			/v1/admin/allowlist/{id}/audiences [put].
func (h *AdminAllowListHandler) HandleUpdateAudiences(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateAudiencesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, err := h.AllowList.UpdateAudiences(r.Context(), r.PathValue("id"), req.Audiences)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to update audiences")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry))
}

// HandleRebind handles POST /v1/admin/allowlist/{id}/rebind
//
//	@Summary		Move an entry to another client
//	@Description	Revokes the user's sessions on the old client.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string								true	"Entry id"
//	@Param			request	body		authsdk.RebindAllowListEntryRequest	true	"Clients"
//	@Success		200		{object}	authsdk.AllowListChangeResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"conflict"
//	@Router			/v1/admin/allowlist/{id}/rebind [post].
func (h *AdminAllowListHandler) HandleRebind(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RebindAllowListEntryRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, res, err := h.AllowList.Rebind(r.Context(), r.PathValue("id"), req.FromClientID, req.ToClientID)
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to rebind allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, changeResponse(&entry, res))
}

// HandleRemove handles DELETE /v1/admin/allowlist/{id}
//
//	@Summary		Remove an allow-list entry
//	@Description	Revokes the user's sessions on the entry's client.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	authsdk.AllowListChangeResponse
//	@Failure		404	{object}	authsdk.ErrorResponse	"not_found"
//	@Router			/v1/admin/allowlist/{id} [delete].
func (h *AdminAllowListHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	res, err := h.AllowList.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to remove allow-list entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, changeResponse(nil, res))
}

// HandleRemoveAllForUser handles DELETE /v1/admin/users/{user_id}/allowlist
//
//	@Summary		Remove every allow-list entry of a user
//	@Description	Revokes all of the user's sessions.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user_id	path		string	true	"User id"
//	@Success		200		{object}	authsdk.RemoveAllForUserResponse
//	@Router			/v1/admin/users/{user_id}/allowlist [delete].
func (h *AdminAllowListHandler) HandleRemoveAllForUser(w http.ResponseWriter, r *http.Request) {
	res, n, err := h.AllowList.RemoveAllForUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeServiceError(w, r, h.Headers, err, "failed to remove allow-list entries")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.RemoveAllForUserResponse{
		EntriesRemoved: n,
		Revocation:     toRevocation(res),
	})
}
