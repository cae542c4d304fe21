package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListUserSessions lists a user's live sessions.
func (c *Client) ListUserSessions(ctx context.Context, userID string) ([]Session, error) {
	var out ListSessionsResponse
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/sessions"
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// GetUserCurrentSession returns the live session for one triple.
func (c *Client) GetUserCurrentSession(ctx context.Context, userID, clientID, deviceID string) (*Session, error) {
	q := url.Values{"client_id": {clientID}, "device_id": {deviceID}}
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/sessions/current?" + q.Encode()

	var out Session
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns a session by id, live or not.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := c.call(ctx, http.MethodGet, "/v1/admin/sessions/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeUserSessions revokes the sessions selected by req.
func (c *Client) RevokeUserSessions(ctx context.Context, userID string, req RevokeSessionsRequest) (*RevocationResponse, error) {
	return c.revoke(ctx, http.MethodPost, "/v1/admin/users/"+url.PathEscape(userID)+"/sessions/revoke", req)
}

// AddAllowListEntry grants the user access to the client.
func (c *Client) AddAllowListEntry(ctx context.Context, req AddAllowListEntryRequest) (*AllowListEntry, error) {
	var out AllowListEntry
	if err := c.call(ctx, http.MethodPost, "/v1/admin/allowlist", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllowListEntry returns an entry by id.
func (c *Client) GetAllowListEntry(ctx context.Context, id string) (*AllowListEntry, error) {
	return c.entry(ctx, http.MethodGet, "/v1/admin/allowlist/"+url.PathEscape(id), nil)
}

// ListAllowListByUser lists a user's entries, newest first.
func (c *Client) ListAllowListByUser(ctx context.Context, userID string) ([]AllowListEntry, error) {
	return c.listEntries(ctx, url.Values{"user_id": {userID}})
}

// ListAllowListByClient lists a client's entries, newest first.
func (c *Client) ListAllowListByClient(ctx context.Context, clientID string) ([]AllowListEntry, error) {
	return c.listEntries(ctx, url.Values{"client_id": {clientID}})
}

// ResolveAllowListEntry returns the effective entry for the pair.
func (c *Client) ResolveAllowListEntry(ctx context.Context, userID, clientID string) (*AllowListEntry, error) {
	q := url.Values{"user_id": {userID}, "client_id": {clientID}}
	return c.entry(ctx, http.MethodGet, "/v1/admin/allowlist/resolve?"+q.Encode(), nil)
}

// EnableAllowListEntry re-enables an entry.
func (c *Client) EnableAllowListEntry(ctx context.Context, id string) (*AllowListEntry, error) {
	return c.entry(ctx, http.MethodPost, "/v1/admin/allowlist/"+url.PathEscape(id)+"/enable", nil)
}

// DisableAllowListEntry disables an entry and revokes the pair's sessions.
func (c *Client) DisableAllowListEntry(ctx context.Context, id string) (*AllowListChangeResponse, error) {
	return c.change(ctx, http.MethodPost, "/v1/admin/allowlist/"+url.PathEscape(id)+"/disable", nil)
}

// UpdateAllowListAudiences replaces the audiences of an entry.
func (c *Client) UpdateAllowListAudiences(ctx context.Context, id string, audiences []string) (*AllowListEntry, error) {
	return c.entry(ctx, http.MethodPut, "/v1/admin/allowlist/"+url.PathEscape(id)+"/audiences",
		UpdateAudiencesRequest{Audiences: audiences})
}

// RebindAllowListEntry moves an entry to another client.
func (c *Client) RebindAllowListEntry(ctx context.Context, id string, req RebindAllowListEntryRequest) (*AllowListChangeResponse, error) {
	return c.change(ctx, http.MethodPost, "/v1/admin/allowlist/"+url.PathEscape(id)+"/rebind", req)
}

// RemoveAllowListEntry revokes the pair's sessions and deletes the entry.
func (c *Client) RemoveAllowListEntry(ctx context.Context, id string) (*AllowListChangeResponse, error) {
	return c.change(ctx, http.MethodDelete, "/v1/admin/allowlist/"+url.PathEscape(id), nil)
}

// RemoveUserAllowList revokes every session of the user and deletes all of
// the user's entries.
func (c *Client) RemoveUserAllowList(ctx context.Context, userID string) (*RemoveAllForUserResponse, error) {
	var out RemoveAllForUserResponse
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/allowlist"
	if err := c.call(ctx, http.MethodDelete, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) entry(ctx context.Context, method, path string, body any) (*AllowListEntry, error) {
	var out AllowListEntry
	if err := c.call(ctx, method, path, body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) change(ctx context.Context, method, path string, body any) (*AllowListChangeResponse, error) {
	var out AllowListChangeResponse
	if err := c.call(ctx, method, path, body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) listEntries(ctx context.Context, q url.Values) ([]AllowListEntry, error) {
	var out ListAllowListResponse
	if err := c.call(ctx, http.MethodGet, "/v1/admin/allowlist?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Entries, nil
}
