package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListMySessions lists the caller's live sessions.
func (c *Client) ListMySessions(ctx context.Context) ([]Session, error) {
	var out ListSessionsResponse
	if err := c.call(ctx, http.MethodGet, "/v1/me/sessions", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// CurrentSession returns the session behind the caller's token and device.
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.call(ctx, http.MethodGet, "/v1/me/sessions/current", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the caller's session on the current device.
func (c *Client) Logout(ctx context.Context) (*RevocationResponse, error) {
	return c.revoke(ctx, http.MethodPost, "/v1/me/logout", nil)
}

// RevokeOtherApps revokes every session of the caller except those of the
// calling client.
func (c *Client) RevokeOtherApps(ctx context.Context) (*RevocationResponse, error) {
	return c.revoke(ctx, http.MethodPost, "/v1/me/sessions/revoke-others", nil)
}

// RevokeAllMine revokes every session of the caller.
func (c *Client) RevokeAllMine(ctx context.Context) (*RevocationResponse, error) {
	return c.revoke(ctx, http.MethodPost, "/v1/me/sessions/revoke-all", nil)
}

// RevokeMyDevice revokes the caller's session on one client and device.
func (c *Client) RevokeMyDevice(ctx context.Context, clientID, deviceID string) (*RevocationResponse, error) {
	path := "/v1/me/sessions/" + url.PathEscape(clientID) + "/" + url.PathEscape(deviceID)
	return c.revoke(ctx, http.MethodDelete, path, nil)
}

// VerifySession is the forward-auth check used by gateways.
func (c *Client) VerifySession(ctx context.Context) (*GuardVerifyResponse, error) {
	var out GuardVerifyResponse
	if err := c.call(ctx, http.MethodGet, "/v1/guard/verify", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) revoke(ctx context.Context, method, path string, body any) (*RevocationResponse, error) {
	var out RevocationResponse
	if err := c.call(ctx, method, path, body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
