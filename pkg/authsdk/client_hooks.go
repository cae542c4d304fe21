package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Authorize asks whether the user may authorize the client. A user without
// an enabled allow-list entry gets ErrNotAllowed.
func (c *Client) Authorize(ctx context.Context, req AuthorizeHookRequest) (*AuthorizeHookResponse, error) {
	var out AuthorizeHookResponse
	if err := c.call(ctx, http.MethodPost, "/v1/hooks/authorize", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckTokenRequest runs the pre-token device header check.
func (c *Client) CheckTokenRequest(ctx context.Context, presented Device) error {
	return c.call(ctx, http.MethodPost, "/v1/hooks/token-request", presented, nil, http.StatusNoContent)
}

// SignIn reports a successful redemption and returns the bound session.
func (c *Client) SignIn(ctx context.Context, req SignInHookRequest) (*SignInResponse, error) {
	var out SignInResponse
	if err := c.call(ctx, http.MethodPost, "/v1/hooks/sign-in", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// TokenResponse reports a freshly issued refresh token.
func (c *Client) TokenResponse(ctx context.Context, req TokenResponseHookRequest) (*SignInResponse, error) {
	var out SignInResponse
	if err := c.call(ctx, http.MethodPost, "/v1/hooks/token-response", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterToken records an issued refresh token.
func (c *Client) RegisterToken(ctx context.Context, req RegisterTokenRequest) (*TokenRecord, error) {
	var out TokenRecord
	if err := c.call(ctx, http.MethodPost, "/v1/hooks/tokens", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetToken returns a registered token by id.
func (c *Client) GetToken(ctx context.Context, id string) (*TokenRecord, error) {
	var out TokenRecord
	if err := c.call(ctx, http.MethodGet, "/v1/hooks/tokens/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeToken revokes a registered token. It reports false when the token
// was already revoked.
func (c *Client) RevokeToken(ctx context.Context, id string) (bool, error) {
	var out RevokeTokenResponse
	if err := c.call(ctx, http.MethodPost, "/v1/hooks/tokens/"+url.PathEscape(id)+"/revoke", nil, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Revoked, nil
}
