package authsdk

import (
	"maps"
	"net/http"
	"strings"
	"time"
)

// Default device header names understood by the session layer.
const (
	HeaderDeviceID   = "X-Device-Id"
	HeaderDeviceName = "X-Device-Name"
	HeaderPlatform   = "X-Platform"
)

// Client talks to the sessiongate service. The same type serves the
// authorization server (hook calls, authenticated with the hook secret),
// end-user applications (self-service calls with an access token and
// device headers) and administrators (admin calls with an access token
// carrying the sessions:admin scope).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is sent as the bearer credential on every request.
	Token string

	// Header is added to every request.
	Header http.Header
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token:  token,
		Header: http.Header{},
	}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := c.clone()
	cp.Token = token
	return cp
}

// WithDevice returns a copy of the client that sends the device headers
// required by self-service routes.
func (c *Client) WithDevice(d Device) *Client {
	cp := c.clone()
	cp.Header.Set(HeaderDeviceID, d.ID)
	cp.Header.Set(HeaderDeviceName, d.Name)
	cp.Header.Set(HeaderPlatform, d.Platform)
	return cp
}

func (c *Client) clone() *Client {
	cp := *c
	cp.Header = http.Header{}
	maps.Copy(cp.Header, c.Header)
	return &cp
}
