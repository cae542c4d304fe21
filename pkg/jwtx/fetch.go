package jwtx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// JWKSFetcher keeps a KeySet in sync with the authorization server's JWKS
// endpoint.
type JWKSFetcher struct {
	URL    string
	Client *http.Client
	Keys   *KeySet
}

// Refresh downloads the JWKS and replaces the keys of the set.
func (f *JWKSFetcher) Refresh(ctx context.Context) error {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&jwks); err != nil {
		return fmt.Errorf("jwtx: decode jwks: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return fmt.Errorf("jwtx: jwks at %s has no keys", f.URL)
	}

	return f.Keys.ResetFromJWKS(jwks)
}
