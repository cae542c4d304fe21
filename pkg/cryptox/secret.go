// Package cryptox holds the hashing helpers used around opaque credentials.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// ReferenceSize is the byte length of opaque references minted by
// NewReference (256 bits).
const ReferenceSize = 32

// NewReference returns a random base64url opaque value of size bytes.
func NewReference(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: reference size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the base64url SHA-256 of token (43 chars). Only
// the fingerprint of an opaque token is ever stored.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// EqualSecret compares got with want in constant time. Both sides are
// hashed first so the comparison does not leak the secret length. An
// empty want never matches.
func EqualSecret(got, want string) bool {
	if want == "" {
		return false
	}
	g := sha256.Sum256([]byte(got))
	w := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(g[:], w[:]) == 1
}
