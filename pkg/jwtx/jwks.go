package jwtx

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// ErrUnsupportedKey is returned for JWKs this package cannot verify with.
var ErrUnsupportedKey = errors.New("jwtx: unsupported key")

const minRSABits = 2048

// JWK is a public key in JSON Web Key form (RFC 7517). Only signature keys
// of type RSA, OKP (Ed25519) and EC (P-256) are understood.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`

	N string `json:"n,omitempty"` // RSA modulus
	E string `json:"e,omitempty"` // RSA exponent

	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"` // Ed25519 key or EC x coordinate
	Y   string `json:"y,omitempty"` // EC y coordinate
}

// JWKS is a JSON Web Key Set as published by the authorization server.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Signing reports whether the key is published for signature checks. Keys
// marked for encryption are ignored by KeySet.ResetFromJWKS.
func (j JWK) Signing() bool { return j.Use == "" || j.Use == "sig" }

// PublicKey decodes the JWK into *rsa.PublicKey, ed25519.PublicKey or
// *ecdsa.PublicKey.
func (j JWK) PublicKey() (any, error) {
	switch j.Kty {
	case "RSA":
		return j.rsaKey()
	case "OKP":
		return j.okpKey()
	case "EC":
		return j.ecKey()
	default:
		return nil, fmt.Errorf("%w: kty %q", ErrUnsupportedKey, j.Kty)
	}
}

func (j JWK) rsaKey() (*rsa.PublicKey, error) {
	nb, err := decodeField("n", j.N)
	if err != nil {
		return nil, err
	}
	eb, err := decodeField("e", j.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nb)
	if n.BitLen() < minRSABits {
		return nil, fmt.Errorf("%w: rsa modulus of %d bits", ErrUnsupportedKey, n.BitLen())
	}
	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: rsa exponent out of range", ErrUnsupportedKey)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func (j JWK) okpKey() (ed25519.PublicKey, error) {
	if j.Crv != "Ed25519" {
		return nil, fmt.Errorf("%w: okp curve %q", ErrUnsupportedKey, j.Crv)
	}
	xb, err := decodeField("x", j.X)
	if err != nil {
		return nil, err
	}
	if len(xb) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 key of %d bytes", ErrUnsupportedKey, len(xb))
	}
	return ed25519.PublicKey(xb), nil
}

func (j JWK) ecKey() (*ecdsa.PublicKey, error) {
	if j.Crv != "P-256" {
		return nil, fmt.Errorf("%w: ec curve %q", ErrUnsupportedKey, j.Crv)
	}
	xb, err := decodeField("x", j.X)
	if err != nil {
		return nil, err
	}
	yb, err := decodeField("y", j.Y)
	if err != nil {
		return nil, err
	}
	if len(xb) != 32 || len(yb) != 32 {
		return nil, fmt.Errorf("%w: p-256 coordinates must be 32 bytes", ErrUnsupportedKey)
	}

	// ecdh rejects points that are not on the curve.
	point := append(append([]byte{4}, xb...), yb...)
	if _, err := ecdh.P256().NewPublicKey(point); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}, nil
}

func decodeField(name, v string) ([]byte, error) {
	if v == "" {
		return nil, fmt.Errorf("jwtx: jwk field %q is empty", name)
	}
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("jwtx: jwk field %q: %w", name, err)
	}
	return b, nil
}
