package jwtx_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, method jwt.SigningMethod, kid string, key any, claims jwtx.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(method, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func baseClaims() jwtx.Claims {
	now := time.Now().UTC()
	return jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.example.com",
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"chat"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
		AuthorizedParty: "web",
		DeviceID:        "dev-1",
	}
}

func TestKeySetVerifierAlgorithms(t *testing.T) {
	t.Parallel()

	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rsaPriv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddKey("ed", edPub)
	keys.AddKey("rsa", &rsaPriv.PublicKey)
	keys.AddKey("ec", &ecPriv.PublicKey)

	v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{
		Issuer:   "https://auth.example.com",
		Audience: []string{"chat"},
	})

	tests := []struct {
		name   string
		method jwt.SigningMethod
		kid    string
		key    any
	}{
		{"EdDSA", jwt.SigningMethodEdDSA, "ed", edPriv},
		{"RS256", jwt.SigningMethodRS256, "rsa", rsaPriv},
		{"ES256", jwt.SigningMethodES256, "ec", ecPriv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(mint(t, tt.method, tt.kid, tt.key, baseClaims()))
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.Subject)
			require.Equal(t, "web", claims.Client())
			require.Equal(t, "dev-1", claims.DeviceID)
		})
	}
}

func TestKeySetVerifierRejects(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rsaPriv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddKey("k1", pub)

	v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{
		Issuer:   "https://auth.example.com",
		Audience: []string{"chat"},
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := v.Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong signature", func(t *testing.T) {
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "k1", otherPriv, baseClaims()))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("unknown kid", func(t *testing.T) {
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "k2", priv, baseClaims()))
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("alg does not match key", func(t *testing.T) {
		_, err := v.Verify(mint(t, jwt.SigningMethodRS256, "k1", rsaPriv, baseClaims()))
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("expired", func(t *testing.T) {
		c := baseClaims()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "k1", priv, c))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := baseClaims()
		c.Issuer = "https://evil.example.com"
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "k1", priv, c))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := baseClaims()
		c.Audience = jwt.ClaimStrings{"billing"}
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "k1", priv, c))
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})
}

func TestKeySetVerifierMissingKID(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddKey("only", pub)

	t.Run("single key is used", func(t *testing.T) {
		v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{})
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "", priv, baseClaims()))
		require.NoError(t, err)
	})

	t.Run("required kid", func(t *testing.T) {
		v := jwtx.NewVerifier(keys, jwtx.VerifyOptions{RequireKID: true})
		_, err := v.Verify(mint(t, jwt.SigningMethodEdDSA, "", priv, baseClaims()))
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("ambiguous set", func(t *testing.T) {
		other, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		multi := jwtx.NewKeySet()
		multi.AddKey("a", pub)
		multi.AddKey("b", other)

		v := jwtx.NewVerifier(multi, jwtx.VerifyOptions{})
		_, err = v.Verify(mint(t, jwt.SigningMethodEdDSA, "", priv, baseClaims()))
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})
}
