package jwtx_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func b64(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func edJWK(kid string, pub ed25519.PublicKey) jwtx.JWK {
	return jwtx.JWK{Kty: "OKP", Use: "sig", Alg: "EdDSA", Kid: kid, Crv: "Ed25519", X: b64(pub)}
}

func rsaJWK(kid string, pub *rsa.PublicKey) jwtx.JWK {
	return jwtx.JWK{Kty: "RSA", Kid: kid, N: b64(pub.N.Bytes()), E: b64(big.NewInt(int64(pub.E)).Bytes())}
}

func ecJWK(kid string, pub *ecdsa.PublicKey) jwtx.JWK {
	x, y := make([]byte, 32), make([]byte, 32)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)
	return jwtx.JWK{Kty: "EC", Kid: kid, Crv: "P-256", X: b64(x), Y: b64(y)}
}

func TestJWKPublicKey(t *testing.T) {
	t.Parallel()

	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	rsaPriv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	t.Run("Ed25519", func(t *testing.T) {
		got, err := edJWK("ed", edPub).PublicKey()
		require.NoError(t, err)
		require.True(t, edPub.Equal(got))
	})

	t.Run("RSA", func(t *testing.T) {
		got, err := rsaJWK("rsa", &rsaPriv.PublicKey).PublicKey()
		require.NoError(t, err)
		require.True(t, rsaPriv.PublicKey.Equal(got))
	})

	t.Run("ES256", func(t *testing.T) {
		got, err := ecJWK("ec", &ecPriv.PublicKey).PublicKey()
		require.NoError(t, err)
		require.True(t, ecPriv.PublicKey.Equal(got))
	})

	weak, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	offCurve := ecJWK("ec", &ecPriv.PublicKey)
	offCurve.Y = b64(make([]byte, 32))

	rejected := map[string]jwtx.JWK{
		"symmetric":         {Kty: "oct"},
		"short rsa modulus": rsaJWK("weak", &weak.PublicKey),
		"x25519":            {Kty: "OKP", Crv: "X25519", X: b64(edPub)},
		"p-384":             {Kty: "EC", Crv: "P-384", X: "AA", Y: "AA"},
		"point off curve":   offCurve,
		"truncated ed25519": {Kty: "OKP", Crv: "Ed25519", X: b64(edPub[:16])},
	}
	for name, j := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := j.PublicKey()
			require.ErrorIs(t, err, jwtx.ErrUnsupportedKey)
		})
	}

	t.Run("missing field", func(t *testing.T) {
		_, err := jwtx.JWK{Kty: "RSA", E: "AQAB"}.PublicKey()
		require.Error(t, err)
	})
}

func TestKeySet(t *testing.T) {
	t.Parallel()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := jwtx.NewKeySet()
	require.False(t, ks.IsReady())

	_, err = ks.Only()
	require.ErrorIs(t, err, jwtx.ErrNoKey)

	require.NoError(t, ks.AddJWK(edJWK("k1", pub)))
	require.True(t, ks.IsReady())

	got, err := ks.Get("k1")
	require.NoError(t, err)
	require.Equal(t, pub, got)

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)

	t.Run("reset keeps old keys on parse failure", func(t *testing.T) {
		err := ks.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{{Kid: "bad", Kty: "oct"}}})
		require.Error(t, err)
		_, err = ks.Get("k1")
		require.NoError(t, err)
	})

	t.Run("encryption keys are skipped", func(t *testing.T) {
		enc := edJWK("enc", pub)
		enc.Use = "enc"
		require.NoError(t, ks.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{edJWK("k2", pub), enc}}))

		_, err := ks.Get("enc")
		require.ErrorIs(t, err, jwtx.ErrNoKey)
		only, err := ks.Only()
		require.NoError(t, err)
		require.Equal(t, pub, only)
	})
}

func TestKeySetAddPEM(t *testing.T) {
	t.Parallel()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	data := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	ks := jwtx.NewKeySet()
	require.NoError(t, ks.AddPEM("pem", data))

	got, err := ks.Only()
	require.NoError(t, err)
	require.Equal(t, pub, got)

	require.Error(t, ks.AddPEM("junk", []byte("not pem")))
}

func TestJWKSFetcherRefresh(t *testing.T) {
	t.Parallel()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/jwks.json":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{edJWK("k1", pub)}})
		case "/empty":
			_, _ = w.Write([]byte(`{"keys":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("loads keys", func(t *testing.T) {
		ks := jwtx.NewKeySet()
		f := &jwtx.JWKSFetcher{URL: srv.URL + "/.well-known/jwks.json", Client: srv.Client(), Keys: ks}
		require.NoError(t, f.Refresh(context.Background()))
		require.True(t, ks.IsReady())

		got, err := ks.Get("k1")
		require.NoError(t, err)
		require.Equal(t, pub, got)
	})

	t.Run("empty set is an error", func(t *testing.T) {
		ks := jwtx.NewKeySet()
		f := &jwtx.JWKSFetcher{URL: srv.URL + "/empty", Client: srv.Client(), Keys: ks}
		require.Error(t, f.Refresh(context.Background()))
		require.False(t, ks.IsReady())
	})

	t.Run("bad status", func(t *testing.T) {
		ks := jwtx.NewKeySet()
		f := &jwtx.JWKSFetcher{URL: srv.URL + "/missing", Client: srv.Client(), Keys: ks}
		require.Error(t, f.Refresh(context.Background()))
	})
}
