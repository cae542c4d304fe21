package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// RequireKID enforces presence of the "kid" header. Without it a token
	// lacking a kid is checked against the only key in the set.
	RequireKID bool
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// supportedAlgs are the signing methods accepted from the authorization server.
var supportedAlgs = []string{
	jwt.SigningMethodEdDSA.Alg(),
	jwt.SigningMethodRS256.Alg(),
	jwt.SigningMethodES256.Alg(),
}

// KeySetVerifier verifies EdDSA, RS256 and ES256 tokens against a KeySet.
// The key type found for the kid must agree with the token's alg.
type KeySetVerifier struct {
	keys *KeySet
	opts VerifyOptions
}

var _ Verifier = (*KeySetVerifier)(nil)

func NewVerifier(keys *KeySet, opts VerifyOptions) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, opts: opts}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(supportedAlgs),
		jwt.WithLeeway(v.opts.Leeway),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSig, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(v.opts.Leeway); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

func (v *KeySetVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)

	var (
		pub any
		err error
	)
	switch {
	case kid != "":
		pub, err = v.keys.Get(kid)
	case v.opts.RequireKID:
		return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
	default:
		pub, err = v.keys.Only()
	}
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownKID, kid, err)
	}

	// Make sure the key is of the kind the header claims.
	switch t.Method.Alg() {
	case jwt.SigningMethodEdDSA.Alg():
		if k, ok := pub.(ed25519.PublicKey); ok {
			return k, nil
		}
	case jwt.SigningMethodRS256.Alg():
		if k, ok := pub.(*rsa.PublicKey); ok {
			return k, nil
		}
	case jwt.SigningMethodES256.Alg():
		if k, ok := pub.(*ecdsa.PublicKey); ok {
			return k, nil
		}
	}
	return nil, ErrAlgMismatch
}
