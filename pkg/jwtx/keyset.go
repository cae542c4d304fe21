package jwtx

import (
	"errors"
	"maps"
	"sync"
	"sync/atomic"
)

var (
	ErrNoKey        = errors.New("jwtx: key not found")
	ErrAmbiguousKey = errors.New("jwtx: token has no kid and the key set holds more than one key")
)

// keyMap is kid -> *rsa.PublicKey | ed25519.PublicKey | *ecdsa.PublicKey.
// A published keyMap is never mutated.
type keyMap map[string]any

// KeySet holds the public verification keys of the authorization server.
// Readers load an immutable snapshot; writers publish a new one, so a JWKS
// refresh never blocks token verification.
type KeySet struct {
	wmu  sync.Mutex
	keys atomic.Pointer[keyMap]
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	k := &KeySet{}
	k.keys.Store(&keyMap{})
	return k
}

func (k *KeySet) snapshot() keyMap { return *k.keys.Load() }

// AddKey registers a parsed public key under kid, replacing any key already
// held under that kid.
func (k *KeySet) AddKey(kid string, pub any) {
	k.wmu.Lock()
	defer k.wmu.Unlock()

	next := maps.Clone(k.snapshot())
	next[kid] = pub
	k.keys.Store(&next)
}

// AddJWK parses j and registers it under its kid.
func (k *KeySet) AddJWK(j JWK) error {
	pub, err := j.PublicKey()
	if err != nil {
		return err
	}
	k.AddKey(j.Kid, pub)
	return nil
}

// Get returns the key registered under kid.
func (k *KeySet) Get(kid string) (any, error) {
	if pub, ok := k.snapshot()[kid]; ok {
		return pub, nil
	}
	return nil, ErrNoKey
}

// Only returns the single key of the set. Used for tokens that carry no kid.
func (k *KeySet) Only() (any, error) {
	keys := k.snapshot()
	if len(keys) > 1 {
		return nil, ErrAmbiguousKey
	}
	for _, pub := range keys {
		return pub, nil
	}
	return nil, ErrNoKey
}

// IsReady reports whether at least one key is loaded.
func (k *KeySet) IsReady() bool { return len(k.snapshot()) > 0 }

// ResetFromJWKS replaces every key with the signing keys of jwks. The set is
// left untouched if any signing key fails to parse.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	next := make(keyMap, len(jwks.Keys))
	for _, j := range jwks.Keys {
		if !j.Signing() {
			continue
		}
		pub, err := j.PublicKey()
		if err != nil {
			return err
		}
		next[j.Kid] = pub
	}

	k.wmu.Lock()
	defer k.wmu.Unlock()
	k.keys.Store(&next)
	return nil
}
