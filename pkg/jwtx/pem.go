package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// ParsePublicKeyPEM decodes a PKIX "PUBLIC KEY" or PKCS#1 "RSA PUBLIC KEY"
// block into an RSA, Ed25519 or ECDSA public key.
func ParsePublicKeyPEM(data []byte) (any, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("jwtx: no PEM block found")
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse public key: %w", err)
		}
		switch pub.(type) {
		case *rsa.PublicKey, ed25519.PublicKey, *ecdsa.PublicKey:
			return pub, nil
		default:
			return nil, fmt.Errorf("jwtx: unsupported public key type %T", pub)
		}
	default:
		return nil, fmt.Errorf("jwtx: unexpected PEM block %q", block.Type)
	}
}

// AddPEM parses a PEM public key and registers it under kid.
func (k *KeySet) AddPEM(kid string, data []byte) error {
	pub, err := ParsePublicKeyPEM(data)
	if err != nil {
		return err
	}
	k.AddKey(kid, pub)
	return nil
}
