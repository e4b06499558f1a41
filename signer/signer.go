// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package signer implements the Ed25519 signing surface of the catalog.
//
// The catalog authority signs three things: archive digests, the catalog
// index body, and the revocation list. All three reduce to raw Ed25519
// over in-memory bytes; archives are hashed first and the 32-byte digest
// is what gets signed. Private keys travel as base64 PKCS#8 DER, public
// keys as base64 SPKI DER, signatures as base64 of the raw 64-byte form.
package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/kithkit/kithkit-core/canonjson"
	"github.com/kithkit/kithkit-core/skillerr"
)

// GenerateKeyPair creates a fresh Ed25519 key pair and returns the
// encoded forms: base64 PKCS#8 DER private key, base64 SPKI DER public key.
func GenerateKeyPair() (privEncoded, pubEncoded string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generating key pair: %w", err)
	}
	privEncoded, err = EncodePrivateKey(priv)
	if err != nil {
		return "", "", err
	}
	pubEncoded, err = EncodePublicKey(pub)
	if err != nil {
		return "", "", err
	}
	return privEncoded, pubEncoded, nil
}

// EncodePrivateKey serializes a private key as base64 PKCS#8 DER.
func EncodePrivateKey(priv ed25519.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("encoding private key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// EncodePublicKey serializes a public key as base64 SPKI DER.
func EncodePublicKey(pub ed25519.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("encoding public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// ParsePrivateKey decodes a base64 PKCS#8 DER Ed25519 private key.
func ParsePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, skillerr.New(skillerr.Invalid, "decode private key base64: %v", err)
	}
	key, err := x509.ParsePKCS8PrivateKey(raw)
	if err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse PKCS#8 private key: %v", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, skillerr.New(skillerr.Invalid, "private key is not Ed25519")
	}
	return priv, nil
}

// ParsePublicKey decodes a base64 SPKI DER Ed25519 public key.
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, skillerr.New(skillerr.Invalid, "decode public key base64: %v", err)
	}
	key, err := x509.ParsePKIXPublicKey(raw)
	if err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse SPKI public key: %v", err)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, skillerr.New(skillerr.Invalid, "public key is not Ed25519")
	}
	return pub, nil
}

// SignBytes signs data with raw Ed25519 and returns the base64 signature.
func SignBytes(data []byte, priv ed25519.PrivateKey) string {
	sig := ed25519.Sign(priv, data)
	return base64.StdEncoding.EncodeToString(sig)
}

// VerifyBytes verifies a base64 Ed25519 signature over data.
// Malformed signatures verify as false; this function never errors.
func VerifyBytes(data []byte, sigEncoded string, pub ed25519.PublicKey) bool {
	sig, err := base64.StdEncoding.DecodeString(sigEncoded)
	if err != nil {
		return false
	}
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}

// SignDigest signs a 32-byte SHA-256 digest.
func SignDigest(digest []byte, priv ed25519.PrivateKey) (string, error) {
	if len(digest) != sha256.Size {
		return "", skillerr.New(skillerr.Invalid, "digest must be %d bytes, got %d", sha256.Size, len(digest))
	}
	return SignBytes(digest, priv), nil
}

// VerifyDigest verifies a signature over a 32-byte SHA-256 digest.
func VerifyDigest(digest []byte, sigEncoded string, pub ed25519.PublicKey) bool {
	if len(digest) != sha256.Size {
		return false
	}
	return VerifyBytes(digest, sigEncoded, pub)
}

// SignFile hashes the file with SHA-256 in chunks and signs the digest.
func SignFile(path string, priv ed25519.PrivateKey) (string, error) {
	digest, err := hashFile(path)
	if err != nil {
		return "", err
	}
	return SignBytes(digest, priv), nil
}

// VerifyFile hashes the file and verifies the signature over the digest.
// A filesystem error is reported; a bad signature simply returns false.
func VerifyFile(path string, sigEncoded string, pub ed25519.PublicKey) (bool, error) {
	digest, err := hashFile(path)
	if err != nil {
		return false, err
	}
	return VerifyBytes(digest, sigEncoded, pub), nil
}

// SignObject serializes v as canonical JSON and signs the bytes.
// The catalog index and revocation list are signed this way.
func SignObject(v any, priv ed25519.PrivateKey) (string, error) {
	canonical, err := canonjson.Marshal(v)
	if err != nil {
		return "", err
	}
	return SignBytes(canonical, priv), nil
}

// VerifyObject serializes v as canonical JSON and verifies the signature.
func VerifyObject(v any, sigEncoded string, pub ed25519.PublicKey) (bool, error) {
	canonical, err := canonjson.Marshal(v)
	if err != nil {
		return false, err
	}
	return VerifyBytes(canonical, sigEncoded, pub), nil
}

func hashFile(path string) ([]byte, error) {
	// #nosec G304 -- caller supplies a local archive path by design
	f, err := os.Open(path)
	if err != nil {
		return nil, skillerr.WithKind(fmt.Errorf("open %s: %w", path, err), skillerr.IO)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, skillerr.WithKind(fmt.Errorf("hash %s: %w", path, err), skillerr.IO)
	}
	return h.Sum(nil), nil
}
