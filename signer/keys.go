// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"crypto/ed25519"
	"os"
	"strings"

	"github.com/kithkit/kithkit-core/env"
	"github.com/kithkit/kithkit-core/skillerr"
)

// Environment variables carrying catalog key material.
const (
	// PrivateKeyEnv holds the authority private key as base64 PKCS#8 DER.
	PrivateKeyEnv = "KITHKIT_CATALOG_PRIVATE_KEY"
	// PublicKeyEnv holds the catalog public key as base64 SPKI DER.
	PublicKeyEnv = "KITHKIT_CATALOG_PUBLIC_KEY"
)

// CredentialStoreHint names the platform secure store the CLI suggests for
// private key material. The core never stores credentials itself.
const CredentialStoreHint = "os-keychain"

// LoadPrivateKey reads the authority private key from PrivateKeyEnv.
func LoadPrivateKey(envReader env.Reader) (ed25519.PrivateKey, error) {
	encoded := strings.TrimSpace(envReader.Getenv(PrivateKeyEnv))
	if encoded == "" {
		return nil, skillerr.New(skillerr.Invalid, "%s is not set", PrivateKeyEnv)
	}
	return ParsePrivateKey(encoded)
}

// LoadPublicKey reads the catalog public key from PublicKeyEnv.
func LoadPublicKey(envReader env.Reader) (ed25519.PublicKey, error) {
	encoded := strings.TrimSpace(envReader.Getenv(PublicKeyEnv))
	if encoded == "" {
		return nil, skillerr.New(skillerr.Invalid, "%s is not set", PublicKeyEnv)
	}
	return ParsePublicKey(encoded)
}

// LoadPublicKeyFile reads a public key file: a single line of base64 SPKI
// DER, surrounding whitespace tolerated.
func LoadPublicKeyFile(path string) (ed25519.PublicKey, error) {
	// #nosec G304 -- caller supplies a local key path by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}
	return ParsePublicKey(strings.TrimSpace(string(data)))
}

// LoadPrivateKeyFile reads a private key file: a single line of base64
// PKCS#8 DER, surrounding whitespace tolerated.
func LoadPrivateKeyFile(path string) (ed25519.PrivateKey, error) {
	// #nosec G304 -- caller supplies a local key path by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}
	return ParsePrivateKey(strings.TrimSpace(string(data)))
}
