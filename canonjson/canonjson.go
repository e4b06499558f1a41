// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonjson produces the canonical JSON form used for signing.
//
// Canonicalization follows RFC 8785 (JCS): object keys are recursively
// sorted, arrays keep positional order, and no whitespace appears between
// tokens. Equal values always canonicalize to byte-identical output, which
// makes Ed25519 signatures over catalog documents deterministic.
package canonjson

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize returns the RFC 8785 canonical form of a JSON document.
func Canonicalize(input []byte) ([]byte, error) {
	out, err := jcs.Transform(input)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing JSON: %w", err)
	}
	return out, nil
}

// Marshal serializes v with encoding/json and canonicalizes the result.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling value: %w", err)
	}
	return Canonicalize(raw)
}

// Digest canonicalizes a JSON document and returns the hex sha256 of the
// canonical bytes.
func Digest(input []byte) (string, error) {
	canonical, err := Canonicalize(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
