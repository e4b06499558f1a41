// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/kithkit/kithkit-core/signer"
	"github.com/kithkit/kithkit-core/skillerr"
)

// VerifyIndex checks the index signature: the document minus its
// signature field is canonicalized and Ed25519-verified. A bad signature
// returns false, not an error.
func VerifyIndex(idx *Index, pub ed25519.PublicKey) (bool, error) {
	return signer.VerifyObject(idx.body(), idx.Signature, pub)
}

// ParseIndex decodes a fetched index document. The document shape is
// validated against the embedded JSON schema before the caller goes on
// to verify the signature.
func ParseIndex(data []byte) (*Index, error) {
	if err := ValidateIndexDocument(data); err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse index: %v", err)
	}
	return &idx, nil
}

// MarshalIndex serializes an index for persistence in its canonical form,
// so stored bytes are stable across rebuilds of equal content.
func MarshalIndex(idx *Index) ([]byte, error) {
	return canonicalJSON(idx)
}
