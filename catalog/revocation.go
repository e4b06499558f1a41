// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"crypto/ed25519"
	"encoding/json"
	"sort"

	"github.com/kithkit/kithkit-core/signer"
	"github.com/kithkit/kithkit-core/skillerr"
)

// Revocation severities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// RevocationEntry marks one published version clients must refuse.
type RevocationEntry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Reason    string `json:"reason"`
	RevokedAt string `json:"revoked_at"`
	Severity  string `json:"severity"`
}

// RevocationList is the signed, append-only list of revoked versions.
// The signature covers the canonical JSON of the sorted entries array.
type RevocationList struct {
	Entries   []RevocationEntry `json:"entries"`
	Signature string            `json:"signature"`
}

// VersionRef names one installed skill version for revocation checks.
type VersionRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// RevocationMatch pairs an installed ref with the entry that revokes it.
type RevocationMatch struct {
	Ref   VersionRef      `json:"ref"`
	Entry RevocationEntry `json:"entry"`
}

// CreateRevocationList sorts the entries by (name, version) and signs the
// canonical entries array.
func CreateRevocationList(entries []RevocationEntry, priv ed25519.PrivateKey) (*RevocationList, error) {
	sorted := make([]RevocationEntry, len(entries))
	copy(sorted, entries)
	sortRevocations(sorted)

	sig, err := signer.SignObject(sorted, priv)
	if err != nil {
		return nil, err
	}
	return &RevocationList{Entries: sorted, Signature: sig}, nil
}

// VerifyRevocationList checks the signature over the entries array.
func VerifyRevocationList(list *RevocationList, pub ed25519.PublicKey) (bool, error) {
	return signer.VerifyObject(list.Entries, list.Signature, pub)
}

// ParseRevocationList decodes a fetched revocation list document.
func ParseRevocationList(data []byte) (*RevocationList, error) {
	var list RevocationList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse revocation list: %v", err)
	}
	return &list, nil
}

// MarshalRevocationList serializes a revocation list in canonical form.
func MarshalRevocationList(list *RevocationList) ([]byte, error) {
	return canonicalJSON(list)
}

// IsRevoked reports whether the exact (name, version) pair is revoked and
// returns the matching entry.
func IsRevoked(list *RevocationList, name, version string) (bool, *RevocationEntry) {
	if list == nil {
		return false, nil
	}
	for i := range list.Entries {
		if list.Entries[i].Name == name && list.Entries[i].Version == version {
			return true, &list.Entries[i]
		}
	}
	return false, nil
}

// CheckInstalled reports which installed refs appear in the revocation
// list. It is purely a report; installed state is never mutated.
func CheckInstalled(list *RevocationList, installed []VersionRef) []RevocationMatch {
	var matches []RevocationMatch
	for _, ref := range installed {
		if hit, entry := IsRevoked(list, ref.Name, ref.Version); hit {
			matches = append(matches, RevocationMatch{Ref: ref, Entry: *entry})
		}
	}
	return matches
}

func sortRevocations(entries []RevocationEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Version < entries[j].Version
	})
}
