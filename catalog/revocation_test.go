// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRevocations() []RevocationEntry {
	return []RevocationEntry{
		{Name: "zulu-skill", Version: "1.0.0", Reason: "exfiltrates credentials", RevokedAt: "2025-05-01T00:00:00Z", Severity: SeverityCritical},
		{Name: "alpha", Version: "2.0.0", Reason: "prompt injection", RevokedAt: "2025-05-02T00:00:00Z", Severity: SeverityHigh},
		{Name: "alpha", Version: "1.0.0", Reason: "prompt injection", RevokedAt: "2025-05-02T00:00:00Z", Severity: SeverityHigh},
	}
}

func TestCreateRevocationList_SortsAndSigns(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)

	list, err := CreateRevocationList(testRevocations(), priv)
	require.NoError(t, err)

	require.Len(t, list.Entries, 3)
	assert.Equal(t, "alpha", list.Entries[0].Name)
	assert.Equal(t, "1.0.0", list.Entries[0].Version)
	assert.Equal(t, "alpha", list.Entries[1].Name)
	assert.Equal(t, "2.0.0", list.Entries[1].Version)
	assert.Equal(t, "zulu-skill", list.Entries[2].Name)

	ok, err := VerifyRevocationList(list, pub)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRevocationList_Tampered(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	list, err := CreateRevocationList(testRevocations(), priv)
	require.NoError(t, err)

	list.Entries[0].Severity = SeverityLow
	ok, err := VerifyRevocationList(list, pub)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsRevoked_ExactMatch(t *testing.T) {
	t.Parallel()

	_, priv := testKeys(t)
	list, err := CreateRevocationList(testRevocations(), priv)
	require.NoError(t, err)

	hit, entry := IsRevoked(list, "alpha", "1.0.0")
	require.True(t, hit)
	assert.Equal(t, SeverityHigh, entry.Severity)

	hit, _ = IsRevoked(list, "alpha", "3.0.0")
	assert.False(t, hit, "different version is not revoked")

	hit, _ = IsRevoked(list, "bravo", "1.0.0")
	assert.False(t, hit)

	hit, _ = IsRevoked(nil, "alpha", "1.0.0")
	assert.False(t, hit, "nil list revokes nothing")
}

func TestCheckInstalled(t *testing.T) {
	t.Parallel()

	_, priv := testKeys(t)
	list, err := CreateRevocationList(testRevocations(), priv)
	require.NoError(t, err)

	installed := []VersionRef{
		{Name: "alpha", Version: "2.0.0"},
		{Name: "safe-skill", Version: "1.0.0"},
	}

	matches := CheckInstalled(list, installed)
	require.Len(t, matches, 1)
	assert.Equal(t, "alpha", matches[0].Ref.Name)
	assert.Equal(t, "prompt injection", matches[0].Entry.Reason)
}
