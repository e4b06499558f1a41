// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kithkit/kithkit-core/archive"
)

var testUpdated = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func skillArchive(t *testing.T, name, version string) []byte {
	t.Helper()
	manifestYAML := fmt.Sprintf(`name: %s
version: %s
description: Test skill %s.
author:
  name: Ada Author
  github: ada-author
capabilities:
  required:
    - network
tags:
  - test
category: testing
`, name, version, name)

	data, err := archive.Build(name, []archive.FileEntry{
		{Name: "SKILL.md", Content: []byte("# " + name + "\n\nInstructions.\n")},
		{Name: "manifest.yaml", Content: []byte(manifestYAML)},
	}, archive.DefaultBuildOptions())
	require.NoError(t, err)
	return data
}

// writeArchives lays out archivesDir/{name}/{name}-{version}.tar.gz.
func writeArchives(t *testing.T, dir string, skills map[string][]string) {
	t.Helper()
	for name, versions := range skills {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o750))
		for _, v := range versions {
			data := skillArchive(t, name, v)
			path := filepath.Join(dir, name, fmt.Sprintf("%s-%s.tar.gz", name, v))
			require.NoError(t, os.WriteFile(path, data, 0o644))
		}
	}
}

func TestBuildIndex_Deterministic(t *testing.T) {
	t.Parallel()

	_, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{
		"alpha":   {"1.0.0"},
		"bravo":   {"1.0.0", "1.1.0"},
		"charlie": {"2.0.0"},
	})

	idx1, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)
	idx2, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	b1, err := MarshalIndex(idx1)
	require.NoError(t, err)
	b2, err := MarshalIndex(idx2)
	require.NoError(t, err)

	assert.Equal(t, b1, b2, "same archive set and timestamp must serialize identically")
}

func TestBuildIndex_SortedAndLatest(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{
		"bravo": {"1.0.0", "1.10.0", "1.2.0"},
		"alpha": {"1.0.0"},
	})

	idx, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	require.Len(t, idx.Skills, 2)
	assert.Equal(t, "alpha", idx.Skills[0].Name)
	assert.Equal(t, "bravo", idx.Skills[1].Name)

	// Semver comparison: 1.10.0 beats 1.2.0 despite lexical order.
	assert.Equal(t, "1.10.0", idx.Skills[1].Latest)
	assert.Contains(t, idx.Skills[1].Versions, "1.2.0")

	ok, err := VerifyIndex(idx, pub)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuildIndex_VersionRecord(t *testing.T) {
	t.Parallel()

	_, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{"alpha": {"1.0.0"}})

	idx, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	entry := idx.Entry("alpha")
	require.NotNil(t, entry)
	v := entry.Versions["1.0.0"]
	assert.Equal(t, "archives/alpha/alpha-1.0.0.tar.gz", v.Archive)
	assert.Len(t, v.SHA256, 64)
	assert.NotEmpty(t, v.Signature)
	assert.Positive(t, v.Size)
	assert.Equal(t, TrustCommunity, entry.TrustLevel)
}

func TestUpdateIndex_InsertsInOrderAndPreservesRecords(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{
		"alpha":   {"1.0.0"},
		"charlie": {"1.0.0"},
	})

	initial, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	bravoDir := filepath.Join(dir, "bravo")
	require.NoError(t, os.MkdirAll(bravoDir, 0o750))
	bravoPath := filepath.Join(bravoDir, "bravo-1.0.0.tar.gz")
	require.NoError(t, os.WriteFile(bravoPath, skillArchive(t, "bravo", "1.0.0"), 0o644))

	updated, err := UpdateIndex(initial, bravoPath, priv, testUpdated)
	require.NoError(t, err)

	names := make([]string, 0, len(updated.Skills))
	for _, s := range updated.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)

	// Untouched version records survive byte-identically.
	assert.Equal(t, initial.Entry("alpha").Versions["1.0.0"], updated.Entry("alpha").Versions["1.0.0"])
	assert.Equal(t, initial.Entry("charlie").Versions["1.0.0"], updated.Entry("charlie").Versions["1.0.0"])

	ok, err := VerifyIndex(updated, pub)
	require.NoError(t, err)
	assert.True(t, ok)

	// The original index value is not mutated.
	assert.Nil(t, initial.Entry("bravo"))
}

func TestUpdateIndex_ReplacesVersionAndMetadata(t *testing.T) {
	t.Parallel()

	_, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{"alpha": {"1.0.0"}})

	initial, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	newPath := filepath.Join(dir, "alpha", "alpha-1.1.0.tar.gz")
	require.NoError(t, os.WriteFile(newPath, skillArchive(t, "alpha", "1.1.0"), 0o644))

	updated, err := UpdateIndex(initial, newPath, priv, testUpdated.Add(time.Hour))
	require.NoError(t, err)

	entry := updated.Entry("alpha")
	require.NotNil(t, entry)
	assert.Equal(t, "1.1.0", entry.Latest)
	assert.Len(t, entry.Versions, 2)
}

func TestAssignTrustLevel(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{"alpha": {"1.0.0"}})

	idx, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	require.NoError(t, AssignTrustLevel(idx, "alpha", TrustVerified, priv, testUpdated))
	assert.Equal(t, TrustVerified, idx.Entry("alpha").TrustLevel)

	ok, err := VerifyIndex(idx, pub)
	require.NoError(t, err)
	assert.True(t, ok)

	err = AssignTrustLevel(idx, "missing", TrustVerified, priv, testUpdated)
	assert.Error(t, err)
}

func TestVerifyIndex_TamperedBody(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{"alpha": {"1.0.0"}})

	idx, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	idx.Skills[0].Description = "tampered"
	ok, err := VerifyIndex(idx, pub)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseIndex_SchemaRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseIndex([]byte(`{"version": 2, "skills": "nope"}`))
	assert.Error(t, err)
}

func TestParseIndex_RoundTrip(t *testing.T) {
	t.Parallel()

	pub, priv := testKeys(t)
	dir := t.TempDir()
	writeArchives(t, dir, map[string][]string{"alpha": {"1.0.0"}})

	idx, err := BuildIndex(dir, priv, testUpdated)
	require.NoError(t, err)

	data, err := MarshalIndex(idx)
	require.NoError(t, err)

	parsed, err := ParseIndex(data)
	require.NoError(t, err)

	ok, err := VerifyIndex(parsed, pub)
	require.NoError(t, err)
	assert.True(t, ok, "signature must survive serialization round trip")
}

func TestLaterVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"1.10.0", "1.2.0", true},
		{"1.2.0", "1.10.0", false},
		{"2.0.0", "2.0.0", false},
		{"1.0.0-rc.1", "1.0.0", false},
		// Non-semver strings fall back to lexical comparison.
		{"v2", "v10", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, laterVersion(tt.a, tt.b), "laterVersion(%q, %q)", tt.a, tt.b)
	}
}
