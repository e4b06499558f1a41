// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/opencontainers/go-digest"

	"github.com/kithkit/kithkit-core/archive"
	"github.com/kithkit/kithkit-core/manifest"
	"github.com/kithkit/kithkit-core/signer"
	"github.com/kithkit/kithkit-core/skillerr"
)

// BuildIndex scans archivesDir for skill archives and produces a signed
// index. Subdirectories are visited in lexical order and each
// *.tar.gz within them becomes one version record. Identical archive sets
// with the same updated timestamp serialize byte-for-byte identically.
func BuildIndex(archivesDir string, priv ed25519.PrivateKey, updated time.Time) (*Index, error) {
	subdirs, err := os.ReadDir(archivesDir)
	if err != nil {
		return nil, skillerr.WithKind(fmt.Errorf("reading archives dir: %w", err), skillerr.IO)
	}

	entries := map[string]*SkillEntry{}
	manifests := map[string]map[string]*manifest.Manifest{}

	for _, sub := range subdirs {
		if !sub.IsDir() {
			continue
		}
		dirPath := filepath.Join(archivesDir, sub.Name())
		archiveFiles, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, skillerr.WithKind(fmt.Errorf("reading %s: %w", dirPath, err), skillerr.IO)
		}
		for _, af := range archiveFiles {
			if af.IsDir() || !strings.HasSuffix(af.Name(), ".tar.gz") {
				continue
			}
			archivePath := filepath.Join(dirPath, af.Name())
			if err := addArchive(entries, manifests, archivePath, path.Join("archives", sub.Name(), af.Name()), priv, updated); err != nil {
				return nil, fmt.Errorf("indexing %s: %w", archivePath, err)
			}
		}
	}

	idx := &Index{Version: IndexVersion, Updated: updated.UTC().Format(time.RFC3339)}
	for _, entry := range entries {
		skillManifests := manifests[entry.Name]
		applyLatestMetadata(entry, skillManifests)
		idx.Skills = append(idx.Skills, *entry)
	}
	idx.normalize()

	if err := signIndex(idx, priv); err != nil {
		return nil, err
	}
	return idx, nil
}

// UpdateIndex inserts or replaces one archive's version in an existing
// index and re-signs. Version records of other skills and other versions
// are preserved verbatim, including their signatures.
func UpdateIndex(existing *Index, archivePath string, priv ed25519.PrivateKey, updated time.Time) (*Index, error) {
	data, err := os.ReadFile(archivePath) // #nosec G304 -- authority-supplied path
	if err != nil {
		return nil, skillerr.WithKind(fmt.Errorf("reading archive: %w", err), skillerr.IO)
	}

	m, version, err := archiveVersion(data, archivePath, priv, updated)
	if err != nil {
		return nil, err
	}

	idx := &Index{Version: existing.Version, Updated: updated.UTC().Format(time.RFC3339)}
	idx.Skills = make([]SkillEntry, len(existing.Skills))
	copy(idx.Skills, existing.Skills)

	entry := idx.Entry(m.Name)
	if entry == nil {
		idx.Skills = append(idx.Skills, SkillEntry{
			Name:       m.Name,
			TrustLevel: DefaultTrustLevel,
			Versions:   map[string]SkillVersion{},
		})
		entry = &idx.Skills[len(idx.Skills)-1]
	} else {
		// Copy the version map so the existing index stays untouched.
		versions := make(map[string]SkillVersion, len(entry.Versions)+1)
		for k, v := range entry.Versions {
			versions[k] = v
		}
		entry.Versions = versions
	}

	entry.Versions[m.Version] = *version
	entry.Latest = latestOf(entry.Versions)
	if entry.Latest == m.Version {
		applyManifestMetadata(entry, m)
	}

	idx.normalize()
	if err := signIndex(idx, priv); err != nil {
		return nil, err
	}
	return idx, nil
}

// AssignTrustLevel sets a skill's trust level and re-signs the index.
func AssignTrustLevel(idx *Index, name, level string, priv ed25519.PrivateKey, updated time.Time) error {
	entry := idx.Entry(name)
	if entry == nil {
		return skillerr.New(skillerr.NotFound, "skill %q not in index", name)
	}
	entry.TrustLevel = level
	idx.Updated = updated.UTC().Format(time.RFC3339)
	return signIndex(idx, priv)
}

func addArchive(entries map[string]*SkillEntry, manifests map[string]map[string]*manifest.Manifest, archivePath, recordedPath string, priv ed25519.PrivateKey, updated time.Time) error {
	data, err := os.ReadFile(archivePath) // #nosec G304 -- authority-supplied path
	if err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}

	m, version, err := archiveVersionAt(data, recordedPath, priv, updated)
	if err != nil {
		return err
	}

	entry, ok := entries[m.Name]
	if !ok {
		entry = &SkillEntry{
			Name:       m.Name,
			TrustLevel: DefaultTrustLevel,
			Versions:   map[string]SkillVersion{},
		}
		entries[m.Name] = entry
		manifests[m.Name] = map[string]*manifest.Manifest{}
	}
	entry.Versions[m.Version] = *version
	manifests[m.Name][m.Version] = m
	return nil
}

// archiveVersion computes a version record for an archive on disk,
// recording the canonical catalog-relative path derived from the file
// location.
func archiveVersion(data []byte, archivePath string, priv ed25519.PrivateKey, updated time.Time) (*manifest.Manifest, *SkillVersion, error) {
	dir := filepath.Base(filepath.Dir(archivePath))
	recorded := path.Join("archives", dir, filepath.Base(archivePath))
	return archiveVersionAt(data, recorded, priv, updated)
}

func archiveVersionAt(data []byte, recordedPath string, priv ed25519.PrivateKey, updated time.Time) (*manifest.Manifest, *SkillVersion, error) {
	manifestBytes, err := archive.ExtractManifest(data)
	if err != nil {
		return nil, nil, err
	}
	m, err := manifest.Parse(manifestBytes)
	if err != nil {
		return nil, nil, err
	}
	if findings := manifest.Validate(m); manifest.HasErrors(findings) {
		return nil, nil, skillerr.New(skillerr.Invalid, "manifest for %q has %d validation errors", m.Name, len(findings))
	}

	sha := digest.FromBytes(data).Encoded()
	digestBytes, err := hex.DecodeString(sha)
	if err != nil {
		return nil, nil, skillerr.New(skillerr.Invalid, "decode digest: %v", err)
	}
	sig, err := signer.SignDigest(digestBytes, priv)
	if err != nil {
		return nil, nil, err
	}

	return m, &SkillVersion{
		Version:   m.Version,
		Archive:   recordedPath,
		SHA256:    sha,
		Signature: sig,
		Size:      int64(len(data)),
		Published: updated.UTC().Format(time.RFC3339),
	}, nil
}

func applyLatestMetadata(entry *SkillEntry, skillManifests map[string]*manifest.Manifest) {
	entry.Latest = latestOf(entry.Versions)
	if m, ok := skillManifests[entry.Latest]; ok {
		applyManifestMetadata(entry, m)
	}
}

func applyManifestMetadata(entry *SkillEntry, m *manifest.Manifest) {
	entry.Description = m.Description
	entry.Author = m.Author
	// Required marshals even when empty; keep it a non-nil slice so the
	// persisted form is always an array.
	entry.Capabilities = manifest.Capabilities{
		Required: append([]string{}, m.Capabilities.Required...),
		Optional: append([]string(nil), m.Capabilities.Optional...),
	}
	entry.Tags = append([]string(nil), m.Tags...)
	entry.Category = m.Category
}

// latestOf picks the highest version among the keys. Strict semver
// comparison when both sides parse, lexical max otherwise.
func latestOf(versions map[string]SkillVersion) string {
	keys := make([]string, 0, len(versions))
	for k := range versions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	latest := ""
	for _, k := range keys {
		if latest == "" || laterVersion(k, latest) {
			latest = k
		}
	}
	return latest
}

// IsNewer reports whether candidate is a later version than current.
func IsNewer(candidate, current string) bool {
	return laterVersion(candidate, current)
}

// laterVersion reports whether a sorts after b.
func laterVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return vb.LessThan(*va)
	}
	return a > b
}

func signIndex(idx *Index, priv ed25519.PrivateKey) error {
	sig, err := signer.SignObject(idx.body(), priv)
	if err != nil {
		return err
	}
	idx.Signature = sig
	return nil
}
