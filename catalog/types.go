// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"sort"

	"github.com/kithkit/kithkit-core/manifest"
)

// IndexVersion is the schema version of the signed index document.
const IndexVersion = 1

// Trust levels the catalog assigns to skills.
const (
	TrustFirstParty = "first-party"
	TrustVerified   = "verified"
	TrustCommunity  = "community"
)

// DefaultTrustLevel is assigned to new entries until the authority
// promotes them.
const DefaultTrustLevel = TrustCommunity

// SkillVersion is one published version of a skill.
type SkillVersion struct {
	// Version is the strict semver version string.
	Version string `json:"version"`
	// Archive is the catalog-relative archive path, recorded verbatim:
	// archives/{name}/{name}-{version}.tar.gz
	Archive string `json:"archive"`
	// SHA256 is the hex sha256 of the archive bytes.
	SHA256 string `json:"sha256"`
	// Signature is the base64 Ed25519 signature over the 32-byte digest.
	Signature string `json:"signature"`
	// Size is the archive size in bytes.
	Size int64 `json:"size"`
	// Published is the RFC 3339 publication timestamp.
	Published string `json:"published"`
}

// SkillEntry is one skill with all of its published versions. The
// skill-level metadata mirrors the manifest of the latest version.
type SkillEntry struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Author       manifest.Author         `json:"author"`
	Capabilities manifest.Capabilities   `json:"capabilities"`
	Tags         []string                `json:"tags,omitempty"`
	Category     string                  `json:"category,omitempty"`
	TrustLevel   string                  `json:"trust_level"`
	Latest       string                  `json:"latest"`
	Versions     map[string]SkillVersion `json:"versions"`
}

// Index is the signed catalog index. Signature covers the canonical JSON
// of the document minus the signature field.
type Index struct {
	Version   int          `json:"version"`
	Updated   string       `json:"updated"`
	Skills    []SkillEntry `json:"skills"`
	Signature string       `json:"signature"`
}

// indexBody is the signed portion of the index.
type indexBody struct {
	Version int          `json:"version"`
	Updated string       `json:"updated"`
	Skills  []SkillEntry `json:"skills"`
}

func (idx *Index) body() indexBody {
	return indexBody{Version: idx.Version, Updated: idx.Updated, Skills: idx.Skills}
}

// Entry returns the skill entry with the given name, or nil.
func (idx *Index) Entry(name string) *SkillEntry {
	for i := range idx.Skills {
		if idx.Skills[i].Name == name {
			return &idx.Skills[i]
		}
	}
	return nil
}

// normalize sorts everything the persisted form requires sorted: skills
// by name, capabilities and tags within each entry.
func (idx *Index) normalize() {
	if idx.Skills == nil {
		idx.Skills = []SkillEntry{}
	}
	sort.Slice(idx.Skills, func(i, j int) bool {
		return idx.Skills[i].Name < idx.Skills[j].Name
	})
	for i := range idx.Skills {
		sort.Strings(idx.Skills[i].Capabilities.Required)
		sort.Strings(idx.Skills[i].Capabilities.Optional)
		sort.Strings(idx.Skills[i].Tags)
	}
}
