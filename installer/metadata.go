// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/kithkit/kithkit-core/skillerr"
)

// InstallMetadata is the per-skill record written as a hidden sidecar
// file into the install directory. It is user-inspectable, so it is
// pretty-printed rather than canonical; it is not signed.
type InstallMetadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Source      string `json:"source"`
	SHA256      string `json:"sha256"`
	Signature   string `json:"signature"`
	InstalledAt string `json:"installed_at"`
	TrustLevel  string `json:"trust_level"`
}

// ReadMetadata loads the metadata sidecar for an installed skill.
// Returns nil with no error when the sidecar does not exist.
func ReadMetadata(skillsDir, name string) (*InstallMetadata, error) {
	data, err := os.ReadFile(MetadataPath(skillsDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}

	var meta InstallMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse install metadata for %s: %v", name, err)
	}
	return &meta, nil
}

// writeMetadata persists the sidecar. This is the commit marker of an
// install: it is always the last write.
func writeMetadata(skillsDir string, meta *InstallMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	data = append(data, '\n')
	if err := os.WriteFile(MetadataPath(skillsDir, meta.Name), data, 0o644); err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	return nil
}
