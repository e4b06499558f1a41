// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/kithkit/kithkit-core/archive"
	"github.com/kithkit/kithkit-core/catalog"
	"github.com/kithkit/kithkit-core/logger"
	"github.com/kithkit/kithkit-core/manifest"
	"github.com/kithkit/kithkit-core/signer"
	"github.com/kithkit/kithkit-core/skillerr"
)

// Fetcher retrieves archive bytes for a catalog-relative archive path.
// Transport is the caller's choice; the installer only sees bytes.
type Fetcher func(ctx context.Context, archivePath string) ([]byte, error)

// Options configures an install.
type Options struct {
	// Name of the skill to install.
	Name string
	// Version to install; empty means the index's latest.
	Version string
	// Index is the verified catalog index.
	Index *catalog.Index
	// Revocations is the verified revocation list; nil skips the check
	// only when the caller could not obtain one.
	Revocations *catalog.RevocationList
	// SkillsDir is the local skills directory.
	SkillsDir string
	// Fetch retrieves archive bytes.
	Fetch Fetcher
	// PublicKey verifies the archive signature from the index.
	PublicKey ed25519.PublicKey

	// now is injectable for tests.
	now func() time.Time
}

// Result reports a completed install.
type Result struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	InstallDir string `json:"install_dir"`
	TrustLevel string `json:"trust_level"`
}

// Install runs the verified install state machine:
// locate, revocation check, fetch, verify, dedup, extract, metadata.
//
// Every failure leaves the filesystem as it was at entry, or with only
// the install directory removed; metadata is the last write, so a
// directory with a sidecar is always a complete install.
func Install(ctx context.Context, opts Options) (*Result, error) {
	if opts.now == nil {
		opts.now = time.Now
	}

	// LOCATE
	entry := opts.Index.Entry(opts.Name)
	if entry == nil {
		return nil, skillerr.New(skillerr.NotFound, "skill %q not found in index", opts.Name)
	}
	version := opts.Version
	if version == "" {
		version = entry.Latest
	}
	sv, ok := entry.Versions[version]
	if !ok {
		return nil, skillerr.New(skillerr.NotFound, "skill %q has no version %q", opts.Name, version)
	}

	// REVOKE
	if hit, rev := catalog.IsRevoked(opts.Revocations, opts.Name, version); hit {
		return nil, skillerr.New(skillerr.Revoked,
			"skill %s@%s is revoked (%s severity): %s", opts.Name, version, rev.Severity, rev.Reason)
	}

	// FETCH
	data, err := opts.Fetch(ctx, sv.Archive)
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.Fetch)
	}

	// VERIFY
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != sv.SHA256 {
		return nil, skillerr.New(skillerr.Integrity, "archive hash mismatch for %s@%s", opts.Name, version)
	}
	if !signer.VerifyDigest(sum[:], sv.Signature, opts.PublicKey) {
		return nil, skillerr.New(skillerr.Integrity, "archive signature verification failed for %s@%s", opts.Name, version)
	}

	// DEDUP
	existing, err := ReadMetadata(opts.SkillsDir, opts.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Version == version {
		return nil, skillerr.New(skillerr.AlreadyInstalled, "%s@%s is already installed", opts.Name, version)
	}

	if err := ctx.Err(); err != nil {
		return nil, skillerr.WithKind(err, skillerr.Fetch)
	}

	// EXTRACT
	installDir := InstallDir(opts.SkillsDir, opts.Name)
	if err := os.MkdirAll(installDir, 0o750); err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}
	if err := archive.Extract(data, installDir); err != nil {
		rollback(installDir)
		return nil, skillerr.WithKind(err, skillerr.Extract)
	}

	if err := writeDefaultConfig(opts.SkillsDir, opts.Name); err != nil {
		rollback(installDir)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		// Cancelled after extract, before the commit marker: the partial
		// install must not survive.
		rollback(installDir)
		return nil, skillerr.WithKind(err, skillerr.IO)
	}

	// META
	meta := &InstallMetadata{
		Name:        opts.Name,
		Version:     version,
		Source:      sv.Archive,
		SHA256:      sv.SHA256,
		Signature:   sv.Signature,
		InstalledAt: opts.now().UTC().Format(time.RFC3339),
		TrustLevel:  entry.TrustLevel,
	}
	if err := writeMetadata(opts.SkillsDir, meta); err != nil {
		rollback(installDir)
		return nil, err
	}

	logger.Debugw("installed skill", "name", opts.Name, "version", version)
	return &Result{
		Name:       opts.Name,
		Version:    version,
		InstallDir: installDir,
		TrustLevel: entry.TrustLevel,
	}, nil
}

func rollback(installDir string) {
	if err := os.RemoveAll(installDir); err != nil {
		logger.Warnw("failed to remove partial install directory", "dir", installDir, "error", err)
	}
}

// writeDefaultConfig generates the initial config file from the manifest
// config defaults. An existing config file is user-owned and is never
// touched.
func writeDefaultConfig(skillsDir, name string) error {
	configPath := ConfigPath(skillsDir, name)
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	manifestBytes, err := os.ReadFile(filepath.Join(InstallDir(skillsDir, name), "manifest.yaml"))
	if err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	m, err := manifest.Parse(manifestBytes)
	if err != nil {
		return err
	}

	values := map[string]any{}
	for _, entry := range m.Config {
		if entry.Default != nil {
			values[entry.Key] = entry.Default
		}
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	data = append(data, '\n')
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	return nil
}
